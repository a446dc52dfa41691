package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/soumil/jeeprep/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "jeeprep",
	Short:        "JEE prep chapter progress server",
	Long:         "jeeprep serves the JEE prep landing page, its chapter unlock flow and the students helped counter.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides DB_PATH env var)")
	rootCmd.PersistentFlags().String("port", "", "HTTP listen port (overrides PORT env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(counterCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads .env and the environment, then applies --db and --port,
// which take priority.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	v := config.New()
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		v.Set("db_path", p)
	}
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		v.Set("port", p)
	}
	return config.FromViper(v)
}

func setupLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)
	return logger
}
