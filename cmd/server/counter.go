package main

import (
	"fmt"
	"log/slog"

	"github.com/soumil/jeeprep/internal/counter"
	"github.com/soumil/jeeprep/internal/store"
	"github.com/spf13/cobra"
)

var counterCmd = &cobra.Command{
	Use:   "counter",
	Short: "Print the students helped counter",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCounter(cmd, func(c *counter.Counter) error {
			fmt.Println(c.Read(cmd.Context()))
			return nil
		})
	},
}

var counterBumpCmd = &cobra.Command{
	Use:   "bump",
	Short: "Add to the students helped counter",
	RunE: func(cmd *cobra.Command, args []string) error {
		by, _ := cmd.Flags().GetInt64("by")
		if by < 0 {
			return fmt.Errorf("--by must not be negative, got %d", by)
		}
		return withCounter(cmd, func(c *counter.Counter) error {
			fmt.Println(c.Bump(cmd.Context(), by))
			return nil
		})
	},
}

func init() {
	counterBumpCmd.Flags().Int64("by", 1, "Amount to add")
	counterCmd.AddCommand(counterBumpCmd)
}

func withCounter(cmd *cobra.Command, fn func(*counter.Counter) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogger(cfg)

	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	return fn(counter.New(repo))
}
