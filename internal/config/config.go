// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Port             string
	FrontendURL      string
	DBPath           string
	LogLevel         string
	MaterialsBaseURL string
	SessionTTL       time.Duration
	AttemptTTL       time.Duration
	AllowedOrigins   []string
	TrustProxy       bool
	Report           ReportConfig
	RateLimit        RateLimitConfig
	Contact          ContactConfig
}

// ReportConfig controls optional remote reporting of counter increments.
type ReportConfig struct {
	URL     string
	Timeout time.Duration
}

// Enabled reports whether a remote endpoint is configured.
func (r ReportConfig) Enabled() bool {
	return r.URL != ""
}

// RateLimitConfig bounds counter-bumping requests per client IP.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// ContactConfig holds the outbound contact links shown on the page.
type ContactConfig struct {
	WhatsApp string
	Telegram string
	Email    string
}

// Links returns the contact links keyed by channel name.
func (c ContactConfig) Links() map[string]string {
	return map[string]string{
		"whatsapp": c.WhatsApp,
		"telegram": c.Telegram,
		"email":    c.Email,
	}
}

// New returns a viper instance with defaults applied and environment binding enabled.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("frontend_url", "")
	v.SetDefault("db_path", "./data/jeeprep.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("materials_base_url", "")
	v.SetDefault("session_ttl", "2h")
	v.SetDefault("attempt_ttl", "30m")
	v.SetDefault("allowed_origins", "*")
	v.SetDefault("trust_proxy", false)
	v.SetDefault("counter_report_url", "")
	v.SetDefault("counter_report_timeout", "5s")
	v.SetDefault("rate_limit_rps", 1.0)
	v.SetDefault("rate_limit_burst", 5)
	v.SetDefault("contact_whatsapp_url", "#")
	v.SetDefault("contact_telegram_url", "#")
	v.SetDefault("contact_email", "#")
	return v
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	return FromViper(New())
}

// FromViper builds a validated Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:             v.GetString("port"),
		FrontendURL:      v.GetString("frontend_url"),
		DBPath:           v.GetString("db_path"),
		LogLevel:         v.GetString("log_level"),
		MaterialsBaseURL: v.GetString("materials_base_url"),
		SessionTTL:       v.GetDuration("session_ttl"),
		AttemptTTL:       v.GetDuration("attempt_ttl"),
		AllowedOrigins:   splitList(v.GetString("allowed_origins")),
		TrustProxy:       v.GetBool("trust_proxy"),
		Report: ReportConfig{
			URL:     v.GetString("counter_report_url"),
			Timeout: v.GetDuration("counter_report_timeout"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("rate_limit_rps"),
			Burst: v.GetInt("rate_limit_burst"),
		},
		Contact: ContactConfig{
			WhatsApp: v.GetString("contact_whatsapp_url"),
			Telegram: v.GetString("contact_telegram_url"),
			Email:    mailtoLink(v.GetString("contact_email")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.AttemptTTL <= 0 {
		return fmt.Errorf("ATTEMPT_TTL must be > 0")
	}
	if c.RateLimit.RPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be > 0")
	}
	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be > 0")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	lvl, _ := parseLevel(c.LogLevel)
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q: %w", s, err)
	}
	return lvl, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func mailtoLink(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" || addr == "#" || strings.HasPrefix(addr, "mailto:") {
		return addr
	}
	return "mailto:" + addr
}
