package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v, want 2h", cfg.SessionTTL)
	}
	if cfg.Report.Enabled() {
		t.Error("reporting should be disabled by default")
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if !cfg.IsDevelopment() {
		t.Error("empty FRONTEND_URL should be development")
	}
	if cfg.TrustProxy {
		t.Error("forwarding headers must not be trusted by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("COUNTER_REPORT_URL", "https://stats.test/inc")
	t.Setenv("ALLOWED_ORIGINS", "https://a.test, https://b.test")
	t.Setenv("CONTACT_EMAIL", "help@jee.test")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FRONTEND_URL", "https://jee.test")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if !cfg.Report.Enabled() {
		t.Error("expected reporting enabled")
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.test" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.Contact.Email != "mailto:help@jee.test" {
		t.Errorf("Email = %q", cfg.Contact.Email)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel = %v", cfg.SlogLevel())
	}
	if cfg.IsDevelopment() {
		t.Error("expected production mode")
	}
	if !cfg.TrustProxy {
		t.Error("expected TRUST_PROXY=true to be honored")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:       "8080",
			DBPath:     "x.db",
			LogLevel:   "info",
			SessionTTL: time.Hour,
			AttemptTTL: time.Minute,
			RateLimit:  RateLimitConfig{RPS: 1, Burst: 1},
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := map[string]func(*Config){
		"empty port":    func(c *Config) { c.Port = "" },
		"empty db":      func(c *Config) { c.DBPath = "" },
		"zero ttl":      func(c *Config) { c.SessionTTL = 0 },
		"zero attempts": func(c *Config) { c.AttemptTTL = 0 },
		"zero rps":      func(c *Config) { c.RateLimit.RPS = 0 },
		"zero burst":    func(c *Config) { c.RateLimit.Burst = 0 },
		"bad log level": func(c *Config) { c.LogLevel = "chatty" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := base()
			mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestContactLinks(t *testing.T) {
	c := ContactConfig{WhatsApp: "https://wa.me/1", Telegram: "#", Email: "mailto:a@b.test"}
	links := c.Links()
	if links["whatsapp"] != "https://wa.me/1" || links["telegram"] != "#" || links["email"] != "mailto:a@b.test" {
		t.Errorf("Links = %v", links)
	}
	if mailtoLink("#") != "#" {
		t.Error("placeholder email must stay a placeholder")
	}
}
