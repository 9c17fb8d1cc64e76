package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Fatalf("run_mode = %q, want %q", cfg.Telegram.RunMode, RunModeLongpoll)
	}
	if cfg.Sessions.Backend != SessionsMemory {
		t.Fatalf("sessions.backend = %q, want %q", cfg.Sessions.Backend, SessionsMemory)
	}
}

func TestNormalizeMissingToken(t *testing.T) {
	err := Normalize(&Config{})
	if err == nil {
		t.Fatal("expected error for missing token")
	}
	if !strings.Contains(err.Error(), "BOT_TOKEN") {
		t.Fatalf("error should mention BOT_TOKEN: %v", err)
	}
}

func TestNormalizeRunModes(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"polling alias", func(c *Config) { c.Telegram.RunMode = "polling" }, false},
		{"webhook without url", func(c *Config) { c.Telegram.RunMode = "webhook" }, true},
		{"webhook complete", func(c *Config) {
			c.Telegram.RunMode = "webhook"
			c.Webhook = WebhookConfig{URL: "https://example.org/hook", Listen: "0.0.0.0", Port: 8443}
		}, false},
		{"bogus mode", func(c *Config) { c.Telegram.RunMode = "carrier-pigeon" }, true},
		{"negative longpoll timeout", func(c *Config) { c.Telegram.LongPollTimeoutSeconds = -1 }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := Normalize(cfg)
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNormalizeSessionsBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Sessions.Backend = "Postgres"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Sessions.Backend != SessionsPostgres {
		t.Fatalf("sessions.backend = %q, want %q", cfg.Sessions.Backend, SessionsPostgres)
	}

	cfg = validConfig()
	cfg.Sessions.Backend = "redis"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unsupported backend")
	}
}

func TestNormalizeRateLimitExclusions(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Callback ", "message"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != UpdateCallback {
		t.Fatalf("exclusion not normalized: %v", cfg.RateLimit.ExcludeUpdates)
	}

	cfg = validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"carrier-pigeon"}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for unknown exclusion")
	}
}
