package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "APP_ENV", "LOG_LEVEL", "DATABASE_PATH", "SEED_FILE", "STATIC_DIR", "IMAGES_DIR",
		"CORS_ORIGIN", "SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "CONTACT_EMAIL",
		"OWNER_EMAIL", "MAIL_DRIVER", "CONTACT_RATE_LIMIT", "CONTACT_RATE_WINDOW",
		"NOTIFY_RETRY_INTERVAL", "NOTIFY_MAX_ATTEMPTS", "ADMIN_USERNAME", "ADMIN_PASSWORD",
		"ADMIN_HASH_SALT", "HERO_FRAME_COUNT", "HERO_FRAME_PATTERN", "TRUSTED_PROXIES",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "3000")
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvDevelopment)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v, want [*]", cfg.AllowedOrigins)
	}
	if cfg.SMTP.Host != "smtp.gmail.com" || cfg.SMTP.Port != 587 {
		t.Errorf("SMTP = %s, want smtp.gmail.com:587", cfg.SMTP.Addr())
	}
	if cfg.MailDriver != "log" {
		t.Errorf("MailDriver = %q, want log without credentials", cfg.MailDriver)
	}
	if cfg.ContactRateLimit != 5 || cfg.ContactRateWindow != 15*time.Minute {
		t.Errorf("rate limit = %d/%s, want 5/15m", cfg.ContactRateLimit, cfg.ContactRateWindow)
	}
	if cfg.Hero.FrameCount != 150 {
		t.Errorf("Hero.FrameCount = %d, want 150", cfg.Hero.FrameCount)
	}
	if len(cfg.TrustedProxies) != 0 {
		t.Errorf("TrustedProxies = %v, want none", cfg.TrustedProxies)
	}
}

func TestLoadTrustedProxies(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 172.16.0.0/12,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := []string{"10.0.0.1", "172.16.0.0/12"}
	if len(cfg.TrustedProxies) != len(want) {
		t.Fatalf("TrustedProxies = %v, want %v", cfg.TrustedProxies, want)
	}
	for i := range want {
		if cfg.TrustedProxies[i] != want[i] {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.TrustedProxies[i], want[i])
		}
	}
}

func TestLoadContactEmailFallsBackToSMTPUser(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMTP_USER", "me@example.com")
	t.Setenv("SMTP_PASS", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ContactEmail != "me@example.com" {
		t.Errorf("ContactEmail = %q, want SMTP_USER", cfg.ContactEmail)
	}
	if cfg.OwnerEmail != "me@example.com" {
		t.Errorf("OwnerEmail = %q, want CONTACT_EMAIL", cfg.OwnerEmail)
	}
	if cfg.MailDriver != "smtp" {
		t.Errorf("MailDriver = %q, want smtp", cfg.MailDriver)
	}
}

func TestLoadProduction(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name:    "missing origin",
			env:     map[string]string{"APP_ENV": "production", "SMTP_USER": "u", "SMTP_PASS": "p"},
			wantErr: true,
		},
		{
			name:    "wildcard origin",
			env:     map[string]string{"APP_ENV": "production", "CORS_ORIGIN": "*", "SMTP_USER": "u", "SMTP_PASS": "p"},
			wantErr: true,
		},
		{
			name:    "missing smtp credentials",
			env:     map[string]string{"APP_ENV": "production", "CORS_ORIGIN": "https://example.com"},
			wantErr: true,
		},
		{
			name: "valid",
			env: map[string]string{
				"APP_ENV":     "production",
				"CORS_ORIGIN": "https://example.com, https://www.example.com",
				"SMTP_USER":   "u",
				"SMTP_PASS":   "p",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if len(cfg.AllowedOrigins) != 2 {
				t.Errorf("AllowedOrigins = %v, want 2 entries", cfg.AllowedOrigins)
			}
		})
	}
}

func TestLoadInvalidNumbers(t *testing.T) {
	for _, key := range []string{"SMTP_PORT", "CONTACT_RATE_LIMIT", "NOTIFY_MAX_ATTEMPTS", "HERO_FRAME_COUNT"} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, "lots")
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=lots", key)
			}
		})
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONTACT_RATE_WINDOW", "fifteen")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for bad duration")
	}
}

func TestLoadUnknownMailDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAIL_DRIVER", "pigeon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
