// Package config reads the server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all application configuration
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	DBPath    string
	SeedFile  string
	StaticDir string
	ImagesDir string

	// AllowedOrigins is ["*"] in development.
	AllowedOrigins []string
	// TrustedProxies lists the proxy IPs or CIDRs whose X-Forwarded-For is
	// honoured. Empty means the client IP is always the socket peer.
	TrustedProxies []string

	SMTP         SMTPConfig
	MailDriver   string
	ContactEmail string
	OwnerEmail   string

	ContactRateLimit  int
	ContactRateWindow time.Duration

	NotifyRetryInterval time.Duration
	NotifyMaxAttempts   int

	Admin AdminConfig
	Hero  HeroConfig
}

// SMTPConfig is the outbound mail server.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
}

// Configured reports whether credentials are present.
func (s SMTPConfig) Configured() bool {
	return s.User != "" && s.Pass != ""
}

// Addr returns host:port.
func (s SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AdminConfig holds the admin credentials and the visitor IP salt.
type AdminConfig struct {
	Username string
	Password string
	HashSalt string
}

// HeroConfig locates the hero animation frames.
type HeroConfig struct {
	FrameCount   int
	FramePattern string
}

// Load reads the environment, applies defaults and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		Port:      getenv("PORT", "3000"),
		Env:       strings.ToLower(getenv("APP_ENV", EnvDevelopment)),
		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		DBPath:    getenv("DATABASE_PATH", "portfolio.db"),
		SeedFile:  os.Getenv("SEED_FILE"),
		StaticDir: getenv("STATIC_DIR", "./static"),
		ImagesDir: getenv("IMAGES_DIR", "./images"),
		SMTP: SMTPConfig{
			Host: getenv("SMTP_HOST", "smtp.gmail.com"),
			User: os.Getenv("SMTP_USER"),
			Pass: os.Getenv("SMTP_PASS"),
		},
		MailDriver: strings.ToLower(os.Getenv("MAIL_DRIVER")),
		Admin: AdminConfig{
			Username: os.Getenv("ADMIN_USERNAME"),
			Password: os.Getenv("ADMIN_PASSWORD"),
			HashSalt: os.Getenv("ADMIN_HASH_SALT"),
		},
		Hero: HeroConfig{
			FramePattern: getenv("HERO_FRAME_PATTERN", "/images/heroanimation/frame_%03d.jpg"),
		},
	}

	var err error
	if cfg.SMTP.Port, err = getint("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if cfg.ContactRateLimit, err = getint("CONTACT_RATE_LIMIT", 5); err != nil {
		return nil, err
	}
	if cfg.ContactRateWindow, err = getduration("CONTACT_RATE_WINDOW", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.NotifyRetryInterval, err = getduration("NOTIFY_RETRY_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.NotifyMaxAttempts, err = getint("NOTIFY_MAX_ATTEMPTS", 5); err != nil {
		return nil, err
	}
	if cfg.Hero.FrameCount, err = getint("HERO_FRAME_COUNT", 150); err != nil {
		return nil, err
	}

	cfg.ContactEmail = getenv("CONTACT_EMAIL", cfg.SMTP.User)
	cfg.OwnerEmail = getenv("OWNER_EMAIL", cfg.ContactEmail)

	if cfg.MailDriver == "" {
		cfg.MailDriver = "smtp"
		if !cfg.SMTP.Configured() && !cfg.IsProduction() {
			cfg.MailDriver = "log"
		}
	}

	origins := splitList(os.Getenv("CORS_ORIGIN"))
	if len(origins) == 0 && !cfg.IsProduction() {
		origins = []string{"*"}
	}
	cfg.AllowedOrigins = origins
	cfg.TrustedProxies = splitList(os.Getenv("TRUSTED_PROXIES"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the combination of settings.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("config: APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}
	if c.IsProduction() {
		if len(c.AllowedOrigins) == 0 {
			return fmt.Errorf("config: CORS_ORIGIN is required in production")
		}
		for _, o := range c.AllowedOrigins {
			if o == "*" {
				return fmt.Errorf("config: CORS_ORIGIN must name an origin in production")
			}
		}
	}
	switch c.MailDriver {
	case "smtp":
		if c.IsProduction() && !c.SMTP.Configured() {
			return fmt.Errorf("config: SMTP_USER and SMTP_PASS are required in production")
		}
	case "log":
	default:
		return fmt.Errorf("config: unknown MAIL_DRIVER %q", c.MailDriver)
	}
	if c.ContactRateLimit <= 0 {
		return fmt.Errorf("config: CONTACT_RATE_LIMIT must be positive")
	}
	if c.ContactRateWindow <= 0 {
		return fmt.Errorf("config: CONTACT_RATE_WINDOW must be positive")
	}
	if c.NotifyMaxAttempts <= 0 {
		return fmt.Errorf("config: NOTIFY_MAX_ATTEMPTS must be positive")
	}
	if c.Hero.FrameCount <= 0 {
		return fmt.Errorf("config: HERO_FRAME_COUNT must be positive")
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getduration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
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
