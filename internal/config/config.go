package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/hamed0406/docsync/internal/probe"
)

type Config struct {
	Addr     string `env:"API_ADDR" envDefault:"127.0.0.1:8080"` // "127.0.0.1:8080" (Windows) or ":8080" (Docker)
	LogDir   string `env:"LOG_DIR" envDefault:"logs"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Settings storage: DATABASE_URL wins, then SETTINGS_PATH, else in-memory.
	DatabaseURL     string `env:"DATABASE_URL"`
	SettingsPath    string `env:"SETTINGS_PATH"`
	SettingsProfile string `env:"SETTINGS_PROFILE" envDefault:"default"`

	CheckTimeout  time.Duration `env:"CHECK_TIMEOUT" envDefault:"10s"`
	TLSClientCert string        `env:"TLS_CLIENT_CERT"`
	TLSClientKey  string        `env:"TLS_CLIENT_KEY"`
	TLSCACert     string        `env:"TLS_CA_CERT"`

	SlackWebhook string `env:"SLACK_WEBHOOK_URL"`

	PublicAPIKeys  []string `env:"PUBLIC_API_KEYS" envSeparator:","`
	AdminAPIKeys   []string `env:"ADMIN_API_KEYS" envSeparator:","`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	PublicRPM   int `env:"PUBLIC_RPM" envDefault:"120"`
	PublicBurst int `env:"PUBLIC_BURST" envDefault:"60"`
	AdminRPM    int `env:"ADMIN_RPM" envDefault:"60"`
	AdminBurst  int `env:"ADMIN_BURST" envDefault:"20"`
}

func FromEnv() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return cfg, err
	}
	cfg.PublicAPIKeys = cleanList(cfg.PublicAPIKeys)
	cfg.AdminAPIKeys = cleanList(cfg.AdminAPIKeys)
	cfg.AllowedOrigins = cleanList(cfg.AllowedOrigins)
	return cfg, nil
}

// cleanList trims entries and drops empty ones, so "a, b," means [a b].
func cleanList(in []string) []string {
	var out []string
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ClientTLS is the certificate material for outbound checks.
func (c Config) ClientTLS() probe.ClientTLS {
	return probe.ClientTLS{
		CertPath: c.TLSClientCert,
		KeyPath:  c.TLSClientKey,
		CAPath:   c.TLSCACert,
	}
}
