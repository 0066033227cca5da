// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hamed0406/docsync/internal/config"
	"github.com/hamed0406/docsync/internal/probe"
)

type level int

const (
	levelOK level = iota
	levelWarn
	levelFail
)

type finding struct {
	level level
	msg   string
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✖", err)
		os.Exit(1)
	}

	failed := false
	for _, f := range preflight(cfg) {
		switch f.level {
		case levelOK:
			fmt.Println("✔", f.msg)
		case levelWarn:
			fmt.Fprintln(os.Stderr, "⚠", f.msg)
		case levelFail:
			fmt.Fprintln(os.Stderr, "✖", f.msg)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
	fmt.Println("✔ preflight passed")
}

func preflight(cfg config.Config) []finding {
	var out []finding
	ok := func(msg string) { out = append(out, finding{levelOK, msg}) }
	warn := func(msg string) { out = append(out, finding{levelWarn, msg}) }
	fail := func(msg string) { out = append(out, finding{levelFail, msg}) }

	if len(cfg.AdminAPIKeys) == 0 {
		fail("ADMIN_API_KEYS is empty (no key can change settings, or anyone can when no keys are set).")
	}
	if len(cfg.PublicAPIKeys) == 0 {
		warn("PUBLIC_API_KEYS is empty; only admin keys can read settings.")
	}
	ok("API_ADDR=" + cfg.Addr)

	if cfg.CheckTimeout <= 0 {
		fail("CHECK_TIMEOUT must be positive.")
	} else {
		ok("CHECK_TIMEOUT=" + cfg.CheckTimeout.String())
	}

	switch {
	case cfg.DatabaseURL != "":
		ok("DATABASE_URL present (postgres settings store, profile " + cfg.SettingsProfile + ")")
	case cfg.SettingsPath != "":
		dir := filepath.Dir(cfg.SettingsPath)
		if st, err := os.Stat(dir); err != nil || !st.IsDir() {
			fail("SETTINGS_PATH directory does not exist: " + dir)
		} else {
			ok("SETTINGS_PATH=" + cfg.SettingsPath)
		}
	default:
		warn("DATABASE_URL and SETTINGS_PATH empty; settings are lost on restart.")
	}

	tlsCfg := cfg.ClientTLS()
	if tlsCfg.Enabled() {
		if _, err := tlsCfg.Config(); err != nil {
			fail("client TLS: " + err.Error())
		} else {
			ok("client TLS material loads")
		}
	}

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty; CORS allows every origin.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	if cfg.SlackWebhook != "" {
		if _, err := probe.NormalizeServiceURL(cfg.SlackWebhook); err != nil || !strings.HasPrefix(cfg.SlackWebhook, "https://") {
			warn("SLACK_WEBHOOK_URL does not look like an https URL.")
		} else {
			ok("SLACK_WEBHOOK_URL present")
		}
	}
	return out
}
