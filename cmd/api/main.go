package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hamed0406/docsync/internal/config"
	"github.com/hamed0406/docsync/internal/httpapi"
	apimw "github.com/hamed0406/docsync/internal/httpapi/middleware"
	"github.com/hamed0406/docsync/internal/logging"
	"github.com/hamed0406/docsync/internal/notify"
	"github.com/hamed0406/docsync/internal/probe"
	"github.com/hamed0406/docsync/internal/repo"
	"github.com/hamed0406/docsync/internal/repo/file"
	"github.com/hamed0406/docsync/internal/repo/memory"
	"github.com/hamed0406/docsync/internal/repo/postgres"
	"github.com/hamed0406/docsync/internal/settings"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store_open_failed", zap.Error(err))
	}
	defer closeStore()

	checker, err := probe.NewTokenChecker(probe.Options{
		Timeout: cfg.CheckTimeout,
		TLS:     cfg.ClientTLS(),
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("checker_init_failed", zap.Error(err))
	}

	notices := notify.Multi{notify.NewConsole(os.Stderr)}
	if slack := notify.NewSlack(cfg.SlackWebhook); slack != nil {
		notices = append(notices, slack)
	}

	panel, err := settings.NewPanel(ctx, store, checker, notices, logger)
	if err != nil {
		logger.Fatal("panel_init_failed", zap.Error(err))
	}

	api := httpapi.NewServer(logger, panel, checker)
	keys := apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(keys, cfg.AllowedOrigins, cfg.PublicRPM, cfg.PublicBurst, cfg.AdminRPM, cfg.AdminBurst),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("api_listen", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("api_listen_failed", zap.Error(err))
	}
	logger.Info("api_stopped")
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repo.SettingsStore, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		pg, err := postgres.New(ctx, cfg.DatabaseURL, cfg.SettingsProfile, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		logger.Info("settings_store", zap.String("kind", "postgres"), zap.String("profile", cfg.SettingsProfile))
		return pg, pg.Close, nil
	case cfg.SettingsPath != "":
		logger.Info("settings_store", zap.String("kind", "file"), zap.String("path", cfg.SettingsPath))
		return file.New(cfg.SettingsPath), func() {}, nil
	default:
		logger.Warn("settings_store", zap.String("kind", "memory"))
		return memory.New(), func() {}, nil
	}
}
