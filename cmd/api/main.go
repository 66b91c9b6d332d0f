package main

import (
	"net/http"
	"os"
	"time"

	"maternal-booklet/internal/adapters/auth/gateway"
	"maternal-booklet/internal/adapters/auth/jwtverifier"
	"maternal-booklet/internal/adapters/notify/webhook"
	pg "maternal-booklet/internal/adapters/storage/postgres"
	"maternal-booklet/internal/config"
	"maternal-booklet/internal/platform/logger"
	"maternal-booklet/internal/ports/auth"
	"maternal-booklet/internal/ports/notify"
	"maternal-booklet/internal/router"
)

func main() {
	cfg := config.Load()

	lg := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	var verifier auth.AuthVerifier
	switch cfg.AuthMode {
	case config.AuthModeJWT:
		v, err := jwtverifier.NewVerifier(cfg.JWTSecret)
		if err != nil {
			lg.Error("jwt verifier init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = v
	case config.AuthModeGateway:
		v, err := gateway.NewVerifier(gateway.Config{
			BaseURL: cfg.AuthGatewayURL,
			APIKey:  cfg.AuthGatewayKey,
			Timeout: 5 * time.Second,
		})
		if err != nil {
			lg.Error("auth gateway init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = v
	default:
		// modo dev: sin verifier, auth por header X-Debug-User-ID
		lg.Warn("auth in dev mode, do not use in production", nil)
	}

	opts := router.Options{
		AuthVerifier: verifier,
		TokenTTL:     cfg.TokenTTL,
		Logger:       lg,
	}

	if cfg.DBDSN != "" {
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			lg.Error("postgres connect failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		opts.DB = db
		lg.Info("storage: postgres", nil)
	} else {
		lg.Info("storage: in-memory (DB_DSN not set)", nil)
	}

	if cfg.NotifyWebhookURL != "" {
		n, err := webhook.NewNotifier(cfg.NotifyWebhookURL, 5*time.Second)
		if err != nil {
			lg.Error("notify webhook init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		var notifier notify.AccessNotifier = n
		opts.Notifier = notifier
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lg.Info("starting server", map[string]any{"addr": srv.Addr, "auth_mode": string(cfg.AuthMode)})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lg.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
