package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/config"
	"finance-tracker/internal/handlers"
	"finance-tracker/internal/ledger"
	"finance-tracker/internal/log"
	"finance-tracker/internal/storage"
	"finance-tracker/internal/summary"
)

// sessionSweepInterval is how often expired sessions are purged.
const sessionSweepInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := log.New(log.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
		Output:    os.Stderr,
	})
	log.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	cats, err := cfg.Categories()
	if err != nil {
		return err
	}

	db, err := storage.Open(ctx, storage.Options{
		Driver: cfg.DB.Driver,
		DSN:    cfg.DB.DSN(),
		Logger: logger.WithComponent(log.ComponentStorage),
	})
	if err != nil {
		return fmt.Errorf("failed to open store %s: %w", cfg.DB.Redacted(), err)
	}
	defer db.Close()
	logger.Info("Store opened", log.FieldStore, cfg.DB.Redacted())

	authSvc := auth.NewService(db, cats, auth.Options{Cost: cfg.BcryptCost, Logger: logger})
	if err := bootstrapAdmin(ctx, db, authSvc, cfg, logger); err != nil {
		return err
	}

	h := handlers.NewHandlers(handlers.Options{
		DB:           db,
		Auth:         authSvc,
		Ledger:       ledger.New(db, cats, logger),
		Summary:      summary.New(db, summary.Options{DefaultCap: cfg.DefaultBudgetCap, Logger: logger}),
		SessionTTL:   cfg.SessionTTL,
		SecureCookie: cfg.SecureCookie,
		Logger:       logger,
	})

	go sweepSessions(ctx, db, sessionSweepInterval, logger)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        setupRouter(h, logger),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", log.FieldOperation, log.OpStartup, "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupRouter(h *handlers.Handlers, logger *log.Logger) http.Handler {
	mux := h.Routes()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/dashboard", http.StatusFound)
	})
	return log.Middleware(logger.WithComponent(log.ComponentHTTP))(mux)
}

// bootstrapAdmin creates the configured admin user when the store has no users yet.
func bootstrapAdmin(ctx context.Context, db *storage.DB, authSvc *auth.Service, cfg *config.Config, logger *log.Logger) error {
	if cfg.AdminUser == "" {
		return nil
	}
	count, err := db.UserCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := authSvc.Register(ctx, cfg.AdminUser, cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	logger.Info("Admin user created", log.FieldUsername, cfg.AdminUser)
	return nil
}

func sweepSessions(ctx context.Context, db *storage.DB, every time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := db.CleanExpiredSessions(ctx)
			if err != nil {
				logger.Warn("Session sweep failed", log.FieldError, err)
				continue
			}
			if n > 0 {
				logger.Debug("Expired sessions removed", "count", n)
			}
		}
	}
}
