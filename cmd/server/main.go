package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baseplate/storeops/config"
	"github.com/baseplate/storeops/internal/api"
	"github.com/baseplate/storeops/internal/api/handlers"
	"github.com/baseplate/storeops/internal/core/auth"
	"github.com/baseplate/storeops/internal/core/document"
	"github.com/baseplate/storeops/internal/core/form"
	"github.com/baseplate/storeops/internal/core/preference"
	"github.com/baseplate/storeops/internal/core/receipt"
	"github.com/baseplate/storeops/internal/core/search"
	"github.com/baseplate/storeops/internal/core/storeservice"
	"github.com/baseplate/storeops/internal/core/validation"
	"github.com/baseplate/storeops/internal/logging"
	"github.com/baseplate/storeops/internal/storage/postgres"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "storeops: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	logger.Info("Connected to database", "host", cfg.Database.Host, "name", cfg.Database.Name)

	if cfg.Database.Migrate {
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Repositories
	docs := document.NewRepository(db)
	prefs := preference.NewRepository(db)

	// Services
	forms := form.NewFactory()
	validator := validation.NewValidator()
	receiptService := receipt.NewService(docs, forms, validator)
	storeServiceService := storeservice.NewService(docs, forms, validator)
	authService := auth.NewService(&cfg.JWT)

	// Handlers
	columnHandler := handlers.NewColumnHandler(map[string]search.Columns{
		receipt.Screen:      receipt.Columns(),
		storeservice.Screen: storeservice.Columns(),
	})

	router := api.NewRouter(
		logger,
		authService,
		handlers.NewFormHandler(forms),
		columnHandler,
		handlers.NewReceiptHandler(receiptService),
		handlers.NewStoreServiceHandler(storeServiceService),
		handlers.NewPreferenceHandler(prefs),
	)

	addr := ":" + cfg.Server.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router.Setup(cfg.Server.Mode),
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", addr)
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		logger.Info("Server stopped")
	}
	return nil
}
