package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayam04/Contract-Farming/internal/api"
	"github.com/ayam04/Contract-Farming/internal/api/handler"
	"github.com/ayam04/Contract-Farming/internal/core/ports"
	"github.com/ayam04/Contract-Farming/internal/core/service"
	redisstore "github.com/ayam04/Contract-Farming/internal/infrastructure/db/redis"
	"github.com/ayam04/Contract-Farming/internal/infrastructure/pdf"
	"github.com/ayam04/Contract-Farming/internal/infrastructure/storage"
	"github.com/ayam04/Contract-Farming/internal/pkg/config"
	"github.com/ayam04/Contract-Farming/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "contract-farming",
		Caller:  cfg.IsDevelopment(),
	})

	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("closing record store")
		}
	}()

	readiness := map[string]handler.Pinger{"store": store.ping}

	var idempotency ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		idempotency = redisstore.NewIdempotencyStore(rdb, 0)
		readiness["redis"] = redisstore.Pinger{Client: rdb}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("crop idempotency enabled")
	}

	uploads, err := storage.NewUploads(cfg.Uploads.Dir, cfg.Uploads.MaxBytes)
	if err != nil {
		return err
	}

	authService := service.NewAuthService(store.users, service.AuthConfig{
		JWTSecret:  cfg.Auth.JWTSecret,
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	}, logger.Component("auth"))
	cropService := service.NewCropService(store.crops, store.users, uploads, idempotency, logger.Component("catalog"))
	contractService := service.NewContractService(store.crops, pdf.NewContractRenderer(cfg.PDF.Compress), logger.Component("contracts"))

	e := api.NewRouter(api.Deps{
		Auth:           authService,
		Crops:          cropService,
		Contracts:      contractService,
		UploadDir:      uploads.Dir(),
		MaxUploadBytes: cfg.Uploads.MaxBytes,
		Readiness:      readiness,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server listening")
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

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
