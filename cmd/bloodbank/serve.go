package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/tbourn/bloodbank-backend/internal/cache"
	"github.com/tbourn/bloodbank-backend/internal/config"
	httpapi "github.com/tbourn/bloodbank-backend/internal/http"
	"github.com/tbourn/bloodbank-backend/internal/observability"
)

func serveCmd(a *app) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", true, "insert missing standard blood groups on startup")
	return cmd
}

func (a *app) serve(ctx context.Context, seed bool) error {
	cfg := a.cfg

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			a.log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := a.openDB(ctx, seed)
	if err != nil {
		return err
	}
	defer closeDB(db)

	kv, closeKV, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeKV()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	r := gin.New()
	httpapi.RegisterRoutes(r, db, kv, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().
			Str("addr", srv.Addr).
			Str("db_driver", cfg.DB.Driver).
			Bool("redis", cfg.Cache.RedisAddr != "").
			Str("auth_mode", cfg.Auth.Mode).
			Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.log.Info().Msg("server stopped")
	return nil
}

// openCache returns Redis when an address is configured and the in-process
// cache otherwise. The returned func releases the client.
func openCache(ctx context.Context, cfg config.CacheConfig) (cache.KV, func(), error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryKV(), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	kv := cache.NewRedisKV(client)
	if err := kv.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
	}
	return kv, func() { _ = client.Close() }, nil
}
