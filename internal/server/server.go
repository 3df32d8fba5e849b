// Package server owns the process lifecycle: config, connections,
// background workers, and the graceful HTTP listen/serve loop.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/villageangel/config"
	"github.com/shashiranjanraj/villageangel/internal/kernel"
	"github.com/shashiranjanraj/villageangel/pkg/cache"
	"github.com/shashiranjanraj/villageangel/pkg/database"
	grpcserver "github.com/shashiranjanraj/villageangel/pkg/grpc"
	"github.com/shashiranjanraj/villageangel/pkg/logger"
	"github.com/shashiranjanraj/villageangel/pkg/nonce"
	"github.com/shashiranjanraj/villageangel/pkg/notification"
	"github.com/shashiranjanraj/villageangel/pkg/queue"
	"github.com/shashiranjanraj/villageangel/pkg/schedule"
	"github.com/shashiranjanraj/villageangel/pkg/storage"
)

// Start boots every subsystem and serves HTTP until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}

	if err := logger.Setup(); err != nil {
		logger.Warn("server: mongo log sink unavailable", "error", err)
	}
	defer logger.Close()

	if err := database.Connect(); err != nil {
		return err
	}

	// Redis is optional in development; features that need it degrade.
	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable, falling back to in-process state", "error", err)
	}

	if err := storage.Connect(); err != nil {
		return err
	}

	if webhook := config.Get("SLACK_WEBHOOK", ""); webhook != "" {
		notification.SetSlackWebhook(webhook)
	}

	if cache.Available() {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	if err := queue.UseDB(database.DB); err != nil {
		logger.Warn("server: failed-job table unavailable", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// In-process workers. Heavy deployments run `queue:work` separately;
	// serving them here keeps single-binary setups complete.
	queue.StartWorkers(ctx, config.Int("QUEUE_WORKERS", 3))

	registerScheduledTasks()
	schedule.Start(ctx)

	grpcSrv, grpcLis, err := grpcserver.Start(config.GRPCPort())
	if err != nil {
		logger.Warn("server: grpc health endpoint disabled", "error", err)
	} else {
		go func() {
			if err := grpcSrv.Serve(grpcLis); err != nil {
				logger.Error("server: grpc serve", "error", err)
			}
		}()
		defer grpcserver.Stop(grpcSrv)
	}

	addr := ":" + config.AppPort()
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           kernel.NewHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", addr, "env", config.AppEnv())
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// registerScheduledTasks wires the recurring maintenance work.
func registerScheduledTasks() {
	// The in-memory fallback for used OTP tokens only grows between
	// purges; Redis-backed entries expire on their own.
	schedule.Hourly().Name("nonce:purge").Run(func() {
		nonce.Default().Purge()
	})
}
