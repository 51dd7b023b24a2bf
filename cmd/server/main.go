package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/light-bringer/rawsy-service/internal/pkg/config"
	"github.com/light-bringer/rawsy-service/internal/pkg/logger"
	"github.com/light-bringer/rawsy-service/internal/services"
	grpctransport "github.com/light-bringer/rawsy-service/internal/transport/grpc"
	httptransport "github.com/light-bringer/rawsy-service/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	zl, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()
	zl = zl.With(zap.String("service", cfg.App.Name), zap.String("env", cfg.App.Env))

	zl.Info("starting marketplace service",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("push", cfg.Push.Driver),
		zap.Bool("product_cache", cfg.Redis.Addr != ""),
		zap.Bool("outbox_relay", cfg.Relay.Enabled),
		zap.String("http_port", cfg.HTTP.Port),
		zap.String("grpc_port", cfg.GRPC.Port),
	)

	// 2. Dependencies
	opts, err := services.NewServiceOptions(ctx, cfg, zl)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}

	// 3. gRPC health server
	grpcServer := grpctransport.NewServer(zl)
	lis, err := net.Listen("tcp", ":"+cfg.GRPC.Port)
	if err != nil {
		opts.Close(context.Background())
		return fmt.Errorf("failed to listen on gRPC port: %w", err)
	}
	go func() {
		zl.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			zl.Error("gRPC server error", zap.Error(err))
		}
	}()

	// 4. HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httptransport.NewRouter(opts.Handlers, httptransport.RouterConfig{
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
		Logger:      zl,
		Metrics:     opts.Metrics,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})
	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	serverErr := make(chan error, 1)
	go func() {
		zl.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	grpcServer.MarkServing()

	// 5. Outbox relay
	relayCtx, stopRelay := context.WithCancel(context.Background())
	relayDone := make(chan struct{})
	if opts.Relay != nil {
		go func() {
			defer close(relayDone)
			opts.Relay.Run(relayCtx)
		}()
	} else {
		close(relayDone)
	}

	// 6. Graceful shutdown
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		zl.Error("HTTP server error", zap.Error(err))
	}
	zl.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	grpcServer.Shutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Error("HTTP server shutdown error", zap.Error(err))
	}
	stopRelay()
	<-relayDone
	// Drain queued notifications before releasing the stores they write to.
	opts.Close(shutdownCtx)

	zl.Info("shutdown complete")
	return nil
}
