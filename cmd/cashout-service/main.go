package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/LavaJover/shvark-cashout-service/internal/app/background"
	"github.com/LavaJover/shvark-cashout-service/internal/app/setup"
	"github.com/LavaJover/shvark-cashout-service/internal/config"
	"github.com/LavaJover/shvark-cashout-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-cashout-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-cashout-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-cashout-service/internal/usecase"
	"github.com/joho/godotenv"
	"google.golang.org/grpc"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	if err := run(cfg); err != nil {
		log.Printf("cashout-service: %v\n", err)
		os.Exit(1)
	}
}

// run owns every resource it opens, so its deferred closers have run by the
// time main decides the exit code.
func run(cfg *config.CashoutConfig) (err error) {
	logg, logCloser, err := logger.New(cfg.LogConfig)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() {
		if err != nil {
			slog.Error("cashout-service stopped with error", "error", err)
		}
		logCloser.Close()
	}()
	slog.SetDefault(logg)

	deps, err := setup.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to init dependencies: %w", err)
	}
	defer func() {
		if err := deps.Close(); err != nil {
			slog.Error("failed to close dependencies", "error", err)
		}
	}()

	ucs, err := setup.InitializeUseCases(deps)
	if err != nil {
		return fmt.Errorf("failed to init usecases: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Health
	healthServer := grpcapi.NewHealthServer()
	tasks := background.NewBackgroundTasks(deps.Feed, cfg.PriceFeed.ProbeInterval, healthServer, deps.Metrics)
	tasks.StartAll(ctx)

	// gRPC server
	grpcServer := grpc.NewServer()
	healthServer.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCServer.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	go func() {
		slog.Info("gRPC server started", "addr", cfg.GRPCServer.Addr())
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC server stopped", "error", err)
			stop()
		}
	}()

	// HTTP server
	router := handlers.NewRouter(handlers.RouterDeps{
		Quotes:         handlers.NewQuoteHandler(ucs.QuoteUsecase),
		Stream:         handlers.NewConvertStreamHandler(ucs.QuoteUsecase, usecase.DefaultDebounce, cfg.HTTPServer.AllowedOrigins),
		Health:         handlers.NewHealthHandler(tasks),
		Metrics:        deps.Metrics,
		Gatherer:       deps.Registry,
		AllowedOrigins: cfg.HTTPServer.AllowedOrigins,
	})
	httpServer := &http.Server{
		Addr:         cfg.HTTPServer.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}
	go func() {
		slog.Info("HTTP server started", "addr", httpServer.Addr, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	healthServer.Shutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server forced to shutdown", "error", err)
	}
	grpcServer.GracefulStop()

	slog.Info("server exited")
	return nil
}
