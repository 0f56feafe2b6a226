// cmd/scholarship-server/main.go
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

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"

	"scholarship-engine/internal/api"
	"scholarship-engine/internal/app"
	"scholarship-engine/internal/common/camunda"
	"scholarship-engine/internal/common/config"
	"scholarship-engine/internal/common/database"
	"scholarship-engine/internal/common/logger"
	"scholarship-engine/internal/common/observability"
	"scholarship-engine/internal/service"

	ge "scholarship-engine/internal/workers/essay/generate-essay"
	ms "scholarship-engine/internal/workers/scholarship/match-scholarships"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.Build(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting scholarship server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("corpusSource", cfg.Corpus.Source),
		zap.String("embeddingProvider", cfg.Embedding.Provider),
		zap.String("essayProvider", cfg.Essay.Provider),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init backends with retry ---
	conns, err := database.Open(cfg.Database, database.NeedsFor(cfg), log)
	if err != nil {
		zapLog.Fatal("backend setup failed", zap.Error(err))
	}
	defer conns.Close()

	err = retryWithBackoff(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return conns.Ping(pingCtx)
	}, 15, 2*time.Second, zapLog, "Backend connection")
	if err != nil {
		zapLog.Fatal("backends unavailable after retries", zap.Error(err))
	}

	// --- Load corpus and catalog once ---
	svc, err := app.Build(ctx, cfg, conns, log)
	if err != nil {
		zapLog.Fatal("service setup failed", zap.Error(err))
	}
	zapLog.Info("Scholarship service ready", zap.Int("corpusSize", svc.CorpusSize()))

	// --- Zeebe workers (optional) ---
	var (
		zeebeClient zbc.Client
		workers     *camunda.WorkerSet
	)
	if cfg.Camunda.Enabled {
		zeebeClient, err = camunda.Connect(ctx, camunda.ConfigFrom(cfg.Camunda), log)
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")

		if unknown := app.UnknownWorkers(app.Activities(cfg.App.Version), cfg.Workers); len(unknown) > 0 {
			zapLog.Warn("Ignoring worker config for unknown task types", zap.Strings("taskTypes", unknown))
		}

		workers = camunda.NewWorkerSet(log)
		started := workers.Start(zeebeClient, registrations(cfg, svc, obs, log), cfg.Workers)
		zapLog.Info("Workers registered", zap.Int("count", started))
	}

	// --- HTTP API, health & metrics ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.NewServer(svc, readiness(conns, zeebeClient), obs, log).Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if workers != nil {
		workers.Stop()
	}
	if zeebeClient != nil {
		if err := zeebeClient.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Scholarship server stopped gracefully")
}

func registrations(cfg *config.Config, svc *service.ScholarshipService, obs *observability.Observability, log logger.Logger) []camunda.Registration {
	match := ms.NewHandler(ms.LoadConfig(cfg.Workers[ms.TaskType]), svc, obs, log)
	essay := ge.NewHandler(ge.LoadConfig(cfg.Workers[ge.TaskType]), svc, obs, log)

	return []camunda.Registration{
		{TaskType: ms.TaskType, Handler: match.Handle},
		{TaskType: ge.TaskType, Handler: essay.Handle},
	}
}

func readiness(conns *database.Connections, zeebeClient zbc.Client) api.ReadyFunc {
	return func(ctx context.Context) error {
		if err := conns.Ping(ctx); err != nil {
			return err
		}
		if zeebeClient != nil {
			return camunda.HealthCheck(ctx, zeebeClient, 2*time.Second)
		}
		return nil
	}
}
