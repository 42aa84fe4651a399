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

	"go.uber.org/zap"

	"github.com/hamed0406/sslchecker/internal/checker"
	"github.com/hamed0406/sslchecker/internal/config"
	"github.com/hamed0406/sslchecker/internal/httpapi"
	apimw "github.com/hamed0406/sslchecker/internal/httpapi/middleware"
	"github.com/hamed0406/sslchecker/internal/logging"
)

func main() {
	cfg := config.Load()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := checker.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("engine_init_error", zap.Error(err))
	}

	api := httpapi.NewServer(logger, eng)
	keys := apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(keys, cfg.AllowedOrigins, cfg.RateRPM, cfg.RateBurst),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.ProbeTimeout*time.Duration(cfg.RetryAttempts) + 10*time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("api_shutdown_error", zap.Error(err))
		}
	}()

	logger.Info("api_listen", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("api_listen_error", zap.Error(err))
	}

	// Shutdown may time out with handlers still running; Close drops their
	// late alerts instead of racing the drain.
	eng.Close()
	logger.Info("api_stopped")
}
