package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/satindergrewal/asmrflow/internal/api"
	"github.com/satindergrewal/asmrflow/internal/app"
	"github.com/satindergrewal/asmrflow/internal/config"
	"github.com/satindergrewal/asmrflow/internal/logger"
)

func main() {
	cfg := config.Load()

	lg, err := logger.New(cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()
	defer zap.RedirectStdLog(lg.Zap())()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(cfg, lg)
	if err != nil {
		lg.Fatal("startup failed", zap.Error(err))
	}
	defer a.Close()

	lg.Info("asmrflow starting up",
		zap.String("ai_provider", cfg.AIProvider),
		zap.Bool("premium", cfg.Premium),
		zap.Bool("local_playback", cfg.LocalPlayback))

	runDone := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(runDone)
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(a, lg).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		lg.Info("shutting down")
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		// streaming responses never finish on their own
		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
		}
	}()

	lg.Info("asmrflow live", zap.String("addr", addr))
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		lg.Error("http server", zap.Error(err))
		cancel()
	}
	<-runDone
}
