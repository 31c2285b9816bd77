package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikolayk812/cartstate/internal/catalog"
	"github.com/nikolayk812/cartstate/internal/config"
	"github.com/nikolayk812/cartstate/internal/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "catalogstub", Level: cfg.LogLevel})

	fixture, err := catalog.LoadFixture(cfg.StubData)
	if err != nil {
		log.WithError(err).Fatal("failed to load fixture")
	}

	srv := &http.Server{
		Addr:              cfg.StubAddr,
		Handler:           catalog.NewServer(fixture, log).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutdown failed")
		}
	}()

	log.WithField("addr", cfg.StubAddr).Info("catalog stub listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("failed to serve")
	}
}
