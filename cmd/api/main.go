package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloudlab-go/internal/app"
	"cloudlab-go/internal/logger"
	"cloudlab-go/internal/server"
)

func main() {
	a, err := app.Load()
	if err != nil {
		logger.New().WithError(err).Fatal("startup failed")
	}
	log := a.Log
	log.WithField("service", "cloudlab-api").WithField("region", a.Clients.Region()).Info("starting service")

	svc := &server.Service{
		Log:       log,
		Ingest:    a.Ingest(),
		Instances: a.Inventory,
		Buckets:   a.Storage,
	}
	if c, err := a.Complete(); err != nil {
		log.WithError(err).Warn("completion endpoint disabled")
	} else {
		svc.Complete = c
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewHTTPServer(a.Config.ListenAddr, svc)
	errCh := make(chan error, 1)
	go func() {
		log.WithField("address", a.Config.ListenAddr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	log.Info("server stopped")
}
