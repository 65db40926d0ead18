package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cartsync/internal/config"
	"cartsync/internal/db"
	"cartsync/internal/httpserver"
	abandonedrepo "cartsync/internal/repository/abandoned"
	syncstaterepo "cartsync/internal/repository/syncstate"
	syncsvc "cartsync/internal/service/sync"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.FromEnv()
	logger := logrus.New()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	cartRepo := abandonedrepo.NewPostgres(dbpool)
	stateRepo := syncstaterepo.NewPostgres(dbpool)
	syncService := syncsvc.New(cartRepo, stateRepo, syncsvc.Config{
		SiteSecret:      cfg.SiteSecret,
		CheckoutBaseURL: cfg.CheckoutBaseURL,
	})

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		SyncSvc: syncService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Infof("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Errorf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	} else {
		logger.Info("server stopped")
	}
}
