package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"cartsync/internal/config"
	"cartsync/internal/db"
	"cartsync/internal/exporter"
	abandonedrepo "cartsync/internal/repository/abandoned"
	syncstaterepo "cartsync/internal/repository/syncstate"
	syncsvc "cartsync/internal/service/sync"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		shopID    int64
		remaining bool
		batch     int
		outPath   string
	)
	flag.Int64Var(&shopID, "shop", 0, "Shop id to sync")
	flag.BoolVar(&remaining, "remaining", true, "Only carts changed since their last sync")
	flag.IntVar(&batch, "batch", 0, "Page size (defaults to SYNC_BATCH_SIZE)")
	flag.StringVar(&outPath, "out", "-", "Output file for JSON-lines payloads, - for stdout")
	flag.Parse()

	if shopID <= 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := logrus.New()
	if batch <= 0 {
		batch = cfg.SyncBatchSize
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	var out io.Writer = os.Stdout
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			logger.Fatalf("create output file: %v", err)
		}
		defer f.Close()
		out = f
	}

	cartRepo := abandonedrepo.NewPostgres(pool)
	stateRepo := syncstaterepo.NewPostgres(pool)
	service := syncsvc.New(cartRepo, stateRepo, syncsvc.Config{
		SiteSecret:      cfg.SiteSecret,
		CheckoutBaseURL: cfg.CheckoutBaseURL,
	})

	runner := exporter.NewRunner(service, stateRepo, exporter.NewJSONLines(out), logger, batch)

	start := time.Now()
	count, err := runner.Run(ctx, shopID, remaining)
	if err != nil {
		logger.Fatalf("sync run failed after %d carts: %v", count, err)
	}

	logger.WithFields(logrus.Fields{
		"shop_id":  shopID,
		"carts":    count,
		"duration": time.Since(start).Truncate(time.Millisecond).String(),
	}).Info("sync run finished")
}
