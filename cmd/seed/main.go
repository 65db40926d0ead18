package main

import (
	"context"

	"cartsync/internal/config"
	"cartsync/internal/db"
	"cartsync/internal/seed"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.FromEnv()
	logger := logrus.New()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Info("seed applied")
}
