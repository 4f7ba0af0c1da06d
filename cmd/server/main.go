package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockkeeper/internal/commons"
	"stockkeeper/internal/infrastructure/logger"
	"stockkeeper/internal/infrastructure/mysql"
	"stockkeeper/internal/product"
	"stockkeeper/internal/sale"
	"stockkeeper/internal/seller"
	"stockkeeper/internal/server"
	"stockkeeper/internal/store"
	"stockkeeper/internal/transfer"

	"go.uber.org/zap"
)

func main() {
	cfg, err := commons.LoadConfig("internal/config/config.yaml")
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	if cfg.Auth.JWTSecret == "" {
		zapLogger.Fatal("auth.jwtSecret is required")
	}

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if cfg.Database.EnsureSchema {
		if err := mysql.EnsureSchema(context.Background(), db); err != nil {
			zapLogger.Fatal("creating schema", zap.Error(err))
		}
	}

	runner := store.NewRunner(mysql.NewTxManager(db), zapLogger, cfg.Stock.TxTimeout, cfg.Stock.MaxRetryAttempts)

	router := server.NewRouter(cfg.Auth.JWTSecret, zapLogger,
		product.NewModule(db, runner, zapLogger),
		seller.NewModule(db, runner, zapLogger),
		transfer.NewModule(db, runner, zapLogger),
		sale.NewModule(db, runner, zapLogger),
	)

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
