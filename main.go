package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"penelope-webhooks/config"
	"penelope-webhooks/controllers"
	"penelope-webhooks/db"
	"penelope-webhooks/logging"
	"penelope-webhooks/rawstore"
	"penelope-webhooks/router"
	"penelope-webhooks/workers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}

	mode := logging.ModeDevelopment
	if cfg.AppEnv == "production" {
		mode = logging.ModeProduction
	}
	log := logging.New(mode, cfg.LogLevel)
	defer log.Sync()

	conn, err := db.Connect(cfg.DB, log)
	if err != nil {
		log.Errorw("startup failed", "error", err)
		os.Exit(1)
	}

	store := rawstore.NewGormStore()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(db.SetDBtoContext(conn))
	webhookController := controllers.NewWebhookController(cfg, store, log)
	router.Initialize(engine, cfg, webhookController, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	processor := workers.NewProcessor(
		conn,
		store,
		log,
		cfg.WorkerBatchSize,
		time.Duration(cfg.WorkerIntervalMS)*time.Millisecond,
		cfg.MaxAttempts,
		cfg.UserPhoneColumn,
		cfg.BlockedAsOptOut,
	)
	processor.Start()

	go func() {
		log.Infow("listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down")
	processor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server shutdown error", "error", err)
	}

	sqlDB := conn.DB()
	if sqlDB != nil {
		_ = sqlDB.Close()
	}
}
