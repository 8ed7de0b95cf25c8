package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"github.com/thekillingspree/quick-entry/config"
	"github.com/thekillingspree/quick-entry/internal/api"
	"github.com/thekillingspree/quick-entry/internal/audit"
	"github.com/thekillingspree/quick-entry/internal/auth"
	"github.com/thekillingspree/quick-entry/internal/db"
	"github.com/thekillingspree/quick-entry/internal/notification"
	"github.com/thekillingspree/quick-entry/internal/occupancy"
	"github.com/thekillingspree/quick-entry/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "quick-entry ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	authSvc := auth.NewService(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	resolver := auth.NewResolver(appStore)

	// Push notifications are optional: without VAPID keys the occupancy
	// controller simply has no notifier.
	var (
		webpushOptions *webpush.Options
		notifier       occupancy.Notifier
	)
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		pool.Start(ctx)
		notifier = pool
		logger.Println("push notification worker pool started")
	} else {
		logger.Println("VAPID keys not configured; push notifications disabled")
	}

	occSvc := occupancy.NewService(appStore, notifier)

	auditor := audit.New(cfg, appStore)
	go auditor.Run(ctx)

	handler := api.NewHandler(appStore, occSvc, authSvc, resolver, webpushOptions)
	router := api.NewRouter(cfg, handler, authSvc)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
