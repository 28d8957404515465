package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harish-v07/CreatorHub/internal/cache"
	"github.com/harish-v07/CreatorHub/internal/checkout"
	"github.com/harish-v07/CreatorHub/internal/config"
	"github.com/harish-v07/CreatorHub/internal/database"
	"github.com/harish-v07/CreatorHub/internal/event"
	"github.com/harish-v07/CreatorHub/internal/gateway"
	"github.com/harish-v07/CreatorHub/internal/handler"
	"github.com/harish-v07/CreatorHub/internal/logger"
	"github.com/harish-v07/CreatorHub/internal/logic"
	"github.com/harish-v07/CreatorHub/internal/repository"
	"github.com/harish-v07/CreatorHub/internal/router"
	"github.com/harish-v07/CreatorHub/internal/scheduler"
	"github.com/harish-v07/CreatorHub/internal/signature"
	"github.com/harish-v07/CreatorHub/internal/task"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Log)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration: %v", err)
	}
	if !cfg.Gateway.Configured() {
		logger.Warn("Razorpay API keys not configured, order creation will fail")
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	ctx := context.Background()
	redisClient, err := cache.Connect(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to initialize redis: %v", err)
	}
	accounts := cache.NewAccountCache(redisClient, cfg.Redis.AccountTTL)
	var cart checkout.Cart
	if redisClient != nil {
		cart = cache.NewRedisCart(redisClient)
	}

	events, err := event.NewPublisher(cfg.Kafka)
	if err != nil {
		logger.Fatal("Failed to initialize event publisher: %v", err)
	}

	gw := gateway.NewClient(cfg.Gateway)
	profiles := repository.NewProfileRepository(db)
	items := repository.NewItemRepository(db)
	purchases := repository.NewPurchaseRepository(db)
	verifier := signature.NewVerifier(cfg.Gateway.KeySecret)

	orderLogic := logic.NewOrderLogic(gw, items, profiles, accounts, cfg.Split)
	linkedAccountLogic := logic.NewLinkedAccountLogic(gw, profiles, accounts, events, cfg.Provisioning)
	finalizer := checkout.NewFinalizer(verifier, gw, items, purchases, cart, events, cfg.Checkout.MaxConcurrentWrites)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.Setup(router.Handlers{
		Orders:         handler.NewOrderHandler(orderLogic),
		Payments:       handler.NewPaymentHandler(verifier, finalizer),
		LinkedAccounts: handler.NewLinkedAccountHandler(linkedAccountLogic, profiles),
	}, cfg)

	var jobs *scheduler.Manager
	if cfg.Task.KYCRetryInterval > 0 {
		jobs, err = scheduler.NewManager()
		if err != nil {
			logger.Fatal("Failed to create task manager: %v", err)
		}
		interval := time.Duration(cfg.Task.KYCRetryInterval) * time.Second
		if err := jobs.Register(task.NewKYCRetryJob(profiles, linkedAccountLogic, interval)); err != nil {
			logger.Fatal("%v", err)
		}
		jobs.Start()
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}

	if jobs != nil {
		jobs.Stop()
	}
	if kp, ok := events.(*event.KafkaPublisher); ok {
		if err := kp.Close(); err != nil {
			logger.Error("Failed to close kafka producer: %v", err)
		}
	}
	if redisClient != nil {
		redisClient.Close()
	}
}
