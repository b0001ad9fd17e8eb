package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/config"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/data"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/handler"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/middleware"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/repo"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/route"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/service"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	r := gin.Default()
	r.SetTrustedProxies(nil)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Upgrade", "Connection"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	// Initialize PostgreSQL
	db, err := data.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer db.Close()

	// Initialize Redis
	rdb, err := data.NewRedis(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis connection failed, proceeding without cache", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	var cacheService *service.CacheService
	if rdb != nil {
		cacheService = service.NewCacheService(rdb.Client, cfg.OfferCacheTTL)
		logger.Info("cache service initialized with redis")
	} else {
		logger.Info("cache service disabled (redis unavailable)")
	}

	notifier := service.NewNotifier(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	defer notifier.Close()

	// Initialize repositories
	offerRepo := repo.NewOfferRepo(db.DB)
	tradeRepo := repo.NewTradeRepo(db.DB)
	chatRepo := repo.NewChatRepo(db.DB)
	walletRepo := repo.NewWalletRepo(db.DB)
	abRepo := repo.NewAddressBookRepo(db.DB)
	pmRepo := repo.NewPaymentMethodRepo(db.DB)

	// Initialize services
	offerService := service.NewOfferService(offerRepo, cacheService, logger)
	tradeService := service.NewTradeService(
		db.DB,
		offerRepo, tradeRepo, chatRepo, walletRepo,
		cacheService, notifier, logger,
		cfg.PaymentWindow, cfg.SweepInterval,
	)
	chatService := service.NewChatService(tradeRepo, chatRepo, cacheService, logger)

	// The sweeper cancels overdue trades in the background; stop it on SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go tradeService.RunExpirySweeper(ctx)

	handle := handler.NewHandler(offerService, tradeService, chatService, abRepo, pmRepo, logger)

	// Setup routes
	route.HealthRoutes(r)
	route.AuthRoutes(r, db)

	r.Use(middleware.RequireAuth(db.DB))

	route.UserRoutes(r, db, walletRepo)
	route.OfferRoutes(r, handle)
	route.TradeRoutes(r, handle)
	route.ChatRoutes(r, handle)
	route.AddressBookRoutes(r, handle)
	route.PaymentMethodRoutes(r, handle)

	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
