package main

import (
	"context"
	"log"
	"strings"

	"techzone-backend/cache"
	apperrors "techzone-backend/common/errors"
	"techzone-backend/common/logger"
	"techzone-backend/config"
	"techzone-backend/controllers"
	"techzone-backend/database"
	"techzone-backend/kafka"
	"techzone-backend/repository"
	"techzone-backend/routes"
	"techzone-backend/sender"
	"techzone-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[Techzone] Failed to load config: ", err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	mongoDB, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("[Techzone] Failed to connect to MongoDB: ", err)
	}
	defer mongoDB.Close()

	productRepo := repository.NewMongoProductRepository(mongoDB.DB)
	licenseRepo := repository.NewMongoLicenseRepository(mongoDB.DB)
	orderRepo := repository.NewMongoOrderRepository(mongoDB.DB)
	userRepo := repository.NewMongoUserRepository(mongoDB.DB)

	if err := orderRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatal("[Techzone] Failed to create order indexes: ", err)
	}

	stripeSvc := services.NewStripeService(
		cfg.StripeSecretKey,
		cfg.StripeWebhookSecret,
		cfg.StripeSuccessURL,
		cfg.StripeCancelURL,
	)

	var mailer sender.EmailSender
	smtpSender, err := sender.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	if err != nil {
		logger.Log.Warn("SMTP not configured, order mails disabled", zap.Error(err))
		mailer = sender.NopSender{}
	} else {
		mailer = smtpSender
	}

	var events services.EventPublisher
	if cfg.KafkaBrokers != "" {
		producer := kafka.NewOrderEventProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.OrderEventsTopic, logger.Log)
		defer producer.Close()
		events = producer
	}

	var productCache *cache.ProductCache
	if cfg.RedisAddr != "" {
		productCache = cache.NewProductCache(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	checkoutSvc := services.NewCheckoutService(productRepo, licenseRepo, stripeSvc, logger.Log)
	fulfillmentSvc := services.NewFulfillmentService(orderRepo, productRepo, licenseRepo, stripeSvc, mailer, events, logger.Log)
	orderSvc := services.NewOrderService(orderRepo, userRepo)
	productSvc := services.NewProductService(productRepo, licenseRepo)

	oc := &controllers.OrderController{
		Checkout:    checkoutSvc,
		Fulfillment: fulfillmentSvc,
		Orders:      orderSvc,
		Users:       userRepo,
		Stripe:      stripeSvc,
		Logger:      logger.Log,
	}
	pc := &controllers.ProductController{
		Products: productSvc,
		Cache:    productCache,
		Logger:   logger.Log,
	}

	r := gin.New()
	r.Use(gin.Recovery(), logger.RequestLogger(), apperrors.ErrorMiddleware())
	routes.RegisterRoutes(r, cfg.JWTSecret, oc, pc)

	logger.Log.Info("Techzone backend running", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[Techzone] Server failed: ", err)
	}
}
