package main

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/config"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/controllers"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/database"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/kafka"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/models"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/repository"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/retry"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/routes"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/sender"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[BinCleaning] Failed to load config: ", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("[BinCleaning] Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	db, err := database.ConnectPostgres(cfg, logger,
		&models.Order{},
		&models.RefundRecord{},
		&models.RecurringPayment{},
		&models.FailedPayment{},
		&models.FailedWebhook{},
		&models.FailedEmail{},
		&models.Notification{},
		&models.EmailLog{},
		&models.CancellationLog{},
	)
	if err != nil {
		log.Fatal("[BinCleaning] Failed to connect to DB: ", err)
	}
	defer database.Close(db)

	orderRepo := repository.NewGormOrderRepo(db)
	auditRepo := repository.NewGormAuditRepo(db)

	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookKey)
	builder := services.NewOrderBuilder(stripeSvc, logger)

	smtpSender, err := sender.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailAppPassword)
	if err != nil {
		log.Fatal("[BinCleaning] Failed to initialize mail sender: ", err)
	}
	notifier := services.NewNotificationService(smtpSender, auditRepo, logger, cfg.EmailUser, cfg.OwnerEmail)

	var events controllers.EventPublisher
	if cfg.KafkaBrokers != "" {
		producer := kafka.NewOrderEventProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.OrderEventTopic, logger)
		defer producer.Close()
		events = producer
	}

	area := &services.ServiceArea{
		CenterName:       cfg.ServiceCenterName,
		CenterLat:        cfg.ServiceCenterLat,
		CenterLng:        cfg.ServiceCenterLng,
		EarthRadiusMiles: cfg.EarthRadiusMiles,
		RadiusMiles:      cfg.ServiceRadiusMiles,
		DirectionalRadii: cfg.DirectionalRadii,
	}

	retryCfg := retry.DefaultConfig()

	r := gin.New()
	r.Use(gin.Recovery())

	routes.Register(r, routes.Controllers{
		Webhook: &controllers.WebhookController{
			Stripe:   stripeSvc,
			Builder:  builder,
			Orders:   orderRepo,
			Audit:    auditRepo,
			Notifier: notifier,
			Events:   events,
			Logger:   logger,
			Retry:    retryCfg,
		},
		Cancel: &controllers.CancelController{
			Stripe:   stripeSvc,
			Orders:   orderRepo,
			Audit:    auditRepo,
			Notifier: notifier,
			Events:   events,
			Logger:   logger,
			Retry:    retryCfg,
		},
		Checkout: &controllers.CheckoutController{
			Stripe:    stripeSvc,
			Logger:    logger,
			DomainURL: cfg.DomainURL,
		},
		OrderDetails: &controllers.OrderDetailsController{
			Stripe:  stripeSvc,
			Builder: builder,
			Logger:  logger,
		},
		Location: &controllers.LocationController{
			Geocoder: services.NewGoogleGeocoder(cfg.GoogleMapsAPIKey),
			Area:     area,
			Logger:   logger,
		},
		Admin: &controllers.AdminController{
			Orders:        orderRepo,
			Logger:        logger,
			AdminUser:     cfg.AdminUser,
			AdminPassword: cfg.AdminPassword,
			JWTSecret:     cfg.JWTSecret,
		},
	}, cfg.JWTSecret)

	logger.Info("Server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[BinCleaning] Server failed: ", err)
	}
}
