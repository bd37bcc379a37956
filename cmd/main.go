package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"cap-order-service/internal/config"
	"cap-order-service/internal/handlers"
	"cap-order-service/internal/metrics"
	"cap-order-service/internal/middleware"
	"cap-order-service/internal/models"
	"cap-order-service/internal/nats"
	"cap-order-service/internal/repository"
	"cap-order-service/internal/services"
	"cap-order-service/internal/templates"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := initLogger(cfg)

	db, err := initDatabase(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	if err := migrateDatabase(db, logger); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	mailer, err := initMailProvider(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize mail provider")
	}
	logger.WithField("provider", mailer.GetName()).Info("Mail provider configured")

	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		logger.WithError(err).Warnf("Unknown timezone %q, email dates use UTC", cfg.App.Timezone)
		location = time.UTC
	}
	renderer, err := templates.NewRenderer(templates.Options{
		Location:     location,
		ViewOrderURL: cfg.App.ViewOrderURL,
		CompanyName:  cfg.App.CompanyName,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to parse email templates")
	}

	// Event bus is optional. Interfaces stay nil when it is off.
	var (
		natsClient *nats.Client
		events     services.EventPublisher
		busStatus  handlers.ConnectionChecker
	)
	if cfg.NATS.Enabled {
		natsClient, err = nats.NewClient(cfg.NATS.URL, cfg.NATS.MaxReconnects, cfg.NATS.ReconnectWait, logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to connect to NATS, order events disabled")
		} else {
			publisher := nats.NewPublisher(natsClient, logger)
			if err := publisher.EnsureStream(); err != nil {
				logger.WithError(err).Warn("Failed to ensure order event stream")
			}
			events = publisher
			busStatus = natsClient
		}
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	if cfg.Stripe.SecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY is not set, checkout calls will fail")
	}

	orderService := services.NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewOrderItemRepository(db),
		mailer,
		renderer,
		events,
		m,
		services.OrderServiceConfig{
			From:           cfg.Email.From,
			FromName:       cfg.Email.FromName,
			AdminEmail:     cfg.Email.AdminEmail,
			CustomerLocale: templates.ParseLocale(cfg.App.CustomerLocale),
			AdminLocale:    templates.ParseLocale(cfg.App.AdminLocale),
			WorkflowLocale: templates.ParseLocale(cfg.App.WorkflowLocale),
		},
		logger,
	)
	paymentService := services.NewPaymentService(
		services.NewStripeGateway(cfg.Stripe.SecretKey),
		services.PaymentConfig{
			Currency:   cfg.Stripe.Currency,
			SuccessURL: cfg.Stripe.SuccessURL,
			CancelURL:  cfg.Stripe.CancelURL,
		},
		m,
		logger,
	)

	router := setupRouter(
		cfg,
		logger,
		m,
		handlers.NewHealthHandler(db, busStatus),
		handlers.NewOrderHandler(orderService, paymentService),
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"addr":      addr,
			"base_path": cfg.Server.APIBasePath,
		}).Info("Starting cap order service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down cap order service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	if natsClient != nil {
		natsClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("Cap order service stopped")
}

func initLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	if cfg.App.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// initDatabase initializes the database connection
func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{}
	if cfg.App.IsProduction() {
		gormConfig.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	} else {
		gormConfig.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), gormConfig)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// migrateDatabase creates or extends the order tables. It never drops columns.
func migrateDatabase(db *gorm.DB, logger *logrus.Logger) error {
	modelsToMigrate := []interface{}{
		&models.Customer{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	}

	for _, model := range modelsToMigrate {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	logger.Info("Database migration completed successfully")
	return nil
}

// initMailProvider builds the single mail transport named by MAIL_PROVIDER
func initMailProvider(cfg *config.Config) (services.Provider, error) {
	return services.NewProvider(cfg.Email.Provider, &services.ProviderConfig{
		From:               cfg.Email.From,
		FromName:           cfg.Email.FromName,
		SMTPHost:           cfg.Email.SMTPHost,
		SMTPPort:           cfg.Email.SMTPPort,
		SMTPUsername:       cfg.Email.SMTPUsername,
		SMTPPassword:       cfg.Email.SMTPPassword,
		AWSRegion:          cfg.AWS.Region,
		AWSAccessKeyID:     cfg.AWS.AccessKeyID,
		AWSSecretAccessKey: cfg.AWS.SecretAccessKey,
		SendGridAPIKey:     cfg.Email.SendGridAPIKey,
	})
}

// setupRouter configures the Gin router with middleware and routes
func setupRouter(
	cfg *config.Config,
	logger *logrus.Logger,
	m *metrics.Metrics,
	healthHandler *handlers.HealthHandler,
	orderHandler *handlers.OrderHandler,
) *gin.Engine {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	router.Use(m.Middleware())

	router.GET("/health", healthHandler.Health)
	router.GET("/livez", healthHandler.Livez)
	router.GET("/readyz", healthHandler.Readyz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	orderHandler.RegisterRoutes(router.Group(cfg.Server.APIBasePath))

	handlers.RegisterStatic(router, cfg.Server.StaticDir)

	return router
}
