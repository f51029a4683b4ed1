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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/swiftbus/service-ticketing/internal/application"
	"github.com/swiftbus/service-ticketing/internal/config"
	"github.com/swiftbus/service-ticketing/internal/database"
	"github.com/swiftbus/service-ticketing/internal/events"
	"github.com/swiftbus/service-ticketing/internal/handler"
	"github.com/swiftbus/service-ticketing/internal/middleware"
	"github.com/swiftbus/service-ticketing/internal/repository"
	"github.com/swiftbus/service-ticketing/internal/session"
	"github.com/swiftbus/service-ticketing/pkg/logger"
	"github.com/swiftbus/service-ticketing/pkg/metrics"
)

const serviceName = "service-ticketing"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync()

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if cfg.AppEnv == "development" {
		err = db.AutoMigrate(
			&repository.AccountModel{},
			&repository.BookingModel{},
			&repository.PassengerModel{},
			&repository.PaymentModel{},
		)
		if err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		log.Info("migrations applied")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	sessionStore := session.NewRedisStore(redisClient, cfg.SessionTTL)

	producer := events.NewKafkaProducer(cfg.KafkaBrokers, serviceName, log)
	defer producer.Close()

	accountRepo := repository.NewGormAccountRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	paymentRepo := repository.NewGormPaymentRepository(db)

	accountService := application.NewAccountService(accountRepo, log)
	bookingService := application.NewBookingService(bookingRepo, producer, log)
	paymentService := application.NewPaymentService(paymentRepo, bookingRepo, producer, log)

	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	defer cancelConsumer()

	gatewayConsumer := events.NewGatewayEventConsumer(cfg.KafkaBrokers, serviceName, paymentService, log)
	defer gatewayConsumer.Close()
	go func() {
		if err := gatewayConsumer.Start(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("gateway consumer stopped", zap.Error(err))
		}
	}()

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	m := metrics.NewMetrics("ticketing")

	router.Use(
		middleware.RecoveryMiddleware(log),
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(log),
		middleware.CORSMiddleware(cfg.CORSOrigins),
		middleware.SecurityHeadersMiddleware(),
		middleware.MetricsMiddleware(m),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handler.NewHealthHandler(db).RegisterRoutes(router)

	api := router.Group("/api", middleware.SessionMiddleware(sessionStore))
	handler.NewAuthHandler(accountService, sessionStore, cfg.SessionTTL, cfg.CookieSecure, log).RegisterRoutes(api)
	handler.NewBookingHandler(bookingService, log).RegisterRoutes(api)
	handler.NewPaymentHandler(paymentService, log).RegisterRoutes(api)
	handler.NewAdminHandler(bookingService, log).RegisterRoutes(api)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	cancelConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
