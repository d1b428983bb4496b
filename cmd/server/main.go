package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/theChristopher16/pack1703-portal-sub002/config"
	_ "github.com/theChristopher16/pack1703-portal-sub002/docs"
	"github.com/theChristopher16/pack1703-portal-sub002/internal/adapters/auth"
	"github.com/theChristopher16/pack1703-portal-sub002/internal/adapters/email"
	"github.com/theChristopher16/pack1703-portal-sub002/internal/adapters/payments"
	"github.com/theChristopher16/pack1703-portal-sub002/internal/cache"
	delivery "github.com/theChristopher16/pack1703-portal-sub002/internal/delivery/http"
	"github.com/theChristopher16/pack1703-portal-sub002/internal/delivery/http/controllers"
	"github.com/theChristopher16/pack1703-portal-sub002/internal/delivery/http/middleware"
	"github.com/theChristopher16/pack1703-portal-sub002/internal/repository/postgres"
	"github.com/theChristopher16/pack1703-portal-sub002/internal/services"
)

const bcryptCost = 12

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("load config: %v", err)
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	rsvpRepo := postgres.NewRSVPRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(bcryptCost)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.SESRegion,
			AccessKeyID:        cfg.Email.SESAccessKeyID,
			SecretAccessKey:    cfg.Email.SESSecretKey,
			InsecureSkipVerify: cfg.Email.SESSkipTLSCheck,
		},
	})
	if err != nil {
		logger.Error("init mailer", "err", err)
		os.Exit(1)
	}
	paymentProvider := payments.NewHTTPProvider(nil, payments.Config{
		BaseURL:       cfg.Payment.BaseURL,
		AccessToken:   cfg.Payment.AccessToken,
		ApplicationID: cfg.Payment.ApplicationID,
		LocationID:    cfg.Payment.LocationID,
	})

	// Services
	countCache := cache.NewCountCache(cfg.CountCacheTTL)
	authorizer := services.NewAuthorizer(roleRepo)
	countService := services.NewCountService(rsvpRepo, countCache, logger)
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	userService := services.NewUserService(userRepo, roleRepo, hasher, tokenIssuer, cfg.TokenExpiry)
	eventService := services.NewEventService(eventRepo, countService, authorizer)
	rsvpService := services.NewRSVPService(rsvpRepo, eventRepo, countService, authorizer, emailService, logger)
	paymentService := services.NewPaymentService(paymentRepo, rsvpRepo, paymentProvider, logger)

	// Controllers
	authController := controllers.NewAuthController(logger, userService)
	eventController := controllers.NewEventController(logger, eventService)
	rsvpController := controllers.NewRSVPController(logger, rsvpService, countService)
	paymentController := controllers.NewPaymentController(logger, paymentService)

	mux := delivery.NewRouter(authController, eventController, rsvpController, paymentController, tokenVerifier, logger)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
