package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
	"github.com/volunteerhub/volunteer-platform/internal/auth"
	"github.com/volunteerhub/volunteer-platform/internal/config"
	"github.com/volunteerhub/volunteer-platform/internal/database"
	"github.com/volunteerhub/volunteer-platform/internal/email"
	"github.com/volunteerhub/volunteer-platform/internal/handler"
	"github.com/volunteerhub/volunteer-platform/internal/middleware"
	"github.com/volunteerhub/volunteer-platform/internal/queue"
	"github.com/volunteerhub/volunteer-platform/internal/router"
	"github.com/volunteerhub/volunteer-platform/internal/service"
	"github.com/volunteerhub/volunteer-platform/internal/uow"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	keys := auth.NewKeyStore(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, cfg.JWTKeySize)
	issuer := auth.NewIssuer(keys, cfg.JWTKeyID,
		time.Duration(cfg.AccessTokenTTLSec)*time.Second,
		time.Duration(cfg.VerifyTokenTTLSec)*time.Second)
	codes := auth.NewCodeStore(time.Duration(cfg.VerifyCodeTTLMin) * time.Minute)

	var sender email.Sender
	if cfg.SMTPHost != "" {
		smtp, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
		if err != nil {
			log.Fatalf("email: %v", err)
		}
		sender = smtp
	} else {
		log.Println("no SMTP host configured, verification codes go to the log")
		sender = email.LogSender{}
	}

	var publisher queue.Publisher = queue.NopPublisher{}
	if cfg.AMQPURL != "" {
		publisher = queue.NewAMQPPublisher(cfg.AMQPURL)
	} else {
		log.Println("no broker configured, notifications disabled")
	}

	factory := uow.NewFactory(db)

	verificationSvc := service.NewVerificationService(codes, sender, issuer, cfg.VerifyCodeTTLMin)
	authSvc := service.NewAuthService(factory, issuer, cfg.BcryptCost)
	userSvc := service.NewUserService(factory)
	eventSvc := service.NewEventService(factory, publisher)
	applicationSvc := service.NewApplicationService(factory, publisher)
	adminSvc := service.NewAdminService(factory, publisher)
	publicSvc := service.NewPublicService(factory)
	notificationSvc := service.NewNotificationService(factory)
	reviewSvc := service.NewReviewService(factory, publisher)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	secureCookies := cfg.Env == "prod"
	authHandler := handler.NewAuthHandler(verificationSvc, authSvc, userSvc, issuer, secureCookies)

	router.RegisterHealth(e)
	router.RegisterPublic(e, handler.NewPublicHandler(publicSvc),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterAuth(e, authHandler, issuer,
		middleware.NewRateLimit(config.LoadRateLimitConfig(), rdb))
	router.RegisterEvents(e, handler.NewEventHandler(eventSvc), issuer)
	router.RegisterApplications(e, handler.NewApplicationHandler(applicationSvc), issuer)
	router.RegisterUsers(e, handler.NewUserHandler(userSvc), issuer)
	router.RegisterNotifications(e, handler.NewNotificationHandler(notificationSvc), issuer)
	router.RegisterReviews(e, handler.NewReviewHandler(reviewSvc), issuer)
	router.RegisterAdmin(e, handler.NewAdminHandler(adminSvc), issuer)

	if cfg.AMQPURL != "" {
		go func() {
			if err := queue.StartNotificationConsumer(cfg.AMQPURL, factory); err != nil {
				log.Printf("notification consumer stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
