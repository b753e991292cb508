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

	"github.com/rs/zerolog/log"

	"github.com/vetcare/clinic-api/internal/access"
	"github.com/vetcare/clinic-api/internal/config"
	"github.com/vetcare/clinic-api/internal/email"
	analyticsHandler "github.com/vetcare/clinic-api/internal/handler/analytics"
	animalHandler "github.com/vetcare/clinic-api/internal/handler/animal"
	appointmentHandler "github.com/vetcare/clinic-api/internal/handler/appointment"
	authHandler "github.com/vetcare/clinic-api/internal/handler/auth"
	clinicHandler "github.com/vetcare/clinic-api/internal/handler/clinic"
	consultationHandler "github.com/vetcare/clinic-api/internal/handler/consultation"
	healthHandler "github.com/vetcare/clinic-api/internal/handler/health"
	inventoryHandler "github.com/vetcare/clinic-api/internal/handler/inventory"
	invoiceHandler "github.com/vetcare/clinic-api/internal/handler/invoice"
	medicalHandler "github.com/vetcare/clinic-api/internal/handler/medical"
	messageHandler "github.com/vetcare/clinic-api/internal/handler/message"
	notificationHandler "github.com/vetcare/clinic-api/internal/handler/notification"
	ownerHandler "github.com/vetcare/clinic-api/internal/handler/owner"
	reminderHandler "github.com/vetcare/clinic-api/internal/handler/reminder"
	reviewHandler "github.com/vetcare/clinic-api/internal/handler/review"
	sharelinkHandler "github.com/vetcare/clinic-api/internal/handler/sharelink"
	userHandler "github.com/vetcare/clinic-api/internal/handler/user"
	"github.com/vetcare/clinic-api/internal/middleware"
	"github.com/vetcare/clinic-api/internal/repository/postgres"
	"github.com/vetcare/clinic-api/internal/router"
	analyticsService "github.com/vetcare/clinic-api/internal/service/analytics"
	animalService "github.com/vetcare/clinic-api/internal/service/animal"
	appointmentService "github.com/vetcare/clinic-api/internal/service/appointment"
	authService "github.com/vetcare/clinic-api/internal/service/auth"
	clinicService "github.com/vetcare/clinic-api/internal/service/clinic"
	consultationService "github.com/vetcare/clinic-api/internal/service/consultation"
	inventoryService "github.com/vetcare/clinic-api/internal/service/inventory"
	invoiceService "github.com/vetcare/clinic-api/internal/service/invoice"
	medicalService "github.com/vetcare/clinic-api/internal/service/medical"
	messageService "github.com/vetcare/clinic-api/internal/service/message"
	notificationService "github.com/vetcare/clinic-api/internal/service/notification"
	ownerService "github.com/vetcare/clinic-api/internal/service/owner"
	reminderService "github.com/vetcare/clinic-api/internal/service/reminder"
	reviewService "github.com/vetcare/clinic-api/internal/service/review"
	sharelinkService "github.com/vetcare/clinic-api/internal/service/sharelink"
	userService "github.com/vetcare/clinic-api/internal/service/user"
	jwtauth "github.com/vetcare/clinic-api/pkg/auth"
	"github.com/vetcare/clinic-api/pkg/logger"
	"github.com/vetcare/clinic-api/pkg/messaging"
	redisbroker "github.com/vetcare/clinic-api/pkg/messaging/redis"
	"github.com/vetcare/clinic-api/pkg/metrics"
	"github.com/vetcare/clinic-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := postgres.Migrate(cfg.Database); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisbroker.NewBroker(redisbroker.Config{URL: cfg.Redis.URL}, appLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
	} else {
		log.Warn().Msg("redis url not configured, events will not be published")
		broker = messaging.NewNoopBroker()
	}
	defer broker.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	ownerRepo := postgres.NewOwnerRepository(db)
	clinicRepo := postgres.NewClinicRepository(db)
	animalRepo := postgres.NewAnimalRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	consultationRepo := postgres.NewConsultationRepository(db)
	medicalRepo := postgres.NewMedicalRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	invoiceRepo := postgres.NewInvoiceRepository(db)
	messageRepo := postgres.NewMessageRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	reminderRepo := postgres.NewReminderRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	shareLinkRepo := postgres.NewShareLinkRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)

	checker := access.NewChecker(postgres.NewAccessRepository(db))

	tokens := jwtauth.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry())
	hasher := security.NewBcryptHasher(0)
	mailer := email.NewSender(cfg.SMTP)

	// Services
	notificationSvc := notificationService.NewService(notificationRepo, broker)
	authSvc := authService.NewService(userRepo, ownerRepo, hasher, tokens)
	animalSvc := animalService.NewService(animalRepo, ownerRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, animalRepo, notificationSvc)
	consultationSvc := consultationService.NewService(consultationRepo, animalRepo)
	medicalSvc := medicalService.NewService(medicalRepo, animalRepo)
	inventorySvc := inventoryService.NewService(inventoryRepo)
	invoiceSvc := invoiceService.NewService(invoiceRepo, ownerRepo)
	messageSvc := messageService.NewService(messageRepo, ownerRepo, notificationSvc)
	reminderSvc := reminderService.NewService(reminderRepo, animalRepo, ownerRepo, mailer)
	reviewSvc := reviewService.NewService(reviewRepo)
	shareLinkSvc := sharelinkService.NewService(shareLinkRepo, animalRepo, ownerRepo, consultationRepo, medicalRepo)
	ownerSvc := ownerService.NewService(ownerRepo, animalRepo)
	userSvc := userService.NewService(userRepo, hasher)
	clinicSvc := clinicService.NewService(clinicRepo)
	analyticsSvc := analyticsService.NewService(analyticsRepo)

	m := metrics.New("vetcare")

	handlers := router.Handlers{
		Health:       healthHandler.NewHandler(db),
		Auth:         authHandler.NewHandler(authSvc),
		Animal:       animalHandler.NewHandler(animalSvc),
		Appointment:  appointmentHandler.NewHandler(appointmentSvc),
		Consultation: consultationHandler.NewHandler(consultationSvc),
		Medical:      medicalHandler.NewHandler(medicalSvc),
		Inventory:    inventoryHandler.NewHandler(inventorySvc),
		Invoice:      invoiceHandler.NewHandler(invoiceSvc),
		Message:      messageHandler.NewHandler(messageSvc),
		Notification: notificationHandler.NewHandler(notificationSvc),
		Reminder:     reminderHandler.NewHandler(reminderSvc),
		Review:       reviewHandler.NewHandler(reviewSvc),
		ShareLink:    sharelinkHandler.NewHandler(shareLinkSvc, m),
		Owner:        ownerHandler.NewHandler(ownerSvc),
		User:         userHandler.NewHandler(userSvc),
		Clinic:       clinicHandler.NewHandler(clinicSvc),
		Analytics:    analyticsHandler.NewHandler(analyticsSvc),
	}

	r := router.NewRouter(
		middleware.NewAuthMiddleware(tokens),
		checker,
		m,
		handlers,
		router.Config{
			RPS:       cfg.RateLimit.RPS,
			Burst:     cfg.RateLimit.Burst,
			AuthRPS:   cfg.RateLimit.AuthRPS,
			AuthBurst: cfg.RateLimit.AuthBurst,
			CORS:      middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
