package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"odonto-service/internal/app/config"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/app/delivery/http/controllers"
	"odonto-service/internal/app/delivery/http/middlewares"
	"odonto-service/internal/app/delivery/http/routers"
	"odonto-service/internal/app/drivers/database"
	"odonto-service/internal/app/drivers/logger"
	"odonto-service/internal/app/drivers/messaging"
	"odonto-service/internal/app/drivers/storage"
	"odonto-service/internal/app/services/core/auth"
	"odonto-service/internal/app/services/core/availability"
	"odonto-service/internal/app/services/core/patients"
	"odonto-service/internal/app/services/core/reminders"
	"odonto-service/internal/app/services/core/turnos"
	"odonto-service/internal/app/services/core/viewstate"
	"odonto-service/internal/app/services/shared/jwtmanager"
	"odonto-service/internal/app/services/shared/locker"
	"odonto-service/internal/app/services/shared/notifier"
	sharedredis "odonto-service/internal/app/services/shared/redis"
	"odonto-service/internal/app/services/shared/session"
	sharedstorage "odonto-service/internal/app/services/shared/storage"
	"odonto-service/internal/app/services/webhook"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		Redis:          database.NewRedisClient(driverConfig),
		Logger:         logger.NewZapLogger(driverConfig, internalConfig),
		RabbitMQ:       messaging.NewRabbitMQ(driverConfig),
		Minio:          storage.NewMinio(driverConfig, internalConfig.Minio.BucketName),
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}

	worker, err := bootstrapingTheApp(bootstrap)
	if err != nil {
		log.Fatalf("Error bootstrapping the app: %v", err)
	}

	if worker != nil {
		workerCtx, stopWorker := context.WithCancel(context.Background())
		worker.Start(workerCtx)
		bootstrap.WorkerStop = func() {
			stopWorker()
			worker.Stop()
		}
	}

	server := &http.Server{
		Addr:              internalConfig.App.Port,
		Handler:           bootstrap.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		bootstrap.Logger.Info("Server listening", zap.String("addr", internalConfig.App.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	bootstrap.Logger.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		bootstrap.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	bootstrap.Logger.Info("Server exiting")
	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error releasing drivers: %v", err)
	}
}

// bootstrapingTheApp wires every layer onto the router and returns the
// reminder worker when reminders are enabled.
func bootstrapingTheApp(b *config.Bootstrap) (*reminders.Worker, error) {
	cfg := b.InternalConfig
	location := cfg.App.Location()

	var documentStorage contracts.Storage
	if b.Minio != nil {
		documentStorage = sharedstorage.NewMinioStorage(b.Minio, b.Logger)
	}

	// Redis
	redisRepository := sharedredis.NewRedisRepository(b.Redis)
	sessionService := session.NewSessionService(redisRepository, b.Logger)
	lockerService := locker.NewLockService(redisRepository, b.Logger)

	// Messaging
	publisher, err := notifier.NewRabbitMQPublisher(b.RabbitMQ, b.Logger)
	if err != nil {
		return nil, err
	}

	// Webhooks
	transport := webhook.NewTransport(cfg.Webhook, b.Logger)
	patientClient := webhook.NewPatientWebhookClient(transport, cfg.Webhook, b.Logger)
	turnoClient := webhook.NewTurnoWebhookClient(transport, cfg.Webhook, location, cfg.Schedule.DefaultTurnoMinutes, b.Logger)
	availabilityClient := webhook.NewAvailabilityWebhookClient(transport, cfg.Webhook, location, cfg.Schedule.DefaultTurnoMinutes, b.Logger)
	authClient := webhook.NewAuthWebhookClient(transport, cfg.Webhook, b.Logger)

	// Usecases
	jwtManager, err := jwtmanager.NewJWTManager(cfg, b.Logger)
	if err != nil {
		return nil, err
	}
	authUsecase := auth.NewAuthUsecase(authClient, sessionService, redisRepository, jwtManager, cfg, b.Logger)
	patientUsecase := patients.NewPatientUsecase(patientClient, redisRepository, documentStorage, cfg, b.Logger)
	turnoUsecase := turnos.NewTurnoUsecase(turnoClient, patientClient, publisher, cfg, b.Logger)
	availabilityUsecase, err := availability.NewAvailabilityUsecase(availabilityClient, cfg, b.Logger)
	if err != nil {
		return nil, err
	}
	viewStateUsecase := viewstate.NewViewStateUsecase(redisRepository, cfg, b.Logger)

	// Delivery
	routers.SetupRoutes(
		b.Router,
		cfg,
		middlewares.NewMiddlewares(b.Logger, authUsecase, cfg),
		controllers.NewAuthController(b.Logger, authUsecase, cfg),
		controllers.NewPatientController(b.Logger, patientUsecase, viewStateUsecase, cfg),
		controllers.NewTurnoController(b.Logger, turnoUsecase, viewStateUsecase, cfg),
		controllers.NewAvailabilityController(b.Logger, availabilityUsecase, cfg),
		controllers.NewViewStateController(b.Logger, viewStateUsecase),
		controllers.NewHealthController(b.Logger, cfg, map[string]controllers.HealthCheck{
			"redis": func(ctx context.Context) error { return b.Redis.Ping(ctx).Err() },
		}),
	)

	if !cfg.Reminder.Enabled || b.RabbitMQ == nil {
		b.Logger.Info("Turno reminders disabled")
		return nil, nil
	}
	reminderUsecase := reminders.NewReminderUsecase(turnoClient, redisRepository, publisher, cfg, b.Logger)
	return reminders.NewWorker(b.Logger, cfg, lockerService, reminderUsecase), nil
}
