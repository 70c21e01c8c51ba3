package main

import (
	"labbook/internal/bookings/handler"
	"labbook/internal/bookings/repository"
	"labbook/internal/bookings/service"
	"labbook/internal/bookings/validator"
	facilitiesrepo "labbook/internal/facilities/repository"
	identityrepo "labbook/internal/identity/repository"
	"labbook/internal/notifications/dispatcher"
	notificationsrepo "labbook/internal/notifications/repository"
	"labbook/pkg/app"
	"labbook/pkg/config"
	"labbook/pkg/kafka"
	kafkaconfig "labbook/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")
	bookingService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log), true)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.BookingService {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	kafkaCfg := kafkaconfig.Load()
	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.IntentTopic, kafkaCfg.IntentDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	notificationRepo := notificationsrepo.NewMongoNotificationRepository(db)
	notifier := dispatcher.New(notificationRepo, producer, ServiceName, cfg.Log)

	bookingValidator := validator.NewBookingValidator(cfg.Log, cfg.BookingDayStart, cfg.BookingDayEnd)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	userRepo := identityrepo.NewMongoUserRepository(db)
	clubRepo := facilitiesrepo.NewMongoClubRepository(db)

	bookingService := service.NewBookingService(
		bookingRepo,
		userRepo,
		clubRepo,
		notifier,
		bookingValidator,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
