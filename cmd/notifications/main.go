package main

import (
	"labbook/internal/notifications/handler"
	"labbook/internal/notifications/repository"
	"labbook/internal/notifications/service"
	"labbook/pkg/app"
	"labbook/pkg/config"
)

const ServiceName = "notifications"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting Notifications service")
	notificationService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewNotificationHandler(notificationService, cfg.Log), true)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.NotificationService {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	notificationRepo := repository.NewMongoNotificationRepository(db)
	subscriptionRepo := repository.NewMongoSubscriptionRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, subscriptionRepo, cfg.Log)

	cfg.Log.Info("Notification service initialized", "database", cfg.MongoDatabaseName)
	return notificationService
}
