package main

import (
	"labbook/internal/analytics/handler"
	"labbook/internal/analytics/repository"
	"labbook/internal/analytics/service"
	"labbook/pkg/app"
	"labbook/pkg/config"
)

const ServiceName = "analytics"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting Analytics service")
	analyticsService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAnalyticsHandler(analyticsService, cfg.Log), true)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.AnalyticsService {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	analyticsRepo := repository.NewMongoAnalyticsRepository(db)
	analyticsService := service.NewAnalyticsService(analyticsRepo, cfg.Log)

	cfg.Log.Info("Analytics service initialized", "database", cfg.MongoDatabaseName)
	return analyticsService
}
