package main

import (
	"labbook/internal/facilities/handler"
	"labbook/internal/facilities/repository"
	"labbook/internal/facilities/service"
	"labbook/pkg/app"
	"labbook/pkg/config"
)

const ServiceName = "facilities"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting Facilities service")
	facilitiesHandler := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(facilitiesHandler, true)
	serverApp.Run()
}

func initServices(cfg *config.Config) *handler.FacilitiesHandler {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	labRepo := repository.NewMongoLabRepository(db)
	clubRepo := repository.NewMongoClubRepository(db)

	labService := service.NewLabService(labRepo, cfg.Log)
	clubService := service.NewClubService(clubRepo, cfg.Log)

	cfg.Log.Info("Facilities service initialized", "database", cfg.MongoDatabaseName)
	return handler.NewFacilitiesHandler(
		handler.NewLabHandler(labService, cfg.Log),
		handler.NewClubHandler(clubService, cfg.Log),
	)
}
