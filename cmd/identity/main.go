package main

import (
	"labbook/internal/identity/handler"
	"labbook/internal/identity/repository"
	"labbook/internal/identity/service"
	"labbook/internal/identity/validator"
	"labbook/pkg/app"
	"labbook/pkg/config"
	"labbook/pkg/kafka"
	kafkaconfig "labbook/pkg/kafka/config"
)

const ServiceName = "identity"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Identity service")
	identityHandler := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(identityHandler, true, "/api/v1/auth/")
	serverApp.Run()
}

func initServices(cfg *config.Config) *handler.IdentityHandler {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)

	kafkaCfg := kafkaconfig.Load()
	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.IntentTopic, kafkaCfg.IntentDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	userValidator, err := validator.NewUserValidator(cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to build user validator", "error", err)
	}

	userRepo := repository.NewMongoUserRepository(db)
	otpStore := repository.NewRedisOTPStore(cfg.Client.Redis)

	userService := service.NewUserService(userRepo, userValidator, cfg.Log)
	authService := service.NewAuthService(userRepo, otpStore, producer, cfg)

	cfg.Log.Info("Identity service initialized", "database", cfg.MongoDatabaseName)
	return handler.NewIdentityHandler(
		handler.NewAuthHandler(authService, userService, cfg.Log),
		handler.NewUserHandler(userService, cfg.Log),
	)
}
