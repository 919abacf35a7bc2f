package main

import (
	bookingservice "staysync/internal/booking/service"
	channelclient "staysync/internal/channel/client"
	"staysync/internal/gateway/handler"
	"staysync/internal/sync/repository"
	"staysync/internal/sync/service"
	"staysync/pkg/app"
	"staysync/pkg/config"
	"staysync/pkg/kafka"
	kafka_config "staysync/pkg/kafka/config"
	"staysync/pkg/sealer"
)

const ServiceName = "gateway"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting gateway service")
	gatewayHandler := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, gatewayHandler)
	serverApp.Run()
}

func initServices(cfg *config.Config) *handler.GatewayHandler {
	seal, err := sealer.New(cfg.SealerKey)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize credential sealer", "error", err)
	}
	channel := channelclient.New(cfg, seal)

	kafkaCfg := kafka_config.Load()
	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.NotificationsTopic, kafkaCfg.NotificationsTopic+".dlq")
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	properties := repository.NewMongoPropertyRepository(cfg)
	bookings := repository.NewMongoBookingRepository(cfg)
	sojourns := repository.NewMongoSojournRepository(cfg)
	finance := repository.NewMongoFinanceRepository(cfg)
	customers := repository.NewMongoCustomerRepository(cfg)
	rates := repository.NewMongoRateRepository(cfg)
	tasks := repository.NewMongoTaskRepository(cfg)
	alerts := repository.NewMongoAlertRepository(cfg)

	lifecycle := bookingservice.NewLifecycle(bookings, sojourns, finance, cfg.Log)
	units := service.NewUnitResolver(properties, sojourns)
	customerResolver := service.NewCustomerResolver(customers, cfg.Log)
	reconciler := service.NewReconciler(
		cfg,
		cfg.Log,
		bookings,
		sojourns,
		finance,
		rates,
		tasks,
		alerts,
		units,
		customerResolver,
		lifecycle,
	)
	notifier := service.NewKafkaNotifier(producer, cfg.Log)
	runner := service.NewRunner(cfg.Log, properties, channel, reconciler, units, notifier)
	availability := service.NewAvailabilityService(cfg, cfg.Log, properties, sojourns, tasks, channel)

	cfg.Log.Info("Gateway services initialized", "database", cfg.MongoDatabaseName)
	return handler.NewGatewayHandler(
		handler.NewSyncHandler(runner, cfg.Log),
		handler.NewAvailabilityHandler(availability, properties, cfg.Log),
	)
}
