package main

import (
	"context"
	"flag"
	"time"

	bookingservice "staysync/internal/booking/service"
	channelclient "staysync/internal/channel/client"
	"staysync/internal/sync/repository"
	"staysync/internal/sync/service"
	"staysync/pkg/config"
	"staysync/pkg/kafka"
	kafka_config "staysync/pkg/kafka/config"
	"staysync/pkg/sealer"
)

const JobName = "sync-run"

func main() {
	property := flag.String("property", "", "restrict the run to one property external id")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	cfg := config.Load(JobName)
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	producer := initProducer(cfg)
	defer producer.Close()

	runner := initRunner(cfg, producer)

	cfg.Log.Info("Starting sync run", "property_filter", *property)
	report, err := runner.Run(ctx, *property)
	if err != nil {
		cfg.Log.Fatal("Sync run failed", "error", err)
	}

	cfg.Log.Info("Sync run finished",
		"created", report.Created,
		"updated", report.Updated,
		"cancelled", report.Cancelled,
		"skipped", report.Skipped,
		"errors", report.ErrorCount,
		"warnings", report.WarningCount,
	)
}

func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg := kafka_config.Load()
	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.NotificationsTopic, kafkaCfg.NotificationsTopic+".dlq")
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	return producer
}

func initRunner(cfg *config.Config, producer *kafka.Producer) *service.Runner {
	seal, err := sealer.New(cfg.SealerKey)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize credential sealer", "error", err)
	}
	channel := channelclient.New(cfg, seal)

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

	cfg.Log.Info("Sync services initialized", "database", cfg.MongoDatabaseName)
	return service.NewRunner(cfg.Log, properties, channel, reconciler, units, notifier)
}
