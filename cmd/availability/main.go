package main

import (
	"context"
	"flag"
	"time"

	channelclient "staysync/internal/channel/client"
	"staysync/internal/sync/repository"
	"staysync/internal/sync/service"
	"staysync/pkg/config"
	"staysync/pkg/sealer"
)

const JobName = "availability-push"

// The job runs on a cron: it first extends the push horizon by one day, then
// drains the due push tasks up to the batch limit.
func main() {
	limit := flag.Int("limit", 500, "maximum number of due push tasks to execute")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	cfg := config.Load(JobName)
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	availability := initAvailability(cfg)

	if err := availability.ScheduleHorizon(ctx); err != nil {
		cfg.Log.Error("Failed to schedule horizon pushes", "error", err)
	}

	executed, err := availability.ExecuteDue(ctx, time.Now(), *limit)
	if err != nil {
		cfg.Log.Fatal("Failed to execute due pushes", "error", err)
	}

	cfg.Log.Info("Availability job finished", "executed", executed)
}

func initAvailability(cfg *config.Config) *service.AvailabilityService {
	seal, err := sealer.New(cfg.SealerKey)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize credential sealer", "error", err)
	}
	channel := channelclient.New(cfg, seal)

	properties := repository.NewMongoPropertyRepository(cfg)
	sojourns := repository.NewMongoSojournRepository(cfg)
	tasks := repository.NewMongoTaskRepository(cfg)

	cfg.Log.Info("Availability service initialized", "database", cfg.MongoDatabaseName)
	return service.NewAvailabilityService(cfg, cfg.Log, properties, sojourns, tasks, channel)
}
