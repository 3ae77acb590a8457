package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/momentum-app/momentum-api/internal/application/dispatch"
	"github.com/momentum-app/momentum-api/internal/config"
	"github.com/momentum-app/momentum-api/internal/delivery"
	"github.com/momentum-app/momentum-api/internal/infrastructure/dynamo"
	"github.com/momentum-app/momentum-api/internal/infrastructure/postgres"
	"github.com/momentum-app/momentum-api/internal/pkg/clock"
	"github.com/momentum-app/momentum-api/internal/pkg/logging"
)

func main() {
	once := flag.Bool("once", false, "run a single dispatch cycle and exit (for external cron)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.AppEnv)

	ctx := context.Background()

	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables, log)

	db, err := postgres.Connect(cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to postgres")
	}
	defer db.Close()
	if err := postgres.Bootstrap(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("could not bootstrap postgres schema")
	}

	_, driver := delivery.FromConfig(cfg, log)

	d := dispatch.New(dispatch.Deps{
		Profiles:    dynamo.NewProfileRepo(dynamoClient, cfg.DynamoTables.Profiles),
		Store:       postgres.NewNotificationStore(db),
		Driver:      driver,
		Clock:       clock.System{},
		SendTimeout: cfg.DeliveryTimeout,
		Log:         log,
	})

	if *once {
		if err := d.Tick(ctx); err != nil {
			log.Fatal().Err(err).Msg("dispatch cycle failed")
		}
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.DispatchCronSpec, func() {
		if err := d.Tick(context.Background()); err != nil {
			log.Error().Err(err).Msg("dispatch cycle failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.DispatchCronSpec).Msg("invalid cron spec")
	}
	c.Start()
	log.Info().Str("spec", cfg.DispatchCronSpec).Str("channel", cfg.DeliveryChannel).Msg("dispatcher started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down dispatcher")
	<-c.Stop().Done()
	log.Info().Msg("dispatcher stopped")
}
