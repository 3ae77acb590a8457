package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/momentum-app/momentum-api/internal/config"
	"github.com/momentum-app/momentum-api/internal/delivery"
	"github.com/momentum-app/momentum-api/internal/infrastructure/dynamo"
	"github.com/momentum-app/momentum-api/internal/infrastructure/postgres"
	s3infra "github.com/momentum-app/momentum-api/internal/infrastructure/s3"
	"github.com/momentum-app/momentum-api/internal/pkg/clock"
	"github.com/momentum-app/momentum-api/internal/pkg/logging"
	transporthttp "github.com/momentum-app/momentum-api/internal/transport/http"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.AppEnv)

	ctx := context.Background()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables, log)

	// S3 store for profile pictures.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// Relational store for scheduled notifications and the audit log.
	db, err := postgres.Connect(cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to postgres")
	}
	defer db.Close()
	if err := postgres.Bootstrap(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("could not bootstrap postgres schema")
	}

	_, driver := delivery.FromConfig(cfg, log)

	deps := &transporthttp.Deps{
		Profiles: dynamo.NewProfileRepo(dynamoClient, cfg.DynamoTables.Profiles),
		Store:    postgres.NewNotificationStore(db),
		Objects:  s3Store,
		Driver:   driver,
		Clock:    clock.System{},
		Logger:   log,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.AppPort).Str("env", cfg.AppEnv).Str("channel", cfg.DeliveryChannel).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
