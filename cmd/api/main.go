package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/judicial-monitor/internal/application/favorite"
	"github.com/judicial-monitor/internal/application/monitoring"
	"github.com/judicial-monitor/internal/application/notification"
	"github.com/judicial-monitor/internal/application/snapshot"
	"github.com/judicial-monitor/internal/config"
	"github.com/judicial-monitor/internal/infrastructure/awscfg"
	"github.com/judicial-monitor/internal/infrastructure/dynamo"
	jwtinfra "github.com/judicial-monitor/internal/infrastructure/jwt"
	"github.com/judicial-monitor/internal/infrastructure/portal"
	s3infra "github.com/judicial-monitor/internal/infrastructure/s3"
	"github.com/judicial-monitor/internal/infrastructure/smtp"
	"github.com/judicial-monitor/internal/infrastructure/sns"
	"github.com/judicial-monitor/internal/pkg/logger"
	transporthttp "github.com/judicial-monitor/internal/transport/http"
	"github.com/judicial-monitor/internal/transport/http/handler"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.AppEnv)
	if envErr != nil {
		log.Info("no .env file found, reading from environment")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("configuration rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awscfg.Load(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("aws config")
	}

	dynamoClient := dynamo.NewClient(awsCfg, cfg.AWSEndpointURL)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables, log)

	favoriteRepo := dynamo.NewFavoriteRepo(dynamoClient, cfg.DynamoTables.Favorites)
	snapshotRepo := dynamo.NewSnapshotRepo(dynamoClient, cfg.DynamoTables.Snapshots)
	notificationRepo := dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications)
	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.WithError(err).Fatal("jwt provider")
	}

	snapshotDeps := snapshot.ServiceDeps{Repo: snapshotRepo}
	monitoringDeps := monitoring.ServiceDeps{
		Enabled:          cfg.Monitoring.Enabled,
		FetchConcurrency: cfg.Monitoring.FetchConcurrency,
		Fetcher:          portal.NewClient(cfg.Portal, log),
		Log:              log.WithField("component", "monitoring"),
	}

	// Archive and change events are optional; leave the interfaces nil when unset.
	if cfg.S3ArchiveBucket != "" {
		archive := s3infra.NewCaseArchive(s3infra.NewClient(awsCfg, cfg.AWSEndpointURL), cfg.S3ArchiveBucket)
		snapshotDeps.Archive = archive
		monitoringDeps.Archive = archive
	}
	if cfg.SNSTopicARN != "" {
		monitoringDeps.Publisher = sns.NewChangePublisher(sns.NewClient(awsCfg, cfg.AWSEndpointURL), cfg.SNSTopicARN)
	}

	favoriteSvc := favorite.NewService(favoriteRepo)
	snapshotSvc := snapshot.NewService(snapshotDeps)
	notificationSvc := notification.NewService(notification.ServiceDeps{
		Repo:         notificationRepo,
		Users:        userRepo,
		Mailer:       smtp.NewMailer(cfg),
		EmailEnabled: cfg.Monitoring.EmailEnabled,
		FrontendURL:  cfg.FrontendURL,
		Log:          log.WithField("component", "notification"),
	})

	monitoringDeps.Favorites = favoriteSvc
	monitoringDeps.Snapshots = snapshotSvc
	monitoringDeps.Dispatcher = notificationSvc
	scheduler := monitoring.NewScheduler(
		monitoring.NewService(monitoringDeps),
		cfg.Monitoring.Interval,
		cfg.Monitoring.InitialDelay,
		log.WithField("component", "scheduler"),
	)

	var trigger handler.MonitoringTrigger
	if cfg.Monitoring.Enabled {
		scheduler.Start(ctx)
		trigger = scheduler
	} else {
		log.Info("monitoring disabled")
	}

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		Verifier:      jwtProvider,
		Notifications: notificationSvc,
		Favorites:     favoriteSvc,
		Snapshots:     snapshotSvc,
		Trigger:       trigger,
		Log:           log.WithField("component", "http"),
	})
	defer router.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // admin trigger waits for a whole cycle
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server error")
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
	if cfg.Monitoring.Enabled {
		scheduler.Stop()
	}
	log.Info("server stopped")
}
