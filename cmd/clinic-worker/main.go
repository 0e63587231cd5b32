package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinicdesk/platform/pkg/audit"
	"github.com/clinicdesk/platform/pkg/common/config"
	"github.com/clinicdesk/platform/pkg/common/database"
	"github.com/clinicdesk/platform/pkg/common/kafka"
	"github.com/clinicdesk/platform/pkg/common/logger"
	"github.com/clinicdesk/platform/pkg/common/models"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	recorder := audit.NewRecorder(db)
	if err := recorder.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate audit tables")
	}

	consumer := kafka.NewConsumer(cfg.KafkaMutationTopic, cfg.KafkaGroupID)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Log.Info("Shutting down clinic worker...")
		cancel()
	}()

	logger.Log.WithField("topic", cfg.KafkaMutationTopic).Info("Clinic worker consuming mutation events")
	err = consumer.Consume(ctx, func(ctx context.Context, event models.MutationEvent) error {
		if err := recorder.Record(ctx, event); err != nil {
			return err
		}
		logger.Log.WithFields(map[string]interface{}{
			"event_id":   event.ID,
			"event_type": event.Type,
			"entity":     event.Entity,
		}).Info("Audit log recorded")
		return nil
	})
	if err != nil && err != context.Canceled {
		logger.Log.WithError(err).Error("consumer stopped")
	}

	database.ClosePostgres()
	logger.Log.Info("Clinic worker stopped")
}
