package service

import (
	"context"
	"fmt"
	"plantreminder/internal/domain/entity"
	"plantreminder/internal/pkg/logger"
)

type logDeliverer struct {
	log logger.Logger
}

// NewLogDeliverer returns a Deliverer that only writes fired reminders to the log.
// Used when no push channel is configured.
func NewLogDeliverer(log logger.Logger) Deliverer {
	return &logDeliverer{log: log}
}

func (d *logDeliverer) Deliver(_ context.Context, payload entity.NotificationPayload) error {
	d.log.Info(fmt.Sprintf("🌱 REMINDER for plant %s: %s %s", payload.PlantID, payload.Title, payload.Body))
	return nil
}
