package service

import (
	"context"
	"plantreminder/internal/domain/entity"
	"time"
)

// FireHandler is called when a scheduled notification fires.
type FireHandler func(ctx context.Context, handle string, payload entity.NotificationPayload) error

// NotificationScheduler defines the policy for registering daily watering notifications.
type NotificationScheduler interface {
	// Schedule registers a notification firing daily at at, carrying payload, and returns its handle.
	Schedule(ctx context.Context, plantID string, at entity.TimeOfDay, payload entity.NotificationPayload) (string, error)
	// Cancel retracts the notification for handle. Unknown or already cancelled handles are a no-op.
	Cancel(ctx context.Context, handle string) error
	// Active reports whether handle is currently armed.
	Active(handle string) bool
	// NextFire returns when handle fires next, or the zero time if it is not armed.
	NextFire(handle string) time.Time
	// Restore re-arms every persisted registration under its original handle and returns them.
	Restore(ctx context.Context) ([]*entity.NotificationRegistration, error)
	// OnFire sets the handler invoked when a notification fires. The returned func detaches it.
	OnFire(handler FireHandler) (release func())
	// Stop stops the underlying scheduler.
	Stop()
}
