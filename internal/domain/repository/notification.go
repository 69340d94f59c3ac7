package repository

import (
	"context"
	"plantreminder/internal/domain/entity"
)

// NotificationRepository defines the interface for persisting scheduled notification registrations.
type NotificationRepository interface {
	// Create stores a new registration.
	Create(ctx context.Context, reg *entity.NotificationRegistration) error
	// FindAll retrieves all registrations (used for re-arming on startup).
	FindAll(ctx context.Context) ([]*entity.NotificationRegistration, error)
	// Delete removes a registration by handle. Unknown handles are a no-op.
	Delete(ctx context.Context, handle string) error
}
