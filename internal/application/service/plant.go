package service

import (
	"context"
	"plantreminder/internal/domain/entity"
	"time"
)

// PlantService defines the reminder operations callers interact with.
type PlantService interface {
	// Save stores the plant and (re)schedules its daily watering notification at chosen's time of day.
	Save(ctx context.Context, plant entity.Plant, chosen time.Time) (*entity.StoredPlant, error)
	// LoadAll returns every saved plant, soonest due first. Returns errors.ErrNoPlants when none exist.
	LoadAll(ctx context.Context) ([]*entity.StoredPlant, error)
	// Remove cancels the plant's notification and deletes it. Removing an unknown id succeeds.
	Remove(ctx context.Context, id string) error
	// HandleWatering delivers a fired notification and advances the plant's next watering time.
	HandleWatering(ctx context.Context, handle string, payload entity.NotificationPayload) error
	// Resume reconciles stored plants with scheduler registrations on startup.
	Resume(ctx context.Context) error
}

// Deliverer pushes a fired notification to the user.
type Deliverer interface {
	Deliver(ctx context.Context, payload entity.NotificationPayload) error
}
