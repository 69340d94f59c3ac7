package repository

import (
	"context"
	"plantreminder/internal/domain/entity"
)

// PlantRepository defines the durable key-value store of StoredPlant records, keyed by plant ID.
type PlantRepository interface {
	// Put inserts or overwrites the record for record.ID.
	Put(ctx context.Context, record *entity.StoredPlant) error
	// GetAll retrieves every stored record. Order is unspecified.
	GetAll(ctx context.Context) ([]*entity.StoredPlant, error)
	// FindByID retrieves a record by plant ID. Returns errors.ErrPlantNotFound when absent.
	FindByID(ctx context.Context, id string) (*entity.StoredPlant, error)
	// Delete removes the record for id. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id string) error
}
