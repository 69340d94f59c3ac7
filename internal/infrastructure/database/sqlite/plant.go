package sqlite

import (
	"context"
	"errors"
	"fmt"
	"plantreminder/internal/domain/entity"
	"plantreminder/internal/domain/repository"
	appErrors "plantreminder/internal/pkg/errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type plantRepository struct {
	db *gorm.DB
}

// NewPlantRepository creates a new instance of PlantRepository.
func NewPlantRepository(db *gorm.DB) repository.PlantRepository {
	return &plantRepository{db: db}
}

// Put inserts or overwrites the record for record.ID.
func (r *plantRepository) Put(ctx context.Context, record *entity.StoredPlant) error {
	if record == nil || strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("%w: plant id is required", appErrors.ErrInvalidPlant)
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(record).Error
	if err != nil {
		return fmt.Errorf("%w: failed to put plant %s: %v", appErrors.ErrStoreIO, record.ID, err)
	}
	return nil
}

// GetAll retrieves every stored record.
func (r *plantRepository) GetAll(ctx context.Context) ([]*entity.StoredPlant, error) {
	var plants []*entity.StoredPlant
	if err := r.db.WithContext(ctx).Find(&plants).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to read plants: %v", appErrors.ErrStoreIO, err)
	}
	return plants, nil
}

// FindByID retrieves a record by plant ID.
func (r *plantRepository) FindByID(ctx context.Context, id string) (*entity.StoredPlant, error) {
	var plant entity.StoredPlant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&plant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", appErrors.ErrPlantNotFound, id)
		}
		return nil, fmt.Errorf("%w: failed to find plant %s: %v", appErrors.ErrStoreIO, id, err)
	}
	return &plant, nil
}

// Delete removes the record for id; no rows affected is not an error.
func (r *plantRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.StoredPlant{}).Error; err != nil {
		return fmt.Errorf("%w: failed to delete plant %s: %v", appErrors.ErrStoreIO, id, err)
	}
	return nil
}
