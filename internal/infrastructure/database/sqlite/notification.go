package sqlite

import (
	"context"
	"fmt"
	"plantreminder/internal/domain/entity"
	"plantreminder/internal/domain/repository"

	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

// Create stores a new registration.
func (r *notificationRepository) Create(ctx context.Context, reg *entity.NotificationRegistration) error {
	if err := r.db.WithContext(ctx).Create(reg).Error; err != nil {
		return fmt.Errorf("failed to create notification registration %s for plant %s: %w", reg.Handle, reg.PlantID, err)
	}
	return nil
}

// FindAll retrieves all registrations, oldest first.
func (r *notificationRepository) FindAll(ctx context.Context) ([]*entity.NotificationRegistration, error) {
	var regs []*entity.NotificationRegistration
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&regs).Error; err != nil {
		return nil, fmt.Errorf("failed to find notification registrations: %w", err)
	}
	return regs, nil
}

// Delete removes a registration by handle.
func (r *notificationRepository) Delete(ctx context.Context, handle string) error {
	if err := r.db.WithContext(ctx).Where("handle = ?", handle).Delete(&entity.NotificationRegistration{}).Error; err != nil {
		return fmt.Errorf("failed to delete notification registration %s: %w", handle, err)
	}
	return nil
}
