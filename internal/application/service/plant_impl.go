package service

import (
	"context"
	"errors"
	"fmt"
	"plantreminder/internal/domain/entity"
	"plantreminder/internal/domain/repository"
	appErrors "plantreminder/internal/pkg/errors"
	"plantreminder/internal/pkg/logger"
	"slices"
	"strings"
	"sync"
	"time"
)

type plantService struct {
	plantRepo repository.PlantRepository
	scheduler NotificationScheduler
	deliverer Deliverer
	log       logger.Logger
	now       func() time.Time

	// mu serializes the read-modify-write sequences against the store and scheduler.
	mu sync.Mutex
}

// Option configures a PlantService.
type Option func(*plantService)

// WithClock overrides the clock used to compute next watering times.
// The clock's location must match the scheduler's.
func WithClock(now func() time.Time) Option {
	return func(s *plantService) {
		s.now = now
	}
}

// NewPlantService creates a new instance of PlantService implementation.
func NewPlantService(
	plantRepo repository.PlantRepository,
	scheduler NotificationScheduler,
	deliverer Deliverer,
	log logger.Logger,
	opts ...Option,
) PlantService {
	s := &plantService{
		plantRepo: plantRepo,
		scheduler: scheduler,
		deliverer: deliverer,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save cancels any previous notification, schedules the new one, then persists the record.
func (s *plantService) Save(ctx context.Context, plant entity.Plant, chosen time.Time) (*entity.StoredPlant, error) {
	if strings.TrimSpace(plant.ID) == "" {
		return nil, fmt.Errorf("%w: plant id is required", appErrors.ErrInvalidPlant)
	}
	if chosen.IsZero() {
		return nil, fmt.Errorf("%w: no time chosen for plant %s", appErrors.ErrInvalidTime, plant.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	at := entity.TimeOfDayOf(chosen.In(now.Location()))
	nextWaterAt := at.Next(now)

	existing, err := s.findPlant(ctx, plant.ID)
	if err != nil {
		return nil, fmt.Errorf("save plant %s: %w", plant.ID, err)
	}

	cancelled := false
	if existing != nil && existing.HasNotification() {
		if err := s.scheduler.Cancel(ctx, *existing.NotificationHandle); err != nil {
			s.log.Error(fmt.Sprintf("Failed to cancel previous notification for plant %s", plant.ID), err)
			return nil, fmt.Errorf("save plant %s: %w", plant.ID, err)
		}
		cancelled = true
	}

	handle, err := s.scheduler.Schedule(ctx, plant.ID, at, entity.WateringPayload(plant))
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to schedule notification for plant %s", plant.ID), err)
		if cancelled {
			// The old handle is gone; do not leave it advertised on the record.
			existing.NotificationHandle = nil
			if putErr := s.plantRepo.Put(ctx, existing); putErr != nil {
				s.log.Error(fmt.Sprintf("Failed to clear cancelled handle on plant %s", plant.ID), putErr)
			}
		}
		return nil, fmt.Errorf("save plant %s: %w", plant.ID, err)
	}

	record := &entity.StoredPlant{
		Plant:              plant,
		TimeOfDay:          at.String(),
		NextWaterAt:        nextWaterAt,
		NotificationHandle: &handle,
	}
	if err := s.plantRepo.Put(ctx, record); err != nil {
		// Known inconsistency window: the notification stays live until Resume or a re-save cleans it up.
		s.log.Error(fmt.Sprintf("Failed to persist plant %s; notification %s remains active", plant.ID, handle), err)
		return nil, fmt.Errorf("save plant %s: %w", plant.ID, err)
	}

	s.log.Info(fmt.Sprintf("Saved plant %s, next watering at %v (handle %s)", plant.ID, nextWaterAt, handle))
	return record, nil
}

// LoadAll returns every stored plant ordered by next watering time, then by id.
func (s *plantService) LoadAll(ctx context.Context) ([]*entity.StoredPlant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plants, err := s.plantRepo.GetAll(ctx)
	if err != nil {
		s.log.Error("Failed to load plants", err)
		return nil, fmt.Errorf("load plants: %w", err)
	}
	if len(plants) == 0 {
		return nil, appErrors.ErrNoPlants
	}

	slices.SortStableFunc(plants, func(a, b *entity.StoredPlant) int {
		if c := a.NextWaterAt.Compare(b.NextWaterAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return plants, nil
}

// Remove cancels before deleting so a failed cancel leaves the record for a retry.
func (s *plantService) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.findPlant(ctx, id)
	if err != nil {
		return fmt.Errorf("remove plant %s: %w", id, err)
	}
	if existing == nil {
		s.log.Debug(fmt.Sprintf("Plant %s already removed.", id))
		return nil
	}

	if existing.HasNotification() {
		if err := s.scheduler.Cancel(ctx, *existing.NotificationHandle); err != nil {
			s.log.Error(fmt.Sprintf("Failed to cancel notification for plant %s; record kept", id), err)
			return fmt.Errorf("remove plant %s: %w", id, err)
		}
	}

	if err := s.plantRepo.Delete(ctx, id); err != nil {
		s.log.Error(fmt.Sprintf("Failed to delete plant %s", id), err)
		return fmt.Errorf("remove plant %s: %w", id, err)
	}

	s.log.Info(fmt.Sprintf("Removed plant %s", id))
	return nil
}

// HandleWatering is the scheduler's fire handler.
func (s *plantService) HandleWatering(ctx context.Context, handle string, payload entity.NotificationPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plant, err := s.findPlant(ctx, payload.PlantID)
	if err != nil {
		return fmt.Errorf("water plant %s: %w", payload.PlantID, err)
	}
	if plant == nil || !plant.HasNotification() || *plant.NotificationHandle != handle {
		s.log.Warn(fmt.Sprintf("Stale notification %s fired for plant %s, ignoring", handle, payload.PlantID))
		return nil
	}

	var deliverErr error
	if err := s.deliverer.Deliver(ctx, payload); err != nil {
		s.log.Error(fmt.Sprintf("Failed to deliver watering reminder for plant %s", plant.ID), err)
		if !errors.Is(err, appErrors.ErrDelivery) {
			err = fmt.Errorf("%w: %v", appErrors.ErrDelivery, err)
		}
		deliverErr = err
	}

	// The fired occurrence is never in the future, so advance past whichever of now and the due time is later.
	now := s.now()
	from := now
	if plant.NextWaterAt.After(from) {
		from = plant.NextWaterAt.In(now.Location())
	}
	plant.NextWaterAt = s.timeOfDay(plant, now.Location()).Next(from)
	if err := s.plantRepo.Put(ctx, plant); err != nil {
		s.log.Error(fmt.Sprintf("Failed to advance next watering time for plant %s", plant.ID), err)
		return errors.Join(deliverErr, fmt.Errorf("water plant %s: %w", plant.ID, err))
	}

	s.log.Debug(fmt.Sprintf("Plant %s next watering at %v", plant.ID, plant.NextWaterAt))
	return deliverErr
}

// Resume re-arms persisted registrations, drops ones no plant references,
// reschedules plants without a live notification and refreshes stale due times.
func (s *plantService) Resume(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info("Resuming watering schedules...")
	regs, err := s.scheduler.Restore(ctx)
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	plants, err := s.plantRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}

	referenced := make(map[string]bool, len(plants))
	for _, p := range plants {
		if p.HasNotification() {
			referenced[*p.NotificationHandle] = true
		}
	}

	var errs []error
	orphans := 0
	for _, reg := range regs {
		if referenced[reg.Handle] {
			continue
		}
		if err := s.scheduler.Cancel(ctx, reg.Handle); err != nil {
			s.log.Error(fmt.Sprintf("Failed to cancel orphaned notification %s for plant %s", reg.Handle, reg.PlantID), err)
			errs = append(errs, err)
			continue
		}
		orphans++
	}

	now := s.now()
	rescheduled, refreshed := 0, 0
	for _, p := range plants {
		at := s.timeOfDay(p, now.Location())
		switch {
		case !p.HasNotification() || !s.scheduler.Active(*p.NotificationHandle):
			if p.HasNotification() {
				// Registered but not armed; drop the dead registration first.
				if err := s.scheduler.Cancel(ctx, *p.NotificationHandle); err != nil {
					s.log.Error(fmt.Sprintf("Failed to cancel unarmed notification for plant %s", p.ID), err)
					errs = append(errs, fmt.Errorf("resume plant %s: %w", p.ID, err))
					continue
				}
			}
			handle, err := s.scheduler.Schedule(ctx, p.ID, at, entity.WateringPayload(p.Plant))
			if err != nil {
				s.log.Error(fmt.Sprintf("Failed to reschedule plant %s during resume", p.ID), err)
				errs = append(errs, fmt.Errorf("resume plant %s: %w", p.ID, err))
				continue
			}
			p.NotificationHandle = &handle
			p.TimeOfDay = at.String()
			p.NextWaterAt = at.Next(now)
			rescheduled++
		default:
			// Persisted time must match the live schedule.
			next := s.scheduler.NextFire(*p.NotificationHandle)
			if next.IsZero() {
				if p.NextWaterAt.After(now) {
					continue
				}
				next = at.Next(now)
			}
			if next.Equal(p.NextWaterAt) {
				continue
			}
			p.NextWaterAt = next.In(now.Location())
			refreshed++
		}
		if err := s.plantRepo.Put(ctx, p); err != nil {
			s.log.Error(fmt.Sprintf("Failed to persist plant %s during resume", p.ID), err)
			errs = append(errs, fmt.Errorf("resume plant %s: %w", p.ID, err))
		}
	}

	s.log.Info(fmt.Sprintf("Resume complete. Plants: %d, Rescheduled: %d, Refreshed: %d, Orphans cancelled: %d", len(plants), rescheduled, refreshed, orphans))
	return errors.Join(errs...)
}

// findPlant returns nil without error when the plant does not exist.
func (s *plantService) findPlant(ctx context.Context, id string) (*entity.StoredPlant, error) {
	plant, err := s.plantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, appErrors.ErrPlantNotFound) {
			return nil, nil
		}
		s.log.Error(fmt.Sprintf("Failed to look up plant %s", id), err)
		return nil, err
	}
	return plant, nil
}

// timeOfDay recovers the plant's daily trigger, falling back to its due time.
func (s *plantService) timeOfDay(p *entity.StoredPlant, loc *time.Location) entity.TimeOfDay {
	if at, err := entity.ParseTimeOfDay(p.TimeOfDay); err == nil {
		return at
	}
	return entity.TimeOfDayOf(p.NextWaterAt.In(loc))
}
