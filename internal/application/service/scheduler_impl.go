package service

import (
	"context"
	"fmt"
	"plantreminder/internal/domain/entity"
	"plantreminder/internal/domain/repository"
	"plantreminder/internal/infrastructure/scheduler"
	appErrors "plantreminder/internal/pkg/errors"
	"plantreminder/internal/pkg/logger"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

type notificationScheduler struct {
	cronScheduler *scheduler.Scheduler
	notifyRepo    repository.NotificationRepository
	log           logger.Logger

	mu          sync.Mutex
	handler     FireHandler
	handlerSeq  uint64
	jobStore    map[string]cron.EntryID // handle -> cron entry
	newHandleFn func() string
}

// NewNotificationScheduler creates a NotificationScheduler backed by the cron
// scheduler, persisting each registration so handles survive a restart.
func NewNotificationScheduler(
	cronScheduler *scheduler.Scheduler,
	notifyRepo repository.NotificationRepository,
	log logger.Logger,
) NotificationScheduler {
	return &notificationScheduler{
		cronScheduler: cronScheduler,
		notifyRepo:    notifyRepo,
		log:           log,
		jobStore:      make(map[string]cron.EntryID),
		newHandleFn:   uuid.NewString,
	}
}

// Schedule persists a registration and arms a daily cron job for it.
func (s *notificationScheduler) Schedule(ctx context.Context, plantID string, at entity.TimeOfDay, payload entity.NotificationPayload) (string, error) {
	if strings.TrimSpace(plantID) == "" {
		return "", fmt.Errorf("%w: plant id is required", appErrors.ErrScheduling)
	}
	if !at.Valid() {
		return "", fmt.Errorf("%w: invalid time of day %s for plant %s", appErrors.ErrScheduling, at, plantID)
	}

	reg := &entity.NotificationRegistration{
		Handle:  s.newHandleFn(),
		PlantID: plantID,
		Hour:    at.Hour,
		Minute:  at.Minute,
		Title:   payload.Title,
		Body:    payload.Body,
	}
	if err := s.notifyRepo.Create(ctx, reg); err != nil {
		s.log.Error(fmt.Sprintf("Failed to persist notification registration for plant %s", plantID), err)
		return "", fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}

	if err := s.arm(reg); err != nil {
		// Roll back the registration so Restore does not resurrect it.
		if delErr := s.notifyRepo.Delete(ctx, reg.Handle); delErr != nil {
			s.log.Error(fmt.Sprintf("Failed to roll back registration %s for plant %s", reg.Handle, plantID), delErr)
		}
		return "", fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}

	s.log.Info(fmt.Sprintf("Scheduled daily notification for plant %s at %s (handle %s)", plantID, at, reg.Handle))
	return reg.Handle, nil
}

// arm adds the cron job for reg unless it is already armed.
func (s *notificationScheduler) arm(reg *entity.NotificationRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobStore[reg.Handle]; ok {
		return nil
	}

	at := reg.TimeOfDay()
	if !at.Valid() {
		return fmt.Errorf("invalid time of day %s", at)
	}
	handle := reg.Handle
	payload := reg.Payload()
	entryID, err := s.cronScheduler.AddJob(at.CronSpec(), func() {
		s.fire(handle, payload)
	})
	if err != nil {
		return err
	}
	s.jobStore[handle] = entryID
	s.log.Debug(fmt.Sprintf("Stored job ID %d for handle %s", entryID, handle))
	return nil
}

// fire runs the registered handler for a notification that came due.
func (s *notificationScheduler) fire(handle string, payload entity.NotificationPayload) {
	s.mu.Lock()
	handler := s.handler
	_, armed := s.jobStore[handle]
	s.mu.Unlock()

	if !armed {
		s.log.Debug(fmt.Sprintf("Ignoring fire for cancelled handle %s", handle))
		return
	}
	if handler == nil {
		s.log.Warn(fmt.Sprintf("Notification %s for plant %s fired with no handler attached", handle, payload.PlantID))
		return
	}
	s.log.Info(fmt.Sprintf("Executing notification %s for plant %s", handle, payload.PlantID))
	// Use background context for cron job execution
	if err := handler(context.Background(), handle, payload); err != nil {
		s.log.Error(fmt.Sprintf("Error handling notification %s for plant %s", handle, payload.PlantID), err)
	}
}

// Cancel deletes the registration and removes its cron job.
func (s *notificationScheduler) Cancel(ctx context.Context, handle string) error {
	if handle == "" {
		return nil
	}
	if err := s.notifyRepo.Delete(ctx, handle); err != nil {
		s.log.Error(fmt.Sprintf("Failed to delete notification registration %s", handle), err)
		return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}

	s.mu.Lock()
	entryID, ok := s.jobStore[handle]
	delete(s.jobStore, handle)
	s.mu.Unlock()

	if ok {
		s.cronScheduler.RemoveJob(entryID)
		s.log.Info(fmt.Sprintf("Cancelled notification %s (Job ID: %d)", handle, entryID))
	} else {
		s.log.Debug(fmt.Sprintf("No active notification found for handle %s to cancel.", handle))
	}
	return nil
}

// Active reports whether handle is currently armed.
func (s *notificationScheduler) Active(handle string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobStore[handle]
	return ok
}

// NextFire returns the live cron entry's next activation for handle.
func (s *notificationScheduler) NextFire(handle string) time.Time {
	s.mu.Lock()
	entryID, ok := s.jobStore[handle]
	s.mu.Unlock()
	if !ok {
		return time.Time{}
	}
	return s.cronScheduler.Next(entryID)
}

// Restore re-arms every persisted registration.
func (s *notificationScheduler) Restore(ctx context.Context) ([]*entity.NotificationRegistration, error) {
	regs, err := s.notifyRepo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to retrieve notification registrations for restore", err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}

	armed := 0
	for _, reg := range regs {
		if err := s.arm(reg); err != nil {
			// Continue trying to arm others
			s.log.Error(fmt.Sprintf("Failed to re-arm notification %s for plant %s", reg.Handle, reg.PlantID), err)
			continue
		}
		armed++
	}
	s.log.Info(fmt.Sprintf("Notification restore complete. Registrations: %d, Armed: %d", len(regs), armed))
	return regs, nil
}

// OnFire sets the fire handler; the returned release detaches it unless a
// newer handler has replaced it in the meantime.
func (s *notificationScheduler) OnFire(handler FireHandler) func() {
	s.mu.Lock()
	s.handlerSeq++
	seq := s.handlerSeq
	s.handler = handler
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.handlerSeq == seq {
				s.handler = nil
			}
		})
	}
}

// Stop stops the underlying scheduler.
func (s *notificationScheduler) Stop() {
	s.cronScheduler.Stop()
}
