package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantreminder/internal/domain/entity"
	"plantreminder/internal/infrastructure/scheduler"
	"plantreminder/internal/pkg/logger"
)

type memNotificationRepo struct {
	mu   sync.Mutex
	regs map[string]*entity.NotificationRegistration
}

func (r *memNotificationRepo) Create(_ context.Context, reg *entity.NotificationRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regs[reg.Handle] = reg
	return nil
}

func (r *memNotificationRepo) FindAll(_ context.Context) ([]*entity.NotificationRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.NotificationRegistration
	for _, reg := range r.regs {
		out = append(out, reg)
	}
	return out, nil
}

func (r *memNotificationRepo) Delete(_ context.Context, handle string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.regs, handle)
	return nil
}

func newTestScheduler(t *testing.T) *notificationScheduler {
	t.Helper()
	cronScheduler := scheduler.NewScheduler(logger.Nop(), time.UTC)
	s := NewNotificationScheduler(cronScheduler, &memNotificationRepo{regs: map[string]*entity.NotificationRegistration{}}, logger.Nop()).(*notificationScheduler)
	t.Cleanup(s.Stop)
	return s
}

func TestNotificationScheduler_fireInvokesHandlerUntilReleased(t *testing.T) {
	ctx := context.Background()
	s := newTestScheduler(t)
	payload := entity.NotificationPayload{PlantID: "P1", Title: "t", Body: "b"}
	handle, err := s.Schedule(ctx, "P1", entity.TimeOfDay{Hour: 8}, payload)
	require.NoError(t, err)

	var got []string
	release := s.OnFire(func(_ context.Context, h string, p entity.NotificationPayload) error {
		got = append(got, h+"/"+p.PlantID)
		return nil
	})

	s.fire(handle, payload)
	assert.Equal(t, []string{handle + "/P1"}, got)

	release()
	s.fire(handle, payload)
	assert.Len(t, got, 1, "released handler is not called")
}

func TestNotificationScheduler_fireIgnoresCancelledHandle(t *testing.T) {
	ctx := context.Background()
	s := newTestScheduler(t)
	payload := entity.NotificationPayload{PlantID: "P1"}
	handle, err := s.Schedule(ctx, "P1", entity.TimeOfDay{Hour: 8}, payload)
	require.NoError(t, err)

	calls := 0
	s.OnFire(func(context.Context, string, entity.NotificationPayload) error {
		calls++
		return nil
	})
	require.NoError(t, s.Cancel(ctx, handle))

	s.fire(handle, payload)
	assert.Equal(t, 0, calls)
}

// TestNotificationScheduler_staleReleaseKeepsNewerHandler verifies that releasing
// an old subscription does not detach a handler registered after it.
func TestNotificationScheduler_staleReleaseKeepsNewerHandler(t *testing.T) {
	ctx := context.Background()
	s := newTestScheduler(t)
	payload := entity.NotificationPayload{PlantID: "P1"}
	handle, err := s.Schedule(ctx, "P1", entity.TimeOfDay{Hour: 8}, payload)
	require.NoError(t, err)

	releaseOld := s.OnFire(func(context.Context, string, entity.NotificationPayload) error { return nil })
	newer := 0
	s.OnFire(func(context.Context, string, entity.NotificationPayload) error {
		newer++
		return nil
	})
	releaseOld()
	releaseOld()

	s.fire(handle, payload)
	assert.Equal(t, 1, newer)
}
