package service_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"plantreminder/internal/application/service"
	"plantreminder/internal/domain/entity"
	"plantreminder/internal/domain/repository"
	appErrors "plantreminder/internal/pkg/errors"
)

// ---- call recorder ----------------------------------------------------------

// calls records the order in which fakes are invoked across collaborators.
type calls struct {
	mu  sync.Mutex
	log []string
}

func (c *calls) add(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = append(c.log, fmt.Sprintf(format, args...))
}

func (c *calls) list() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.log...)
}

func (c *calls) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = nil
}

// ---- fake plant store ---------------------------------------------------------

// fakePlantRepo is an in-memory repository.PlantRepository. Records are copied
// on the way in and out so callers cannot mutate stored state.
type fakePlantRepo struct {
	mu      sync.Mutex
	records map[string]entity.StoredPlant
	calls   *calls

	putErr    error
	getAllErr error
	findErr   error
	deleteErr error
}

var _ repository.PlantRepository = (*fakePlantRepo)(nil)

func newFakePlantRepo(c *calls) *fakePlantRepo {
	return &fakePlantRepo{records: map[string]entity.StoredPlant{}, calls: c}
}

func (r *fakePlantRepo) Put(_ context.Context, record *entity.StoredPlant) error {
	r.calls.add("put %s", record.ID)
	if r.putErr != nil {
		return r.putErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = copyPlant(*record)
	return nil
}

func (r *fakePlantRepo) GetAll(_ context.Context) ([]*entity.StoredPlant, error) {
	if r.getAllErr != nil {
		return nil, r.getAllErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.StoredPlant, 0, len(r.records))
	for _, rec := range r.records {
		c := copyPlant(rec)
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakePlantRepo) FindByID(_ context.Context, id string) (*entity.StoredPlant, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", appErrors.ErrPlantNotFound, id)
	}
	c := copyPlant(rec)
	return &c, nil
}

func (r *fakePlantRepo) Delete(_ context.Context, id string) error {
	r.calls.add("delete %s", id)
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, id)
	return nil
}

func (r *fakePlantRepo) get(id string) (entity.StoredPlant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	return rec, ok
}

func copyPlant(p entity.StoredPlant) entity.StoredPlant {
	if p.NotificationHandle != nil {
		h := *p.NotificationHandle
		p.NotificationHandle = &h
	}
	p.Environments = append([]string(nil), p.Environments...)
	return p
}

// ---- fake scheduler -----------------------------------------------------------

type scheduled struct {
	plantID string
	at      entity.TimeOfDay
	payload entity.NotificationPayload
}

// fakeScheduler is an in-memory service.NotificationScheduler.
type fakeScheduler struct {
	mu     sync.Mutex
	active map[string]scheduled
	seq    int
	calls  *calls

	restoreRegs []*entity.NotificationRegistration
	nextFire    map[string]time.Time
	scheduleErr error
	cancelErr   error
	restoreErr  error
	handler     service.FireHandler
}

var _ service.NotificationScheduler = (*fakeScheduler)(nil)

func newFakeScheduler(c *calls) *fakeScheduler {
	return &fakeScheduler{active: map[string]scheduled{}, calls: c}
}

func (s *fakeScheduler) Schedule(_ context.Context, plantID string, at entity.TimeOfDay, payload entity.NotificationPayload) (string, error) {
	s.calls.add("schedule %s %s", plantID, at)
	if s.scheduleErr != nil {
		return "", s.scheduleErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	handle := fmt.Sprintf("h%d", s.seq)
	s.active[handle] = scheduled{plantID: plantID, at: at, payload: payload}
	return handle, nil
}

func (s *fakeScheduler) Cancel(_ context.Context, handle string) error {
	s.calls.add("cancel %s", handle)
	if s.cancelErr != nil {
		return s.cancelErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, handle)
	return nil
}

func (s *fakeScheduler) Active(handle string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[handle]
	return ok
}

// NextFire reports the time configured in nextFire; unknown handles give the zero time.
func (s *fakeScheduler) NextFire(handle string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextFire[handle]
}

func (s *fakeScheduler) Restore(_ context.Context) ([]*entity.NotificationRegistration, error) {
	if s.restoreErr != nil {
		return nil, s.restoreErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, reg := range s.restoreRegs {
		s.active[reg.Handle] = scheduled{plantID: reg.PlantID, at: reg.TimeOfDay(), payload: reg.Payload()}
	}
	return s.restoreRegs, nil
}

func (s *fakeScheduler) OnFire(handler service.FireHandler) func() {
	s.handler = handler
	return func() { s.handler = nil }
}

func (s *fakeScheduler) Stop() {}

// activeFor returns the live handles registered for plantID.
func (s *fakeScheduler) activeFor(plantID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for h, sc := range s.active {
		if sc.plantID == plantID {
			out = append(out, h)
		}
	}
	return out
}

// ---- fake deliverer -----------------------------------------------------------

type fakeDeliverer struct {
	mu        sync.Mutex
	delivered []entity.NotificationPayload
	err       error
}

var _ service.Deliverer = (*fakeDeliverer)(nil)

func (d *fakeDeliverer) Deliver(_ context.Context, payload entity.NotificationPayload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, payload)
	return d.err
}

func (d *fakeDeliverer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.delivered)
}

// ---- fake notification registration store -------------------------------------

type fakeNotificationRepo struct {
	mu      sync.Mutex
	regs    map[string]*entity.NotificationRegistration
	order   []string
	created int

	createErr  error
	deleteErr  error
	findAllErr error
}

var _ repository.NotificationRepository = (*fakeNotificationRepo)(nil)

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{regs: map[string]*entity.NotificationRegistration{}}
}

func (r *fakeNotificationRepo) Create(_ context.Context, reg *entity.NotificationRegistration) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.regs[reg.Handle]; ok {
		return fmt.Errorf("duplicate handle %s", reg.Handle)
	}
	c := *reg
	r.regs[reg.Handle] = &c
	r.order = append(r.order, reg.Handle)
	r.created++
	return nil
}

func (r *fakeNotificationRepo) FindAll(_ context.Context) ([]*entity.NotificationRegistration, error) {
	if r.findAllErr != nil {
		return nil, r.findAllErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.NotificationRegistration
	for _, h := range r.order {
		if reg, ok := r.regs[h]; ok {
			c := *reg
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, handle string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.regs, handle)
	return nil
}

func (r *fakeNotificationRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.regs)
}
