package scheduling

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingRepo "admitboard/database/repository/booking"
	slotRepo "admitboard/database/repository/slot"
	"admitboard/models"
	"admitboard/services/meeting"

	"github.com/google/uuid"
)

// memStore backs all three repositories with in-process maps so the
// transactional booking semantics can be exercised without Mongo.
type memStore struct {
	mu         sync.Mutex
	slots      map[string]models.Slot
	interviews map[string]models.Interview

	failPersist  error
	setStatusErr error
}

func newMemStore() *memStore {
	return &memStore{
		slots:      make(map[string]models.Slot),
		interviews: make(map[string]models.Interview),
	}
}

func (m *memStore) Create(ctx context.Context, slot models.Slot) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	now := time.Now()
	slot.CreatedAt = now
	slot.UpdatedAt = now
	m.slots[slot.ID] = slot
	return slot.ID, nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (*models.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[id]
	if !ok {
		return nil, nil
	}
	copied := slot
	return &copied, nil
}

func (m *memStore) UpdateWindow(ctx context.Context, id, date string, start, end int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[id]
	if !ok || slot.State != models.SlotStateAvailable {
		return slotRepo.ErrStateConflict
	}
	slot.Date = date
	slot.Start = start
	slot.End = end
	m.slots[id] = slot
	return nil
}

func (m *memStore) MarkCancelled(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot, ok := m.slots[id]
	if !ok || (slot.State != models.SlotStateAvailable && slot.State != models.SlotStateExpired) {
		return slotRepo.ErrStateConflict
	}
	slot.State = models.SlotStateCancelled
	m.slots[id] = slot
	return nil
}

func (m *memStore) HasOverlapping(ctx context.Context, ownerID, date string, start, end int, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, slot := range m.slots {
		if slot.ID == excludeID || slot.OwnerID != ownerID {
			continue
		}
		if slot.State != models.SlotStateAvailable && slot.State != models.SlotStateBooked {
			continue
		}
		if slot.Overlaps(date, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) List(ctx context.Context, filter models.SlotFilter, now time.Time) ([]models.Slot, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Slot
	for _, slot := range m.slots {
		if filter.Date != "" && slot.Date != filter.Date {
			continue
		}
		if filter.State != "" && slot.EffectiveState(now) != filter.State {
			continue
		}
		slot.State = slot.EffectiveState(now)
		out = append(out, slot)
	}
	return out, int64(len(out)), nil
}

func (m *memStore) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, slot := range m.slots {
		if slot.State == models.SlotStateAvailable && slot.EffectiveState(now) == models.SlotStateExpired {
			slot.State = models.SlotStateExpired
			m.slots[id] = slot
			n++
		}
	}
	return n, nil
}

func (m *memStore) EnsureIndexes() error { return nil }

func (m *memStore) GetInterviewByID(ctx context.Context, id string) (*models.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.interviews[id]
	if !ok {
		return nil, nil
	}
	copied := rec
	return &copied, nil
}

func (m *memStore) SetStatus(ctx context.Context, id string, status models.InterviewStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setStatusErr != nil {
		return m.setStatusErr
	}
	rec, ok := m.interviews[id]
	if !ok {
		return errors.New("interview not found")
	}
	rec.Status = status
	m.interviews[id] = rec
	return nil
}

func (m *memStore) ListInterviews(ctx context.Context, filter models.InterviewFilter) ([]models.Interview, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Interview
	for _, rec := range m.interviews {
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		out = append(out, rec)
	}
	return out, int64(len(out)), nil
}

func (m *memStore) BookSlotTransactionally(ctx context.Context, slotID string, interview models.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPersist != nil {
		return m.failPersist
	}
	slot, ok := m.slots[slotID]
	if !ok || slot.State != models.SlotStateAvailable {
		return bookingRepo.ErrSlotNotAvailable
	}
	slot.State = models.SlotStateBooked
	slot.BookingID = interview.ID
	m.slots[slotID] = slot
	m.interviews[interview.ID] = interview
	return nil
}

// interviewStore adapts memStore to the InterviewRepository interface,
// whose GetByID collides with the slot repository's.
type interviewStore struct{ *memStore }

func (s interviewStore) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	return s.GetInterviewByID(ctx, id)
}

func (s interviewStore) List(ctx context.Context, filter models.InterviewFilter) ([]models.Interview, int64, error) {
	return s.ListInterviews(ctx, filter)
}

func (s interviewStore) EnsureIndexes() error { return nil }

// memLocker is an in-process SlotLocker.
type memLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemLocker() *memLocker {
	return &memLocker{held: make(map[string]bool)}
}

func (l *memLocker) Acquire(ctx context.Context, slotID string) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[slotID] {
		return nil, false, nil
	}
	l.held[slotID] = true
	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, slotID)
	}
	return release, true, nil
}

// fakeProvisioner records calls and injects failures.
type fakeProvisioner struct {
	mu          sync.Mutex
	createErr   error
	deleteErr   error
	link        string
	resourceID  string
	createCalls int
	deleted     []string
}

func (p *fakeProvisioner) Create(ctx context.Context, w meeting.Window, attendees []string, summary, description string) (*meeting.Details, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createCalls++
	if p.createErr != nil {
		return nil, p.createErr
	}
	return &meeting.Details{Link: p.link, ResourceID: p.resourceID}, nil
}

func (p *fakeProvisioner) Delete(ctx context.Context, resourceID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.deleted = append(p.deleted, resourceID)
	return nil
}

func (p *fakeProvisioner) deletedResources() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.deleted))
	copy(out, p.deleted)
	return out
}
