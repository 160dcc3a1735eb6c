package services_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
	apperrors "github.com/guiomkt/cheff-guio-sub000/pkg/errors"
)

// fakeWaitingListRepo is an in-memory WaitingListRepository with failure injection
type fakeWaitingListRepo struct {
	mu        sync.Mutex
	rows      map[string]*entities.WaitingEntry
	order     []string
	seq       int
	clock     func() time.Time
	failNext  error
	conflicts int
	calls     map[string]int
}

func newFakeWaitingListRepo(clock func() time.Time) *fakeWaitingListRepo {
	return &fakeWaitingListRepo{
		rows:  make(map[string]*entities.WaitingEntry),
		clock: clock,
		calls: make(map[string]int),
	}
}

func (r *fakeWaitingListRepo) seed(entries ...*entities.WaitingEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.rows[e.ID] = e.Clone()
		r.order = append(r.order, e.ID)
	}
}

func (r *fakeWaitingListRepo) fail() error {
	err := r.failNext
	r.failNext = nil
	return err
}

func (r *fakeWaitingListRepo) ListByRestaurant(ctx context.Context, restaurantID string) ([]*entities.WaitingEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["ListByRestaurant"]++
	if err := r.fail(); err != nil {
		return nil, err
	}
	out := make([]*entities.WaitingEntry, 0, len(r.order))
	for _, id := range r.order {
		if e, ok := r.rows[id]; ok && e.RestaurantID == restaurantID {
			out = append(out, e.Clone())
		}
	}
	return out, nil
}

func (r *fakeWaitingListRepo) NextQueueNumber(ctx context.Context, restaurantID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["NextQueueNumber"]++
	max := 0
	for _, e := range r.rows {
		if e.RestaurantID == restaurantID && e.QueueNumber > max {
			max = e.QueueNumber
		}
	}
	return max + 1, nil
}

func (r *fakeWaitingListRepo) Create(ctx context.Context, entry *entities.WaitingEntry) (*entities.WaitingEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Create"]++
	if err := r.fail(); err != nil {
		return nil, err
	}
	if r.conflicts > 0 {
		r.conflicts--
		// another writer took the number
		r.seq++
		taken := &entities.WaitingEntry{ID: fmt.Sprintf("other-%d", r.seq), RestaurantID: entry.RestaurantID, QueueNumber: entry.QueueNumber, Status: entities.WaitingStatusWaiting, CreatedAt: r.clock(), UpdatedAt: r.clock()}
		r.rows[taken.ID] = taken
		r.order = append(r.order, taken.ID)
		return nil, apperrors.NewConflictError("duplicate queue number", nil)
	}
	r.seq++
	stored := entry.Clone()
	stored.ID = fmt.Sprintf("e-%d", r.seq)
	stored.CreatedAt = r.clock()
	stored.UpdatedAt = stored.CreatedAt
	r.rows[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	return stored.Clone(), nil
}

func (r *fakeWaitingListRepo) Update(ctx context.Context, restaurantID, id string, patch entities.WaitingEntryPatch) (*entities.WaitingEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Update"]++
	if err := r.fail(); err != nil {
		return nil, err
	}
	e, ok := r.rows[id]
	if !ok || e.RestaurantID != restaurantID {
		return nil, apperrors.NewNotFoundError("not found")
	}
	patch.Apply(e)
	e.UpdatedAt = r.clock()
	return e.Clone(), nil
}

func (r *fakeWaitingListRepo) Transition(ctx context.Context, restaurantID, id string, change entities.StatusChange) (*entities.WaitingEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Transition"]++
	if err := r.fail(); err != nil {
		return nil, err
	}
	e, ok := r.rows[id]
	if !ok || e.RestaurantID != restaurantID {
		return nil, apperrors.NewNotFoundError("not found")
	}
	change.Apply(e)
	e.UpdatedAt = r.clock()
	return e.Clone(), nil
}

func (r *fakeWaitingListRepo) Delete(ctx context.Context, restaurantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls["Delete"]++
	if err := r.fail(); err != nil {
		return err
	}
	e, ok := r.rows[id]
	if !ok || e.RestaurantID != restaurantID {
		return apperrors.NewNotFoundError("not found")
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeWaitingListRepo) callCount(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}

// MockCustomerNotifier records outbound messages
type MockCustomerNotifier struct {
	mock.Mock
}

func (m *MockCustomerNotifier) SendQueueConfirmation(ctx context.Context, entry *entities.WaitingEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockCustomerNotifier) SendTableReady(ctx context.Context, entry *entities.WaitingEntry) error {
	return m.Called(ctx, entry).Error(0)
}

// MockTableStatusUpdater for seating tests
type MockTableStatusUpdater struct {
	mock.Mock
}

func (m *MockTableStatusUpdater) SetStatus(ctx context.Context, tableID string, status entities.TableStatus) (*entities.Table, error) {
	args := m.Called(ctx, tableID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Table), args.Error(1)
}

// MockEventBus captures published events and hands out subscriber channels
type MockEventBus struct {
	mu          sync.Mutex
	published   map[string][]*entities.QueueEvent
	subscribers map[string]chan *entities.QueueEvent
	publishErr  error
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{
		published:   make(map[string][]*entities.QueueEvent),
		subscribers: make(map[string]chan *entities.QueueEvent),
	}
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.QueueEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published[channel] = append(m.published[channel], event)
	return nil
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.QueueEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan *entities.QueueEvent, 10)
	m.subscribers[channel] = ch
	return ch, nil
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, ok := m.subscribers[channel]; ok {
		close(ch)
		delete(m.subscribers, channel)
	}
	return nil
}

func (m *MockEventBus) Close() error {
	return nil
}

func (m *MockEventBus) Events(channel string) []*entities.QueueEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entities.QueueEvent(nil), m.published[channel]...)
}

func (m *MockEventBus) Send(channel string, event *entities.QueueEvent) {
	m.mu.Lock()
	ch := m.subscribers[channel]
	m.mu.Unlock()
	ch <- event
}
