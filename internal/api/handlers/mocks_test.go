package handlers_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
)

type MockWaitingListEngine struct {
	mock.Mock
}

func (m *MockWaitingListEngine) Entries() []*entities.WaitingEntry {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*entities.WaitingEntry)
}

func (m *MockWaitingListEngine) Stats() entities.WaitingListStats {
	return m.Called().Get(0).(entities.WaitingListStats)
}

func (m *MockWaitingListEngine) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockWaitingListEngine) AddEntry(ctx context.Context, draft entities.WaitingEntryDraft) (*entities.WaitingEntry, error) {
	args := m.Called(ctx, draft)
	return entryResult(args)
}

func (m *MockWaitingListEngine) UpdateEntry(ctx context.Context, id string, patch entities.WaitingEntryPatch) (*entities.WaitingEntry, error) {
	args := m.Called(ctx, id, patch)
	return entryResult(args)
}

func (m *MockWaitingListEngine) RemoveEntry(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockWaitingListEngine) NotifyCustomer(ctx context.Context, id string) (*entities.WaitingEntry, error) {
	args := m.Called(ctx, id)
	return entryResult(args)
}

func (m *MockWaitingListEngine) MarkAsSeated(ctx context.Context, id string, tableID *string) (*entities.WaitingEntry, error) {
	args := m.Called(ctx, id, tableID)
	return entryResult(args)
}

func (m *MockWaitingListEngine) MarkAsNoShow(ctx context.Context, id string) (*entities.WaitingEntry, error) {
	args := m.Called(ctx, id)
	return entryResult(args)
}

func (m *MockWaitingListEngine) MoveEntryUp(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockWaitingListEngine) MoveEntryDown(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func entryResult(args mock.Arguments) (*entities.WaitingEntry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WaitingEntry), args.Error(1)
}

type MockTableService struct {
	mock.Mock
}

func (m *MockTableService) ListAreas(ctx context.Context, restaurantID string) ([]*entities.Area, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Area), args.Error(1)
}

func (m *MockTableService) ListByArea(ctx context.Context, areaID string) ([]*entities.Table, error) {
	args := m.Called(ctx, areaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Table), args.Error(1)
}

func (m *MockTableService) UpdatePosition(ctx context.Context, tableID string, x, y float64) (*entities.Table, error) {
	args := m.Called(ctx, tableID, x, y)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Table), args.Error(1)
}

func (m *MockTableService) SetStatus(ctx context.Context, tableID string, status entities.TableStatus) (*entities.Table, error) {
	args := m.Called(ctx, tableID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Table), args.Error(1)
}

// MockEventBus fans published events out to in-process subscribers
type MockEventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan *entities.QueueEvent
	published   []*entities.QueueEvent
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{
		subscribers: make(map[string][]chan *entities.QueueEvent),
	}
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.QueueEvent) error {
	m.mu.Lock()
	m.published = append(m.published, event)
	channels := append([]chan *entities.QueueEvent(nil), m.subscribers[channel]...)
	m.mu.Unlock()

	for _, ch := range channels {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.QueueEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan *entities.QueueEvent, 10)
	m.subscribers[channel] = append(m.subscribers[channel], ch)
	return ch, nil
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscribers, channel)
	return nil
}

func (m *MockEventBus) Close() error {
	m.mu.Lock()
	subs := m.subscribers
	m.subscribers = make(map[string][]chan *entities.QueueEvent)
	m.mu.Unlock()
	for _, channels := range subs {
		for _, ch := range channels {
			close(ch)
		}
	}
	return nil
}

func (m *MockEventBus) SubscriberCount(channel string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscribers[channel])
}
