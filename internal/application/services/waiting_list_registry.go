package services

import (
	"context"
	"sync"
)

// WaitingListFactory builds an unloaded engine for a restaurant
type WaitingListFactory func(restaurantID string) *WaitingList

// WaitingListRegistry owns one engine per restaurant. Engines are created
// and loaded on first use.
type WaitingListRegistry struct {
	mu      sync.Mutex
	engines map[string]*WaitingList
	factory WaitingListFactory
}

// NewWaitingListRegistry creates a registry backed by factory
func NewWaitingListRegistry(factory WaitingListFactory) *WaitingListRegistry {
	return &WaitingListRegistry{
		engines: make(map[string]*WaitingList),
		factory: factory,
	}
}

// For returns the loaded engine of a restaurant
func (r *WaitingListRegistry) For(ctx context.Context, restaurantID string) (*WaitingList, error) {
	r.mu.Lock()
	engine, ok := r.engines[restaurantID]
	r.mu.Unlock()
	if ok {
		return engine, nil
	}

	engine = r.factory(restaurantID)
	if err := engine.Refresh(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.engines[restaurantID]; ok {
		return existing, nil
	}
	r.engines[restaurantID] = engine
	return engine, nil
}

// Invalidate drops a restaurant's engine so the next For reloads it
func (r *WaitingListRegistry) Invalidate(restaurantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.engines, restaurantID)
}

// Loaded reports how many restaurants currently have an engine
func (r *WaitingListRegistry) Loaded() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}

// WaitNotifications waits for the pending customer messages of every loaded engine
func (r *WaitingListRegistry) WaitNotifications() {
	r.mu.Lock()
	engines := make([]*WaitingList, 0, len(r.engines))
	for _, engine := range r.engines {
		engines = append(engines, engine)
	}
	r.mu.Unlock()

	for _, engine := range engines {
		engine.WaitNotifications()
	}
}
