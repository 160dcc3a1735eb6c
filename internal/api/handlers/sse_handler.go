package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/providers"
)

const sseHeartbeatInterval = 30 * time.Second

// SSEHandler streams queue and floor-plan events to browsers
type SSEHandler struct {
	eventBus  providers.EventBus
	clients   map[string]int // channel -> connected clients
	mu        sync.RWMutex
	heartbeat time.Duration
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{
		eventBus:  eventBus,
		clients:   make(map[string]int),
		heartbeat: sseHeartbeatInterval,
	}
}

// StreamWaitingList handles GET /api/stream/restaurants/{restaurantId}/waiting-list
func (h *SSEHandler) StreamWaitingList(w http.ResponseWriter, r *http.Request) {
	restaurantID := r.PathValue("restaurantId")
	if _, err := uuid.Parse(restaurantID); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid restaurant ID")
		return
	}
	h.stream(w, r, providers.GetWaitingListChannel(restaurantID), map[string]any{
		"restaurant_id": restaurantID,
	})
}

// StreamArea handles GET /api/stream/areas/{areaId}
func (h *SSEHandler) StreamArea(w http.ResponseWriter, r *http.Request) {
	areaID := r.PathValue("areaId")
	if areaID == "" {
		respondWithError(w, http.StatusBadRequest, "area ID is required")
		return
	}
	h.stream(w, r, providers.GetAreaChannel(areaID), map[string]any{
		"area_id": areaID,
	})
}

func (h *SSEHandler) stream(w http.ResponseWriter, r *http.Request, channel string, hello map[string]any) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	eventChan, err := h.eventBus.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("Failed to subscribe to event channel")
		respondWithError(w, http.StatusServiceUnavailable, "event stream unavailable")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	h.registerClient(channel)
	defer h.unregisterClient(channel)

	hello["timestamp"] = time.Now()
	h.sendEvent(w, "connected", hello)
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("channel", channel).Msg("Client disconnected from stream")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]any{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			h.sendEvent(w, string(event.EventType), event)
			flusher.Flush()
		}
	}
}

func (h *SSEHandler) registerClient(channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[channel]++
	log.Debug().Str("channel", channel).Int("clients", h.clients[channel]).Msg("Stream client registered")
}

func (h *SSEHandler) unregisterClient(channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[channel]--
	if h.clients[channel] <= 0 {
		delete(h.clients, channel)
	}
}

// sendEvent writes one SSE frame
func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("Failed to marshal event data")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}

// GetClientCount returns the number of connected clients
func (h *SSEHandler) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, n := range h.clients {
		count += n
	}
	return count
}

