package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/guiomkt/cheff-guio-sub000/internal/api/loaders"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
	"github.com/guiomkt/cheff-guio-sub000/internal/infrastructure/observability"
	apperrors "github.com/guiomkt/cheff-guio-sub000/pkg/errors"
)

// WaitingListEngine is the per-restaurant queue the handler drives
type WaitingListEngine interface {
	Entries() []*entities.WaitingEntry
	Stats() entities.WaitingListStats
	Refresh(ctx context.Context) error
	AddEntry(ctx context.Context, draft entities.WaitingEntryDraft) (*entities.WaitingEntry, error)
	UpdateEntry(ctx context.Context, id string, patch entities.WaitingEntryPatch) (*entities.WaitingEntry, error)
	RemoveEntry(ctx context.Context, id string) error
	NotifyCustomer(ctx context.Context, id string) (*entities.WaitingEntry, error)
	MarkAsSeated(ctx context.Context, id string, tableID *string) (*entities.WaitingEntry, error)
	MarkAsNoShow(ctx context.Context, id string) (*entities.WaitingEntry, error)
	MoveEntryUp(ctx context.Context, id string) error
	MoveEntryDown(ctx context.Context, id string) error
}

// WaitingListProvider returns the loaded engine for a restaurant
type WaitingListProvider func(ctx context.Context, restaurantID string) (WaitingListEngine, error)

// WaitingListHandler serves the restaurant waiting list
type WaitingListHandler struct {
	engines WaitingListProvider
	metrics *observability.Metrics
}

// NewWaitingListHandler creates a new waiting list handler. metrics may be nil.
func NewWaitingListHandler(engines WaitingListProvider, metrics *observability.Metrics) *WaitingListHandler {
	return &WaitingListHandler{
		engines: engines,
		metrics: metrics,
	}
}

// waitingEntryResponse adds the assigned table number to an entry
type waitingEntryResponse struct {
	*entities.WaitingEntry
	TableNumber *int `json:"table_number,omitempty"`
}

type seatRequest struct {
	TableID *string `json:"table_id"`
}

// engine resolves the restaurant engine or writes the error response
func (h *WaitingListHandler) engine(w http.ResponseWriter, r *http.Request) (WaitingListEngine, bool) {
	restaurantID := r.PathValue("restaurantId")
	if _, err := uuid.Parse(restaurantID); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid restaurant ID")
		return nil, false
	}

	engine, err := h.engines(r.Context(), restaurantID)
	if err != nil {
		respondWithAppError(w, err, "could not load waiting list")
		return nil, false
	}
	return engine, true
}

// validate rejects a request body before any engine is loaded
func (h *WaitingListHandler) validate(w http.ResponseWriter, r *http.Request, operation, message string, problems []string) bool {
	if len(problems) == 0 {
		return true
	}
	err := apperrors.NewValidationError(strings.Join(problems, "; "))
	h.record(r, operation, err)
	respondWithAppError(w, err, message)
	return false
}

func (h *WaitingListHandler) record(r *http.Request, operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(apperrors.TypeOf(err))
		if outcome == "" {
			outcome = string(apperrors.ErrorTypeInternal)
		}
	}
	observability.RecordWaitingListOperation(r.Context(), h.metrics, operation, outcome)
}

// ListEntries handles GET /api/restaurants/{restaurantId}/waiting-list
func (h *WaitingListHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	entries := engine.Entries()

	var numbers map[string]int
	if l := loaders.FromContext(r.Context()); l != nil {
		var tableIDs []string
		for _, e := range entries {
			if e.TableID != nil && *e.TableID != "" {
				tableIDs = append(tableIDs, *e.TableID)
			}
		}
		if len(tableIDs) > 0 {
			numbers = l.TableNumbers(r.Context(), tableIDs)
		}
	}

	out := make([]waitingEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := waitingEntryResponse{WaitingEntry: e}
		if e.TableID != nil {
			if n, ok := numbers[*e.TableID]; ok {
				resp.TableNumber = &n
			}
		}
		out = append(out, resp)
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"entries": out,
		"count":   len(out),
		"stats":   engine.Stats(),
	})
}

// GetStats handles GET /api/restaurants/{restaurantId}/waiting-list/stats
func (h *WaitingListHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, engine.Stats())
}

// AddEntry handles POST /api/restaurants/{restaurantId}/waiting-list
func (h *WaitingListHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var draft entities.WaitingEntryDraft
	if err := decodeJSON(r, &draft); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if !h.validate(w, r, "add", "could not add customer to queue", draft.Validate()) {
		return
	}

	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	entry, err := engine.AddEntry(r.Context(), draft)
	h.record(r, "add", err)
	if err != nil {
		respondWithAppError(w, err, "could not add customer to queue")
		return
	}
	respondWithJSON(w, http.StatusCreated, entry)
}

// UpdateEntry handles PATCH /api/restaurants/{restaurantId}/waiting-list/{id}
func (h *WaitingListHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var patch entities.WaitingEntryPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if !h.validate(w, r, "update", "could not update queue entry", patch.Validate()) {
		return
	}

	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	entry, err := engine.UpdateEntry(r.Context(), r.PathValue("id"), patch)
	h.record(r, "update", err)
	if err != nil {
		respondWithAppError(w, err, "could not update queue entry")
		return
	}
	respondWithJSON(w, http.StatusOK, entry)
}

// RemoveEntry handles DELETE /api/restaurants/{restaurantId}/waiting-list/{id}
func (h *WaitingListHandler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	err := engine.RemoveEntry(r.Context(), r.PathValue("id"))
	h.record(r, "remove", err)
	if err != nil {
		respondWithAppError(w, err, "could not remove customer from queue")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// NotifyCustomer handles POST /api/restaurants/{restaurantId}/waiting-list/{id}/notify
func (h *WaitingListHandler) NotifyCustomer(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	entry, err := engine.NotifyCustomer(r.Context(), r.PathValue("id"))
	h.record(r, "notify", err)
	if err != nil {
		respondWithAppError(w, err, "could not notify customer")
		return
	}
	respondWithJSON(w, http.StatusOK, entry)
}

// SeatCustomer handles POST /api/restaurants/{restaurantId}/waiting-list/{id}/seat
func (h *WaitingListHandler) SeatCustomer(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	var req seatRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
	}

	entry, err := engine.MarkAsSeated(r.Context(), r.PathValue("id"), req.TableID)
	h.record(r, "seat", err)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypePartialFailure) && entry != nil {
			respondWithJSON(w, http.StatusMultiStatus, map[string]any{
				"entry":   entry,
				"warning": "customer seated but table status could not be updated",
			})
			return
		}
		respondWithAppError(w, err, "could not seat customer")
		return
	}
	respondWithJSON(w, http.StatusOK, entry)
}

// MarkNoShow handles POST /api/restaurants/{restaurantId}/waiting-list/{id}/no-show
func (h *WaitingListHandler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	entry, err := engine.MarkAsNoShow(r.Context(), r.PathValue("id"))
	h.record(r, "no_show", err)
	if err != nil {
		respondWithAppError(w, err, "could not mark customer as no-show")
		return
	}
	respondWithJSON(w, http.StatusOK, entry)
}

// MoveUp handles POST /api/restaurants/{restaurantId}/waiting-list/{id}/move-up
func (h *WaitingListHandler) MoveUp(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, WaitingListEngine.MoveEntryUp, "move_up")
}

// MoveDown handles POST /api/restaurants/{restaurantId}/waiting-list/{id}/move-down
func (h *WaitingListHandler) MoveDown(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, WaitingListEngine.MoveEntryDown, "move_down")
}

func (h *WaitingListHandler) move(w http.ResponseWriter, r *http.Request, op func(WaitingListEngine, context.Context, string) error, name string) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	err := op(engine, r.Context(), r.PathValue("id"))
	h.record(r, name, err)
	if err != nil {
		respondWithAppError(w, err, "could not reorder queue")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"entries": engine.Entries(),
	})
}

// Refresh handles POST /api/restaurants/{restaurantId}/waiting-list/refresh
func (h *WaitingListHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engine(w, r)
	if !ok {
		return
	}

	err := engine.Refresh(r.Context())
	h.record(r, "refresh", err)
	if err != nil {
		respondWithAppError(w, err, "could not reload waiting list")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"entries": engine.Entries(),
		"stats":   engine.Stats(),
	})
}
