package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/guiomkt/cheff-guio-sub000/internal/application/canvas"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
)

// TableService defines the floor-plan operations the handler needs
type TableService interface {
	ListAreas(ctx context.Context, restaurantID string) ([]*entities.Area, error)
	ListByArea(ctx context.Context, areaID string) ([]*entities.Table, error)
	UpdatePosition(ctx context.Context, tableID string, x, y float64) (*entities.Table, error)
	SetStatus(ctx context.Context, tableID string, status entities.TableStatus) (*entities.Table, error)
}

// TableHandler handles area and table requests
type TableHandler struct {
	service       TableService
	defaultWidth  float64
	defaultHeight float64
}

// NewTableHandler creates a new table handler. The canvas size is used to
// clamp positions when a request does not name one.
func NewTableHandler(service TableService, defaultWidth, defaultHeight float64) *TableHandler {
	return &TableHandler{
		service:       service,
		defaultWidth:  defaultWidth,
		defaultHeight: defaultHeight,
	}
}

type positionRequest struct {
	PositionX    *float64 `json:"position_x"`
	PositionY    *float64 `json:"position_y"`
	CanvasWidth  float64  `json:"canvas_width,omitempty"`
	CanvasHeight float64  `json:"canvas_height,omitempty"`
}

type statusRequest struct {
	Status entities.TableStatus `json:"status"`
}

// ListAreas handles GET /api/restaurants/{restaurantId}/areas
func (h *TableHandler) ListAreas(w http.ResponseWriter, r *http.Request) {
	restaurantID := r.PathValue("restaurantId")
	if _, err := uuid.Parse(restaurantID); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid restaurant ID")
		return
	}

	areas, err := h.service.ListAreas(r.Context(), restaurantID)
	if err != nil {
		respondWithAppError(w, err, "could not load areas")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"areas": areas,
		"count": len(areas),
	})
}

// ListTables handles GET /api/areas/{areaId}/tables
func (h *TableHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	areaID := r.PathValue("areaId")
	if areaID == "" {
		respondWithError(w, http.StatusBadRequest, "area ID is required")
		return
	}

	tables, err := h.service.ListByArea(r.Context(), areaID)
	if err != nil {
		respondWithAppError(w, err, "could not load tables")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"tables": tables,
		"count":  len(tables),
	})
}

// UpdatePosition handles PATCH /api/tables/{id}/position
func (h *TableHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.PositionX == nil || req.PositionY == nil {
		respondWithError(w, http.StatusBadRequest, "position_x and position_y are required")
		return
	}

	width, height := h.defaultWidth, h.defaultHeight
	if req.CanvasWidth > 0 {
		width = req.CanvasWidth
	}
	if req.CanvasHeight > 0 {
		height = req.CanvasHeight
	}
	p := canvas.ClampPosition(canvas.Point{X: *req.PositionX, Y: *req.PositionY}, width, height)

	table, err := h.service.UpdatePosition(r.Context(), r.PathValue("id"), p.X, p.Y)
	if err != nil {
		respondWithAppError(w, err, "could not move table")
		return
	}
	respondWithJSON(w, http.StatusOK, table)
}

// UpdateStatus handles PATCH /api/tables/{id}/status
func (h *TableHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	table, err := h.service.SetStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		respondWithAppError(w, err, "could not change table status")
		return
	}
	respondWithJSON(w, http.StatusOK, table)
}
