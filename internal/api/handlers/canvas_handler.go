package handlers

import (
	"net/http"

	"github.com/guiomkt/cheff-guio-sub000/internal/application/canvas"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
	"github.com/guiomkt/cheff-guio-sub000/internal/infrastructure/observability"
	apperrors "github.com/guiomkt/cheff-guio-sub000/pkg/errors"
)

// CanvasHandler drives floor-plan canvas sessions
type CanvasHandler struct {
	sessions      *canvas.SessionStore
	store         canvas.PositionStore
	metrics       *observability.Metrics
	defaultWidth  float64
	defaultHeight float64
}

// NewCanvasHandler creates a new canvas handler
func NewCanvasHandler(sessions *canvas.SessionStore, store canvas.PositionStore, metrics *observability.Metrics, defaultWidth, defaultHeight float64) *CanvasHandler {
	return &CanvasHandler{
		sessions:      sessions,
		store:         store,
		metrics:       metrics,
		defaultWidth:  defaultWidth,
		defaultHeight: defaultHeight,
	}
}

type createCanvasRequest struct {
	Width    float64      `json:"width,omitempty"`
	Height   float64      `json:"height,omitempty"`
	EditMode bool         `json:"edit_mode,omitempty"`
	Origin   canvas.Point `json:"origin"`
}

// gestureRequest carries the fields any canvas action may use
type gestureRequest struct {
	Pointer      canvas.Point `json:"pointer"`
	TableID      string       `json:"table_id,omitempty"`
	TableTopLeft canvas.Point `json:"table_top_left"`
	Enabled      bool         `json:"enabled,omitempty"`
}

type canvasResponse struct {
	SessionID string            `json:"session_id"`
	View      canvas.View       `json:"view"`
	Tables    []*entities.Table `json:"tables"`
	Error     string            `json:"error,omitempty"`
}

func snapshot(session *canvas.Session) canvasResponse {
	return canvasResponse{
		SessionID: session.ID,
		View:      session.Engine.View(),
		Tables:    session.Engine.Tables(),
	}
}

// CreateSession handles POST /api/areas/{areaId}/canvas
func (h *CanvasHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	areaID := r.PathValue("areaId")
	if areaID == "" {
		respondWithError(w, http.StatusBadRequest, "area ID is required")
		return
	}

	req := createCanvasRequest{Width: h.defaultWidth, Height: h.defaultHeight}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
	}
	if req.Width <= 0 {
		req.Width = h.defaultWidth
	}
	if req.Height <= 0 {
		req.Height = h.defaultHeight
	}

	engine := canvas.NewEngine(areaID, h.store, req.Width, req.Height)
	engine.SetOrigin(req.Origin)
	engine.SetEditMode(req.EditMode)
	if err := engine.Load(r.Context()); err != nil {
		respondWithAppError(w, err, "could not open floor plan")
		return
	}

	session := h.sessions.Create(engine)
	observability.RecordCanvasSessions(r.Context(), h.metrics, 1)
	respondWithJSON(w, http.StatusCreated, snapshot(session))
}

// GetSession handles GET /api/canvas/{sessionId}
func (h *CanvasHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(r.PathValue("sessionId"))
	if err != nil {
		respondWithAppError(w, err, "could not open canvas")
		return
	}
	respondWithJSON(w, http.StatusOK, snapshot(session))
}

// DeleteSession handles DELETE /api/canvas/{sessionId}
func (h *CanvasHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.PathValue("sessionId")); err != nil {
		respondWithAppError(w, err, "could not close canvas")
		return
	}
	observability.RecordCanvasSessions(r.Context(), h.metrics, -1)
	w.WriteHeader(http.StatusNoContent)
}

// Gesture handles POST /api/canvas/{sessionId}/{action}
func (h *CanvasHandler) Gesture(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(r.PathValue("sessionId"))
	if err != nil {
		respondWithAppError(w, err, "could not open canvas")
		return
	}

	var req gestureRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
	}

	engine := session.Engine
	resp := canvasResponse{SessionID: session.ID}
	status := http.StatusOK

	switch action := r.PathValue("action"); action {
	case "press-table":
		if err := engine.PressTable(req.TableID, req.Pointer, req.TableTopLeft); err != nil {
			respondWithAppError(w, err, "could not select table")
			return
		}
	case "press-background":
		engine.PressBackground(req.Pointer)
	case "move":
		engine.Move(req.Pointer)
	case "release":
		dragging := engine.View().State == canvas.StateDragging
		_, err := engine.Release(r.Context(), req.Pointer)
		if dragging {
			observability.RecordTableMove(r.Context(), h.metrics, err == nil)
		}
		if err != nil {
			if !apperrors.IsType(err, apperrors.ErrorTypePersistence) {
				respondWithAppError(w, err, "could not move table")
				return
			}
			// the body still carries the reverted positions
			status = statusForError(err)
			resp.Error = "could not save table position; the table was moved back"
		}
	case "click-background":
		engine.ClickBackground()
	case "zoom-in":
		engine.ZoomIn()
	case "zoom-out":
		engine.ZoomOut()
	case "reset":
		engine.ResetView()
	case "edit-mode":
		engine.SetEditMode(req.Enabled)
	case "reload":
		if err := engine.Load(r.Context()); err != nil {
			respondWithAppError(w, err, "could not reload floor plan")
			return
		}
	default:
		respondWithError(w, http.StatusNotFound, "unknown canvas action "+action)
		return
	}

	resp.View = engine.View()
	resp.Tables = engine.Tables()
	respondWithJSON(w, status, resp)
}
