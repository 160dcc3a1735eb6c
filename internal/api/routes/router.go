package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/guiomkt/cheff-guio-sub000/internal/api/handlers"
	"github.com/guiomkt/cheff-guio-sub000/internal/api/loaders"
	"github.com/guiomkt/cheff-guio-sub000/internal/api/middleware"
	"github.com/guiomkt/cheff-guio-sub000/internal/infrastructure/observability"
)

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	waitingListHandler *handlers.WaitingListHandler
	tableHandler       *handlers.TableHandler
	canvasHandler      *handlers.CanvasHandler

	tableLookup    loaders.TableLookup
	allowedOrigins []string
	metrics        *observability.Metrics
	healthChecks   map[string]HealthCheck
}

// NewRouter creates a new router
func NewRouter(
	waitingListHandler *handlers.WaitingListHandler,
	tableHandler *handlers.TableHandler,
	canvasHandler *handlers.CanvasHandler,
	tableLookup loaders.TableLookup,
	allowedOrigins []string,
	metrics *observability.Metrics,
	healthChecks map[string]HealthCheck,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		waitingListHandler: waitingListHandler,
		tableHandler:       tableHandler,
		canvasHandler:      canvasHandler,
		tableLookup:        tableLookup,
		allowedOrigins:     allowedOrigins,
		metrics:            metrics,
		healthChecks:       healthChecks,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.health)

	// Waiting list
	wl := r.waitingListHandler
	r.mux.HandleFunc("GET /api/restaurants/{restaurantId}/waiting-list", wl.ListEntries)
	r.mux.HandleFunc("GET /api/restaurants/{restaurantId}/waiting-list/stats", wl.GetStats)
	r.mux.HandleFunc("POST /api/restaurants/{restaurantId}/waiting-list", wl.AddEntry)
	r.mux.HandleFunc("POST /api/restaurants/{restaurantId}/waiting-list/refresh", wl.Refresh)
	r.mux.HandleFunc("PATCH /api/restaurants/{restaurantId}/waiting-list/{id}", wl.UpdateEntry)
	r.mux.HandleFunc("DELETE /api/restaurants/{restaurantId}/waiting-list/{id}", wl.RemoveEntry)
	r.mux.HandleFunc("POST /api/restaurants/{restaurantId}/waiting-list/{id}/notify", wl.NotifyCustomer)
	r.mux.HandleFunc("POST /api/restaurants/{restaurantId}/waiting-list/{id}/seat", wl.SeatCustomer)
	r.mux.HandleFunc("POST /api/restaurants/{restaurantId}/waiting-list/{id}/no-show", wl.MarkNoShow)
	r.mux.HandleFunc("POST /api/restaurants/{restaurantId}/waiting-list/{id}/move-up", wl.MoveUp)
	r.mux.HandleFunc("POST /api/restaurants/{restaurantId}/waiting-list/{id}/move-down", wl.MoveDown)

	// Floor plan
	r.mux.HandleFunc("GET /api/restaurants/{restaurantId}/areas", r.tableHandler.ListAreas)
	r.mux.HandleFunc("GET /api/areas/{areaId}/tables", r.tableHandler.ListTables)
	r.mux.HandleFunc("PATCH /api/tables/{id}/position", r.tableHandler.UpdatePosition)
	r.mux.HandleFunc("PATCH /api/tables/{id}/status", r.tableHandler.UpdateStatus)

	// Canvas sessions
	r.mux.HandleFunc("POST /api/areas/{areaId}/canvas", r.canvasHandler.CreateSession)
	r.mux.HandleFunc("GET /api/canvas/{sessionId}", r.canvasHandler.GetSession)
	r.mux.HandleFunc("DELETE /api/canvas/{sessionId}", r.canvasHandler.DeleteSession)
	r.mux.HandleFunc("POST /api/canvas/{sessionId}/{action}", r.canvasHandler.Gesture)

	// outermost first
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = loaders.Middleware(r.tableLookup)(handler)
	handler = middleware.NoStore(handler)
	handler = middleware.Compression(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}

func (r *Router) health(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(r.healthChecks))
	for name, check := range r.healthChecks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": http.StatusText(status),
		"checks": checks,
	})
}
