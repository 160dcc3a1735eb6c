package repositories

import (
	"context"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
)

// TableRepository defines the interface for dining table data operations
type TableRepository interface {
	// Create creates a new table
	Create(ctx context.Context, table *entities.Table) error

	// GetByID retrieves a table by ID
	GetByID(ctx context.Context, id string) (*entities.Table, error)

	// GetByIDs retrieves several tables in a single query, keyed by ID
	GetByIDs(ctx context.Context, ids []string) (map[string]*entities.Table, error)

	// ListByArea retrieves the active tables of an area
	ListByArea(ctx context.Context, areaID string) ([]*entities.Table, error)

	// UpdatePosition persists a table's logical canvas position
	UpdatePosition(ctx context.Context, id string, x, y float64) (*entities.Table, error)

	// UpdateStatus persists a table's occupancy status
	UpdateStatus(ctx context.Context, id string, status entities.TableStatus) (*entities.Table, error)
}

// AreaRepository defines the interface for dining area data operations
type AreaRepository interface {
	// Create creates a new area
	Create(ctx context.Context, area *entities.Area) error

	// GetByID retrieves an area by ID
	GetByID(ctx context.Context, id string) (*entities.Area, error)

	// ListByRestaurant retrieves the active areas of a restaurant ordered by order_index
	ListByRestaurant(ctx context.Context, restaurantID string) ([]*entities.Area, error)
}
