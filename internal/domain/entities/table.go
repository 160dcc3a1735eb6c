package entities

import "time"

// TableShape is the drawn outline of a table on the floor plan
type TableShape string

const (
	TableShapeRound     TableShape = "round"
	TableShapeSquare    TableShape = "square"
	TableShapeRectangle TableShape = "rectangle"
)

// Valid reports whether s is a known shape
func (s TableShape) Valid() bool {
	return s == TableShapeRound || s == TableShapeSquare || s == TableShapeRectangle
}

// TableStatus is the service state of a table
type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
	TableStatusReserved  TableStatus = "reserved"
	TableStatusBlocked   TableStatus = "blocked"
)

// Valid reports whether s is a known table status
func (s TableStatus) Valid() bool {
	switch s {
	case TableStatusAvailable, TableStatusOccupied, TableStatusReserved, TableStatusBlocked:
		return true
	}
	return false
}

// Table is a table placed on an area's floor plan. PositionX/PositionY are the
// top-left corner in floor-plan units.
type Table struct {
	ID        string      `json:"id" db:"id"`
	AreaID    string      `json:"area_id" db:"area_id"`
	Number    int         `json:"number" db:"number"`
	Name      *string     `json:"name,omitempty" db:"name"`
	Capacity  int         `json:"capacity" db:"capacity"`
	Shape     TableShape  `json:"shape" db:"shape"`
	Width     float64     `json:"width" db:"width"`
	Height    float64     `json:"height" db:"height"`
	PositionX float64     `json:"position_x" db:"position_x"`
	PositionY float64     `json:"position_y" db:"position_y"`
	Status    TableStatus `json:"status" db:"status"`
	IsActive  bool        `json:"is_active" db:"is_active"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// Area is a named zone of the floor plan
type Area struct {
	ID           string    `json:"id" db:"id"`
	RestaurantID string    `json:"restaurant_id" db:"restaurant_id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description,omitempty" db:"description"`
	MaxCapacity  int       `json:"max_capacity" db:"max_capacity"`
	OrderIndex   int       `json:"order_index" db:"order_index"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
