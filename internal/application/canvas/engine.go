package canvas

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
	apperrors "github.com/guiomkt/cheff-guio-sub000/pkg/errors"
)

// PositionStore loads and persists table positions for one area
type PositionStore interface {
	ListByArea(ctx context.Context, areaID string) ([]*entities.Table, error)
	UpdatePosition(ctx context.Context, tableID string, x, y float64) (*entities.Table, error)
}

// GestureState is the pointer gesture in progress
type GestureState string

const (
	StateIdle     GestureState = "idle"
	StatePanning  GestureState = "panning"
	StateDragging GestureState = "dragging"
)

// View is a snapshot of the viewport and gesture state
type View struct {
	AreaID          string       `json:"area_id"`
	Width           float64      `json:"width"`
	Height          float64      `json:"height"`
	Scale           float64      `json:"scale"`
	Pan             Point        `json:"pan"`
	State           GestureState `json:"state"`
	DraggingTableID string       `json:"dragging_table_id,omitempty"`
	SelectedTableID string       `json:"selected_table_id,omitempty"`
	EditMode        bool         `json:"edit_mode"`
}

// Engine turns pointer gestures on an area's floor plan into table moves,
// pans and zooms. Only the end of a drag touches the store; everything else
// is local view state.
type Engine struct {
	mu     sync.Mutex
	areaID string
	store  PositionStore

	width  float64
	height float64
	origin Point
	scale  float64
	pan    Point

	state       GestureState
	dragTableID string
	pressOffset Point
	lastPointer Point
	selected    string
	editMode    bool

	order     []string
	tables    map[string]*entities.Table
	persisted map[string]Point
}

// NewEngine creates an idle engine at 1:1 zoom for a canvas of the given size
func NewEngine(areaID string, store PositionStore, width, height float64) *Engine {
	return &Engine{
		areaID:    areaID,
		store:     store,
		width:     width,
		height:    height,
		scale:     1,
		state:     StateIdle,
		tables:    make(map[string]*entities.Table),
		persisted: make(map[string]Point),
	}
}

// AreaID returns the area this engine edits
func (e *Engine) AreaID() string {
	return e.areaID
}

// SetOrigin records the canvas top-left in client coordinates
func (e *Engine) SetOrigin(origin Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.origin = origin
}

// Load replaces the local tables with the stored ones. Any drag in progress
// is abandoned.
func (e *Engine) Load(ctx context.Context) error {
	tables, err := e.store.ListByArea(ctx, e.areaID)
	if err != nil {
		return apperrors.NewPersistenceError("failed to load tables", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.order = e.order[:0]
	e.tables = make(map[string]*entities.Table, len(tables))
	e.persisted = make(map[string]Point, len(tables))
	for _, t := range tables {
		e.order = append(e.order, t.ID)
		e.tables[t.ID] = cloneTable(t)
		e.persisted[t.ID] = Point{X: t.PositionX, Y: t.PositionY}
	}
	if e.state == StateDragging {
		e.state = StateIdle
		e.dragTableID = ""
	}
	if _, ok := e.tables[e.selected]; !ok {
		e.selected = ""
	}
	return nil
}

// PressTable starts a gesture on a table. Outside edit mode it only selects
// the table; in edit mode it also starts dragging it. tableTopLeft is the
// table's on-screen corner in client coordinates.
func (e *Engine) PressTable(tableID string, pointer, tableTopLeft Point) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.tables[tableID]; !ok {
		return apperrors.NewNotFoundError("table not found on this canvas")
	}
	if e.state != StateIdle {
		return nil
	}

	e.selected = tableID
	if !e.editMode {
		return nil
	}
	e.pressOffset = pointer.Sub(tableTopLeft)
	e.dragTableID = tableID
	e.state = StateDragging
	return nil
}

// PressBackground starts panning. Allowed in both modes.
func (e *Engine) PressBackground(pointer Point) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateIdle {
		return
	}
	e.state = StatePanning
	e.lastPointer = pointer
}

// Move follows the pointer. While dragging only the local position changes.
func (e *Engine) Move(pointer Point) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateDragging:
		p := e.logical(pointer)
		t := e.tables[e.dragTableID]
		t.PositionX, t.PositionY = p.X, p.Y
	case StatePanning:
		e.pan = e.pan.Add(pointer.Sub(e.lastPointer))
		e.lastPointer = pointer
	}
}

// Release ends the current gesture. A drag is clamped and persisted; if the
// store rejects it the table snaps back to its last stored position and a
// PERSISTENCE error is returned. The returned table is nil unless a drag ended.
func (e *Engine) Release(ctx context.Context, pointer Point) (*entities.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StatePanning {
		e.pan = e.pan.Add(pointer.Sub(e.lastPointer))
		e.state = StateIdle
		return nil, nil
	}
	if e.state != StateDragging {
		return nil, nil
	}

	tableID := e.dragTableID
	e.state = StateIdle
	e.dragTableID = ""

	target := ClampPosition(e.logical(pointer), e.width, e.height)
	t := e.tables[tableID]

	saved, err := e.store.UpdatePosition(ctx, tableID, target.X, target.Y)
	if err != nil {
		last := e.persisted[tableID]
		t.PositionX, t.PositionY = last.X, last.Y
		log.Warn().Err(err).Str("table_id", tableID).Msg("Table move reverted")
		if apperrors.IsType(err, apperrors.ErrorTypePersistence) {
			return nil, err
		}
		return nil, apperrors.NewPersistenceError("failed to save table position", err)
	}

	t.PositionX, t.PositionY = saved.PositionX, saved.PositionY
	t.UpdatedAt = saved.UpdatedAt
	e.persisted[tableID] = Point{X: saved.PositionX, Y: saved.PositionY}
	return cloneTable(t), nil
}

// ClickBackground clears the selection unless a pan is in progress
func (e *Engine) ClickBackground() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StatePanning {
		return
	}
	e.selected = ""
}

// ZoomIn increases the scale by one step and returns it
func (e *Engine) ZoomIn() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scale = ZoomIn(e.scale)
	return e.scale
}

// ZoomOut decreases the scale by one step and returns it
func (e *Engine) ZoomOut() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scale = ZoomOut(e.scale)
	return e.scale
}

// ResetView restores 1:1 zoom with no pan
func (e *Engine) ResetView() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scale = 1
	e.pan = Point{}
}

// SetEditMode toggles table dragging. Leaving edit mode mid-drag puts the
// table back where it is stored.
func (e *Engine) SetEditMode(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.editMode = enabled
	if !enabled && e.state == StateDragging {
		last := e.persisted[e.dragTableID]
		t := e.tables[e.dragTableID]
		t.PositionX, t.PositionY = last.X, last.Y
		e.state = StateIdle
		e.dragTableID = ""
	}
}

// Tables returns copies of the tables with their current visual positions
func (e *Engine) Tables() []*entities.Table {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*entities.Table, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, cloneTable(e.tables[id]))
	}
	return out
}

// View returns the current viewport
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	return View{
		AreaID:          e.areaID,
		Width:           e.width,
		Height:          e.height,
		Scale:           e.scale,
		Pan:             e.pan,
		State:           e.state,
		DraggingTableID: e.dragTableID,
		SelectedTableID: e.selected,
		EditMode:        e.editMode,
	}
}

// logical maps a pointer to floor-plan space. The pan shifts the canvas
// origin on screen.
func (e *Engine) logical(pointer Point) Point {
	return ToLogical(pointer, e.origin.Add(e.pan), e.pressOffset, e.scale)
}

func cloneTable(t *entities.Table) *entities.Table {
	c := *t
	if t.Name != nil {
		name := *t.Name
		c.Name = &name
	}
	return &c
}
