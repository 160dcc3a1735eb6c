package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/providers"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/repositories"
	apperrors "github.com/guiomkt/cheff-guio-sub000/pkg/errors"
)

// TableService handles floor-plan table operations and announces changes
type TableService struct {
	tables   repositories.TableRepository
	areas    repositories.AreaRepository
	eventBus providers.EventBus
}

var _ TableStatusUpdater = (*TableService)(nil)

// NewTableService creates a new table service. eventBus may be nil.
func NewTableService(tables repositories.TableRepository, areas repositories.AreaRepository, eventBus providers.EventBus) *TableService {
	return &TableService{
		tables:   tables,
		areas:    areas,
		eventBus: eventBus,
	}
}

// ListAreas returns the active areas of a restaurant
func (s *TableService) ListAreas(ctx context.Context, restaurantID string) ([]*entities.Area, error) {
	return s.areas.ListByRestaurant(ctx, restaurantID)
}

// GetArea returns an area by ID
func (s *TableService) GetArea(ctx context.Context, areaID string) (*entities.Area, error) {
	return s.areas.GetByID(ctx, areaID)
}

// ListByArea returns the active tables of an area
func (s *TableService) ListByArea(ctx context.Context, areaID string) ([]*entities.Table, error) {
	return s.tables.ListByArea(ctx, areaID)
}

// GetByIDs returns tables keyed by ID
func (s *TableService) GetByIDs(ctx context.Context, ids []string) (map[string]*entities.Table, error) {
	return s.tables.GetByIDs(ctx, ids)
}

// UpdatePosition persists a table's logical position. Callers clamp first.
func (s *TableService) UpdatePosition(ctx context.Context, tableID string, x, y float64) (*entities.Table, error) {
	table, err := s.tables.UpdatePosition(ctx, tableID, x, y)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, entities.QueueEventTableMoved, table)
	return table, nil
}

// SetStatus changes a table's service status
func (s *TableService) SetStatus(ctx context.Context, tableID string, status entities.TableStatus) (*entities.Table, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid table status %q", status))
	}

	table, err := s.tables.UpdateStatus(ctx, tableID, status)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, entities.QueueEventTableStatusChanged, table)
	return table, nil
}

func (s *TableService) publish(ctx context.Context, eventType entities.QueueEventType, table *entities.Table) {
	if s.eventBus == nil {
		return
	}
	channel := providers.GetAreaChannel(table.AreaID)
	if err := s.eventBus.Publish(ctx, channel, entities.NewTableEvent(eventType, table)); err != nil {
		log.Warn().Err(err).Str("table_id", table.ID).Str("event_type", string(eventType)).Msg("Failed to publish table event")
	}
}
