package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/repositories"
	"github.com/guiomkt/cheff-guio-sub000/internal/infrastructure/clients/postgres"
	apperrors "github.com/guiomkt/cheff-guio-sub000/pkg/errors"
)

var areaColumns = []interface{}{
	"id", "restaurant_id", "name", "description", "max_capacity",
	"order_index", "is_active", "created_at", "updated_at",
}

// AreaAdapter implements the AreaRepository interface
type AreaAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAreaAdapter creates a new area adapter
func NewAreaAdapter(client *postgres.Client) repositories.AreaRepository {
	return &AreaAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func scanArea(row rowScanner) (*entities.Area, error) {
	area := &entities.Area{}
	var description sql.NullString

	err := row.Scan(
		&area.ID,
		&area.RestaurantID,
		&area.Name,
		&description,
		&area.MaxCapacity,
		&area.OrderIndex,
		&area.IsActive,
		&area.CreatedAt,
		&area.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	area.Description = stringFromNull(description)
	return area, nil
}

// Create creates a new area
func (a *AreaAdapter) Create(ctx context.Context, area *entities.Area) error {
	if area.ID == "" {
		area.ID = uuid.New().String()
	}

	query, args, err := a.db.Insert("areas").Rows(goqu.Record{
		"id":            area.ID,
		"restaurant_id": area.RestaurantID,
		"name":          area.Name,
		"description":   nullString(area.Description),
		"max_capacity":  area.MaxCapacity,
		"order_index":   area.OrderIndex,
		"is_active":     area.IsActive,
		"created_at":    goqu.L("NOW()"),
		"updated_at":    goqu.L("NOW()"),
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return classifyWriteError(err, "failed to create area")
	}

	return nil
}

// GetByID retrieves an area by ID
func (a *AreaAdapter) GetByID(ctx context.Context, id string) (*entities.Area, error) {
	query, args, err := a.db.From("areas").
		Select(areaColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	area, err := scanArea(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("area with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to get area", err)
	}

	return area, nil
}

// ListByRestaurant retrieves the active areas of a restaurant
func (a *AreaAdapter) ListByRestaurant(ctx context.Context, restaurantID string) ([]*entities.Area, error) {
	query, args, err := a.db.From("areas").
		Select(areaColumns...).
		Where(goqu.Ex{"restaurant_id": restaurantID, "is_active": true}).
		Order(goqu.I("order_index").Asc(), goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to list areas", err)
	}
	defer rows.Close()

	areas := make([]*entities.Area, 0)
	for rows.Next() {
		area, err := scanArea(rows)
		if err != nil {
			return nil, apperrors.NewPersistenceError("failed to scan area", err)
		}
		areas = append(areas, area)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("failed to iterate areas", err)
	}

	return areas, nil
}
