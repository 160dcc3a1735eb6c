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

var tableColumns = []interface{}{
	"id", "area_id", "number", "name", "capacity", "shape", "width", "height",
	"position_x", "position_y", "status", "is_active", "created_at", "updated_at",
}

// TableAdapter implements the TableRepository interface
type TableAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewTableAdapter creates a new table adapter
func NewTableAdapter(client *postgres.Client) repositories.TableRepository {
	return &TableAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func scanTable(row rowScanner) (*entities.Table, error) {
	table := &entities.Table{}
	var name sql.NullString
	var shape, status string

	err := row.Scan(
		&table.ID,
		&table.AreaID,
		&table.Number,
		&name,
		&table.Capacity,
		&shape,
		&table.Width,
		&table.Height,
		&table.PositionX,
		&table.PositionY,
		&status,
		&table.IsActive,
		&table.CreatedAt,
		&table.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	table.Name = stringFromNull(name)
	table.Shape = entities.TableShape(shape)
	table.Status = entities.TableStatus(status)
	return table, nil
}

// Create creates a new table
func (a *TableAdapter) Create(ctx context.Context, table *entities.Table) error {
	if table.ID == "" {
		table.ID = uuid.New().String()
	}

	record := goqu.Record{
		"id":         table.ID,
		"area_id":    table.AreaID,
		"number":     table.Number,
		"name":       nullString(table.Name),
		"capacity":   table.Capacity,
		"shape":      string(table.Shape),
		"width":      table.Width,
		"height":     table.Height,
		"position_x": table.PositionX,
		"position_y": table.PositionY,
		"status":     string(table.Status),
		"is_active":  table.IsActive,
		"created_at": goqu.L("NOW()"),
		"updated_at": goqu.L("NOW()"),
	}

	query, args, err := a.db.Insert("tables").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return classifyWriteError(err, "failed to create table")
	}

	return nil
}

// GetByID retrieves a table by ID
func (a *TableAdapter) GetByID(ctx context.Context, id string) (*entities.Table, error) {
	query, args, err := a.db.From("tables").
		Select(tableColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	table, err := scanTable(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("table with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to get table", err)
	}

	return table, nil
}

// GetByIDs retrieves several tables in a single query
func (a *TableAdapter) GetByIDs(ctx context.Context, ids []string) (map[string]*entities.Table, error) {
	result := make(map[string]*entities.Table, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := a.db.From("tables").
		Select(tableColumns...).
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to get tables", err)
	}
	defer rows.Close()

	for rows.Next() {
		table, err := scanTable(rows)
		if err != nil {
			return nil, apperrors.NewPersistenceError("failed to scan table", err)
		}
		result[table.ID] = table
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("failed to iterate tables", err)
	}

	return result, nil
}

// ListByArea retrieves the active tables of an area ordered by number
func (a *TableAdapter) ListByArea(ctx context.Context, areaID string) ([]*entities.Table, error) {
	query, args, err := a.db.From("tables").
		Select(tableColumns...).
		Where(goqu.Ex{"area_id": areaID, "is_active": true}).
		Order(goqu.I("number").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewPersistenceError("failed to list tables", err)
	}
	defer rows.Close()

	tables := make([]*entities.Table, 0)
	for rows.Next() {
		table, err := scanTable(rows)
		if err != nil {
			return nil, apperrors.NewPersistenceError("failed to scan table", err)
		}
		tables = append(tables, table)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("failed to iterate tables", err)
	}

	return tables, nil
}

// UpdatePosition persists a table's logical canvas position
func (a *TableAdapter) UpdatePosition(ctx context.Context, id string, x, y float64) (*entities.Table, error) {
	return a.updateReturning(ctx, id, goqu.Record{
		"position_x": x,
		"position_y": y,
		"updated_at": goqu.L("NOW()"),
	}, "failed to update table position")
}

// UpdateStatus persists a table's occupancy status
func (a *TableAdapter) UpdateStatus(ctx context.Context, id string, status entities.TableStatus) (*entities.Table, error) {
	return a.updateReturning(ctx, id, goqu.Record{
		"status":     string(status),
		"updated_at": goqu.L("NOW()"),
	}, "failed to update table status")
}

func (a *TableAdapter) updateReturning(ctx context.Context, id string, record goqu.Record, message string) (*entities.Table, error) {
	query, args, err := a.db.Update("tables").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Returning(tableColumns...).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build update query", err)
	}

	table, err := scanTable(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, classifyWriteError(err, message)
	}

	return table, nil
}
