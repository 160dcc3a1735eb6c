package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
	apperrors "github.com/guiomkt/cheff-guio-sub000/pkg/errors"
)

var tableRowColumns = []string{
	"id", "area_id", "number", "name", "capacity", "shape", "width", "height",
	"position_x", "position_y", "status", "is_active", "created_at", "updated_at",
}

func TestTableAdapter_ListByArea(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewTableAdapter(client)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM "tables" WHERE \(\("area_id" = 'a-1'\) AND \("is_active" IS TRUE\)\) ORDER BY "number" ASC`).
		WillReturnRows(sqlmock.NewRows(tableRowColumns).
			AddRow("t-1", "a-1", 1, nil, 4, "square", 80.0, 80.0, 10.0, 10.0, "available", true, now, now).
			AddRow("t-2", "a-1", 2, "Janela", 2, "round", 60.0, 60.0, 150.0, 40.0, "occupied", true, now, now))

	tables, err := adapter.ListByArea(context.Background(), "a-1")
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Nil(t, tables[0].Name)
	assert.Equal(t, "Janela", *tables[1].Name)
	assert.Equal(t, entities.TableShapeRound, tables[1].Shape)
	assert.Equal(t, entities.TableStatusOccupied, tables[1].Status)
	assert.Equal(t, 150.0, tables[1].PositionX)
}

func TestTableAdapter_UpdatePosition(t *testing.T) {
	now := time.Now()

	t.Run("returns persisted position", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := NewTableAdapter(client)

		mock.ExpectQuery(`UPDATE "tables" SET "position_x"=120,"position_y"=45(.*)WHERE \("id" = 't-1'\) RETURNING`).
			WillReturnRows(sqlmock.NewRows(tableRowColumns).
				AddRow("t-1", "a-1", 1, nil, 4, "square", 80.0, 80.0, 120.0, 45.0, "available", true, now, now))

		table, err := adapter.UpdatePosition(context.Background(), "t-1", 120, 45)
		require.NoError(t, err)
		assert.Equal(t, 120.0, table.PositionX)
		assert.Equal(t, 45.0, table.PositionY)
	})

	t.Run("unknown table", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := NewTableAdapter(client)

		mock.ExpectQuery(`UPDATE "tables"`).WillReturnRows(sqlmock.NewRows(tableRowColumns))

		_, err := adapter.UpdatePosition(context.Background(), "missing", 10, 10)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestTableAdapter_GetByIDs(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewTableAdapter(client)
	now := time.Now()

	got, err := adapter.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	mock.ExpectQuery(`SELECT (.+) FROM "tables" WHERE \("id" IN \('t-1', 't-2'\)\)`).
		WillReturnRows(sqlmock.NewRows(tableRowColumns).
			AddRow("t-2", "a-1", 2, nil, 2, "round", 60.0, 60.0, 10.0, 10.0, "available", true, now, now))

	got, err = adapter.GetByIDs(context.Background(), []string{"t-1", "t-2"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 2, got["t-2"].Number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAreaAdapter_GetByID_NotFound(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := NewAreaAdapter(client)

	mock.ExpectQuery(`SELECT (.+) FROM "areas" WHERE \("id" = 'a-404'\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := adapter.GetByID(context.Background(), "a-404")
	assert.True(t, apperrors.IsNotFound(err))
}
