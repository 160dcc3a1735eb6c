package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	apperrors "github.com/guiomkt/cheff-guio-sub000/pkg/errors"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint violation
const uniqueViolation = "23505"

// classifyWriteError maps driver errors onto the application's error types
func classifyWriteError(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFoundError(message + ": not found")
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperrors.NewConflictError(message+": duplicate key", err)
	}

	return apperrors.NewPersistenceError(message, err)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func stringFromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func intFromNull(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func timeFromNull(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	v := nt.Time
	return &v
}
