package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/guiomkt/cheff-guio-sub000/pkg/config"
	"github.com/guiomkt/cheff-guio-sub000/pkg/retry"
)

const (
	connMaxLifetime = 5 * time.Minute
	probeTimeout    = 5 * time.Second
)

// Client owns the database/sql pool behind every repository adapter
type Client struct {
	db *sql.DB
}

// NewClient opens the pool and waits for the server to answer. With
// MigrateOnStart set it also applies pending migrations before returning.
func NewClient(ctx context.Context, cfg *config.DatabaseConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	c := &Client{db: db}
	if err := retry.Probe(ctx, retry.DefaultConfig(), "PostgreSQL", probeTimeout, c.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to postgres at %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	log.Info().Str("host", cfg.Host).Str("database", cfg.Database).Msg("Connected to PostgreSQL")

	if cfg.MigrateOnStart {
		if err := RunMigrations(db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return c, nil
}

// NewClientFromDB wraps a pool opened elsewhere, such as a sqlmock connection
func NewClientFromDB(db *sql.DB) *Client {
	return &Client{db: db}
}

func (c *Client) DB() *sql.DB {
	return c.db
}

func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *Client) Close() error {
	return c.db.Close()
}
