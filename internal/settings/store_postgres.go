// Copyright (c) 2026 ContactFlow. All rights reserved.

package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/apperr"
)

// PostgresStore implements the Store interface using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a new PostgreSQL implementation of the settings Store.
func NewStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

/*
Get retrieves the settings row by its well-known id.

Returns:
  - *Settings: Hydrated singleton
  - error: apperr.NotFound when absent, or database errors
*/
func (store *PostgresStore) Get(ctx context.Context, id string) (*Settings, error) {
	const query = `
		SELECT id, enabled, allowedranges, description, updatedat, updatedby
		FROM access.restriction_settings
		WHERE id = $1`

	record := &Settings{}
	err := store.pool.QueryRow(ctx, query, id).Scan(
		&record.ID,
		&record.Enabled,
		&record.AllowedRanges,
		&record.Description,
		&record.UpdatedAt,
		&record.UpdatedBy,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Restriction settings")
		}
		return nil, fmt.Errorf("postgres_settings_get_failed: %w", err)
	}

	return record, nil
}

/*
CreateIfAbsent inserts the singleton row unless it already exists.

Description: ON CONFLICT DO NOTHING makes the create-on-first-read race
harmless — concurrent first readers cannot corrupt the singleton, and the
loser of the race simply reads the winner's row back.
*/
func (store *PostgresStore) CreateIfAbsent(ctx context.Context, record *Settings) error {
	const query = `
		INSERT INTO access.restriction_settings (
			id, enabled, allowedranges, description, updatedat, updatedby
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`

	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now()
	}

	_, err := store.pool.Exec(ctx, query,
		record.ID,
		record.Enabled,
		record.AllowedRanges,
		record.Description,
		record.UpdatedAt,
		record.UpdatedBy,
	)

	if err != nil {
		return fmt.Errorf("postgres_settings_create_failed: %w", err)
	}

	return nil
}

/*
Update overwrites the mutable fields of the singleton row.
*/
func (store *PostgresStore) Update(ctx context.Context, record *Settings) error {
	const query = `
		UPDATE access.restriction_settings
		SET enabled = $2, allowedranges = $3, description = $4, updatedat = $5, updatedby = $6
		WHERE id = $1`

	tag, err := store.pool.Exec(ctx, query,
		record.ID,
		record.Enabled,
		record.AllowedRanges,
		record.Description,
		record.UpdatedAt,
		record.UpdatedBy,
	)

	if err != nil {
		return fmt.Errorf("postgres_settings_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Restriction settings")
	}

	return nil
}
