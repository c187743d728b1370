// Copyright (c) 2026 ContactFlow. All rights reserved.

package settings

import "context"

// # Singleton Data Access

// Store defines the persistent storage contract for the settings singleton.
type Store interface {

	// Get returns the settings row with the given id, or apperr.NotFound.
	Get(ctx context.Context, id string) (*Settings, error)

	// CreateIfAbsent inserts the record only when no row with its id
	// exists yet. It must be idempotent under concurrent first readers:
	// two racing calls may both return nil, but exactly one row results.
	CreateIfAbsent(ctx context.Context, record *Settings) error

	// Update overwrites the mutable fields of an existing row.
	Update(ctx context.Context, record *Settings) error
}

// Cache defines the volatile read-through copy of the singleton.
//
// Cache failures are advisory: callers log and fall through to the Store.
type Cache interface {

	// Get returns the cached settings, or apperr.NotFound on a miss.
	Get(ctx context.Context) (*Settings, error)

	// Set stores the settings with a short TTL.
	Set(ctx context.Context, record *Settings) error

	// Invalidate drops the cached copy after an update.
	Invalidate(ctx context.Context) error
}
