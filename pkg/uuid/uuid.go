// Copyright (c) 2026 ContactFlow. All rights reserved.

/*
Package uuid provides time-ordered unique identifiers for the platform.

It wraps the standard UUID library to specifically generate Version 7 values,
which are naturally ordered by creation time and keep PostgreSQL B-tree
indexes compact.

This is the mandatory ID type for all primary keys in ContactFlow.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}
