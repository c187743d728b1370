// Copyright (c) 2026 ContactFlow. All rights reserved.

/*
Package settings owns the IP restriction settings singleton.

Exactly one settings record exists per deployment, keyed by a fixed
well-known id. It is lazily created with a hard-coded default on first
read and mutated only through Admin-gated updates.

Architecture:

  - Service: Load/Update orchestration with a read-through cache.
  - Store: Persistent singleton storage (PostgreSQL).
  - Cache: Volatile copy (Redis) because the access guard reads the
    settings on every protected request.

The service is an explicitly constructed instance injected into the access
resolver and route guard — never ambient module state.
*/
package settings

import (
	"time"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/constants"
)

// Settings is the IP restriction configuration singleton.
type Settings struct {
	ID            string    `json:"id"`
	Enabled       bool      `json:"enabled"`
	AllowedRanges []string  `json:"allowed_ranges"`
	Description   string    `json:"description"`
	UpdatedAt     time.Time `json:"updated_at"`
	UpdatedBy     string    `json:"updated_by"`
}

// Clone returns a deep copy so callers can never mutate a cached record.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	copied := *s
	copied.AllowedRanges = append([]string(nil), s.AllowedRanges...)
	return &copied
}

// DefaultSettings returns the record written on first read: restriction
// disabled, with loopback and the two common private ranges pre-seeded so
// enabling the feature never starts from an empty allow-list.
func DefaultSettings(createdBy string) *Settings {
	if createdBy == "" {
		createdBy = "system"
	}
	return &Settings{
		ID:            constants.RestrictionSettingsID,
		Enabled:       false,
		AllowedRanges: []string{"127.0.0.1", "192.168.0.0/16", "10.0.0.0/8"},
		Description:   "Default IP restriction settings",
		UpdatedAt:     time.Now(),
		UpdatedBy:     createdBy,
	}
}
