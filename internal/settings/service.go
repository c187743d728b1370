// Copyright (c) 2026 ContactFlow. All rights reserved.

package settings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/apperr"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/constants"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/ipnet"
)

// Service implements the restriction settings use cases.
type Service struct {
	store  Store
	cache  Cache
	logger *slog.Logger
}

// NewService constructs a new settings [Service].
//
// cache may be nil; the service then reads the store directly.
func NewService(store Store, cache Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, cache: cache, logger: logger}
}

/*
Load returns the settings singleton, creating the hard-coded default on
first read.

Description: cache → store → conditional default insert → store. Loading
twice with no intervening update returns identical content and never
produces a second row; the conditional insert tolerates concurrent first
readers.

Returns:
  - *Settings: The singleton (a private copy per caller)
  - error: Storage failures
*/
func (service *Service) Load(ctx context.Context) (*Settings, error) {

	// 1. Volatile copy first; cache errors are advisory.
	if service.cache != nil {
		if cached, err := service.cache.Get(ctx); err == nil {
			return cached.Clone(), nil
		}
	}

	// 2. Persistent read.
	record, err := service.store.Get(ctx, constants.RestrictionSettingsID)
	if err != nil {
		if !apperr.IsAppError(err) {
			return nil, fmt.Errorf("settings_service_load_failed: %w", err)
		}

		// 3. First read ever: seed the default, then read the winner back.
		if err := service.store.CreateIfAbsent(ctx, DefaultSettings("system")); err != nil {
			return nil, fmt.Errorf("settings_service_seed_failed: %w", err)
		}

		record, err = service.store.Get(ctx, constants.RestrictionSettingsID)
		if err != nil {
			return nil, fmt.Errorf("settings_service_reload_failed: %w", err)
		}

		service.logger.Info("restriction_settings_seeded",
			slog.Int("default_ranges", len(record.AllowedRanges)),
		)
	}

	service.fillCache(ctx, record)
	return record.Clone(), nil
}

// UpdateInput carries a partial settings mutation. Nil fields keep their
// current values.
type UpdateInput struct {
	Enabled       *bool
	AllowedRanges []string
	RangesText    *string
	Description   *string
}

/*
Update merges a partial mutation into the singleton and persists it.

Description: requires a caller identity for the audit stamp. Role
enforcement does not live here — the route layer admits only Admins.
RangesText, when present, is parsed with the allow-list grammar (invalid
lines silently dropped) and takes precedence over AllowedRanges.

Returns:
  - *Settings: The merged, persisted record
  - error: Validation or storage failures
*/
func (service *Service) Update(ctx context.Context, actorID string, input UpdateInput) (*Settings, error) {
	if actorID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	current, err := service.Load(ctx)
	if err != nil {
		return nil, err
	}

	if input.Enabled != nil {
		current.Enabled = *input.Enabled
	}

	if input.RangesText != nil {
		current.AllowedRanges = ipnet.ParseRangeList(*input.RangesText)
	} else if input.AllowedRanges != nil {
		for _, spec := range input.AllowedRanges {
			if !ipnet.IsValidRangeSpec(spec) {
				return nil, apperr.ValidationError("Invalid allow-list entry", apperr.FieldError{
					Field:   "allowed_ranges",
					Message: fmt.Sprintf("%q is not a valid IPv4 address or CIDR block", spec),
				})
			}
		}
		current.AllowedRanges = append([]string(nil), input.AllowedRanges...)
	}

	if input.Description != nil {
		current.Description = *input.Description
	}

	current.UpdatedAt = time.Now()
	current.UpdatedBy = actorID

	if err := service.store.Update(ctx, current); err != nil {
		return nil, fmt.Errorf("settings_service_update_failed: %w", err)
	}

	if service.cache != nil {
		if err := service.cache.Invalidate(ctx); err != nil {
			service.logger.Warn("settings_cache_invalidate_failed", slog.Any("error", err))
		}
	}

	service.logger.Info("restriction_settings_updated",
		slog.Bool("enabled", current.Enabled),
		slog.Int("ranges", len(current.AllowedRanges)),
		slog.String("updated_by", actorID),
	)

	return current.Clone(), nil
}

// fillCache stores a fresh copy in the cache, logging failures only.
func (service *Service) fillCache(ctx context.Context, record *Settings) {
	if service.cache == nil {
		return
	}
	if err := service.cache.Set(ctx, record); err != nil {
		service.logger.Warn("settings_cache_set_failed", slog.Any("error", err))
	}
}
