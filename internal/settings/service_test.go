// Copyright (c) 2026 ContactFlow. All rights reserved.

package settings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/apperr"
	"github.com/Vogit1234/contact-flow-v2/internal/platform/constants"
)

// fakeStore is an in-memory Store for service tests.
type fakeStore struct {
	record      *Settings
	createCalls int
	updateCalls int
	failGet     bool
}

func (s *fakeStore) Get(_ context.Context, id string) (*Settings, error) {
	if s.failGet {
		return nil, assert.AnError
	}
	if s.record == nil || s.record.ID != id {
		return nil, apperr.NotFound("Restriction settings")
	}
	return s.record.Clone(), nil
}

func (s *fakeStore) CreateIfAbsent(_ context.Context, record *Settings) error {
	s.createCalls++
	if s.record == nil {
		s.record = record.Clone()
	}
	return nil
}

func (s *fakeStore) Update(_ context.Context, record *Settings) error {
	s.updateCalls++
	if s.record == nil {
		return apperr.NotFound("Restriction settings")
	}
	s.record = record.Clone()
	return nil
}

// fakeCache is an in-memory Cache for service tests.
type fakeCache struct {
	record      *Settings
	setCalls    int
	invalidated int
}

func (c *fakeCache) Get(_ context.Context) (*Settings, error) {
	if c.record == nil {
		return nil, apperr.NotFound("Cached restriction settings")
	}
	return c.record.Clone(), nil
}

func (c *fakeCache) Set(_ context.Context, record *Settings) error {
	c.setCalls++
	c.record = record.Clone()
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context) error {
	c.invalidated++
	c.record = nil
	return nil
}

/*
TestLoadSeedsDefaultOnFirstRead verifies that the very first read creates
the default record and that the default arrives disabled with the seeded
private ranges.
*/
func TestLoadSeedsDefaultOnFirstRead(t *testing.T) {
	store := &fakeStore{}
	service := NewService(store, nil, nil)

	record, err := service.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, constants.RestrictionSettingsID, record.ID)
	assert.False(t, record.Enabled)
	assert.Equal(t, []string{"127.0.0.1", "192.168.0.0/16", "10.0.0.0/8"}, record.AllowedRanges)
	assert.Equal(t, 1, store.createCalls)
}

/*
TestLoadIsIdempotent verifies that repeated loads with no intervening
update return identical content and never attempt a second create.
*/
func TestLoadIsIdempotent(t *testing.T) {
	store := &fakeStore{}
	service := NewService(store, nil, nil)

	first, err := service.Load(context.Background())
	require.NoError(t, err)

	second, err := service.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.AllowedRanges, second.AllowedRanges)
	assert.Equal(t, first.Enabled, second.Enabled)
	assert.Equal(t, 1, store.createCalls)
}

/*
TestLoadPrefersCache verifies that a warm cache short-circuits the store
entirely and that a cold cache is filled after a store read.
*/
func TestLoadPrefersCache(t *testing.T) {
	store := &fakeStore{record: DefaultSettings("system")}
	cache := &fakeCache{}
	service := NewService(store, cache, nil)

	_, err := service.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.setCalls)

	// Poison the store; a warm cache must still answer.
	store.failGet = true
	record, err := service.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, constants.RestrictionSettingsID, record.ID)
}

/*
TestLoadReturnsPrivateCopies verifies that mutating a returned record does
not leak into subsequent reads.
*/
func TestLoadReturnsPrivateCopies(t *testing.T) {
	store := &fakeStore{record: DefaultSettings("system")}
	service := NewService(store, nil, nil)

	first, err := service.Load(context.Background())
	require.NoError(t, err)
	first.AllowedRanges[0] = "8.8.8.8"
	first.Enabled = true

	second, err := service.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", second.AllowedRanges[0])
	assert.False(t, second.Enabled)
}

/*
TestUpdateMergesPartialInput verifies that only supplied fields change and
that the audit stamp records the acting Admin.
*/
func TestUpdateMergesPartialInput(t *testing.T) {
	store := &fakeStore{record: DefaultSettings("system")}
	cache := &fakeCache{}
	service := NewService(store, cache, nil)

	enabled := true
	before := time.Now()

	record, err := service.Update(context.Background(), "admin-1", UpdateInput{
		Enabled: &enabled,
	})
	require.NoError(t, err)

	assert.True(t, record.Enabled)
	assert.Equal(t, []string{"127.0.0.1", "192.168.0.0/16", "10.0.0.0/8"}, record.AllowedRanges)
	assert.Equal(t, "admin-1", record.UpdatedBy)
	assert.False(t, record.UpdatedAt.Before(before))
	assert.Equal(t, 1, cache.invalidated)
}

/*
TestUpdateRejectsInvalidRange verifies that a structured allow-list update
containing a malformed entry is rejected as a validation error.
*/
func TestUpdateRejectsInvalidRange(t *testing.T) {
	store := &fakeStore{record: DefaultSettings("system")}
	service := NewService(store, nil, nil)

	_, err := service.Update(context.Background(), "admin-1", UpdateInput{
		AllowedRanges: []string{"192.168.1.0/24", "192.168.1.0/33"},
	})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Equal(t, 0, store.updateCalls)
}

/*
TestUpdateParsesRangesText verifies the textual allow-list form: one entry
per line, blanks and comments skipped, invalid lines dropped silently,
and precedence over the structured field.
*/
func TestUpdateParsesRangesText(t *testing.T) {
	store := &fakeStore{record: DefaultSettings("system")}
	service := NewService(store, nil, nil)

	text := "# office\n203.0.113.7\n\n198.51.100.0/24\nnot-an-ip\n"

	record, err := service.Update(context.Background(), "admin-1", UpdateInput{
		AllowedRanges: []string{"10.0.0.1"},
		RangesText:    &text,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"203.0.113.7", "198.51.100.0/24"}, record.AllowedRanges)
}

/*
TestUpdateRequiresActor verifies that an update with no caller identity is
refused before touching storage.
*/
func TestUpdateRequiresActor(t *testing.T) {
	store := &fakeStore{record: DefaultSettings("system")}
	service := NewService(store, nil, nil)

	_, err := service.Update(context.Background(), "", UpdateInput{})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 401, appErr.HTTPStatus)
	assert.Equal(t, 0, store.updateCalls)
}
