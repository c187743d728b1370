// Copyright (c) 2026 ContactFlow. All rights reserved.

package contacts

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/apperr"
	"github.com/Vogit1234/contact-flow-v2/pkg/pagination"
)

// # Test Fakes

type fakeRepository struct {
	entries      map[string]*Contact
	batchCalls   int
	failBatch    error
	deleteAllHit bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{entries: make(map[string]*Contact)}
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*Contact, error) {
	contact, found := f.entries[id]
	if !found {
		return nil, apperr.NotFound("Contact")
	}
	copied := *contact
	return &copied, nil
}

func (f *fakeRepository) List(_ context.Context, params pagination.Params, search string) ([]*Contact, int, error) {
	matched := make([]*Contact, 0)
	for _, contact := range f.entries {
		if search != "" && !matches(contact, search) {
			continue
		}
		matched = append(matched, contact)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := len(matched)
	offset := params.Offset()
	if offset > total {
		offset = total
	}
	end := offset + params.Limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func matches(contact *Contact, search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(contact.Name), needle) ||
		strings.Contains(strings.ToLower(contact.Company), needle) ||
		strings.Contains(strings.ToLower(contact.Email), needle)
}

func (f *fakeRepository) ListAll(ctx context.Context) ([]*Contact, error) {
	all, _, err := f.List(ctx, pagination.Params{Page: 1, Limit: pagination.MaxLimit}, "")
	return all, err
}

func (f *fakeRepository) Create(_ context.Context, contact *Contact) error {
	f.entries[contact.ID] = contact
	return nil
}

func (f *fakeRepository) CreateBatch(_ context.Context, entries []*Contact) error {
	f.batchCalls++
	if f.failBatch != nil {
		return f.failBatch
	}
	for _, contact := range entries {
		f.entries[contact.ID] = contact
	}
	return nil
}

func (f *fakeRepository) Update(_ context.Context, contact *Contact) error {
	if _, found := f.entries[contact.ID]; !found {
		return apperr.NotFound("Contact")
	}
	f.entries[contact.ID] = contact
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	if _, found := f.entries[id]; !found {
		return apperr.NotFound("Contact")
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeRepository) DeleteAll(context.Context) (int64, error) {
	f.deleteAllHit = true
	removed := int64(len(f.entries))
	f.entries = make(map[string]*Contact)
	return removed, nil
}

// # Tests

/*
TestCreateStampsAuditFields verifies that a created contact carries a fresh
id, the creating user, and matching timestamps.
*/
func TestCreateStampsAuditFields(t *testing.T) {
	repository := newFakeRepository()
	service := NewService(repository, nil)

	contact, err := service.Create(context.Background(), "admin-1", Input{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, contact.ID)
	assert.Equal(t, "admin-1", contact.CreatedBy)
	assert.Equal(t, contact.CreatedAt, contact.UpdatedAt)
	assert.Len(t, repository.entries, 1)
}

/*
TestListOrdersByNameAndPaginates verifies name ordering, total counts, and
page slicing.
*/
func TestListOrdersByNameAndPaginates(t *testing.T) {
	repository := newFakeRepository()
	service := NewService(repository, nil)

	for _, name := range []string{"Charlie", "Ada", "Bo"} {
		_, err := service.Create(context.Background(), "u1", Input{
			Name:  name,
			Email: strings.ToLower(name) + "@example.com",
		})
		require.NoError(t, err)
	}

	page, meta, err := service.List(context.Background(), pagination.Params{Page: 1, Limit: 2}, "")

	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Ada", page[0].Name)
	assert.Equal(t, "Bo", page[1].Name)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
}

/*
TestListSearchFiltersNameCompanyEmail verifies that the search term matches
across the three searchable columns.
*/
func TestListSearchFiltersNameCompanyEmail(t *testing.T) {
	repository := newFakeRepository()
	service := NewService(repository, nil)

	seed := []Input{
		{Name: "Ada Lovelace", Email: "ada@example.com", Company: "Analytical Engines"},
		{Name: "Grace Hopper", Email: "grace@navy.example", Company: "Navy"},
	}
	for _, input := range seed {
		_, err := service.Create(context.Background(), "u1", input)
		require.NoError(t, err)
	}

	params := pagination.Params{Page: 1, Limit: 10}

	byCompany, _, err := service.List(context.Background(), params, "engines")
	require.NoError(t, err)
	require.Len(t, byCompany, 1)
	assert.Equal(t, "Ada Lovelace", byCompany[0].Name)

	byEmail, _, err := service.List(context.Background(), params, "navy.example")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "Grace Hopper", byEmail[0].Name)
}

/*
TestUpdateRefreshesTimestamp verifies field replacement and that UpdatedAt
moves forward while CreatedAt does not.
*/
func TestUpdateRefreshesTimestamp(t *testing.T) {
	repository := newFakeRepository()
	service := NewService(repository, nil)

	created, err := service.Create(context.Background(), "u1", Input{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), created.ID, Input{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Company: "Analytical Engines",
	})

	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, "Analytical Engines", updated.Company)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

/*
TestUpdateUnknownContact verifies the not-found path.
*/
func TestUpdateUnknownContact(t *testing.T) {
	service := NewService(newFakeRepository(), nil)

	_, err := service.Update(context.Background(), "missing", Input{Name: "X", Email: "x@example.com"})

	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestImportCSVCountsImportedAndSkipped verifies the end-to-end import path:
valid rows land in storage through one batch call, incomplete rows are only
counted.
*/
func TestImportCSVCountsImportedAndSkipped(t *testing.T) {
	repository := newFakeRepository()
	service := NewService(repository, nil)

	input := strings.Join([]string{
		"Full Name,Email,Mobile",
		"Ada Lovelace,ada@example.com,555-0100",
		",nameless@example.com,555-0101",
		"Grace Hopper,grace@example.com,555-0102",
	}, "\n")

	result, err := service.ImportCSV(context.Background(), "admin-1", strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, repository.batchCalls)
	assert.Len(t, repository.entries, 2)

	for _, contact := range repository.entries {
		assert.Equal(t, "admin-1", contact.CreatedBy)
	}
}

/*
TestImportCSVRejectsUnreadableStream verifies that a stream without a header
is rejected as a validation error and nothing is persisted.
*/
func TestImportCSVRejectsUnreadableStream(t *testing.T) {
	repository := newFakeRepository()
	service := NewService(repository, nil)

	_, err := service.ImportCSV(context.Background(), "admin-1", strings.NewReader(""))

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Equal(t, 0, repository.batchCalls)
}

/*
TestExportCSVRoundTrip verifies that stored contacts come back out in
canonical CSV form.
*/
func TestExportCSVRoundTrip(t *testing.T) {
	repository := newFakeRepository()
	service := NewService(repository, nil)

	_, err := service.Create(context.Background(), "u1", Input{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
		Notes: "<p>met at the symposium</p>",
	})
	require.NoError(t, err)

	var output strings.Builder
	require.NoError(t, service.ExportCSV(context.Background(), &output))

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(exportHeader, ","), lines[0])
	assert.Contains(t, lines[1], "Ada Lovelace")
	assert.Contains(t, lines[1], "met at the symposium")
}

/*
TestDeleteAllReportsCount verifies the wipe reports how many entries were
removed and empties the directory.
*/
func TestDeleteAllReportsCount(t *testing.T) {
	repository := newFakeRepository()
	service := NewService(repository, nil)

	for _, name := range []string{"Ada", "Bo"} {
		_, err := service.Create(context.Background(), "u1", Input{
			Name:  name,
			Email: strings.ToLower(name) + "@example.com",
		})
		require.NoError(t, err)
	}

	removed, err := service.DeleteAll(context.Background(), "admin-1")

	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.True(t, repository.deleteAllHit)
	assert.Empty(t, repository.entries)
}
