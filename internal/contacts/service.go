// Copyright (c) 2026 ContactFlow. All rights reserved.

package contacts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/apperr"
	"github.com/Vogit1234/contact-flow-v2/pkg/pagination"
	"github.com/Vogit1234/contact-flow-v2/pkg/uuid"
)

// Service implements the contact directory business logic.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs the contact [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repository: repository, logger: logger}
}

// # Inputs

// Input carries the writable fields of a contact for create and update.
type Input struct {
	Name        string
	Title       string
	Company     string
	Email       string
	MobilePhone string
	WorkPhone   string
	Fax         string
	Website     string
	Address     string
	Notes       string
}

func (input Input) apply(contact *Contact) {
	contact.Name = input.Name
	contact.Title = input.Title
	contact.Company = input.Company
	contact.Email = input.Email
	contact.MobilePhone = input.MobilePhone
	contact.WorkPhone = input.WorkPhone
	contact.Fax = input.Fax
	contact.Website = input.Website
	contact.Address = input.Address
	contact.Notes = input.Notes
}

// ImportResult reports the outcome of a CSV import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// # Operations

// Get returns one contact by id.
func (service *Service) Get(ctx context.Context, id string) (*Contact, error) {
	contact, err := service.repository.FindByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Contact")
		}
		return nil, fmt.Errorf("contacts_get_failed: %w", err)
	}
	return contact, nil
}

// List returns one page of the directory with pagination metadata.
func (service *Service) List(ctx context.Context, params pagination.Params, search string) ([]*Contact, pagination.Meta, error) {
	entries, total, err := service.repository.List(ctx, params, search)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("contacts_list_failed: %w", err)
	}
	return entries, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// Create adds a new contact stamped with the creating user.
func (service *Service) Create(ctx context.Context, actorID string, input Input) (*Contact, error) {
	now := time.Now().UTC()
	contact := &Contact{
		ID:        uuid.New(),
		CreatedBy: actorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.apply(contact)

	if err := service.repository.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("contacts_create_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "contact_created",
		slog.String("contact_id", contact.ID),
		slog.String("actor_id", actorID),
	)
	return contact, nil
}

// Update replaces the writable fields of an existing contact.
func (service *Service) Update(ctx context.Context, id string, input Input) (*Contact, error) {
	contact, err := service.repository.FindByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Contact")
		}
		return nil, fmt.Errorf("contacts_update_load_failed: %w", err)
	}

	input.apply(contact)
	contact.UpdatedAt = time.Now().UTC()

	if err := service.repository.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("contacts_update_failed: %w", err)
	}
	return contact, nil
}

// Delete removes a single contact.
func (service *Service) Delete(ctx context.Context, id string) error {
	if err := service.repository.Delete(ctx, id); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("Contact")
		}
		return fmt.Errorf("contacts_delete_failed: %w", err)
	}
	return nil
}

// DeleteAll wipes the whole directory and returns how many entries went.
func (service *Service) DeleteAll(ctx context.Context, actorID string) (int64, error) {
	removed, err := service.repository.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("contacts_delete_all_failed: %w", err)
	}

	service.logger.WarnContext(ctx, "contact_directory_wiped",
		slog.Int64("removed", removed),
		slog.String("actor_id", actorID),
	)
	return removed, nil
}

// ImportCSV parses a CSV stream and inserts the usable rows in a single
// transaction. Rows missing name or email are skipped and counted; a parse
// failure of the stream itself rejects the whole upload.
func (service *Service) ImportCSV(ctx context.Context, actorID string, reader io.Reader) (*ImportResult, error) {
	rows, skipped, err := parseImport(reader)
	if err != nil {
		return nil, apperr.ValidationError("The uploaded file is not a readable CSV document")
	}

	now := time.Now().UTC()
	entries := make([]*Contact, 0, len(rows))
	for _, row := range rows {
		contact := &Contact{
			ID:          uuid.New(),
			Name:        row[FieldName],
			Title:       row[FieldTitle],
			Company:     row[FieldCompany],
			Email:       row[FieldEmail],
			MobilePhone: row[FieldMobilePhone],
			WorkPhone:   row[FieldWorkPhone],
			Fax:         row[FieldFax],
			Website:     row[FieldWebsite],
			Address:     row[FieldAddress],
			Notes:       row[FieldNotes],
			CreatedBy:   actorID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		entries = append(entries, contact)
	}

	if err := service.repository.CreateBatch(ctx, entries); err != nil {
		return nil, fmt.Errorf("contacts_import_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "contacts_imported",
		slog.Int("imported", len(entries)),
		slog.Int("skipped", skipped),
		slog.String("actor_id", actorID),
	)
	return &ImportResult{Imported: len(entries), Skipped: skipped}, nil
}

// ExportCSV writes the whole directory to the writer in canonical CSV form.
func (service *Service) ExportCSV(ctx context.Context, writer io.Writer) error {
	entries, err := service.repository.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("contacts_export_load_failed: %w", err)
	}

	if err := writeExport(writer, entries); err != nil {
		return fmt.Errorf("contacts_export_write_failed: %w", err)
	}
	return nil
}
