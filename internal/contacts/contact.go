// Copyright (c) 2026 ContactFlow. All rights reserved.

/*
Package contacts implements the contact directory domain.

A contact is a plain address-book entry owned by the organization, not by a
single user. Every authenticated user can read the directory; writing is
gated by role at the HTTP layer.

Capabilities:

  - CRUD with validation and audit of the creating user.
  - Listing ordered by name with pagination and free-text search.
  - Bulk CSV import with lenient header mapping and per-row skipping.
  - CSV export of the full directory.
  - Directory wipe in a single transaction (Admin only).
*/
package contacts

import "time"

// Contact is a single directory entry.
type Contact struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Title       string    `json:"title,omitempty"`
	Company     string    `json:"company,omitempty"`
	Email       string    `json:"email"`
	MobilePhone string    `json:"mobile_phone,omitempty"`
	WorkPhone   string    `json:"work_phone,omitempty"`
	Fax         string    `json:"fax,omitempty"`
	Website     string    `json:"website,omitempty"`
	Address     string    `json:"address,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// # JSON Field Identifiers

const (
	FieldName        = "name"
	FieldTitle       = "title"
	FieldCompany     = "company"
	FieldEmail       = "email"
	FieldMobilePhone = "mobile_phone"
	FieldWorkPhone   = "work_phone"
	FieldFax         = "fax"
	FieldWebsite     = "website"
	FieldAddress     = "address"
	FieldNotes       = "notes"
)

// MaxNotesLength bounds the free-text notes field.
const MaxNotesLength = 4000
