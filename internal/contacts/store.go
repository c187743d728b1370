// Copyright (c) 2026 ContactFlow. All rights reserved.

package contacts

import (
	"context"

	"github.com/Vogit1234/contact-flow-v2/pkg/pagination"
)

// Repository defines the persistence contract for the contact directory.
//
// # Contract
//
// List returns entries ordered by name ascending. When search is non-empty
// it is matched case-insensitively against name, company, and email. The
// returned total is the match count before pagination.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Contact, error)
	List(ctx context.Context, params pagination.Params, search string) ([]*Contact, int, error)
	ListAll(ctx context.Context) ([]*Contact, error)
	Create(ctx context.Context, contact *Contact) error
	CreateBatch(ctx context.Context, entries []*Contact) error
	Update(ctx context.Context, contact *Contact) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}
