// Copyright (c) 2026 ContactFlow. All rights reserved.

package contacts

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/dberr"
	"github.com/Vogit1234/contact-flow-v2/pkg/pagination"
)

const contactColumns = `id, name, title, company, email, mobilephone, workphone,
	fax, website, address, notes, createdby, createdat, updatedat`

// PostgresRepository implements [Repository] backed by PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a contact repository on the given pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanContact(row pgx.Row) (*Contact, error) {
	var contact Contact
	err := row.Scan(
		&contact.ID, &contact.Name, &contact.Title, &contact.Company,
		&contact.Email, &contact.MobilePhone, &contact.WorkPhone,
		&contact.Fax, &contact.Website, &contact.Address, &contact.Notes,
		&contact.CreatedBy, &contact.CreatedAt, &contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// FindByID retrieves a single contact.
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Contact, error) {
	query := fmt.Sprintf(`SELECT %s FROM directory.contact WHERE id = $1`, contactColumns)

	contact, err := scanContact(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "contacts_find_by_id")
	}
	return contact, nil
}

// List returns one page of contacts ordered by name, with the total match
// count. A non-empty search filters on name, company, and email.
func (repository *PostgresRepository) List(ctx context.Context, params pagination.Params, search string) ([]*Contact, int, error) {
	filter := ""
	args := []any{params.Limit, params.Offset()}

	if search != "" {
		filter = `WHERE name ILIKE $3 OR company ILIKE $3 OR email ILIKE $3`
		args = append(args, "%"+search+"%")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM directory.contact
		%s
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`, contactColumns, filter)

	rows, err := repository.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "contacts_list")
	}
	defer rows.Close()

	entries := make([]*Contact, 0)
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "contacts_list_scan")
		}
		entries = append(entries, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "contacts_list_rows")
	}

	// Separate count query for the total across all pages.
	countQuery := `SELECT COUNT(*) FROM directory.contact`
	countArgs := []any{}
	if search != "" {
		countQuery += ` WHERE name ILIKE $1 OR company ILIKE $1 OR email ILIKE $1`
		countArgs = append(countArgs, "%"+search+"%")
	}

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "contacts_count")
	}

	return entries, total, nil
}

// ListAll returns the complete directory ordered by name, for export.
func (repository *PostgresRepository) ListAll(ctx context.Context) ([]*Contact, error) {
	query := fmt.Sprintf(`SELECT %s FROM directory.contact ORDER BY name ASC`, contactColumns)

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "contacts_list_all")
	}
	defer rows.Close()

	entries := make([]*Contact, 0)
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "contacts_list_all_scan")
		}
		entries = append(entries, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "contacts_list_all_rows")
	}

	return entries, nil
}

const insertContactQuery = `
	INSERT INTO directory.contact
		(id, name, title, company, email, mobilephone, workphone,
		 fax, website, address, notes, createdby, createdat, updatedat)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

func insertArgs(contact *Contact) []any {
	return []any{
		contact.ID, contact.Name, contact.Title, contact.Company,
		contact.Email, contact.MobilePhone, contact.WorkPhone,
		contact.Fax, contact.Website, contact.Address, contact.Notes,
		contact.CreatedBy, contact.CreatedAt, contact.UpdatedAt,
	}
}

// Create inserts a single contact.
func (repository *PostgresRepository) Create(ctx context.Context, contact *Contact) error {
	_, err := repository.pool.Exec(ctx, insertContactQuery, insertArgs(contact)...)
	if err != nil {
		return dberr.Wrap(err, "contacts_create")
	}
	return nil
}

// CreateBatch inserts a set of contacts atomically. Either every entry is
// persisted or none is.
func (repository *PostgresRepository) CreateBatch(ctx context.Context, entries []*Contact) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := repository.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "contacts_batch_begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, contact := range entries {
		batch.Queue(insertContactQuery, insertArgs(contact)...)
	}

	results := tx.SendBatch(ctx, batch)
	for range entries {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return dberr.Wrap(err, "contacts_batch_exec")
		}
	}
	if err := results.Close(); err != nil {
		return dberr.Wrap(err, "contacts_batch_close")
	}

	if err := tx.Commit(ctx); err != nil {
		return dberr.Wrap(err, "contacts_batch_commit")
	}
	return nil
}

// Update replaces the mutable fields of a contact.
func (repository *PostgresRepository) Update(ctx context.Context, contact *Contact) error {
	query := `
		UPDATE directory.contact
		SET name = $2, title = $3, company = $4, email = $5,
		    mobilephone = $6, workphone = $7, fax = $8, website = $9,
		    address = $10, notes = $11, updatedat = $12
		WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query,
		contact.ID, contact.Name, contact.Title, contact.Company,
		contact.Email, contact.MobilePhone, contact.WorkPhone,
		contact.Fax, contact.Website, contact.Address, contact.Notes,
		contact.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "contacts_update")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// Delete removes a single contact.
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := repository.pool.Exec(ctx, `DELETE FROM directory.contact WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(err, "contacts_delete")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// DeleteAll wipes the directory in one transaction and reports how many
// entries were removed.
func (repository *PostgresRepository) DeleteAll(ctx context.Context) (int64, error) {
	tx, err := repository.pool.Begin(ctx)
	if err != nil {
		return 0, dberr.Wrap(err, "contacts_delete_all_begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM directory.contact`)
	if err != nil {
		return 0, dberr.Wrap(err, "contacts_delete_all")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, dberr.Wrap(err, "contacts_delete_all_commit")
	}
	return tag.RowsAffected(), nil
}
