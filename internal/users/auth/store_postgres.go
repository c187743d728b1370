// Copyright (c) 2026 ContactFlow. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Vogit1234/contact-flow-v2/internal/platform/apperr"
)

// # User Repository

const userColumns = "id, email, name, passwordhash, role, status, createdat, updatedat"

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, email, name, passwordhash, role, status, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: Returns the account in any status. Deleted rows are included on
purpose so callers can apply the reactivation rule.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE lower(email) = lower($1)`

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found with this email")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts, any status.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: Not found or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
List retrieves accounts ordered by email ascending.

Description: Directory-style listing. Statuses in excludeStatuses are filtered
out server-side; the Admin listing passes StatusDeleted here.

Parameters:
  - context: context.Context
  - excludeStatuses: ...UserStatus

Returns:
  - []*User: Ordered accounts
  - error: Execution errors
*/
func (repository *PostgresUserRepository) List(context context.Context, excludeStatuses ...UserStatus) ([]*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE status != ALL($1)
		ORDER BY email ASC`

	excluded := make([]string, 0, len(excludeStatuses))
	for _, status := range excludeStatuses {
		excluded = append(excluded, string(status))
	}

	rows, err := repository.pool.Query(context, query, excluded)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_user_repo_list_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_rows_failed: %w", err)
	}

	return users, nil
}

/*
Update persists changes to a user's mutable fields.

Description: Synchronizes name, role, and status with the database,
refreshing the updatedat timestamp.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Update failures
*/
func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	const query = `
		UPDATE users.account
		SET name = $2, role = $3, status = $4, updatedat = $5
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.Name,
		user.Role,
		user.Status,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User not found")
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User not found")
	}

	return nil
}

/*
SetStatus transitions the account's lifecycle status.

Description: Retention-friendly lifecycle change. Rows are never removed;
Deleted accounts stay in place so the same record can be reactivated later.

Parameters:
  - context: context.Context
  - userID: string
  - status: UserStatus

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) SetStatus(context context.Context, userID string, status UserStatus) error {
	const query = "UPDATE users.account SET status = $2, updatedat = $3 WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, userID, status, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_set_status_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User not found")
	}

	return nil
}

// # Session Repository

// PostgresSessionRepository implements the SessionRepository interface.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PostgreSQL implementation of SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

/*
Create persists a new session record into the users.session table.

Description: Records a successful authentication session in persistent storage.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Storage failures
*/
func (repository *PostgresSessionRepository) Create(context context.Context, session *Session) error {
	const query = `
		INSERT INTO users.session (
			id, userid, tokenhash, useragent, ipaddress, expiresat, isrevoked, createdat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		session.ID,
		session.UserID,
		session.TokenHash,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.IsRevoked,
		session.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_session_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByTokenHash retrieves an active session by its unique token hash.

Description: Securely resolves a refresh token hash into an active session.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *Session: Hydrated session metadata
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	const query = `
		SELECT id, userid, tokenhash, useragent, ipaddress, expiresat, isrevoked, createdat
		FROM users.session
		WHERE tokenhash = $1 AND isrevoked = FALSE AND expiresat > NOW()`

	session := &Session{}
	err := repository.pool.QueryRow(context, query, tokenHash).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.IsRevoked,
		&session.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Session not found or expired")
		}
		return nil, fmt.Errorf("postgres_session_repo_find_failed: %w", err)
	}

	return session, nil
}

/*
Revoke marks a specific session as revoked.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Revocation failures
*/
func (repository *PostgresSessionRepository) Revoke(context context.Context, sessionID string) error {
	const query = "UPDATE users.session SET isrevoked = TRUE WHERE id = $1"
	_, err := repository.pool.Exec(context, query, sessionID)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_failed: %w", err)
	}
	return nil
}

/*
RevokeAll marks all active sessions for a user as revoked.

Description: Security nuking of all active sessions for a user. Used on
password changes, deactivation, and deletion.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Batch revocation failures
*/
func (repository *PostgresSessionRepository) RevokeAll(context context.Context, userID string) error {
	const query = "UPDATE users.session SET isrevoked = TRUE WHERE userid = $1 AND isrevoked = FALSE"
	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_all_failed: %w", err)
	}
	return nil
}

/*
RevokeOthers marks all active sessions for a user as revoked, except for one.

Parameters:
  - context: context.Context
  - userID: string
  - currentSessionID: string

Returns:
  - error: Filtered revocation failures
*/
func (repository *PostgresSessionRepository) RevokeOthers(context context.Context, userID, currentSessionID string) error {
	const query = "UPDATE users.session SET isrevoked = TRUE WHERE userid = $1 AND id != $2 AND isrevoked = FALSE"
	_, err := repository.pool.Exec(context, query, userID, currentSessionID)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_others_failed: %w", err)
	}
	return nil
}

/*
DeleteExpired permanently removes all sessions that have passed their expiration.

Description: Cleanup task to reclaim storage from stale sessions. Scheduled
periodically from the server entrypoint.

Parameters:
  - context: context.Context

Returns:
  - error: Cleanup failures
*/
func (repository *PostgresSessionRepository) DeleteExpired(context context.Context) error {
	const query = "DELETE FROM users.session WHERE expiresat <= NOW()"
	_, err := repository.pool.Exec(context, query)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_delete_expired_failed: %w", err)
	}
	return nil
}
