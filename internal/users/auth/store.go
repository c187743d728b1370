// Copyright (c) 2026 ContactFlow. All rights reserved.

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Lookups return accounts in EVERY status, including Deleted. Status
// interpretation is business logic and belongs to the services; filtering
// deleted rows at the storage layer would break the reactivation rule.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity, any status
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity, any status
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		List returns accounts ordered by email ascending, excluding the
		given statuses.

		Parameters:
		  - context: context.Context
		  - excludeStatuses: ...UserStatus

		Returns:
		  - []*User: Ordered accounts
		  - error: Database retrieval failures
	*/
	List(context context.Context, excludeStatuses ...UserStatus) ([]*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists changes to mutable profile fields (name, role,
		status) and refreshes the updatedat timestamp.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		SetStatus transitions the account's lifecycle status. The row is
		never removed; Deleted is just another status.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - status: UserStatus

		Returns:
		  - error: Persistence failures
	*/
	SetStatus(context context.Context, userID string, status UserStatus) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh-token sessions.
type SessionRepository interface {

	/*
		Create persists a new tracking session for an authenticated login.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		FindByTokenHash returns the active session matching the given token hash.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *Session: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	/*
		Revoke marks a specific session as permanently invalidated.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - error: Persistence failures
	*/
	Revoke(context context.Context, sessionID string) error

	/*
		RevokeAll revokes every active session belonging to the userID.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	RevokeAll(context context.Context, userID string) error

	/*
		RevokeOthers revokes all sessions belonging to the userID except for the current session.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - currentSessionID: string

		Returns:
		  - error: Persistence failures
	*/
	RevokeOthers(context context.Context, userID, currentSessionID string) error

	/*
		DeleteExpired physically removes sessions whose ExpiresAt is in the past.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Persistence failures
	*/
	DeleteExpired(context context.Context) error
}
