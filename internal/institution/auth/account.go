// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements institution account identity for the directory.

It covers account registration with salted secret hashing, credential
verification and bearer-token issuance, plus the account lookups the
profile package needs to resolve owners and cascade deletes.

Architecture:

  - Entity: Account (credentials and derived avatar).
  - Repository: AccountRepository, backed by PostgreSQL or process memory.
  - Service: Register, Login, Current, Delete.
  - Handler: JSON routes under /institutions.
*/
package auth

import (
	"context"
	"time"
)

// # Domain Entities

// Account is an institution's credential record.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `json:"created_at"`
}

// # Repository Contracts

// AccountRepository defines the persistence contract for institution accounts.
//
// Lookups report absence as (nil, nil). Failures of the backing store are
// returned as STORAGE_ERROR application errors.
type AccountRepository interface {
	/*
		FindByEmail retrieves an account by its contact address.

		Parameters:
		  - context: context.Context
		  - email: string (exact match)

		Returns:
		  - *Account: The stored account, or nil when none matches
		  - error: Storage failures only
	*/
	FindByEmail(context context.Context, email string) (*Account, error)

	/*
		FindByID retrieves an account by its primary key.

		Returns:
		  - *Account: The stored account, or nil when none matches
		  - error: Storage failures only
	*/
	FindByID(context context.Context, id string) (*Account, error)

	/*
		Create persists a new account.

		Description: The insert is conditional on the email being free, so
		two concurrent registrations for one address commit at most once.

		Returns:
		  - error: [ErrDuplicateContact] or storage failures
	*/
	Create(context context.Context, account *Account) error

	// Delete removes the account. Deleting an absent account is a no-op.
	Delete(context context.Context, id string) error
}
