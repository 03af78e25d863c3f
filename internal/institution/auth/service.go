// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/campusdir/internal/platform/apperr"
	"github.com/taibuivan/campusdir/internal/platform/constants"
	"github.com/taibuivan/campusdir/internal/platform/ctxutil"
	"github.com/taibuivan/campusdir/internal/platform/sec"
	"github.com/taibuivan/campusdir/internal/platform/validate"
	"github.com/taibuivan/campusdir/pkg/gravatar"
	"github.com/taibuivan/campusdir/pkg/uuid"
)

// # Failure Kinds

var (
	// ErrDuplicateContact is returned when the email already belongs to an account.
	ErrDuplicateContact = apperr.New(apperr.CodeDuplicateContact, http.StatusConflict, "Email already exists")

	// ErrAccountNotFound is returned when no account matches the lookup.
	ErrAccountNotFound = apperr.New(apperr.CodeAccountNotFound, http.StatusNotFound, "Account not found")

	// ErrBadCredentials is returned when the secret does not match the stored hash.
	ErrBadCredentials = apperr.New(apperr.CodeBadCredentials, http.StatusBadRequest, "Password incorrect")
)

const passwordBytesMessage = "Password is too long"

// # Contracts

// PasswordHasher hashes and verifies account secrets.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	Issue(identity sec.Identity, timeToLive time.Duration) (string, error)
}

// Service implements institution identity use cases.
//
// It holds no mutable state; concurrent requests share one instance.
type Service struct {
	accounts AccountRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	tokenTTL time.Duration
}

// NewService constructs a [Service]. tokenTTL is the lifetime of issued tokens.
func NewService(accounts AccountRepository, hasher PasswordHasher, tokens TokenIssuer, tokenTTL time.Duration) *Service {
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
	}
}

// # Registration Flow

// RegisterInput holds the already shape-checked registration fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

/*
Register creates a new institution account.

Description: Rejects a known email, hashes the secret, derives the avatar
from the email and persists the account. The lookup and the insert are two
separate store calls; the store's conditional insert settles a race between
them with the same [ErrDuplicateContact].

Returns:
  - *Account: The created account
  - error: ErrDuplicateContact or storage failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Account, error) {
	existing, err := service.accounts.FindByEmail(context, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateContact
	}

	hash, err := service.hasher.Hash(input.Password)
	if errors.Is(err, sec.ErrSecretTooLong) {
		return nil, validate.FieldFailure("password", passwordBytesMessage)
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	account := &Account{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Avatar: gravatar.URL(input.Email, gravatar.Options{
			Size:    constants.AvatarSize,
			Rating:  constants.AvatarRating,
			Default: constants.AvatarDefault,
		}),
		CreatedAt: time.Now().UTC(),
	}

	if err := service.accounts.Create(context, account); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "institution_registered",
		slog.String("account_id", account.ID),
	)

	return account, nil
}

// # Authentication Flow

// LoginInput holds the credentials of an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is a freshly issued identity token.
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
	Account     *Account
}

/*
Login verifies credentials and issues an identity token.

Returns:
  - *LoginResult: Token carrying the account id, name and avatar
  - error: ErrAccountNotFound, ErrBadCredentials or storage failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	account, err := service.accounts.FindByEmail(context, input.Email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	if !service.hasher.Verify(input.Password, account.PasswordHash) {
		return nil, ErrBadCredentials
	}

	token, err := service.tokens.Issue(sec.Identity{
		AccountID: account.ID,
		Name:      account.Name,
		Avatar:    account.Avatar,
	}, service.tokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_token_issue_failed: %w", err))
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   constants.TokenType,
		ExpiresIn:   service.tokenTTL,
		Account:     account,
	}, nil
}

// # Account Lookup

// Current returns the account behind an authenticated request.
func (service *Service) Current(context context.Context, accountID string) (*Account, error) {
	account, err := service.accounts.FindByID(context, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// Lookup returns the account or nil when absent.
func (service *Service) Lookup(context context.Context, accountID string) (*Account, error) {
	return service.accounts.FindByID(context, accountID)
}

// Delete removes the account. It is a no-op when the account is absent.
func (service *Service) Delete(context context.Context, accountID string) error {
	if err := service.accounts.Delete(context, accountID); err != nil {
		return err
	}

	ctxutil.GetLogger(context).InfoContext(context, "institution_deleted",
		slog.String("account_id", accountID),
	)
	return nil
}
