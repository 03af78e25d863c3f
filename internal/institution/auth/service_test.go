// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/campusdir/internal/institution/auth"
	"github.com/taibuivan/campusdir/internal/platform/apperr"
	"github.com/taibuivan/campusdir/internal/platform/sec"
	"github.com/taibuivan/campusdir/pkg/gravatar"
)

type fixture struct {
	accounts *auth.MemoryAccountRepository
	tokens   *sec.TokenService
	service  *auth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens, err := sec.NewTokenService([]byte("auth-test-secret"), "campusdir-test")
	require.NoError(t, err)

	accounts := auth.NewMemoryAccountRepository()
	return &fixture{
		accounts: accounts,
		tokens:   tokens,
		service:  auth.NewService(accounts, sec.NewHasher(4), tokens, time.Hour),
	}
}

var stanford = auth.RegisterInput{Name: "Stanford", Email: "admin@stanford.edu", Password: "hunter22"}

/*
TestRegisterLoginVerify walks the full identity flow.
*/
func TestRegisterLoginVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	account, err := f.service.Register(ctx, stanford)
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.NotEqual(t, stanford.Password, account.PasswordHash)
	assert.Equal(t, gravatar.URL(stanford.Email, gravatar.Options{Size: 200, Rating: "pg", Default: "mm"}), account.Avatar)

	result, err := f.service.Login(ctx, auth.LoginInput{Email: stanford.Email, Password: stanford.Password})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, time.Hour, result.ExpiresIn)

	claims, err := f.tokens.Verify(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sec.Identity{AccountID: account.ID, Name: "Stanford", Avatar: account.Avatar}, claims.Identity())
}

/*
TestRegister_Duplicate leaves the account count unchanged.
*/
func TestRegister_Duplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, stanford)
	require.NoError(t, err)

	_, err = f.service.Register(ctx, auth.RegisterInput{Name: "Other", Email: stanford.Email, Password: "another1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrDuplicateContact)
	assert.True(t, apperr.Is(err, apperr.CodeDuplicateContact))
	assert.Equal(t, 1, f.accounts.Count())
}

/*
TestRegister_SecretOverByteLimit reports a multibyte secret bcrypt cannot hash as invalid input.
*/
func TestRegister_SecretOverByteLimit(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Register(context.Background(), auth.RegisterInput{
		Name:     "Tokyo",
		Email:    "admin@u-tokyo.ac.jp",
		Password: strings.Repeat("😀", 30),
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeValidation, ae.Code)
	assert.Equal(t, "password", ae.Details[0].Field)
	assert.Equal(t, 0, f.accounts.Count())
}

/*
TestRegister_ConcurrentSameEmail commits exactly one account.
*/
func TestRegister_ConcurrentSameEmail(t *testing.T) {
	f := newFixture(t)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.service.Register(context.Background(), stanford); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, auth.ErrDuplicateContact)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, f.accounts.Count())
}

/*
TestLogin_Failures separates unknown accounts from wrong secrets.
*/
func TestLogin_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, stanford)
	require.NoError(t, err)

	tests := []struct {
		name  string
		input auth.LoginInput
		want  error
	}{
		{"unknown_email", auth.LoginInput{Email: "nobody@mit.edu", Password: "hunter22"}, auth.ErrAccountNotFound},
		{"wrong_password", auth.LoginInput{Email: stanford.Email, Password: "hunter23"}, auth.ErrBadCredentials},
		{"email_case_differs", auth.LoginInput{Email: "ADMIN@stanford.edu", Password: "hunter22"}, auth.ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.service.Login(ctx, tt.input)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

/*
TestCurrentAndDelete covers lookup and idempotent removal.
*/
func TestCurrentAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	account, err := f.service.Register(ctx, stanford)
	require.NoError(t, err)

	current, err := f.service.Current(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Email, current.Email)

	require.NoError(t, f.service.Delete(ctx, account.ID))
	require.NoError(t, f.service.Delete(ctx, account.ID))

	_, err = f.service.Current(ctx, account.ID)
	assert.ErrorIs(t, err, auth.ErrAccountNotFound)

	// The email is free again once the account is gone.
	_, err = f.service.Register(ctx, stanford)
	assert.NoError(t, err)
}

// brokenRepository fails every call with a storage error.
type brokenRepository struct{}

var errDown = errors.New("connection refused")

func (brokenRepository) FindByEmail(context.Context, string) (*auth.Account, error) {
	return nil, apperr.Storage(errDown)
}
func (brokenRepository) FindByID(context.Context, string) (*auth.Account, error) {
	return nil, apperr.Storage(errDown)
}
func (brokenRepository) Create(context.Context, *auth.Account) error { return apperr.Storage(errDown) }
func (brokenRepository) Delete(context.Context, string) error        { return apperr.Storage(errDown) }

/*
TestStorageErrorsPropagate surfaces store failures unchanged.
*/
func TestStorageErrorsPropagate(t *testing.T) {
	tokens, err := sec.NewTokenService([]byte("k"), "campusdir-test")
	require.NoError(t, err)
	service := auth.NewService(brokenRepository{}, sec.NewHasher(4), tokens, time.Hour)
	ctx := context.Background()

	_, err = service.Register(ctx, stanford)
	assert.True(t, apperr.Is(err, apperr.CodeStorage))

	_, err = service.Login(ctx, auth.LoginInput{Email: stanford.Email, Password: "x"})
	assert.True(t, apperr.Is(err, apperr.CodeStorage))
	assert.ErrorIs(t, err, errDown)
}
