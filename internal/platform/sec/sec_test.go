// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/campusdir/internal/platform/apperr"
	"github.com/taibuivan/campusdir/internal/platform/sec"
)

func newTokenService(t *testing.T, key string) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService([]byte(key), "campusdir-test")
	require.NoError(t, err)
	return service
}

/*
TestHasher_RoundTrip verifies that a hash only accepts its own plaintext.
*/
func TestHasher_RoundTrip(t *testing.T) {
	hasher := sec.NewHasher(4)

	hash, err := hasher.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, hasher.Verify("correct horse", hash))
	assert.False(t, hasher.Verify("battery staple", hash))
	assert.False(t, hasher.Verify("correct horse", "not-a-bcrypt-hash"))
}

/*
TestHasher_Salted produces different hashes for the same secret.
*/
func TestHasher_Salted(t *testing.T) {
	hasher := sec.NewHasher(4)

	first, err := hasher.Hash("same")
	require.NoError(t, err)
	second, err := hasher.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("same", first))
	assert.True(t, hasher.Verify("same", second))
}

/*
TestHasher_SecretByteLimit rejects secrets bcrypt cannot hash.
*/
func TestHasher_SecretByteLimit(t *testing.T) {
	hasher := sec.NewHasher(4)

	_, err := hasher.Hash(strings.Repeat("a", sec.MaxSecretBytes))
	require.NoError(t, err)

	_, err = hasher.Hash(strings.Repeat("😀", 30))
	assert.ErrorIs(t, err, sec.ErrSecretTooLong)
}

/*
TestNewTokenService_EmptyKey rejects a missing signing key.
*/
func TestNewTokenService_EmptyKey(t *testing.T) {
	_, err := sec.NewTokenService(nil, "campusdir")
	assert.Error(t, err)
}

/*
TestTokenService_IssueVerify returns the original claim set.
*/
func TestTokenService_IssueVerify(t *testing.T) {
	service := newTokenService(t, "super-secret")
	identity := sec.Identity{AccountID: "acc-1", Name: "Stanford", Avatar: "https://www.gravatar.com/avatar/x"}

	token, err := service.Issue(identity, time.Hour)
	require.NoError(t, err)

	claims, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity, claims.Identity())
	assert.Equal(t, "acc-1", claims.Subject)
	assert.Equal(t, "campusdir-test", claims.Issuer)
}

/*
TestTokenService_Expired distinguishes expiry from tampering.
*/
func TestTokenService_Expired(t *testing.T) {
	service := newTokenService(t, "super-secret")

	tests := []struct {
		name string
		ttl  time.Duration
	}{
		{"zero_ttl", 0},
		{"past_expiry", -time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := service.Issue(sec.Identity{AccountID: "acc-1"}, tt.ttl)
			require.NoError(t, err)

			_, err = service.Verify(token)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.CodeExpiredToken))
			assert.ErrorIs(t, err, sec.ErrExpiredToken)
		})
	}
}

/*
TestTokenService_Invalid covers malformed, tampered, and foreign tokens.
*/
func TestTokenService_Invalid(t *testing.T) {
	service := newTokenService(t, "super-secret")

	valid, err := service.Issue(sec.Identity{AccountID: "acc-1", Name: "MIT"}, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	foreign, err := newTokenService(t, "other-secret").Issue(sec.Identity{AccountID: "acc-1"}, time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, sec.AuthClaims{AccountID: "acc-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"malformed", "not.a.jwt"},
		{"empty", ""},
		{"tampered_signature", tampered},
		{"wrong_key", foreign},
		{"alg_none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Verify(tt.token)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.CodeInvalidToken))
		})
	}
}
