// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces declared by the consumers.
package sec

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/campusdir/internal/platform/apperr"
)

var (
	// ErrInvalidToken is returned for malformed tokens and bad signatures.
	ErrInvalidToken = apperr.New(apperr.CodeInvalidToken, http.StatusUnauthorized, "Invalid token")

	// ErrExpiredToken is returned for well-formed tokens past their expiry.
	ErrExpiredToken = apperr.New(apperr.CodeExpiredToken, http.StatusUnauthorized, "Token has expired")
)

// Identity is the claim set embedded in every identity token.
type Identity struct {
	AccountID string
	Name      string
	Avatar    string
}

// AuthClaims represents the payload embedded inside a JWT identity token.
//
// Carrying the name and avatar lets handlers describe the caller without a
// database round trip.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	AccountID string `json:"uid"`
	Name      string `json:"nme"`
	Avatar    string `json:"avt,omitempty"`
}

// Identity returns the application claims without the registered ones.
func (claims *AuthClaims) Identity() Identity {
	return Identity{AccountID: claims.AccountID, Name: claims.Name, Avatar: claims.Avatar}
}

// TokenService issues and verifies HS256 identity tokens.
//
// It is stateless after construction and safe for concurrent use.
type TokenService struct {
	signingKey []byte
	issuer     string
	now        func() time.Time
}

// NewTokenService creates a new TokenService.
// The signing key is process configuration handed in by the composition root.
func NewTokenService(signingKey []byte, issuer string) (*TokenService, error) {
	if len(signingKey) == 0 {
		return nil, errors.New("sec: signing key must not be empty")
	}

	return &TokenService{
		signingKey: signingKey,
		issuer:     issuer,
		now:        time.Now,
	}, nil
}

// Issue creates a signed token for identity that expires after timeToLive.
func (service *TokenService) Issue(identity Identity, timeToLive time.Duration) (string, error) {
	currentTime := service.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.AccountID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		AccountID: identity.AccountID,
		Name:      identity.Name,
		Avatar:    identity.Avatar,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.signingKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and expiry of a token string.
//
// It returns [ErrExpiredToken] for tokens past their expiry and
// [ErrInvalidToken] for every other failure.
func (service *TokenService) Verify(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return service.signingKey, nil
		},
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.AccountID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
