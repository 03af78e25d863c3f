// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/campusdir/internal/platform/apperr"
	"github.com/taibuivan/campusdir/internal/platform/constants"
	"github.com/taibuivan/campusdir/internal/platform/ctxutil"
	"github.com/taibuivan/campusdir/internal/platform/respond"
	"github.com/taibuivan/campusdir/internal/platform/sec"
)

// TokenVerifier is the part of [sec.TokenService] the middleware needs.
type TokenVerifier interface {
	Verify(token string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the bearer token from the Authorization header.
//
// # Flow
//  1. No header: the request proceeds as anonymous.
//  2. Malformed header: 401 UNAUTHORIZED.
//  3. Token rejected: 401 INVALID_TOKEN or EXPIRED_TOKEN, as reported by the verifier.
//  4. Otherwise the claims are injected into the request context.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, constants.TokenType) || token == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				if !apperr.IsAppError(err) {
					err = sec.ErrInvalidToken
				}
				respond.Error(writer, request, err)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithClaims(request.Context(), claims)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("account_id", claims.AccountID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetClaims(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
