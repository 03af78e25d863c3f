// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/campusdir/internal/api"
	"github.com/taibuivan/campusdir/internal/institution/auth"
	"github.com/taibuivan/campusdir/internal/institution/profile"
	"github.com/taibuivan/campusdir/internal/platform/apperr"
	"github.com/taibuivan/campusdir/internal/platform/config"
	"github.com/taibuivan/campusdir/internal/platform/sec"
)

func newTestServer(t *testing.T, ttl time.Duration) *api.Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	tokens, err := sec.NewTokenService([]byte("server-test-secret"), "campusdir-test")
	require.NoError(t, err)

	identity := auth.NewService(auth.NewMemoryAccountRepository(), sec.NewHasher(4), tokens, ttl)
	profiles := profile.NewService(profile.NewMemoryRepository(), identity, nil)
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{}, quietLogger)

	cfg := &config.Config{ServerPort: "0", Environment: "development", StoreDriver: config.DriverMemory}
	return api.NewServer(ctx, cfg, quietLogger, tokens, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(identity),
		Profile:   profile.NewHandler(profiles),
	})
}

func call(t *testing.T, server http.Handler, method, path, body, token string) (int, map[string]any) {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)

	var decoded map[string]any
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&decoded))
	}
	return recorder.Code, decoded
}

/*
TestServer_EndToEnd registers, logs in and manages a profile through the full chain.
*/
func TestServer_EndToEnd(t *testing.T) {
	server := newTestServer(t, time.Hour)

	status, _ := call(t, server, http.MethodPost, "/api/v1/institutions/register",
		`{"name":"Stanford","email":"admin@stanford.edu","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, status)

	status, body := call(t, server, http.MethodPost, "/api/v1/institutions/login",
		`{"email":"admin@stanford.edu","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, status)
	token := body["data"].(map[string]any)["access_token"].(string)

	status, body = call(t, server, http.MethodPost, "/api/v1/profiles",
		`{"handle":"stanford","schools":"Law, Medicine"}`, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "stanford", body["data"].(map[string]any)["handle"])

	status, body = call(t, server, http.MethodGet, "/api/v1/profiles/handle/stanford", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Stanford", body["data"].(map[string]any)["institution"].(map[string]any)["name"])

	status, _ = call(t, server, http.MethodDelete, "/api/v1/profiles", "", token)
	require.Equal(t, http.StatusNoContent, status)

	status, body = call(t, server, http.MethodPost, "/api/v1/institutions/login",
		`{"email":"admin@stanford.edu","password":"secret1"}`, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperr.CodeAccountNotFound, body["code"])

	status, _ = call(t, server, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, status)
}

/*
TestServer_ExpiredToken is rejected with its own code.
*/
func TestServer_ExpiredToken(t *testing.T) {
	server := newTestServer(t, -time.Minute)

	status, _ := call(t, server, http.MethodPost, "/api/v1/institutions/register",
		`{"name":"Stanford","email":"admin@stanford.edu","password":"secret1"}`, "")
	require.Equal(t, http.StatusCreated, status)

	status, body := call(t, server, http.MethodPost, "/api/v1/institutions/login",
		`{"email":"admin@stanford.edu","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, status)
	token := body["data"].(map[string]any)["access_token"].(string)

	status, body = call(t, server, http.MethodGet, "/api/v1/institutions/current", "", token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperr.CodeExpiredToken, body["code"])
}
