// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/campusdir/internal/institution/profile"
	"github.com/taibuivan/campusdir/internal/platform/apperr"
	"github.com/taibuivan/campusdir/internal/platform/middleware"
	"github.com/taibuivan/campusdir/internal/platform/sec"
)

type apiClient struct {
	t      *testing.T
	router http.Handler
	token  string
}

func (c *apiClient) do(method, path, body string) (int, map[string]any) {
	c.t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}
	recorder := httptest.NewRecorder()
	c.router.ServeHTTP(recorder, request)

	if recorder.Body.Len() == 0 {
		return recorder.Code, nil
	}
	var decoded map[string]any
	require.NoError(c.t, json.NewDecoder(recorder.Body).Decode(&decoded))
	return recorder.Code, decoded
}

func newAPI(t *testing.T, f *serviceFixture) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(f.tokens))
	router.Mount("/profiles", profile.NewHandler(f.service).Routes())
	return router
}

func (f *serviceFixture) login(t *testing.T, accountID string) string {
	t.Helper()
	token, err := f.tokens.Issue(sec.Identity{AccountID: accountID}, time.Hour)
	require.NoError(t, err)
	return token
}

/*
TestHandler_ProfileFlow drives the owner and public routes end to end.
*/
func TestHandler_ProfileFlow(t *testing.T) {
	f := newServiceFixture(t)
	router := newAPI(t, f)
	account := f.register(t, "MIT", "admin@mit.edu")

	owner := &apiClient{t: t, router: router, token: f.login(t, account.ID)}
	public := &apiClient{t: t, router: router}

	status, body := owner.do(http.MethodGet, "/profiles/", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperr.CodeProfileNotFound, body["code"])

	status, body = owner.do(http.MethodPost, "/profiles/courses", `{"degree":"BSc","stream":"Physics"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperr.CodeProfileNotFound, body["code"])

	status, body = owner.do(http.MethodPost, "/profiles/",
		`{"handle":"mit","schools":"Engineering, Science","website":"https://mit.edu","twitter":"https://twitter.com/mit"}`)
	require.Equal(t, http.StatusOK, status)
	created := body["data"].(map[string]any)
	assert.Equal(t, []any{"Engineering", "Science"}, created["schools"])
	assert.Equal(t, "MIT", created["institution"].(map[string]any)["name"])

	status, body = owner.do(http.MethodPost, "/profiles/", `{"location":"Cambridge"}`)
	require.Equal(t, http.StatusOK, status)
	updated := body["data"].(map[string]any)
	assert.Equal(t, created["id"], updated["id"])
	assert.Equal(t, "https://twitter.com/mit", updated["social"].(map[string]any)["twitter"])

	status, body = owner.do(http.MethodPost, "/profiles/courses", `{"degree":"BSc","stream":"Physics"}`)
	require.Equal(t, http.StatusOK, status)
	courses := body["data"].(map[string]any)["courses"].([]any)
	require.Len(t, courses, 1)
	courseID := courses[0].(map[string]any)["id"].(string)

	status, _ = owner.do(http.MethodDelete, "/profiles/courses/unknown", "")
	assert.Equal(t, http.StatusOK, status)

	status, body = owner.do(http.MethodDelete, "/profiles/courses/"+courseID, "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["data"].(map[string]any)["courses"])

	status, body = public.do(http.MethodGet, "/profiles/handle/mit", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created["id"], body["data"].(map[string]any)["id"])

	status, _ = public.do(http.MethodGet, "/profiles/institution/"+account.ID, "")
	assert.Equal(t, http.StatusOK, status)

	status, body = public.do(http.MethodGet, "/profiles/all", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, _ = owner.do(http.MethodDelete, "/profiles/", "")
	assert.Equal(t, http.StatusNoContent, status)

	status, body = public.do(http.MethodGet, "/profiles/handle/mit", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperr.CodeProfileNotFound, body["code"])
}

/*
TestHandler_Errors maps failures onto status codes.
*/
func TestHandler_Errors(t *testing.T) {
	f := newServiceFixture(t)
	router := newAPI(t, f)
	mit := f.register(t, "MIT", "admin@mit.edu")
	cmu := f.register(t, "CMU", "admin@cmu.edu")

	first := &apiClient{t: t, router: router, token: f.login(t, mit.ID)}
	status, _ := first.do(http.MethodPost, "/profiles/", `{"handle":"alpha","schools":"Arts"}`)
	require.Equal(t, http.StatusOK, status)

	second := &apiClient{t: t, router: router, token: f.login(t, cmu.ID)}
	anonymous := &apiClient{t: t, router: router}

	tests := []struct {
		name       string
		client     *apiClient
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"handle_taken", second, http.MethodPost, "/profiles/", `{"handle":"alpha","schools":"Arts"}`, http.StatusConflict, apperr.CodeHandleTaken},
		{"short_handle", second, http.MethodPost, "/profiles/", `{"handle":"a","schools":"Arts"}`, http.StatusBadRequest, apperr.CodeValidation},
		{"blank_schools", second, http.MethodPost, "/profiles/", `{"handle":"beta","schools":" , "}`, http.StatusBadRequest, apperr.CodeValidation},
		{"bad_json", second, http.MethodPost, "/profiles/", `{"handle":`, http.StatusBadRequest, apperr.CodeValidation},
		{"anonymous_write", anonymous, http.MethodPost, "/profiles/", `{"handle":"gamma","schools":"Arts"}`, http.StatusUnauthorized, apperr.CodeUnauthorized},
		{"invalid_token", &apiClient{t: t, router: router, token: "garbage"}, http.MethodGet, "/profiles/all", "", http.StatusUnauthorized, apperr.CodeInvalidToken},
		{"missing_course_fields", first, http.MethodPost, "/profiles/courses", `{"degree":"BSc"}`, http.StatusBadRequest, apperr.CodeValidation},
		{"unknown_account", anonymous, http.MethodGet, "/profiles/institution/nope", "", http.StatusNotFound, apperr.CodeProfileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.client.t = t
			status, body := tt.client.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body["code"])
		})
	}
}
