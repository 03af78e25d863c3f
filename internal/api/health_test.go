// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/campusdir/internal/api"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestLiveness(t *testing.T) {
	liveness, _ := api.NewHealthHandlers(api.HealthDependencies{}, quietLogger)

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestReadiness reports every configured dependency.
*/
func TestReadiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	tests := []struct {
		name       string
		deps       api.HealthDependencies
		wantStatus int
		wantState  string
		wantChecks int
	}{
		{"nothing_configured", api.HealthDependencies{}, http.StatusOK, "ready", 0},
		{"all_healthy", api.HealthDependencies{CheckDatabase: ok, CheckCache: ok}, http.StatusOK, "ready", 2},
		{"cache_down", api.HealthDependencies{CheckDatabase: ok, CheckCache: down}, http.StatusServiceUnavailable, "degraded", 2},
		{"database_down", api.HealthDependencies{CheckDatabase: down}, http.StatusServiceUnavailable, "degraded", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, readiness := api.NewHealthHandlers(tt.deps, quietLogger)

			recorder := httptest.NewRecorder()
			readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tt.wantStatus, recorder.Code)

			var body struct {
				Data struct {
					Status string           `json:"status"`
					Checks []map[string]any `json:"checks"`
				} `json:"data"`
			}
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
			assert.Equal(t, tt.wantState, body.Data.Status)
			assert.Len(t, body.Data.Checks, tt.wantChecks)
		})
	}
}
