// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/campusdir/internal/platform/constants"
)

// AppConfig is the part of the runtime configuration CORS reads.
type AppConfig interface {
	IsDevelopment() bool
	AllowedOrigins() []string
}

var (
	corsMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions,
	}, ", ")

	corsHeaders = strings.Join([]string{
		"Accept", "Content-Type", constants.HeaderAuthorization, constants.HeaderXRequestID,
	}, ", ")
)

// CORS admits browser callers from the configured origins. In development
// every origin is reflected. Requests without an Origin header pass through,
// and preflights are answered with 204 without reaching the router.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins()))
	for _, origin := range cfg.AllowedOrigins() {
		allowed[strings.TrimRight(origin, "/")] = struct{}{}
	}
	open := cfg.IsDevelopment()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			header := writer.Header()
			header.Add("Vary", constants.HeaderOrigin)

			if _, ok := allowed[origin]; ok || open {
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", corsMethods)
				header.Set("Access-Control-Allow-Headers", corsHeaders)
				header.Set("Access-Control-Expose-Headers", constants.HeaderXRequestID)
				header.Set("Access-Control-Max-Age", "300")
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
