// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware holds the HTTP decorators shared by every directory route.

Order in the server chain:

  - RequestID and StructuredLogger give each request a correlation id and a
    request-scoped logger.
  - RateLimit and CORS guard the edge (ratelimit.go, cors.go).
  - PanicRecovery turns a handler panic into a 500 envelope.
  - Authenticate and RequireAuth resolve the bearer identity (authz.go).
*/
package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/campusdir/internal/platform/apperr"
	"github.com/taibuivan/campusdir/internal/platform/constants"
	"github.com/taibuivan/campusdir/internal/platform/ctxutil"
	"github.com/taibuivan/campusdir/internal/platform/respond"
	"github.com/taibuivan/campusdir/pkg/uuid"
)

// # Correlation

// RequestID keeps a client-supplied X-Request-ID or mints a time-ordered one,
// then echoes it on the response.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			id := strings.TrimSpace(request.Header.Get(constants.HeaderXRequestID))
			if id == "" {
				id = uuid.New()
			}

			writer.Header().Set(constants.HeaderXRequestID, id)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), id)))
		})
	}
}

// StructuredLogger stores a request-scoped logger in the context and emits
// one "http_request_finished" line per request. 4xx log at warn, 5xx at error.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			started := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)
			ctx := ctxutil.WithLogger(request.Context(), requestLogger)

			wrapped := chimw.NewWrapResponseWriter(writer, request.ProtoMajor)
			next.ServeHTTP(wrapped, request.WithContext(ctx))

			status := wrapped.Status()
			if status == 0 {
				status = http.StatusOK
			}

			requestLogger.Log(ctx, levelFor(status), "http_request_finished",
				slog.Int("status", status),
				slog.Int("bytes", wrapped.BytesWritten()),
				slog.Int64("latency_ms", time.Since(started).Milliseconds()),
			)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// # Recovery

// PanicRecovery answers a panicking handler with INTERNAL_ERROR and logs the stack.
// [http.ErrAbortHandler] is re-raised so the server can drop the connection.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				logger.ErrorContext(request.Context(), "panic_recovered",
					slog.String("request_id", ctxutil.GetRequestID(request.Context())),
					slog.Any("panic", recovered),
					slog.String("stack", string(debug.Stack())),
				)
				respond.Error(writer, request, apperr.Internal(fmt.Errorf("panic: %v", recovered)))
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Helpers

// RealIP returns the client address, preferring X-Real-IP, then the first
// X-Forwarded-For hop, then the connection's remote host.
func RealIP(request *http.Request) string {
	if ip := strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP)); ip != "" {
		return ip
	}
	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
