// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/campusdir/internal/platform/apperr"
	"github.com/taibuivan/campusdir/internal/platform/constants"
	"github.com/taibuivan/campusdir/internal/platform/respond"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorTable holds one token bucket per client address.
type visitorTable struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

func newVisitorTable(requestsPerSecond float64, burst int) *visitorTable {
	return &visitorTable{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// reserve takes a token for key. When the bucket is empty it returns false
// and the wait until the next token.
func (table *visitorTable) reserve(key string, now time.Time) (bool, time.Duration) {
	table.mu.Lock()
	defer table.mu.Unlock()

	entry, ok := table.visitors[key]
	if !ok {
		entry = &visitor{limiter: rate.NewLimiter(table.limit, table.burst)}
		table.visitors[key] = entry
	}
	entry.lastSeen = now

	reservation := entry.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Second
	}
	delay := reservation.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	reservation.CancelAt(now)
	return false, delay
}

// sweep drops visitors idle for longer than ttl and reports how many went.
func (table *visitorTable) sweep(now time.Time, ttl time.Duration) int {
	table.mu.Lock()
	defer table.mu.Unlock()

	removed := 0
	for key, entry := range table.visitors {
		if now.Sub(entry.lastSeen) > ttl {
			delete(table.visitors, key)
			removed++
		}
	}
	return removed
}

func (table *visitorTable) size() int {
	table.mu.Lock()
	defer table.mu.Unlock()
	return len(table.visitors)
}

// RateLimit throttles each client address with its own token bucket and
// answers RATE_LIMITED with a Retry-After header once the burst is spent.
//
// Every call owns a separate table. Idle entries are swept until ctx ends.
func RateLimit(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	table := newVisitorTable(requestsPerSecond, burst)

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				table.sweep(now, constants.RateLimitClientTTL)
			case <-ctx.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			allowed, wait := table.reserve(RealIP(request), time.Now())
			if !allowed {
				seconds := retryAfterSeconds(wait)
				writer.Header().Set("Retry-After", strconv.Itoa(seconds))
				respond.Error(writer, request, apperr.RateLimited(seconds))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

func retryAfterSeconds(wait time.Duration) int {
	seconds := int(math.Ceil(wait.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}
