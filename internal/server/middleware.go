package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

const maxBodySize = 1 << 20 // 1MB

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		next.ServeHTTP(w, r)
	})
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowedOrigin != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// pollLimiters throttles the polling fallback per screen. A well-behaved
// player polls every couple of minutes; anything faster gets 429 so a
// misconfigured fleet cannot turn the fallback into a load problem.
type pollLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

var screenPollLimiters = &pollLimiters{limiters: make(map[string]*rate.Limiter)}

func (p *pollLimiters) get(screenID string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.limiters[screenID]
	if !ok {
		// One sustained request per 5s with a small burst for reconnects.
		l = rate.NewLimiter(rate.Every(5*time.Second), 5)
		p.limiters[screenID] = l
	}
	return l
}

func pollRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		screenID := chi.URLParam(r, "screenId")
		if screenID != "" && !screenPollLimiters.get(screenID).Allow() {
			w.Header().Set("Retry-After", "5")
			http.Error(w, `{"error":"poll rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
