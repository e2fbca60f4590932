package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterStore increments the request counter for a key within the current
// fixed window and returns the resulting count. A key's window opens on its
// first request and closes one window duration later.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type windowCounter struct {
	count   int64
	resetAt time.Time
}

// MemoryCounterStore keeps fixed-window counters in process memory.
type MemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]*windowCounter
}

func NewMemoryCounterStore() *MemoryCounterStore {
	s := &MemoryCounterStore{counters: make(map[string]*windowCounter)}

	// Cleanup goroutine
	go func() {
		for {
			time.Sleep(time.Minute)
			now := time.Now()
			s.mu.Lock()
			for key, c := range s.counters {
				if now.After(c.resetAt) {
					delete(s.counters, key)
				}
			}
			s.mu.Unlock()
		}
	}()

	return s
}

func (s *MemoryCounterStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[key]
	if !ok || now.After(c.resetAt) {
		s.counters[key] = &windowCounter{count: 1, resetAt: now.Add(window)}
		return 1, nil
	}

	c.count++
	return c.count, nil
}

// RedisCounterStore keeps fixed-window counters in redis, shared across
// replicas. INCR creates the key; the first hit sets the window TTL.
type RedisCounterStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisCounterStore(rdb *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{rdb: rdb, prefix: "ratelimit:"}
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := s.prefix + key

	count, err := s.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment rate counter: %w", err)
	}
	if count == 1 {
		if err := s.rdb.Expire(ctx, redisKey, window).Err(); err != nil {
			return 0, fmt.Errorf("failed to set rate counter expiry: %w", err)
		}
	}

	return count, nil
}

// RateLimiter rejects requests over the per-key ceiling before any upstream
// work happens.
type RateLimiter struct {
	store  CounterStore
	limit  int
	window time.Duration
}

func NewRateLimiter(store CounterStore, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{store: store, limit: limit, window: window}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)

		count, err := rl.store.Incr(r.Context(), key, rl.window)
		if err != nil {
			// A broken counter store must not take the chat down.
			log.Printf("rate limiter: counter store error: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		if count > int64(rl.limit) {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the host part of RemoteAddr. Behind a proxy the RealIP
// middleware has already rewritten RemoteAddr from X-Forwarded-For.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
		},
	})
}
