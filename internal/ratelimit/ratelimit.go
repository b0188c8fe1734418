// Package ratelimit implements fixed-window per-key request limiting.
//
// Every site visitor contends on IP-scoped counters, so each Limit call
// is a single atomic increment-and-check against the backing store. The
// standard fixed-window boundary burst (up to 2x the limit across a
// window edge) is an accepted characteristic, not a bug.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Result reports the outcome of a single increment-and-check.
type Result struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// Limiter is an increment-and-check counter keyed by caller identity.
// Implementations must treat each call as one atomic remote operation
// that can fail; callers decide how to handle the error.
type Limiter interface {
	Limit(ctx context.Context, key string) (Result, error)
}

// Memory is an in-process fixed-window limiter. Used in development and
// tests; production uses the SQLite-backed store so counters survive
// restarts.
type Memory struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	clients map[string]*windowState
}

type windowState struct {
	count int
	reset time.Time
}

// NewMemory creates an in-memory fixed-window limiter.
func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{
		limit:   limit,
		window:  window,
		now:     time.Now,
		clients: make(map[string]*windowState),
	}
}

// Limit counts one request against key's current window.
func (m *Memory) Limit(_ context.Context, key string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	st, ok := m.clients[key]
	if !ok || !now.Before(st.reset) {
		reset := now.Add(m.window)
		m.clients[key] = &windowState{count: 1, reset: reset}
		return Result{Allowed: true, Remaining: m.limit - 1, Reset: reset}, nil
	}
	if st.count >= m.limit {
		return Result{Allowed: false, Remaining: 0, Reset: st.reset}, nil
	}
	st.count++
	return Result{Allowed: true, Remaining: m.limit - st.count, Reset: st.reset}, nil
}
