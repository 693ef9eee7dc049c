// Package ratelimit provides a per-client token-bucket limiter. Each client
// key (normally the remote IP) gets its own bucket holding up to the
// configured request threshold, refilled evenly across the window.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// minClientTTL is the floor for how long an idle client entry survives;
// entries must outlive the window or an idle client would regain a full
// bucket early.
const minClientTTL = 3 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter tracks one token bucket per client key. All access to the map is
// mutex-guarded; Allow is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client

	limit rate.Limit
	burst int
	ttl   time.Duration
}

// New builds a limiter admitting requests per window for each client key,
// e.g. New(100, time.Hour) for 100/hour.
func New(requests int, window time.Duration) *Limiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	ttl := window
	if ttl < minClientTTL {
		ttl = minClientTTL
	}
	return &Limiter{
		clients: make(map[string]*client),
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   requests,
		ttl:     ttl,
	}
}

// Allow reports whether the client identified by key may proceed, consuming
// one token if so.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	// Opportunistic cleanup keeps the map from growing unbounded without a
	// background goroutine.
	for k, v := range l.clients {
		if now.Sub(v.lastSeen) > l.ttl {
			delete(l.clients, k)
		}
	}

	return c.limiter.Allow()
}
