// Package ratelimit implements a fixed-window request counter keyed by client.
package ratelimit

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// sweepThreshold bounds how many idle keys accumulate before expired windows are dropped.
const sweepThreshold = 10000

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetIn is the time until the current window closes.
	ResetIn time.Duration
}

type window struct {
	start time.Time
	count int
}

// Limiter allows at most Limit requests per key in each fixed Window.
type Limiter struct {
	limit  int
	period time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

// New creates a limiter allowing limit requests per period.
func New(limit int, period time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		period:  period,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

// Allow counts one request for key and reports whether it is within the limit.
// Rejected requests are counted too.
func (l *Limiter) Allow(key string) Decision {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.windows) >= sweepThreshold {
		l.sweepLocked(now)
	}

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.period {
		w = &window{start: now}
		l.windows[key] = w
	}
	w.count++

	remaining := l.limit - w.count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   w.count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetIn:   w.start.Add(l.period).Sub(now),
	}
}

// Sweep drops windows that have expired.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked(l.now())
}

func (l *Limiter) sweepLocked(now time.Time) {
	for k, w := range l.windows {
		if now.Sub(w.start) >= l.period {
			delete(l.windows, k)
		}
	}
}

// Period is the window length.
func (l *Limiter) Period() time.Duration {
	return l.period
}

// RetryMessage is the 429 body for a window of length d, in the largest
// whole unit that divides it.
func RetryMessage(d time.Duration) string {
	return "Too many requests from this IP, please try again after " + humanize(d)
}

func humanize(d time.Duration) string {
	n, unit := seconds(d), "second"
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		n, unit = int(d/time.Hour), "hour"
	case d >= time.Minute && d%time.Minute == 0:
		n, unit = int(d/time.Minute), "minute"
	}
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Middleware gates a route by client IP. Over the limit it aborts with 429 and
// the fixed message, before the handler sees the payload.
func (l *Limiter) Middleware(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := l.Allow(c.ClientIP())

		c.Header("RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("RateLimit-Reset", strconv.Itoa(seconds(d.ResetIn)))

		if !d.Allowed {
			c.Header("Retry-After", strconv.Itoa(seconds(d.ResetIn)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": message})
			return
		}
		c.Next()
	}
}

func seconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}
