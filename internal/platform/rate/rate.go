// Package rate provides a token bucket rate limiter for controlling request rates
// against a single provider. It wraps golang.org/x/time/rate with the
// knobs the HTTP client needs.
package rate

import (
	"context"
	"time"

	xrate "golang.org/x/time/rate"
)

// Limiter controls the rate of operations. It supports both blocking (Wait)
// and non-blocking (Allow) modes and is safe for concurrent use, so one
// limiter can be shared by every host hitting the same provider.
type Limiter struct {
	lim *xrate.Limiter
}

// New creates a new rate limiter with the specified rate (requests per second)
// and burst size.
//
// Example:
//
//	limiter := rate.New(2, 1) // 2 req/s, no bursts
func New(rps float64, burst int) *Limiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{lim: xrate.NewLimiter(xrate.Limit(rps), burst)}
}

// Wait blocks until the limiter allows an operation to proceed or the context is canceled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.lim.Wait(ctx)
}

// Allow reports whether an operation can proceed immediately, consuming a token if so.
func (l *Limiter) Allow() bool {
	return l.lim.Allow()
}

// AllowN reports whether n operations can proceed immediately.
func (l *Limiter) AllowN(n int) bool {
	return l.lim.AllowN(time.Now(), n)
}

// SetRate changes the rate limit dynamically.
func (l *Limiter) SetRate(rps float64) {
	if rps <= 0 {
		rps = 1
	}
	l.lim.SetLimit(xrate.Limit(rps))
}

// SetBurst changes the burst size dynamically.
func (l *Limiter) SetBurst(burst int) {
	if burst <= 0 {
		burst = 1
	}
	l.lim.SetBurst(burst)
}

// Rate returns the current rate limit (tokens per second).
func (l *Limiter) Rate() float64 {
	return float64(l.lim.Limit())
}

// Burst returns the current burst size.
func (l *Limiter) Burst() int {
	return l.lim.Burst()
}

// Tokens returns the current number of available tokens.
func (l *Limiter) Tokens() float64 {
	return l.lim.Tokens()
}
