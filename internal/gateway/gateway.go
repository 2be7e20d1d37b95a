// Package gateway mediates every external provider call, enforcing a minimum
// inter-call interval per provider and retrying transient failures with
// jittered exponential backoff.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tunedex/tunedex/internal/shared"
	"golang.org/x/time/rate"
)

const defaultBackoffBase = 250 * time.Millisecond

// transientError marks a failure that may succeed on retry (timeout, 5xx, connection reset).
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// permanentError marks a failure that retrying cannot fix (4xx, malformed response).
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Transient wraps err as retryable.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// Permanent wraps err as non-retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsTransient reports whether err was classified as retryable.
// Unclassified errors are treated as transient so network-level failures
// (connection reset, timeout) get their retries.
func IsTransient(err error) bool {
	var p *permanentError
	return !errors.As(err, &p)
}

// ClassifyStatus maps an HTTP response status to the transient/permanent taxonomy.
func ClassifyStatus(status int, err error) error {
	if err == nil {
		return nil
	}
	if status == http.StatusTooManyRequests || status >= 500 {
		return Transient(err)
	}
	if status >= 400 {
		return Permanent(err)
	}
	return Transient(err)
}

// Limits configures one provider's call policy.
type Limits struct {
	MinInterval time.Duration // minimum spacing between calls to this provider
	MaxRetries  int           // retries after the first attempt, transient failures only
}

// Gateway owns per-provider rate limiter state. It is the only piece of
// mutable shared state in the engine and is safe for concurrent use.
type Gateway struct {
	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	limits      map[string]Limits
	defaults    Limits
	backoffBase time.Duration
	logger      *log.Logger
}

// New creates a Gateway with the given default limits applied to providers
// that have no explicit configuration.
func New(logger *log.Logger, defaults Limits) *Gateway {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if defaults.MinInterval <= 0 {
		defaults.MinInterval = 200 * time.Millisecond
	}
	if defaults.MaxRetries < 0 {
		defaults.MaxRetries = 0
	}
	return &Gateway{
		limiters:    make(map[string]*rate.Limiter),
		limits:      make(map[string]Limits),
		defaults:    defaults,
		backoffBase: defaultBackoffBase,
		logger:      logger,
	}
}

// Configure sets limits for a named provider. Must be called before the
// provider's first Call to take effect.
func (g *Gateway) Configure(provider string, l Limits) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if l.MinInterval <= 0 {
		l.MinInterval = g.defaults.MinInterval
	}
	if l.MaxRetries < 0 {
		l.MaxRetries = g.defaults.MaxRetries
	}
	g.limits[provider] = l
}

// SetBackoffBase overrides the retry backoff base interval.
func (g *Gateway) SetBackoffBase(d time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if d > 0 {
		g.backoffBase = d
	}
}

func (g *Gateway) providerLimits(provider string) (Limits, *rate.Limiter, time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	l, ok := g.limits[provider]
	if !ok {
		l = g.defaults
	}

	limiter, ok := g.limiters[provider]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(l.MinInterval), 1)
		g.limiters[provider] = limiter
	}

	return l, limiter, g.backoffBase
}

// Call invokes op for the named provider, waiting out the provider's minimum
// interval first. Transient failures are retried with jittered exponential
// backoff up to the configured maximum; permanent failures return immediately.
// Every attempt consumes a rate limit slot, so a failed call still protects
// the remote quota. Terminal failures wrap [shared.ErrProviderUnavailable].
func (g *Gateway) Call(ctx context.Context, provider string, op func(context.Context) error) error {
	limits, limiter, base := g.providerLimits(provider)

	var lastErr error
	for attempt := 0; attempt <= limits.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, jitteredBackoff(base, attempt-1)); err != nil {
				return err
			}
		}

		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsTransient(err) {
			g.logger.Warn("provider call failed permanently", "provider", provider, "err", err)
			return fmt.Errorf("%w: %s: %w", shared.ErrProviderUnavailable, provider, err)
		}

		g.logger.Warn("provider call failed", "provider", provider, "attempt", attempt+1, "err", err)
	}

	return fmt.Errorf("%w: %s after %d attempts: %w", shared.ErrProviderUnavailable, provider, limits.MaxRetries+1, lastErr)
}

// jitteredBackoff returns base*2^attempt scaled by a random factor in [0.5, 1.5).
func jitteredBackoff(base time.Duration, attempt int) time.Duration {
	d := base << uint(attempt)
	return d/2 + time.Duration(rand.Int63n(int64(d)))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
