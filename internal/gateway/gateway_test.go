package gateway

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/tunedex/tunedex/internal/shared"
)

func TestClassification(t *testing.T) {
	t.Run("NilError", func(t *testing.T) {
		if ClassifyStatus(http.StatusOK, nil) != nil {
			t.Error("nil error should classify as nil")
		}
		if Transient(nil) != nil || Permanent(nil) != nil {
			t.Error("wrapping nil should return nil")
		}
	})

	t.Run("TooManyRequestsIsTransient", func(t *testing.T) {
		err := ClassifyStatus(http.StatusTooManyRequests, errors.New("throttled"))
		if !IsTransient(err) {
			t.Error("429 should be transient")
		}
	})

	t.Run("ServerErrorIsTransient", func(t *testing.T) {
		err := ClassifyStatus(http.StatusBadGateway, errors.New("bad gateway"))
		if !IsTransient(err) {
			t.Error("5xx should be transient")
		}
	})

	t.Run("ClientErrorIsPermanent", func(t *testing.T) {
		err := ClassifyStatus(http.StatusNotFound, errors.New("not found"))
		if IsTransient(err) {
			t.Error("4xx should be permanent")
		}
	})

	t.Run("UnclassifiedIsTransient", func(t *testing.T) {
		if !IsTransient(errors.New("connection reset")) {
			t.Error("unclassified errors should be treated as transient")
		}
	})

	t.Run("WrappedPermanentSurvivesWrapping", func(t *testing.T) {
		err := Permanent(errors.New("bad request"))
		wrapped := errors.Join(errors.New("outer"), err)
		if IsTransient(wrapped) {
			t.Error("permanent classification should survive wrapping")
		}
	})
}

func TestGatewayCall(t *testing.T) {
	t.Run("EnforcesMinInterval", func(t *testing.T) {
		gw := New(nil, Limits{MinInterval: time.Millisecond})
		gw.Configure("spaced", Limits{MinInterval: 30 * time.Millisecond})

		start := time.Now()
		for i := 0; i < 3; i++ {
			err := gw.Call(context.Background(), "spaced", func(ctx context.Context) error {
				return nil
			})
			if err != nil {
				t.Fatalf("call %d failed: %v", i, err)
			}
		}
		elapsed := time.Since(start)

		// First call is immediate; the next two wait out the interval.
		if elapsed < 50*time.Millisecond {
			t.Errorf("expected at least 50ms between 3 calls, got %v", elapsed)
		}
	})

	t.Run("PermanentFailureReturnsImmediately", func(t *testing.T) {
		gw := New(nil, Limits{MinInterval: time.Millisecond, MaxRetries: 3})
		gw.SetBackoffBase(time.Millisecond)

		calls := 0
		err := gw.Call(context.Background(), "perm", func(ctx context.Context) error {
			calls++
			return Permanent(errors.New("invalid request"))
		})

		if calls != 1 {
			t.Errorf("expected 1 attempt for permanent failure, got %d", calls)
		}
		if !errors.Is(err, shared.ErrProviderUnavailable) {
			t.Errorf("expected ErrProviderUnavailable, got %v", err)
		}
	})

	t.Run("TransientFailureRetries", func(t *testing.T) {
		gw := New(nil, Limits{MinInterval: time.Millisecond})
		gw.Configure("flaky", Limits{MinInterval: time.Millisecond, MaxRetries: 2})
		gw.SetBackoffBase(time.Millisecond)

		calls := 0
		err := gw.Call(context.Background(), "flaky", func(ctx context.Context) error {
			calls++
			return Transient(errors.New("timeout"))
		})

		if calls != 3 {
			t.Errorf("expected 3 attempts (1 + 2 retries), got %d", calls)
		}
		if !errors.Is(err, shared.ErrProviderUnavailable) {
			t.Errorf("expected ErrProviderUnavailable, got %v", err)
		}
	})

	t.Run("TransientThenSuccess", func(t *testing.T) {
		gw := New(nil, Limits{MinInterval: time.Millisecond})
		gw.Configure("recovers", Limits{MinInterval: time.Millisecond, MaxRetries: 2})
		gw.SetBackoffBase(time.Millisecond)

		calls := 0
		err := gw.Call(context.Background(), "recovers", func(ctx context.Context) error {
			calls++
			if calls == 1 {
				return Transient(errors.New("blip"))
			}
			return nil
		})

		if err != nil {
			t.Fatalf("expected recovery, got %v", err)
		}
		if calls != 2 {
			t.Errorf("expected 2 attempts, got %d", calls)
		}
	})

	t.Run("CancelledContextAborts", func(t *testing.T) {
		gw := New(nil, Limits{MinInterval: time.Millisecond})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := gw.Call(ctx, "cancelled", func(ctx context.Context) error {
			t.Error("op should not run with a cancelled context")
			return nil
		})

		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("UnconfiguredProviderUsesDefaults", func(t *testing.T) {
		gw := New(nil, Limits{MinInterval: time.Millisecond, MaxRetries: 1})
		gw.SetBackoffBase(time.Millisecond)

		calls := 0
		gw.Call(context.Background(), "unknown", func(ctx context.Context) error {
			calls++
			return Transient(errors.New("nope"))
		})

		if calls != 2 {
			t.Errorf("expected default retry policy (2 attempts), got %d", calls)
		}
	})
}

func TestJitteredBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	for attempt := 0; attempt < 4; attempt++ {
		expected := base << uint(attempt)
		for i := 0; i < 50; i++ {
			d := jitteredBackoff(base, attempt)
			if d < expected/2 || d >= expected+expected/2 {
				t.Fatalf("attempt %d: backoff %v outside [%v, %v)", attempt, d, expected/2, expected+expected/2)
			}
		}
	}
}
