// Package retry runs a unit of work with exponential backoff and jitter.
//
// Every failed attempt and every backoff decision is logged through the
// logging package with the attempt index, the total budget and the delay.
package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/CodexForgeBR/nft-mint/internal/logging"
)

// Defaults used when the corresponding Config field is zero.
const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = time.Second
	DefaultMaxJitter   = time.Second
)

// Config configures a Do call.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first one.
	MaxAttempts int
	// BaseDelay is multiplied by 2^attempt to get the backoff delay.
	BaseDelay time.Duration
	// MaxJitter bounds the random delay added to the backoff: [0, MaxJitter).
	MaxJitter time.Duration
	// Label names the operation in log lines (e.g. "upload metadata").
	Label string

	// Sleep waits for d. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
	// Jitter returns a value in [0, n). Defaults to math/rand.
	Jitter func(n int64) int64

	OnFailure func(attempt, maxAttempts int, err error)
	OnRetry   func(attempt, maxAttempts int, delay time.Duration)
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.BaseDelay == 0 {
		c.BaseDelay = DefaultBaseDelay
	}
	if c.MaxJitter == 0 {
		c.MaxJitter = DefaultMaxJitter
	}
	if c.Sleep == nil {
		c.Sleep = Sleep
	}
	if c.Jitter == nil {
		c.Jitter = rand.Int63n
	}
	return c
}

// maxDelay is the saturation point for Backoff.
const maxDelay = time.Duration(math.MaxInt64)

// Backoff returns the delay after failed attempt (1-indexed):
// base*2^attempt plus jitter in [0, maxJitter). The result saturates at the
// largest time.Duration instead of wrapping around.
func Backoff(attempt int, base, maxJitter time.Duration, jitter func(n int64) int64) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	var delay time.Duration
	switch {
	case base <= 0:
	case attempt >= 63 || base > maxDelay>>uint(attempt):
		return maxDelay
	default:
		delay = base << uint(attempt)
	}
	if maxJitter > 0 && jitter != nil {
		j := time.Duration(jitter(int64(maxJitter)))
		if delay > maxDelay-j {
			return maxDelay
		}
		delay += j
	}
	return delay
}

// Do calls op until it succeeds or cfg.MaxAttempts attempts have failed.
//
// The first successful result is returned immediately. After a failed attempt
// that is not the last one, Do waits Backoff(attempt) before trying again. When
// the last attempt fails, Do returns that attempt's error as is, without
// waiting. Only the backoff wait observes ctx; op receives ctx and is never
// cut short by Do.
func Do[T any](ctx context.Context, cfg Config, op func(ctx context.Context) (T, error)) (T, error) {
	cfg = cfg.withDefaults()

	var zero T
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if cfg.Label != "" {
			logging.Debug(fmt.Sprintf("%s: attempt %d/%d", cfg.Label, attempt, cfg.MaxAttempts))
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		logging.Warn(fmt.Sprintf("%sAttempt %d/%d failed: %v", labelPrefix(cfg.Label), attempt, cfg.MaxAttempts, err))
		if cfg.OnFailure != nil {
			cfg.OnFailure(attempt, cfg.MaxAttempts, err)
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		delay := Backoff(attempt, cfg.BaseDelay, cfg.MaxJitter, cfg.Jitter)
		logging.Info(fmt.Sprintf("%sRetrying in %s...", labelPrefix(cfg.Label), logging.FormatMillis(delay.Milliseconds())))
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, cfg.MaxAttempts, delay)
		}

		if err := cfg.Sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	return zero, lastErr
}

func labelPrefix(label string) string {
	if label == "" {
		return ""
	}
	return label + ": "
}

// Sleep waits for d, returning ctx.Err() if ctx is done first.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
