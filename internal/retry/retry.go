// Package retry provides bounded retry loops for remote operations.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config holds retry configuration.
type Config struct {
	// Attempts is the total attempt budget, including the first try.
	Attempts int
	// Delay is the wait between attempts.
	Delay time.Duration
	// MaxDelay caps the delay when a Multiplier > 1 is set.
	MaxDelay time.Duration
	// Multiplier grows the delay between attempts. 1.0 keeps it fixed,
	// which is what readiness polling wants.
	Multiplier float64
}

// Option is a functional option for retry configuration.
type Option func(*Config)

// Do runs operation until it succeeds or the attempt budget is exhausted.
// The default is 5 attempts with a fixed 2s delay. Context cancellation is
// respected between attempts. Errors wrapped with Fatal() are not retried.
func Do(ctx context.Context, operation func() error, opts ...Option) error {
	cfg := &Config{
		Attempts:   5,
		Delay:      2 * time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 1.0,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	delay := cfg.Delay
	var lastErr error

	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if IsFatal(err) {
			return fmt.Errorf("fatal error (not retrying): %w", err)
		}

		if attempt < cfg.Attempts {
			select {
			case <-ctx.Done():
				return fmt.Errorf("cancelled after %d attempts: %w", attempt, ctx.Err())
			case <-time.After(delay):
				if cfg.Multiplier > 1 {
					delay = time.Duration(float64(delay) * cfg.Multiplier)
					if delay > cfg.MaxDelay {
						delay = cfg.MaxDelay
					}
				}
			}
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", cfg.Attempts, lastErr)
}

// WithAttempts sets the total attempt budget.
func WithAttempts(n int) Option {
	return func(c *Config) {
		c.Attempts = n
	}
}

// WithDelay sets the inter-attempt delay.
func WithDelay(d time.Duration) Option {
	return func(c *Config) {
		c.Delay = d
	}
}

// WithMaxDelay caps the delay under exponential growth.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = d
	}
}

// WithBackoff sets a delay multiplier, turning the fixed-interval loop
// into exponential backoff.
func WithBackoff(multiplier float64) Option {
	return func(c *Config) {
		c.Multiplier = multiplier
	}
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable).
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
