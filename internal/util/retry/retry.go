package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config holds backoff settings.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// Option adjusts a Config.
type Option func(*Config)

func newConfig(opts []Option) *Config {
	cfg := &Config{
		MaxAttempts:  6,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return cfg
}

// next returns the delay to use after d.
func (c *Config) next(d time.Duration) time.Duration {
	d = time.Duration(float64(d) * c.Multiplier)
	if d > c.MaxDelay {
		return c.MaxDelay
	}
	return d
}

// Do runs operation until it returns nil, at most MaxAttempts times.
// Errors marked with Fatal end the loop immediately. Cancelling ctx stops
// the wait between attempts.
func Do(ctx context.Context, operation func(ctx context.Context) error, opts ...Option) error {
	cfg := newConfig(opts)
	delay := cfg.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := operation(ctx)
		if err == nil {
			return nil
		}
		if IsFatal(err) {
			return err
		}
		lastErr = err

		if attempt == cfg.MaxAttempts {
			break
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("stopped after %d attempts: %w", attempt, errors.Join(ctx.Err(), lastErr))
		case <-timer.C:
		}
		delay = cfg.next(delay)
	}

	return fmt.Errorf("giving up after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

// ErrConditionNotMet is wrapped by Until when attempts run out while the
// condition still reports false.
var ErrConditionNotMet = errors.New("condition not met")

// Until polls condition until it reports true. An error from condition is
// treated like a false result unless it is marked Fatal.
func Until(ctx context.Context, condition func(ctx context.Context) (bool, error), opts ...Option) error {
	return Do(ctx, func(ctx context.Context) error {
		done, err := condition(ctx)
		if err != nil {
			return err
		}
		if !done {
			return ErrConditionNotMet
		}
		return nil
	}, opts...)
}

// WithMaxAttempts sets how many times the operation runs at most.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithInitialDelay sets the wait after the first failed attempt.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		c.InitialDelay = d
	}
}

// WithMaxDelay caps the wait between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = d
	}
}

// WithMultiplier sets the growth factor of the wait.
func WithMultiplier(m float64) Option {
	return func(c *Config) {
		c.Multiplier = m
	}
}

// FatalError marks an error that must not be retried.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks err as not retryable. Fatal(nil) is nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal reports whether err or anything it wraps was marked with Fatal.
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
