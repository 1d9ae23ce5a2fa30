// Package circuitbreaker provides a typed wrapper around sony/gobreaker.
package circuitbreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/deeparb/deeparb/internal/apperror"
)

// Config is the breaker configuration, re-exported so callers do not
// import gobreaker directly for the common case.
type Config = gobreaker.Settings

// DefaultConfig returns a breaker that opens after 5 consecutive
// failures and probes again after 30 seconds.
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
}

// CircuitBreaker wraps gobreaker with typed results and error mapping.
type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New creates a typed circuit breaker.
func New[T any](cfg Config) *CircuitBreaker[T] {
	return &CircuitBreaker[T]{cb: gobreaker.NewCircuitBreaker[T](cfg)}
}

// Execute runs fn through the breaker. An open breaker surfaces as a
// CIRCUIT_OPEN application error so callers can branch on the code.
func (c *CircuitBreaker[T]) Execute(fn func() (T, error)) (T, error) {
	result, err := c.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return result, apperror.New(apperror.CodeCircuitOpen,
			apperror.WithCause(err),
			apperror.WithContext("breaker "+c.cb.Name()))
	}
	return result, err
}

// State returns the current breaker state.
func (c *CircuitBreaker[T]) State() gobreaker.State {
	return c.cb.State()
}
