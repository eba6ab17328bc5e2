package messaging

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryConfig controls the Fibonacci backoff used by Retrying.
type RetryConfig struct {
	// Base is the first backoff interval.
	Base time.Duration
	// Cap bounds a single backoff interval.
	Cap time.Duration
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries uint64
}

// Retrying wraps a Publisher and retries failed publishes with Fibonacci backoff.
type Retrying struct {
	next Publisher
	cfg  RetryConfig
}

// NewRetrying wraps next with retry behaviour.
func NewRetrying(next Publisher, cfg RetryConfig) *Retrying {
	if cfg.Base <= 0 {
		cfg.Base = 200 * time.Millisecond
	}
	if cfg.Cap <= 0 {
		cfg.Cap = 5 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}

	return &Retrying{next: next, cfg: cfg}
}

// Publish delegates to the wrapped publisher until it succeeds, the retry
// budget is spent or ctx is done. Validation errors and ErrClosed are not retried.
func (r *Retrying) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	b := retry.NewFibonacci(r.cfg.Base)
	b = retry.WithCappedDuration(r.cfg.Cap, b)
	b = retry.WithMaxRetries(r.cfg.MaxRetries, b)

	var res PublishResult
	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++

		out, err := r.next.Publish(ctx, destination, msg)
		if err == nil {
			res = out
			return nil
		}

		if !retryable(err) {
			return err
		}

		slog.WarnContext(ctx, "publish failed, retrying", "destination", destination, "attempt", attempt, "error", err)
		return retry.RetryableError(err)
	})
	if err != nil {
		return PublishResult{}, err
	}

	return res, nil
}

// Close closes the wrapped publisher.
func (r *Retrying) Close() error {
	return r.next.Close()
}

func retryable(err error) bool {
	switch {
	case errors.Is(err, ErrClosed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, ErrNATSSubjectRequired),
		errors.Is(err, ErrKafkaTopicRequired),
		errors.Is(err, ErrNSQTopicRequired),
		errors.Is(err, ErrPubSubTopicRequired):
		return false
	default:
		return true
	}
}
