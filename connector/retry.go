package connector

import (
	"context"
	"time"
)

// RetryOptions controls connect-time retry with exponential backoff.
type RetryOptions struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Backoff    float64
}

func (o RetryOptions) normalized() RetryOptions {
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.BaseDelay == 0 {
		o.BaseDelay = time.Second
	}
	if o.Backoff < 1 {
		o.Backoff = 2
	}
	return o
}

func retryConnect(ctx context.Context, opts RetryOptions, connectFn func(context.Context) (Connection, error)) (Connection, error) {
	opts = opts.normalized()

	var err error
	var conn Connection
	delay := opts.BaseDelay

	for i := 0; i < opts.MaxRetries; i++ {
		conn, err = connectFn(ctx)
		if err == nil {
			return conn, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
			delay = time.Duration(float64(delay) * opts.Backoff)
			if opts.MaxDelay > 0 && delay > opts.MaxDelay {
				delay = opts.MaxDelay
			}
		}
	}
	return nil, err
}
