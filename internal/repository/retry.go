package repository

import (
	"context"
	"time"

	"github.com/Dhoini/customer-service/pkg/logger"
	"github.com/cenkalti/backoff/v4"
)

// RetryConnect runs connect with exponential backoff until it succeeds,
// maxElapsed passes or ctx is done. It returns the last connect error.
func RetryConnect(ctx context.Context, what string, maxElapsed time.Duration, log *logger.Logger, connect func(ctx context.Context) error) error {
	var lastErr error
	attempt := 0

	operation := func() error {
		attempt++
		lastErr = connect(ctx)
		if lastErr != nil {
			log.Warnw("Storage connection attempt failed", "storage", what, "attempt", attempt, "error", lastErr)
		}
		return lastErr
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = maxElapsed
	bo.Reset()

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		if lastErr == nil {
			lastErr = err
		}
		log.Errorw("Giving up connecting to storage", "storage", what, "attempts", attempt, "error", lastErr)
		return lastErr
	}
	return nil
}
