// File: internal/backend/retry.go
package backend

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/hackparv/operate/api/schemas"
	"github.com/hackparv/operate/internal/config"
)

// Retrier wraps backend calls with bounded exponential backoff. Only errors
// marked transient by the adapters (network failures, timeouts, rate limits,
// server errors) consume attempts; everything else propagates immediately.
type Retrier struct {
	cfg    config.RetryConfig
	logger *zap.Logger
}

// NewRetrier builds a retrier from configuration.
func NewRetrier(cfg config.RetryConfig, logger *zap.Logger) *Retrier {
	return &Retrier{cfg: cfg, logger: logger.Named("retry")}
}

// CallVision invokes b.SendVisionRequest under the retry policy. Exhausting
// every attempt on transient failures yields a ServiceUnavailableError.
func (r *Retrier) CallVision(ctx context.Context, b schemas.VisionBackend, family schemas.Family, history []schemas.Turn, objective, sessionID string) ([]schemas.Action, string, error) {
	var (
		actions []schemas.Action
		newSID  string
		attempt int
	)

	operation := func() error {
		attempt++
		acts, sid, err := b.SendVisionRequest(ctx, history, objective, sessionID)
		if err != nil {
			var te *transientError
			if errors.As(err, &te) {
				r.logger.Warn("Transient backend failure, will retry",
					zap.Int("attempt", attempt),
					zap.Int("max_attempts", r.cfg.MaxAttempts),
					zap.Error(te.err),
				)
				return err
			}
			// Non-transient: stop retrying and surface the inner error.
			return backoff.Permanent(err)
		}
		actions, newSID = acts, sid
		return nil
	}

	if err := backoff.Retry(operation, r.newBackOff(ctx)); err != nil {
		var te *transientError
		if errors.As(err, &te) {
			return nil, "", &ServiceUnavailableError{Family: family, Attempts: attempt, Err: te.err}
		}
		return nil, "", err
	}
	return actions, newSID, nil
}

func (r *Retrier) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.InitialInterval
	b.MaxInterval = r.cfg.MaxInterval
	b.Multiplier = r.cfg.Multiplier
	b.RandomizationFactor = 0
	// MaxAttempts counts calls, so the retry budget is one less.
	capped := backoff.WithMaxRetries(b, uint64(r.cfg.MaxAttempts-1))
	return backoff.WithContext(capped, ctx)
}
