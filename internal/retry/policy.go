package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nguyentantai21042004/segment-flow/internal/logger"
)

// Config bounds the retry behavior. MaxAttempts counts the first call.
type Config struct {
	MaxAttempts        int
	RateLimitBaseDelay time.Duration
	RateLimitMaxDelay  time.Duration
	TransientBaseDelay time.Duration
	TransientMaxDelay  time.Duration
}

// Operation is one invocation of an external service.
type Operation func(ctx context.Context) (string, error)

// Policy wraps external-service calls with classification and bounded backoff.
// It holds no per-call state and is safe for concurrent use.
type Policy struct {
	cfg      Config
	logger   logger.Logger
	newTimer func() backoff.Timer
}

// New creates a Policy.
func New(cfg Config, log logger.Logger) *Policy {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &Policy{cfg: cfg, logger: log}
}

// Call runs op until it succeeds, fails with a kind that is not retried, or runs out of attempts.
// Non-retryable and budget-exceeded failures come back as *Error after a single attempt.
// When attempts run out the last error is returned as it was produced by op.
func (p *Policy) Call(ctx context.Context, label string, op Operation) (string, error) {
	sched := &schedule{cfg: p.cfg}

	var (
		out      string
		attempts int
	)

	operation := func() error {
		attempts++
		res, err := op(ctx)
		if err == nil {
			out = res
			return nil
		}

		c := Classify(err)
		sched.last = c
		if !c.Kind.Retryable() {
			return backoff.Permanent(&Error{Kind: c.Kind, Label: label, Attempts: attempts, Err: err})
		}
		return err
	}

	notify := func(err error, d time.Duration) {
		p.logger.Warn(ctx, "%s failed (%s, attempt %d/%d), retrying in %s: %v",
			label, sched.last.Kind, attempts, p.cfg.MaxAttempts, d, err)
	}

	var timer backoff.Timer
	if p.newTimer != nil {
		timer = p.newTimer()
	}

	if err := backoff.RetryNotifyWithTimer(operation, backoff.WithContext(sched, ctx), notify, timer); err != nil {
		if sched.last.Kind.Retryable() {
			p.logger.Error(ctx, "%s failed after %d attempts: %v", label, attempts, err)
		}
		return "", err
	}

	if attempts > 1 {
		p.logger.Info(ctx, "%s succeeded on attempt %d", label, attempts)
	}
	return out, nil
}

// schedule is a backoff.BackOff whose next delay depends on the last failure's classification.
type schedule struct {
	cfg     Config
	retries int
	last    Classification
}

func (s *schedule) Reset() {
	s.retries = 0
}

func (s *schedule) NextBackOff() time.Duration {
	if s.retries+1 >= s.cfg.MaxAttempts {
		return backoff.Stop
	}
	d := s.delay(s.retries)
	s.retries++
	return d
}

func (s *schedule) delay(attempt int) time.Duration {
	if s.last.Kind == KindRateLimited {
		if s.last.RetryAfter > 0 {
			return s.last.RetryAfter
		}
		return exponential(s.cfg.RateLimitBaseDelay, attempt, s.cfg.RateLimitMaxDelay)
	}
	return exponential(s.cfg.TransientBaseDelay, attempt, s.cfg.TransientMaxDelay)
}

// exponential returns base * 2^attempt, capped at max.
func exponential(base time.Duration, attempt int, max time.Duration) time.Duration {
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if max > 0 && d >= max {
			return max
		}
	}
	if max > 0 && d > max {
		return max
	}
	return d
}
