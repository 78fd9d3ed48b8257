package llm

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

type limitedClient struct {
	next    Client
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

// NewLimited caps the number of in-flight requests and, when requestsPerMinute > 0,
// the request rate. One instance is shared by every document worker in the process.
func NewLimited(next Client, maxInFlight, requestsPerMinute int) Client {
	if maxInFlight <= 0 {
		maxInFlight = 1
	}
	l := &limitedClient{
		next: next,
		sem:  semaphore.NewWeighted(int64(maxInFlight)),
	}
	if requestsPerMinute > 0 {
		l.limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1)
	}
	return l
}

func (l *limitedClient) Complete(ctx context.Context, req Request) (string, error) {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	if err := l.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("acquire llm slot: %w", err)
	}
	defer l.sem.Release(1)

	return l.next.Complete(ctx, req)
}
