package retry

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The service exposes no structured error codes, so classification is done on
// the message text. Keep every pattern here.
var (
	nonRetryableIndicators = []string{
		"authentication", "unauthorized", "unauthenticated", "forbidden", "permission_denied",
		"invalid request", "bad request", "not found", "method not allowed", "api key not valid",
	}

	rateLimitIndicators = []string{
		"rate_limit_exceeded", "too many requests", "tokens per min", "requests per min",
		"rate limit", "quota exceeded", "quota", "resource_exhausted", "request too large", "429",
	}

	transientIndicators = []string{
		"connection", "timeout", "timed out", "network", "server error", "internal error",
		"service unavailable", "bad gateway", "gateway timeout", "temporarily unavailable",
		"deadline exceeded", "unavailable", "unexpected eof",
	}

	budgetPatterns = []*regexp.Regexp{
		regexp.MustCompile(`request too large`),
		regexp.MustCompile(`input or output tokens must be reduced`),
		regexp.MustCompile(`exceeds.*limit`),
		regexp.MustCompile(`must be reduced in order to run`),
		regexp.MustCompile(`exceeds the maximum number of tokens`),
		regexp.MustCompile(`maximum context length`),
	}

	limitRequestedRe = regexp.MustCompile(`limit[:\s]+(\d+).*?requested[:\s]+(\d+)`)

	retryAfterPatterns = []struct {
		re   *regexp.Regexp
		unit time.Duration
	}{
		{regexp.MustCompile(`retry after (\d+(?:\.\d+)?) seconds?`), time.Second},
		{regexp.MustCompile(`try again in (\d+(?:\.\d+)?) seconds?`), time.Second},
		{regexp.MustCompile(`wait (\d+(?:\.\d+)?) seconds?`), time.Second},
		{regexp.MustCompile(`(?:try again|retry) in (\d+(?:\.\d+)?)s\b`), time.Second},
		{regexp.MustCompile(`(?:try again|retry) in (\d+)ms\b`), time.Millisecond},
	}
)

// Classification is the outcome of inspecting a failure.
type Classification struct {
	Kind Kind
	// RetryAfter is the server-suggested delay, zero when the message has none.
	RetryAfter time.Duration
}

// Classify inspects err in priority order: non-retryable, budget-exceeded,
// rate-limited, transient. Anything else is KindUnknown, which is retried like a transient failure.
func Classify(err error) Classification {
	if err == nil {
		return Classification{Kind: KindUnknown}
	}
	if errors.Is(err, context.Canceled) {
		return Classification{Kind: KindNonRetryable}
	}

	msg := strings.ToLower(err.Error())

	if containsAny(msg, nonRetryableIndicators) {
		return Classification{Kind: KindNonRetryable}
	}

	if limit, requested, ok := parseLimitRequested(msg); ok {
		if requested > limit {
			return Classification{Kind: KindBudgetExceeded}
		}
		return Classification{Kind: KindRateLimited, RetryAfter: parseRetryAfter(msg)}
	}
	for _, re := range budgetPatterns {
		if re.MatchString(msg) {
			return Classification{Kind: KindBudgetExceeded}
		}
	}

	if containsAny(msg, rateLimitIndicators) {
		return Classification{Kind: KindRateLimited, RetryAfter: parseRetryAfter(msg)}
	}
	if containsAny(msg, transientIndicators) {
		return Classification{Kind: KindTransient}
	}
	return Classification{Kind: KindUnknown}
}

func parseLimitRequested(msg string) (limit, requested int, ok bool) {
	m := limitRequestedRe.FindStringSubmatch(msg)
	if m == nil {
		return 0, 0, false
	}
	limit, err1 := strconv.Atoi(m[1])
	requested, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return limit, requested, true
}

func parseRetryAfter(msg string) time.Duration {
	for _, p := range retryAfterPatterns {
		m := p.re.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v <= 0 {
			continue
		}
		return time.Duration(v * float64(p.unit))
	}
	return 0
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
