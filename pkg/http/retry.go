package http

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net"
	"net/url"
	"strings"
	"time"

	tverrors "github.com/jdziat/traceview-go/pkg/errors"
)

// RetryableError is an interface for errors that know if they're retryable.
type RetryableError interface {
	error
	IsRetryable() bool
}

// IsRetryableNetworkError determines if a network error is transient and
// worth retrying. Permanent failures (DNS, refused connections, TLS) are
// not.
func IsRetryableNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return IsRetryableNetworkError(urlErr.Err)
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{"certificate", "x509:", "tls:", "no such host", "connection refused"} {
		if strings.Contains(errStr, pattern) {
			return false
		}
	}
	for _, pattern := range []string{"timeout", "reset by peer", "broken pipe", "temporary failure", "eof"} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// ExponentialBackoff computes retry delays with exponential growth and
// optional jitter, honoring server Retry-After hints when present.
type ExponentialBackoff struct {
	// InitialDelay is the delay before the first retry. Defaults to 1s.
	InitialDelay time.Duration
	// MaxDelay caps the computed delay. Defaults to 30s.
	MaxDelay time.Duration
	// Multiplier grows the delay per attempt. Defaults to 2.
	Multiplier float64
	// Jitter adds up to 25% randomization when set.
	Jitter bool
}

// Delay returns how long to wait before the given (zero-based) attempt,
// preferring a server-provided Retry-After hint when the error carries
// one.
func (b *ExponentialBackoff) Delay(attempt int, err error) time.Duration {
	var apiErr *tverrors.APIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return apiErr.RetryAfter
	}

	initial := b.InitialDelay
	if initial <= 0 {
		initial = time.Second
	}
	maxDelay := b.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}
	mult := b.Multiplier
	if mult <= 1 {
		mult = 2
	}

	delay := time.Duration(float64(initial) * math.Pow(mult, float64(attempt)))
	if delay > maxDelay || delay <= 0 {
		delay = maxDelay
	}
	if b.Jitter {
		delay += time.Duration(rand.Int64N(int64(delay)/4 + 1))
	}
	return delay
}

// ShouldRetry reports whether the error is worth another attempt.
func ShouldRetry(err error) bool {
	var re RetryableError
	if errors.As(err, &re) {
		return re.IsRetryable()
	}
	return IsRetryableNetworkError(err)
}
