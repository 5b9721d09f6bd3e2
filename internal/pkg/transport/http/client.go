// Package http builds retrying HTTP clients on top of hashicorp's
// retryablehttp, configured with functional options.
package http

import (
	nethttp "net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/gabapcia/walletsync/internal/pkg/logger"
)

type config struct {
	timeout      time.Duration
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	retryMax     int
	checkRetry   retryablehttp.CheckRetry
}

// Option configures a client built by NewClient.
type Option func(*config)

// NewClient returns a retryablehttp.Client. Defaults: 5s per request, waits
// between 1s and 5s, 2 retries, and retryablehttp's default retry policy.
// Retries are logged at debug level.
func NewClient(opts ...Option) *retryablehttp.Client {
	cfg := config{
		timeout:      5 * time.Second,
		retryWaitMin: 1 * time.Second,
		retryWaitMax: 5 * time.Second,
		retryMax:     2,
		checkRetry:   retryablehttp.DefaultRetryPolicy,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.HTTPClient.Timeout = cfg.timeout
	client.RetryWaitMin = cfg.retryWaitMin
	client.RetryWaitMax = cfg.retryWaitMax
	client.RetryMax = cfg.retryMax
	client.CheckRetry = cfg.checkRetry
	client.RequestLogHook = func(_ retryablehttp.Logger, req *nethttp.Request, attempt int) {
		if attempt > 0 {
			logger.Debug(req.Context(), "retrying http request", "method", req.Method, "url", req.URL.Redacted(), "attempt", attempt)
		}
	}
	return client
}

// WithTimeout sets the timeout of a single request attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithRetryWaitMin sets the minimum wait between attempts.
func WithRetryWaitMin(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMin = d
	}
}

// WithRetryWaitMax sets the maximum wait between attempts.
func WithRetryWaitMax(d time.Duration) Option {
	return func(c *config) {
		c.retryWaitMax = d
	}
}

// WithRetryMax sets how many times a failed request is retried.
func WithRetryMax(n int) Option {
	return func(c *config) {
		c.retryMax = n
	}
}

// WithRetryPolicy replaces the policy deciding whether a response or error
// is retried.
func WithRetryPolicy(p retryablehttp.CheckRetry) Option {
	return func(c *config) {
		c.checkRetry = p
	}
}
