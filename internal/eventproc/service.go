// Package eventproc feeds a stream of wallet updates through the event diff
// engine and delivers the resulting events.
//
// Updates are applied one at a time in arrival order. An update that fails
// to persist is retried; any other failure is reported and the update is
// skipped.
package eventproc

import (
	"context"
	"errors"
	"sync"

	"github.com/gabapcia/walletsync/internal/pkg/resilience/retry"
	"github.com/gabapcia/walletsync/internal/wallet"
)

// ErrServiceAlreadyStarted is returned if Start is called more than once.
var ErrServiceAlreadyStarted = errors.New("service already started")

// Service runs the update processing loop.
type Service interface {
	// Start consumes updates in a background goroutine until the channel is
	// closed or ctx is done.
	//
	// Returns ErrServiceAlreadyStarted if the service is running.
	Start(ctx context.Context, updates <-chan wallet.Update) error

	// Done is closed once the processing loop has returned. It is nil before
	// Start.
	Done() <-chan struct{}

	// Close stops the processing loop. It is safe to call Close even if the
	// service was never started.
	Close()
}

type closeFunc func()

type config struct {
	walletID        string
	retry           retry.Retry
	failureNotifier FailureNotifier
}

// Option configures the service.
type Option func(*config)

// WithWalletID sets the wallet ID stamped on every batch. Defaults to
// "default".
func WithWalletID(id string) Option {
	return func(c *config) {
		c.walletID = id
	}
}

// WithRetry sets the retry policy for store failures.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retry = r
	}
}

// WithFailureNotifier registers a notifier for skipped updates.
func WithFailureNotifier(n FailureNotifier) Option {
	return func(c *config) {
		c.failureNotifier = n
	}
}

type service struct {
	mu        sync.Mutex
	isStarted bool
	closeFunc closeFunc
	done      chan struct{}

	cfg      config
	applier  Applier
	notifier EventNotifier
}

var _ Service = new(service)

func (s *service) Start(ctx context.Context, updates <-chan wallet.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return ErrServiceAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		s.handleUpdates(ctx, updates)
	}()

	s.done = done
	s.closeFunc = func() {
		cancel()
		<-done
	}
	s.isStarted = true
	return nil
}

func (s *service) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.done
}

func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeFunc != nil {
		s.closeFunc()
	}

	s.closeFunc = nil
	s.isStarted = false
}

// New creates the processing service for the wallet behind applier.
func New(applier Applier, notifier EventNotifier, opts ...Option) *service {
	cfg := config{
		walletID: "default",
		retry:    retry.New(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		cfg:      cfg,
		applier:  applier,
		notifier: notifier,
	}
}
