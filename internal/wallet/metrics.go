package wallet

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type metrics struct {
	events   metric.Int64Counter
	failures metric.Int64Counter
}

// newMetrics registers the wallet instruments on m. Instruments that fail
// to register fall back to no-ops so that telemetry never blocks an update.
func newMetrics(m metric.Meter) *metrics {
	fallback := noop.Meter{}

	events, err := m.Int64Counter("walletsync.events",
		metric.WithDescription("Wallet events emitted by applied updates"),
		metric.WithUnit("{event}"))
	if err != nil {
		events, _ = fallback.Int64Counter("walletsync.events")
	}

	failures, err := m.Int64Counter("walletsync.apply.failures",
		metric.WithDescription("Wallet updates rejected or not persisted"),
		metric.WithUnit("{update}"))
	if err != nil {
		failures, _ = fallback.Int64Counter("walletsync.apply.failures")
	}

	return &metrics{events: events, failures: failures}
}

func (m *metrics) recordEvents(ctx context.Context, events []Event) {
	counts := make(map[EventKind]int64)
	for _, e := range events {
		counts[e.Kind()]++
	}

	for kind, n := range counts {
		m.events.Add(ctx, n, metric.WithAttributes(attribute.String("kind", string(kind))))
	}
}

func (m *metrics) recordFailure(ctx context.Context, err error) {
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", failureReason(err))))
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrChain):
		return "chain"
	case errors.Is(err, ErrInvalidAnchor):
		return "invalid_anchor"
	case errors.Is(err, ErrStore):
		return "store"
	case errors.Is(err, ErrStoreFailure):
		return "store_failure"
	default:
		return "other"
	}
}
