// Package webhook delivers wallet event batches to an HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gabapcia/walletsync/internal/eventproc"
)

// ErrDeliveryRejected is returned when the endpoint answers with a non-2xx
// status.
var ErrDeliveryRejected = errors.New("webhook rejected the delivery")

// IdempotencyKeyHeader carries the batch's processing ID so receivers can
// drop duplicate deliveries.
const IdempotencyKeyHeader = "Idempotency-Key"

type notifier struct {
	endpoint   string
	httpClient *http.Client
}

var _ eventproc.EventNotifier = (*notifier)(nil)

// New returns a notifier posting batches to endpoint with httpClient.
func New(httpClient *http.Client, endpoint string) *notifier {
	return &notifier{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// NotifyEvents posts batch as JSON.
func (n *notifier) NotifyEvents(ctx context.Context, batch eventproc.Batch) error {
	body, err := eventproc.MarshalBatch(batch)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyKeyHeader, batch.ProcessingID)

	res, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("%w: %s", ErrDeliveryRejected, res.Status)
	}

	return nil
}
