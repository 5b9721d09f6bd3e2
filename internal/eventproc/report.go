package eventproc

import (
	"context"

	"github.com/gabapcia/walletsync/internal/wallet"
)

// Applier applies an update to a wallet and returns the resulting events.
// *wallet.Wallet implements it.
type Applier interface {
	ApplyUpdateEvents(ctx context.Context, u wallet.Update) ([]wallet.Event, error)
}

// EventNotifier receives the events of every update that changed the
// wallet's view.
//
// Implementations should return an error only when the delivery itself
// fails. Delivery errors are logged; the update stays applied.
type EventNotifier interface {
	NotifyEvents(ctx context.Context, batch Batch) error
}

// FailureNotifier is told about updates that were rejected or kept failing
// after every retry.
type FailureNotifier interface {
	NotifyUpdateFailure(ctx context.Context, failure Failure) error
}
