package eventproc

import (
	"time"

	"github.com/gabapcia/walletsync/internal/wallet"
)

// Batch is the ordered list of events produced by one applied update.
type Batch struct {
	ProcessingID string         // UUIDv7 assigned when the update was received
	WalletID     string         // Wallet the update was applied to
	AppliedAt    time.Time      // When the update was committed
	Attempts     uint8          // Number of attempts it took
	Events       []wallet.Event // Events in emission order
}

// Failure describes an update that could not be applied and was skipped.
type Failure struct {
	ProcessingID  string          // UUIDv7 assigned when the update was received
	WalletID      string          // Wallet the update was meant for
	FailedAt      time.Time       // When the update was given up on
	Attempts      uint8           // Number of attempts made
	LastError     error           // Error of the last attempt
	AttemptErrors map[int64]error // Every attempt error keyed by Unix timestamp
	Update        wallet.Update   // The rejected update
}
