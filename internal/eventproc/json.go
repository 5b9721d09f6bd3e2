package eventproc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gabapcia/walletsync/internal/wallet"
)

type batchJSON struct {
	ProcessingID string          `json:"processing_id"`
	WalletID     string          `json:"wallet_id"`
	AppliedAt    time.Time       `json:"applied_at"`
	Attempts     uint8           `json:"attempts"`
	Events       json.RawMessage `json:"events"`
}

type failureJSON struct {
	ProcessingID string    `json:"processing_id"`
	WalletID     string    `json:"wallet_id"`
	FailedAt     time.Time `json:"failed_at"`
	Attempts     uint8     `json:"attempts"`
	Error        string    `json:"error"`
}

// MarshalBatch encodes b as a JSON object whose "events" field is the
// wallet.MarshalEvents encoding of its events.
func MarshalBatch(b Batch) ([]byte, error) {
	events, err := wallet.MarshalEvents(b.Events)
	if err != nil {
		return nil, fmt.Errorf("failed to encode events of %s: %w", b.ProcessingID, err)
	}

	return json.Marshal(batchJSON{
		ProcessingID: b.ProcessingID,
		WalletID:     b.WalletID,
		AppliedAt:    b.AppliedAt,
		Attempts:     b.Attempts,
		Events:       events,
	})
}

// MarshalFailure encodes f as a JSON object. The rejected update is left
// out.
func MarshalFailure(f Failure) ([]byte, error) {
	out := failureJSON{
		ProcessingID: f.ProcessingID,
		WalletID:     f.WalletID,
		FailedAt:     f.FailedAt,
		Attempts:     f.Attempts,
	}

	if f.LastError != nil {
		out.Error = f.LastError.Error()
	}

	return json.Marshal(out)
}
