package eventproc

import (
	"time"

	"github.com/google/uuid"

	"github.com/gabapcia/walletsync/internal/wallet"
)

// updateState tracks the processing of a single update across attempts.
type updateState struct {
	receivedAt       time.Time
	processingID     string
	walletID         string
	update           wallet.Update
	events           []wallet.Event
	lastAttemptAt    *time.Time
	lastAttemptError error
	attempts         uint8
	attemptErrorLog  map[int64]error
	finalized        bool
	finalizedAt      *time.Time
}

func newUpdateState(walletID string, u wallet.Update) updateState {
	return updateState{
		processingID:    uuid.Must(uuid.NewV7()).String(),
		receivedAt:      time.Now().UTC(),
		attemptErrorLog: make(map[int64]error),
		walletID:        walletID,
		update:          u,
	}
}

// finalizeWithSuccess records the events of the successful attempt. It is a
// no-op once the state is finalized.
func (s *updateState) finalizeWithSuccess(events []wallet.Event) {
	if s.finalized {
		return
	}

	now := time.Now().UTC()

	s.finalized = true
	s.finalizedAt = &now
	s.lastAttemptError = nil
	s.events = events
}

// finalizeWithFailure gives up on the update with err. It is a no-op once
// the state is finalized.
func (s *updateState) finalizeWithFailure(err error) {
	if s.finalized {
		return
	}

	now := time.Now().UTC()

	s.finalized = true
	s.finalizedAt = &now
	s.lastAttemptError = err
	s.attemptErrorLog[now.Unix()] = err
}

func (s *updateState) recordAttempt() {
	if s.finalized {
		return
	}

	now := time.Now().UTC()

	s.attempts++
	s.lastAttemptAt = &now
}

func (s *updateState) recordAttemptFailure(err error) {
	if s.finalized {
		return
	}

	s.lastAttemptError = err
	s.attemptErrorLog[time.Now().UTC().Unix()] = err
}

// asBatch returns the zero Batch unless the state finalized successfully.
func (s updateState) asBatch() Batch {
	if !s.finalized || s.lastAttemptError != nil {
		return Batch{}
	}

	return Batch{
		ProcessingID: s.processingID,
		WalletID:     s.walletID,
		AppliedAt:    *s.finalizedAt,
		Attempts:     s.attempts,
		Events:       s.events,
	}
}

// asFailure returns the zero Failure unless the state finalized with an
// error.
func (s updateState) asFailure() Failure {
	if !s.finalized || s.lastAttemptError == nil {
		return Failure{}
	}

	return Failure{
		ProcessingID:  s.processingID,
		WalletID:      s.walletID,
		FailedAt:      *s.finalizedAt,
		Attempts:      s.attempts,
		LastError:     s.lastAttemptError,
		AttemptErrors: s.attemptErrorLog,
		Update:        s.update,
	}
}
