package eventproc

import (
	"context"
	"errors"

	"github.com/gabapcia/walletsync/internal/pkg/logger"
	"github.com/gabapcia/walletsync/internal/pkg/resilience/retry"
	"github.com/gabapcia/walletsync/internal/pkg/x/chflow"
	"github.com/gabapcia/walletsync/internal/wallet"
)

// handleUpdates applies every update received on updates, in order, until
// the channel is closed or ctx is done.
func (s *service) handleUpdates(ctx context.Context, updates <-chan wallet.Update) {
	for {
		u, ok := chflow.Receive(ctx, updates)
		if !ok {
			return
		}

		s.processUpdate(ctx, u)
	}
}

// processUpdate applies u, retrying store failures, and reports the
// outcome.
func (s *service) processUpdate(ctx context.Context, u wallet.Update) {
	state := newUpdateState(s.cfg.walletID, u)
	ctx = logger.Derive(ctx, "processing_id", state.processingID, "wallet_id", state.walletID)

	err := s.cfg.retry.Execute(ctx, func() error {
		state.recordAttempt()

		events, err := s.applier.ApplyUpdateEvents(ctx, u)
		if err == nil {
			state.finalizeWithSuccess(events)
			return nil
		}

		state.recordAttemptFailure(err)
		if !errors.Is(err, wallet.ErrStoreFailure) {
			return retry.Permanent(err)
		}

		logger.Warn(ctx, "failed to persist update, retrying", "attempt", state.attempts, "error", err)
		return err
	})

	if err != nil {
		state.finalizeWithFailure(err)
		s.reportFailure(ctx, state.asFailure())
		return
	}

	batch := state.asBatch()
	logger.Info(ctx, "update applied",
		"events", len(batch.Events),
		"attempts", batch.Attempts,
		"latency", batch.AppliedAt.Sub(state.receivedAt).String(),
	)

	if len(batch.Events) == 0 {
		return
	}

	if err := s.notifier.NotifyEvents(ctx, batch); err != nil {
		logger.Error(ctx, "error notifying wallet events", "error", err)
	}
}

func (s *service) reportFailure(ctx context.Context, failure Failure) {
	logger.Error(ctx, "update skipped",
		"attempts", failure.Attempts,
		"error", failure.LastError,
	)

	if s.cfg.failureNotifier == nil {
		return
	}

	if err := s.cfg.failureNotifier.NotifyUpdateFailure(ctx, failure); err != nil {
		logger.Error(ctx, "error notifying update failure", "error", err)
	}
}
