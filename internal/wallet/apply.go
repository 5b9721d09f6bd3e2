package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gabapcia/walletsync/internal/canonical"
	"github.com/gabapcia/walletsync/internal/chain"
	"github.com/gabapcia/walletsync/internal/pkg/logger"
	"github.com/gabapcia/walletsync/internal/pkg/types"
	"github.com/gabapcia/walletsync/internal/txgraph"
)

var (
	// ErrChain wraps a chain suffix that could not be applied. The caller
	// should refetch a suffix starting lower and retry.
	ErrChain = errors.New("chain update rejected")

	// ErrStore wraps a transaction update referencing unknown transactions.
	ErrStore = errors.New("transaction update rejected")

	// ErrInvalidAnchor is returned when an anchor points at a block that is
	// neither in the wallet's chain nor in the update's chain suffix.
	ErrInvalidAnchor = errors.New("anchor block is not part of the chain")

	// ErrStoreFailure wraps a Persister error. The update was not applied
	// and may be retried as is.
	ErrStoreFailure = errors.New("failed to persist wallet changes")
)

// Update is an atomic batch of chain and transaction observations. A nil
// Chain means the update carries no chain information.
type Update struct {
	Chain    []chain.BlockID
	TxUpdate txgraph.TxUpdate
}

// IsEmpty reports whether the update carries nothing.
func (u Update) IsEmpty() bool {
	return len(u.Chain) == 0 && u.TxUpdate.IsEmpty()
}

// staged is an update validated against the current state but not yet
// committed.
type staged struct {
	chain   chain.Chain
	chainCS chain.ChangeSet
	reorg   chain.Reorg
	graphCS txgraph.ChangeSet
}

func (s staged) changeSet() ChangeSet {
	return ChangeSet{Chain: s.chainCS, Graph: s.graphCS}
}

// stage validates u against the current state without modifying it.
func (w *Wallet) stage(u Update) (staged, error) {
	current := w.chain.Snapshot()

	next, chainCS, reorg, err := current.Apply(u.Chain)
	if err != nil {
		return staged{}, fmt.Errorf("%w: %w", ErrChain, err)
	}

	suffix := types.NewSet(u.Chain...)

	var errs []error
	for _, ta := range u.TxUpdate.Anchors {
		if current.Contains(ta.Anchor.Block) || suffix.Has(ta.Anchor.Block) {
			continue
		}

		errs = append(errs, fmt.Errorf("%w: block %s anchoring %s", ErrInvalidAnchor, ta.Anchor.Block, ta.TxID))
	}

	if err := errors.Join(errs...); err != nil {
		return staged{}, err
	}

	graphCS, err := w.graph.Plan(u.TxUpdate)
	if err != nil {
		return staged{}, fmt.Errorf("%w: %w", ErrStore, err)
	}

	return staged{chain: next, chainCS: chainCS, reorg: reorg, graphCS: graphCS}, nil
}

// commit persists s and then makes it the current state. Persistence is
// detached from ctx cancellation: once started, it either completes or
// fails on its own.
func (w *Wallet) commit(ctx context.Context, s staged) error {
	cs := s.changeSet()
	if cs.IsEmpty() {
		return nil
	}

	if err := w.persister.Persist(context.WithoutCancel(ctx), cs); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	w.chain.Commit(s.chain)
	w.graph.ApplyChangeSet(s.graphCS)
	return nil
}

// ApplyUpdate applies u without computing events.
func (w *Wallet) ApplyUpdate(ctx context.Context, u Update) error {
	ctx, span := w.tracer.Start(ctx, "wallet.ApplyUpdate")
	defer span.End()

	w.mu.Lock()
	defer w.mu.Unlock()

	s, err := w.stage(u)
	if err == nil {
		err = w.commit(ctx, s)
	}

	if err != nil {
		w.fail(ctx, span, err)
		return err
	}

	return nil
}

// ApplyUpdateEvents applies u atomically and returns the events describing
// how the wallet changed. On error the wallet is unchanged and no events
// are returned.
//
// Events are ordered as follows: ChainTipChanged first when the tip moved,
// then TxConfirmed events by ascending block height, then every other
// event in the order its transaction first appears in u. A TxReplaced
// event comes right after the event of its last winning transaction when
// that transaction has one, even a TxConfirmed, behind any earlier
// replacement by the same winner.
func (w *Wallet) ApplyUpdateEvents(ctx context.Context, u Update) ([]Event, error) {
	ctx, span := w.tracer.Start(ctx, "wallet.ApplyUpdateEvents")
	defer span.End()

	w.mu.Lock()
	defer w.mu.Unlock()

	oldChain := w.chain.Snapshot()

	s, err := w.stage(u)
	if err != nil {
		w.fail(ctx, span, err)
		return nil, err
	}

	affected := w.affected(u, s)
	before := make([]canonical.Status, len(affected))
	for i, txid := range affected {
		before[i] = canonical.Resolve(txid, oldChain, w.graph)
	}

	if err := w.commit(ctx, s); err != nil {
		w.fail(ctx, span, err)
		return nil, err
	}

	newChain := w.chain.Snapshot()

	var changes []change
	for i, txid := range affected {
		after := canonical.Resolve(txid, newChain, w.graph)
		tx, _ := w.graph.Tx(txid)

		if ev := diff(txid, tx, before[i], after); ev != nil {
			changes = append(changes, change{event: ev, position: i})
		}
	}

	events := order(oldChain.Tip(), newChain.Tip(), changes)

	span.SetAttributes(
		attribute.Int("walletsync.affected", len(affected)),
		attribute.Int("walletsync.events", len(events)),
		attribute.Bool("walletsync.reorg", s.reorg.Occurred),
	)
	w.metrics.recordEvents(ctx, events)

	logger.Debug(ctx, "wallet update applied",
		"tip", newChain.Tip().String(),
		"affected", len(affected),
		"events", len(events),
	)

	return events, nil
}

func (w *Wallet) fail(ctx context.Context, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	w.metrics.recordFailure(ctx, err)
}

// affected returns, in first-appearance order, every txid whose status may
// change by applying s: the txids named by u, the txids anchored at or
// above a reorg's divergence height or at a newly inserted height, and the
// direct conflicts of all of them.
func (w *Wallet) affected(u Update, s staged) []chainhash.Hash {
	var (
		seen = types.NewSet[chainhash.Hash]()
		out  []chainhash.Hash
	)

	add := func(txid chainhash.Hash) {
		if seen.Has(txid) {
			return
		}

		seen.Add(txid)
		out = append(out, txid)
	}

	for _, tx := range u.TxUpdate.Txs {
		add(tx.TxHash())
	}

	for _, ta := range u.TxUpdate.Anchors {
		add(ta.TxID)
	}

	for _, txid := range keys(u.TxUpdate.SeenAts).Sorted(txgraph.CompareTxID) {
		add(txid)
	}

	for _, txid := range keys(u.TxUpdate.EvictedAts).Sorted(txgraph.CompareTxID) {
		add(txid)
	}

	if s.reorg.Occurred {
		for _, txid := range w.graph.AnchoredAtOrAbove(s.reorg.DivergenceHeight) {
			add(txid)
		}
	}

	// Blocks added back at a height may revive anchors that an earlier
	// reorg invalidated.
	inserted := types.NewSet[uint32]()
	for height, hash := range s.chainCS {
		if hash != nil {
			inserted.Add(height)
		}
	}

	if inserted.Len() > 0 {
		for _, txid := range w.graph.AnchoredAt(inserted) {
			add(txid)
		}
	}

	view := w.graph.Overlay(s.graphCS)
	for _, txid := range out {
		for _, c := range view.ConflictsOf(txid) {
			add(c.TxID)
		}
	}

	return out
}

func keys(m map[chainhash.Hash]uint64) types.Set[chainhash.Hash] {
	set := types.NewSet[chainhash.Hash]()
	for k := range m {
		set.Add(k)
	}

	return set
}
