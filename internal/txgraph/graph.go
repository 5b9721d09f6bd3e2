// Package txgraph stores the transactions a wallet cares about together
// with the facts observed about them: confirmation anchors, the last time
// each was seen unconfirmed and the time it was evicted from the mempool.
//
// Every fact is monotone. Transactions are immutable once inserted, anchors
// are only ever added, and timestamps can only be raised. A transaction is
// stored once and shared by pointer between the graph's indexes.
package txgraph

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/gabapcia/walletsync/internal/pkg/types"
)

// ErrUnknownTx is returned when an update references a transaction that is
// neither stored in the graph nor included in the same update.
var ErrUnknownTx = errors.New("update references an unknown transaction")

// View is a read-only snapshot of a transaction graph.
type View interface {
	// Tx returns the raw transaction for txid.
	Tx(txid chainhash.Hash) (*wire.MsgTx, bool)

	// Anchors returns every anchor of txid ordered by CompareAnchor.
	Anchors(txid chainhash.Hash) []Anchor

	// LastSeen returns the last time txid was seen unconfirmed.
	LastSeen(txid chainhash.Hash) (uint64, bool)

	// EvictedAt returns the time txid was evicted from the mempool.
	EvictedAt(txid chainhash.Hash) (uint64, bool)

	// ConflictsOf returns the transactions spending an outpoint that txid
	// also spends, ordered by input index then txid. Ancestors and
	// descendants of txid are never reported.
	ConflictsOf(txid chainhash.Hash) []Conflict
}

// Graph is the mutable transaction store. It is not safe for concurrent
// use.
type Graph struct {
	txs       map[chainhash.Hash]*wire.MsgTx
	anchors   types.DefaultMap[chainhash.Hash, types.Set[Anchor]]
	lastSeen  map[chainhash.Hash]uint64
	evictedAt map[chainhash.Hash]uint64
	spends    types.DefaultMap[wire.OutPoint, types.Set[chainhash.Hash]]
}

var _ View = (*Graph)(nil)

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		txs:       make(map[chainhash.Hash]*wire.MsgTx),
		anchors:   types.NewDefaultMap[chainhash.Hash](func() types.Set[Anchor] { return types.NewSet[Anchor]() }),
		lastSeen:  make(map[chainhash.Hash]uint64),
		evictedAt: make(map[chainhash.Hash]uint64),
		spends:    types.NewDefaultMap[wire.OutPoint](func() types.Set[chainhash.Hash] { return types.NewSet[chainhash.Hash]() }),
	}
}

// FromChangeSet rebuilds a graph from a (typically persisted) change set.
func FromChangeSet(cs ChangeSet) *Graph {
	g := New()
	g.ApplyChangeSet(cs)
	return g
}

// Len returns the number of stored transactions.
func (g *Graph) Len() int {
	return len(g.txs)
}

func (g *Graph) Tx(txid chainhash.Hash) (*wire.MsgTx, bool) {
	tx, ok := g.txs[txid]
	return tx, ok
}

func (g *Graph) Anchors(txid chainhash.Hash) []Anchor {
	set, ok := g.anchors.Lookup(txid)
	if !ok {
		return nil
	}

	return set.Sorted(CompareAnchor)
}

func (g *Graph) LastSeen(txid chainhash.Hash) (uint64, bool) {
	ts, ok := g.lastSeen[txid]
	return ts, ok
}

func (g *Graph) EvictedAt(txid chainhash.Hash) (uint64, bool) {
	ts, ok := g.evictedAt[txid]
	return ts, ok
}

func (g *Graph) ConflictsOf(txid chainhash.Hash) []Conflict {
	return conflictsOf(g, txid)
}

// TxIDs returns every stored txid ordered by CompareTxID.
func (g *Graph) TxIDs() []chainhash.Hash {
	return slices.SortedFunc(maps.Keys(g.txs), CompareTxID)
}

// AnchoredAtOrAbove returns the txids holding at least one anchor at or
// above height, ordered by the lowest such anchor height, then txid.
func (g *Graph) AnchoredAtOrAbove(height uint32) []chainhash.Hash {
	return g.anchoredWhere(func(a Anchor) bool { return a.Block.Height >= height })
}

// AnchoredAt returns the txids holding at least one anchor at one of
// heights, ordered like AnchoredAtOrAbove.
func (g *Graph) AnchoredAt(heights types.Set[uint32]) []chainhash.Hash {
	return g.anchoredWhere(func(a Anchor) bool { return heights.Has(a.Block.Height) })
}

func (g *Graph) anchoredWhere(match func(Anchor) bool) []chainhash.Hash {
	lowest := make(map[chainhash.Hash]uint32)
	for txid, anchors := range g.anchors.All() {
		for a := range anchors {
			if !match(a) {
				continue
			}

			if cur, ok := lowest[txid]; !ok || a.Block.Height < cur {
				lowest[txid] = a.Block.Height
			}
		}
	}

	out := slices.Collect(maps.Keys(lowest))
	slices.SortFunc(out, func(a, b chainhash.Hash) int {
		if c := cmp.Compare(lowest[a], lowest[b]); c != 0 {
			return c
		}

		return CompareTxID(a, b)
	})

	return out
}

// Plan computes the change set that merging u would produce, without
// modifying the graph. Every reference to an unknown transaction is
// reported, joined into a single error wrapping ErrUnknownTx.
func (g *Graph) Plan(u TxUpdate) (ChangeSet, error) {
	var (
		cs    = NewChangeSet()
		batch = types.NewSet[chainhash.Hash]()
		errs  []error
	)

	for _, tx := range u.Txs {
		txid := tx.TxHash()
		batch.Add(txid)

		if _, ok := g.txs[txid]; !ok {
			cs.Txs[txid] = tx
		}
	}

	known := func(txid chainhash.Hash) bool {
		_, ok := g.txs[txid]
		return ok || batch.Has(txid)
	}

	for _, ta := range u.Anchors {
		if !known(ta.TxID) {
			errs = append(errs, fmt.Errorf("%w: anchor at %s references %s", ErrUnknownTx, ta.Anchor.Block, ta.TxID))
			continue
		}

		if existing, ok := g.anchors.Lookup(ta.TxID); ok && existing.Has(ta.Anchor) {
			continue
		}

		cs.Anchors.Add(ta)
	}

	planTimestamps := func(field string, in, stored, out map[chainhash.Hash]uint64) {
		for _, txid := range slices.SortedFunc(maps.Keys(in), CompareTxID) {
			if !known(txid) {
				errs = append(errs, fmt.Errorf("%w: %s references %s", ErrUnknownTx, field, txid))
				continue
			}

			if cur, ok := stored[txid]; ok && in[txid] <= cur {
				continue
			}

			out[txid] = in[txid]
		}
	}

	planTimestamps("seen_at", u.SeenAts, g.lastSeen, cs.LastSeen)
	planTimestamps("evicted_at", u.EvictedAts, g.evictedAt, cs.EvictedAt)

	if err := errors.Join(errs...); err != nil {
		return ChangeSet{}, err
	}

	return cs, nil
}

// ApplyChangeSet folds cs into the graph. Applying the same change set
// twice has no further effect.
func (g *Graph) ApplyChangeSet(cs ChangeSet) {
	for txid, tx := range cs.Txs {
		if _, ok := g.txs[txid]; ok {
			continue
		}

		g.txs[txid] = tx
		for _, in := range tx.TxIn {
			if isNullOutPoint(in.PreviousOutPoint) {
				continue
			}

			g.spends.Get(in.PreviousOutPoint).Add(txid)
		}
	}

	for ta := range cs.Anchors {
		g.anchors.Get(ta.TxID).Add(ta.Anchor)
	}

	raise(g.lastSeen, cs.LastSeen)
	raise(g.evictedAt, cs.EvictedAt)
}

// Merge plans u and applies the result.
func (g *Graph) Merge(u TxUpdate) (ChangeSet, error) {
	cs, err := g.Plan(u)
	if err != nil {
		return ChangeSet{}, err
	}

	g.ApplyChangeSet(cs)
	return cs, nil
}

// ChangeSet returns a change set that rebuilds the whole graph.
func (g *Graph) ChangeSet() ChangeSet {
	cs := NewChangeSet()
	maps.Copy(cs.Txs, g.txs)
	for txid, anchors := range g.anchors.All() {
		for a := range anchors {
			cs.Anchors.Add(TxAnchor{Anchor: a, TxID: txid})
		}
	}

	cs.LastSeen = cloneTimestamps(g.lastSeen)
	cs.EvictedAt = cloneTimestamps(g.evictedAt)
	return cs
}

func (g *Graph) spenders(op wire.OutPoint) []chainhash.Hash {
	set, ok := g.spends.Lookup(op)
	if !ok {
		return nil
	}

	return set.ToSlice()
}

func isNullOutPoint(op wire.OutPoint) bool {
	return op.Index == wire.MaxPrevOutIndex && op.Hash == (chainhash.Hash{})
}
