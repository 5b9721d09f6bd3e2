package txgraph

import (
	"slices"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// overlay reads a graph as if a change set had already been applied to it.
type overlay struct {
	base    *Graph
	cs      ChangeSet
	anchors map[chainhash.Hash][]Anchor
	spends  map[wire.OutPoint][]chainhash.Hash
}

var _ View = (*overlay)(nil)

// Overlay returns a view of the graph with cs applied on top. Neither the
// graph nor cs is modified, and the view must not outlive the next change
// to either of them.
func (g *Graph) Overlay(cs ChangeSet) View {
	o := &overlay{
		base:    g,
		cs:      cs,
		anchors: make(map[chainhash.Hash][]Anchor),
		spends:  make(map[wire.OutPoint][]chainhash.Hash),
	}

	for ta := range cs.Anchors {
		o.anchors[ta.TxID] = append(o.anchors[ta.TxID], ta.Anchor)
	}

	for txid, tx := range cs.Txs {
		if _, ok := g.txs[txid]; ok {
			continue
		}

		for _, in := range tx.TxIn {
			if isNullOutPoint(in.PreviousOutPoint) {
				continue
			}

			o.spends[in.PreviousOutPoint] = append(o.spends[in.PreviousOutPoint], txid)
		}
	}

	return o
}

func (o *overlay) Tx(txid chainhash.Hash) (*wire.MsgTx, bool) {
	if tx, ok := o.base.Tx(txid); ok {
		return tx, true
	}

	tx, ok := o.cs.Txs[txid]
	return tx, ok
}

func (o *overlay) Anchors(txid chainhash.Hash) []Anchor {
	staged := o.anchors[txid]
	if len(staged) == 0 {
		return o.base.Anchors(txid)
	}

	out := o.base.Anchors(txid)
	for _, a := range staged {
		if !slices.Contains(out, a) {
			out = append(out, a)
		}
	}

	slices.SortFunc(out, CompareAnchor)
	return out
}

func (o *overlay) LastSeen(txid chainhash.Hash) (uint64, bool) {
	return maxTimestamp(o.base.lastSeen, o.cs.LastSeen, txid)
}

func (o *overlay) EvictedAt(txid chainhash.Hash) (uint64, bool) {
	return maxTimestamp(o.base.evictedAt, o.cs.EvictedAt, txid)
}

func (o *overlay) ConflictsOf(txid chainhash.Hash) []Conflict {
	return conflictsOf(o, txid)
}

func (o *overlay) spenders(op wire.OutPoint) []chainhash.Hash {
	staged := o.spends[op]
	if len(staged) == 0 {
		return o.base.spenders(op)
	}

	return append(o.base.spenders(op), staged...)
}

func maxTimestamp(base, staged map[chainhash.Hash]uint64, txid chainhash.Hash) (uint64, bool) {
	a, okA := base[txid]
	b, okB := staged[txid]

	switch {
	case okA && okB:
		return max(a, b), true
	case okA:
		return a, true
	default:
		return b, okB
	}
}
