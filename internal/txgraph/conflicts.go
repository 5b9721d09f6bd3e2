package txgraph

import (
	"slices"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/gabapcia/walletsync/internal/pkg/types"
)

// spendIndex is the minimal lookup surface needed to walk conflicts. Both
// Graph and its overlays implement it.
type spendIndex interface {
	Tx(txid chainhash.Hash) (*wire.MsgTx, bool)
	spenders(op wire.OutPoint) []chainhash.Hash
}

func conflictsOf(idx spendIndex, txid chainhash.Hash) []Conflict {
	tx, ok := idx.Tx(txid)
	if !ok {
		return nil
	}

	var (
		related   = relatives(idx, txid, tx)
		conflicts []Conflict
	)

	for i, in := range tx.TxIn {
		if isNullOutPoint(in.PreviousOutPoint) {
			continue
		}

		for _, other := range idx.spenders(in.PreviousOutPoint) {
			if other == txid || related.Has(other) {
				continue
			}

			conflicts = append(conflicts, Conflict{InputIndex: uint32(i), TxID: other})
		}
	}

	slices.SortFunc(conflicts, compareConflict)
	return conflicts
}

// relatives returns the known ancestors and descendants of txid.
func relatives(idx spendIndex, txid chainhash.Hash, tx *wire.MsgTx) types.Set[chainhash.Hash] {
	seen := types.NewSet[chainhash.Hash]()

	// ancestors: follow inputs to stored parents
	queue := []*wire.MsgTx{tx}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, in := range cur.TxIn {
			parentID := in.PreviousOutPoint.Hash
			if parentID == txid || seen.Has(parentID) {
				continue
			}

			parent, ok := idx.Tx(parentID)
			if !ok {
				continue
			}

			seen.Add(parentID)
			queue = append(queue, parent)
		}
	}

	// descendants: follow outputs to stored spenders
	pending := []chainhash.Hash{txid}
	for len(pending) > 0 {
		curID := pending[0]
		pending = pending[1:]

		cur, ok := idx.Tx(curID)
		if !ok {
			continue
		}

		for vout := range cur.TxOut {
			for _, child := range idx.spenders(wire.OutPoint{Hash: curID, Index: uint32(vout)}) {
				if child == txid || seen.Has(child) {
					continue
				}

				seen.Add(child)
				pending = append(pending, child)
			}
		}
	}

	return seen
}
