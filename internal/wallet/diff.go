package wallet

import (
	"cmp"
	"slices"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/gabapcia/walletsync/internal/canonical"
	"github.com/gabapcia/walletsync/internal/chain"
)

// change is a transaction event together with the data needed to order it.
type change struct {
	event    Event
	position int // index of the txid in the affected set
}

// diff translates a before/after status pair into at most one event.
func diff(txid chainhash.Hash, tx *wire.MsgTx, before, after canonical.Status) Event {
	switch {
	case after.IsConfirmed() && (!before.IsConfirmed() || before.Anchor.Block != after.Anchor.Block):
		ev := TxConfirmed{TxID: txid, Tx: tx, BlockTime: after.Anchor}
		if before.IsConfirmed() {
			old := before.Anchor
			ev.OldBlockTime = &old
		}
		return ev

	case before.IsConfirmed() && !after.IsConfirmed():
		old := before.Anchor
		return TxUnconfirmed{TxID: txid, Tx: tx, OldBlockTime: &old}

	case after.Kind == canonical.Unconfirmed && (before.Kind == canonical.Unknown || before.Kind == canonical.Evicted):
		return TxUnconfirmed{TxID: txid, Tx: tx}

	case after.Kind == canonical.Evicted && after.Superseded() &&
		(before.Kind == canonical.Unconfirmed || before.Kind == canonical.Unknown):
		return TxReplaced{TxID: txid, Tx: tx, Conflicts: slices.Clone(after.ReplacedBy)}

	case after.Kind == canonical.Evicted && !after.Superseded() && before.Kind == canonical.Unconfirmed:
		return TxDropped{TxID: txid, Tx: tx}
	}

	return nil
}

// order arranges the transaction events of one update and prepends the tip
// event when the tip moved.
func order(oldTip, newTip chain.BlockID, changes []change) []Event {
	var confirmed, rest []change
	for _, c := range changes {
		if _, ok := c.event.(TxConfirmed); ok {
			confirmed = append(confirmed, c)
			continue
		}

		rest = append(rest, c)
	}

	slices.SortStableFunc(confirmed, func(a, b change) int {
		return cmp.Compare(
			a.event.(TxConfirmed).BlockTime.Block.Height,
			b.event.(TxConfirmed).BlockTime.Block.Height,
		)
	})

	slices.SortStableFunc(rest, func(a, b change) int {
		return cmp.Compare(a.position, b.position)
	})

	arranged := placeReplacements(append(confirmed, rest...))

	events := make([]Event, 0, len(arranged)+1)
	if oldTip != newTip {
		events = append(events, ChainTipChanged{OldTip: oldTip, NewTip: newTip})
	}

	for _, c := range arranged {
		events = append(events, c.event)
	}

	return events
}

// placeReplacements moves every TxReplaced event right after the last
// non-replacement event of its winning transactions. Replacements sharing
// that winner keep their relative order behind it. A replacement whose
// winners report nothing stays where it is.
func placeReplacements(changes []change) []change {
	replaced := make([]change, 0)
	for _, c := range changes {
		if _, ok := c.event.(TxReplaced); ok {
			replaced = append(replaced, c)
		}
	}

	placed := make([]change, 0, len(replaced))
	isPlaced := func(c change) bool {
		return slices.ContainsFunc(placed, func(p change) bool { return sameEvent(p, c) })
	}

	for _, r := range replaced {
		winners := make(map[chainhash.Hash]bool)
		for _, cf := range r.event.(TxReplaced).Conflicts {
			winners[cf.TxID] = true
		}

		from := slices.IndexFunc(changes, func(c change) bool { return sameEvent(c, r) })
		changes = slices.Delete(changes, from, from+1)

		winner := -1
		for i, c := range changes {
			if _, ok := c.event.(TxReplaced); ok {
				continue
			}
			if txid, ok := EventTxID(c.event); ok && winners[txid] {
				winner = i
			}
		}

		if winner < 0 {
			changes = slices.Insert(changes, from, r)
			continue
		}

		to := winner + 1
		for to < len(changes) && isPlaced(changes[to]) {
			to++
		}

		changes = slices.Insert(changes, to, r)
		placed = append(placed, r)
	}

	return changes
}

func sameEvent(a, b change) bool {
	ida, _ := EventTxID(a.event)
	idb, _ := EventTxID(b.event)
	return ida == idb && a.event.Kind() == b.event.Kind()
}
