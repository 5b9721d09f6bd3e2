// Package canonical resolves the canonical status of a wallet transaction
// against a chain snapshot and a transaction graph snapshot.
//
// Resolution is a pure function: it never modifies its inputs, so the same
// transaction can be resolved against a before and an after snapshot of one
// update and the two results compared.
package canonical

import (
	"slices"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/gabapcia/walletsync/internal/chain"
	"github.com/gabapcia/walletsync/internal/txgraph"
)

// Kind is the discriminator of a Status.
type Kind uint8

const (
	// Unknown is a transaction that is not confirmed, not the live winner of
	// its conflicts and not explicitly evicted.
	Unknown Kind = iota
	// Confirmed is a transaction anchored in a block of the chain.
	Confirmed
	// Unconfirmed is a transaction seen in the mempool that wins against
	// every conflicting transaction.
	Unconfirmed
	// Evicted is a transaction removed from the mempool, either replaced by
	// a conflict or dropped.
	Evicted
)

func (k Kind) String() string {
	switch k {
	case Confirmed:
		return "confirmed"
	case Unconfirmed:
		return "unconfirmed"
	case Evicted:
		return "evicted"
	default:
		return "unknown"
	}
}

// Status is the canonical status of one transaction at one snapshot.
//
// Anchor is set only for Confirmed and LastSeen only for Unconfirmed.
// ReplacedBy lists the winning conflicts of a superseded transaction; it is
// empty when the transaction lost to nothing.
type Status struct {
	Kind       Kind
	Anchor     txgraph.Anchor
	LastSeen   uint64
	ReplacedBy []txgraph.Conflict
}

// IsConfirmed reports whether s is Confirmed.
func (s Status) IsConfirmed() bool {
	return s.Kind == Confirmed
}

// Superseded reports whether a conflicting transaction won over the one s
// describes.
func (s Status) Superseded() bool {
	return len(s.ReplacedBy) > 0
}

// ChainView is the chain surface needed to test anchor canonicity.
type ChainView interface {
	Contains(b chain.BlockID) bool
}

// Resolve computes the canonical status of txid.
//
// Rules, in order:
//  1. A transaction with an anchor in the chain is Confirmed by its lowest
//     such anchor.
//  2. A transaction with a confirmed conflict is superseded by it.
//  3. Otherwise the transaction and its live conflicts compete on last-seen
//     time; the greatest wins and ties go to the smaller txid. A
//     transaction is live when it has a last-seen time and was not evicted
//     at or after it. A winning transaction is Unconfirmed, a losing one is
//     superseded by the winner.
//  4. A superseded transaction is Evicted if its eviction time is not below
//     the winner's anchor or last-seen time, and Unknown otherwise. With
//     several confirmed conflicts the earliest confirmation time counts.
//  5. A transaction that is not live and lost to nothing is Evicted when it
//     was evicted at or after it was last seen, and Unknown otherwise.
func Resolve(txid chainhash.Hash, c ChainView, g txgraph.View) Status {
	if anchor, ok := bestAnchor(txid, c, g); ok {
		return Status{Kind: Confirmed, Anchor: anchor}
	}

	conflicts := g.ConflictsOf(txid)

	var (
		winners   []txgraph.Conflict
		threshold uint64
	)

	for _, cf := range conflicts {
		anchor, ok := bestAnchor(cf.TxID, c, g)
		if !ok {
			continue
		}

		if len(winners) == 0 || anchor.ConfirmationTime < threshold {
			threshold = anchor.ConfirmationTime
		}
		winners = append(winners, cf)
	}

	if len(winners) > 0 {
		return superseded(txid, g, winners, threshold)
	}

	selfSeen, selfLive := live(txid, g)

	var (
		bestID   chainhash.Hash
		bestSeen uint64
		found    bool
	)

	if selfLive {
		bestID, bestSeen, found = txid, selfSeen, true
	}

	for _, cf := range conflicts {
		seen, ok := live(cf.TxID, g)
		if !ok {
			continue
		}

		if !found || seen > bestSeen || (seen == bestSeen && txgraph.CompareTxID(cf.TxID, bestID) < 0) {
			bestID, bestSeen, found = cf.TxID, seen, true
		}
	}

	switch {
	case found && bestID == txid:
		return Status{Kind: Unconfirmed, LastSeen: selfSeen}
	case found:
		winners = slices.DeleteFunc(slices.Clone(conflicts), func(cf txgraph.Conflict) bool {
			return cf.TxID != bestID
		})
		return superseded(txid, g, winners, bestSeen)
	}

	seen, hasSeen := g.LastSeen(txid)
	evicted, hasEvicted := g.EvictedAt(txid)
	if hasSeen && hasEvicted && evicted >= seen {
		return Status{Kind: Evicted}
	}

	return Status{Kind: Unknown}
}

func superseded(txid chainhash.Hash, g txgraph.View, winners []txgraph.Conflict, threshold uint64) Status {
	kind := Unknown
	if evicted, ok := g.EvictedAt(txid); ok && evicted >= threshold {
		kind = Evicted
	}

	return Status{Kind: kind, ReplacedBy: winners}
}

// bestAnchor returns the lowest anchor of txid contained in the chain.
// Anchors come sorted from the view, so the first match is the lowest.
func bestAnchor(txid chainhash.Hash, c ChainView, g txgraph.View) (txgraph.Anchor, bool) {
	for _, a := range g.Anchors(txid) {
		if c.Contains(a.Block) {
			return a, true
		}
	}

	return txgraph.Anchor{}, false
}

func live(txid chainhash.Hash, g txgraph.View) (uint64, bool) {
	seen, ok := g.LastSeen(txid)
	if !ok {
		return 0, false
	}

	if evicted, ok := g.EvictedAt(txid); ok && evicted >= seen {
		return 0, false
	}

	return seen, true
}
