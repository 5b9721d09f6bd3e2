package txgraph

import (
	"bytes"
	"cmp"
	"maps"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/gabapcia/walletsync/internal/chain"
	"github.com/gabapcia/walletsync/internal/pkg/types"
)

// Anchor asserts that a transaction is confirmed in Block, recorded at
// ConfirmationTime.
type Anchor struct {
	Block            chain.BlockID
	ConfirmationTime uint64
}

// TxAnchor binds an anchor to the transaction it confirms.
type TxAnchor struct {
	Anchor Anchor
	TxID   chainhash.Hash
}

// Conflict identifies another transaction spending the same outpoint as
// the input at InputIndex.
type Conflict struct {
	InputIndex uint32
	TxID       chainhash.Hash
}

// TxUpdate is a batch of transaction facts to merge into a Graph.
//
// Entries of Anchors, SeenAts and EvictedAts must reference transactions
// already stored in the graph or included in Txs.
type TxUpdate struct {
	Txs        []*wire.MsgTx
	Anchors    []TxAnchor
	SeenAts    map[chainhash.Hash]uint64
	EvictedAts map[chainhash.Hash]uint64
}

// IsEmpty reports whether the update carries no facts.
func (u TxUpdate) IsEmpty() bool {
	return len(u.Txs) == 0 && len(u.Anchors) == 0 && len(u.SeenAts) == 0 && len(u.EvictedAts) == 0
}

// ChangeSet is the monotone delta produced by merging a TxUpdate. It holds
// only facts the graph did not know yet.
type ChangeSet struct {
	Txs       map[chainhash.Hash]*wire.MsgTx
	Anchors   types.Set[TxAnchor]
	LastSeen  map[chainhash.Hash]uint64
	EvictedAt map[chainhash.Hash]uint64
}

// NewChangeSet returns an empty, writable change set.
func NewChangeSet() ChangeSet {
	return ChangeSet{
		Txs:       make(map[chainhash.Hash]*wire.MsgTx),
		Anchors:   types.NewSet[TxAnchor](),
		LastSeen:  make(map[chainhash.Hash]uint64),
		EvictedAt: make(map[chainhash.Hash]uint64),
	}
}

// IsEmpty reports whether the change set holds no facts.
func (cs ChangeSet) IsEmpty() bool {
	return len(cs.Txs) == 0 && cs.Anchors.Len() == 0 && len(cs.LastSeen) == 0 && len(cs.EvictedAt) == 0
}

// Merge folds other into cs. Timestamps keep the greater value, so merging
// is commutative and idempotent.
func (cs *ChangeSet) Merge(other ChangeSet) {
	if cs.Txs == nil {
		cs.Txs = make(map[chainhash.Hash]*wire.MsgTx)
	}
	if cs.Anchors == nil {
		cs.Anchors = types.NewSet[TxAnchor]()
	}
	if cs.LastSeen == nil {
		cs.LastSeen = make(map[chainhash.Hash]uint64)
	}
	if cs.EvictedAt == nil {
		cs.EvictedAt = make(map[chainhash.Hash]uint64)
	}

	for txid, tx := range other.Txs {
		if _, ok := cs.Txs[txid]; !ok {
			cs.Txs[txid] = tx
		}
	}

	cs.Anchors.Add(other.Anchors.ToSlice()...)
	raise(cs.LastSeen, other.LastSeen)
	raise(cs.EvictedAt, other.EvictedAt)
}

func raise(dst, src map[chainhash.Hash]uint64) {
	for txid, ts := range src {
		if cur, ok := dst[txid]; !ok || ts > cur {
			dst[txid] = ts
		}
	}
}

func cloneTimestamps(m map[chainhash.Hash]uint64) map[chainhash.Hash]uint64 {
	out := make(map[chainhash.Hash]uint64, len(m))
	maps.Copy(out, m)
	return out
}

// CompareTxID orders txids lexicographically by their displayed hex form,
// which is the reversed byte order of the hash.
func CompareTxID(a, b chainhash.Hash) int {
	for i := chainhash.HashSize - 1; i >= 0; i-- {
		if c := cmp.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}

	return 0
}

// CompareAnchor orders anchors by block height, then confirmation time,
// then block hash.
func CompareAnchor(a, b Anchor) int {
	if c := cmp.Compare(a.Block.Height, b.Block.Height); c != 0 {
		return c
	}

	if c := cmp.Compare(a.ConfirmationTime, b.ConfirmationTime); c != 0 {
		return c
	}

	return bytes.Compare(a.Block.Hash[:], b.Block.Hash[:])
}

func compareConflict(a, b Conflict) int {
	if c := cmp.Compare(a.InputIndex, b.InputIndex); c != 0 {
		return c
	}

	return CompareTxID(a.TxID, b.TxID)
}
