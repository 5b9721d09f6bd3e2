// Package chain tracks the wallet's single best-known chain of block
// identifiers.
//
// A Chain is an immutable version: applying a suffix never modifies the
// receiver, it returns a new version that shares every unaffected
// checkpoint with the old one. This lets callers keep the pre-update
// version around as a snapshot while computing the post-update one.
package chain

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

var (
	// ErrDisconnected is returned when a suffix cannot be attached to the
	// tracked chain. The caller should resync from a lower height.
	ErrDisconnected = errors.New("chain suffix does not connect to the tracked chain")

	// ErrUnorderedSuffix is returned when the heights of a suffix are not
	// strictly increasing.
	ErrUnorderedSuffix = errors.New("chain suffix heights must be strictly increasing")

	// ErrMissingGenesis is returned when a chain is built from blocks that
	// do not start at height 0.
	ErrMissingGenesis = errors.New("chain must start with a genesis block at height 0")
)

// ChangeSet records the per-height difference between two chain versions.
// A nil hash means the block at that height was removed.
type ChangeSet map[uint32]*chainhash.Hash

// Merge folds other into cs. Entries in other take precedence.
func (cs ChangeSet) Merge(other ChangeSet) {
	maps.Copy(cs, other)
}

// IsEmpty reports whether the change set holds no entries.
func (cs ChangeSet) IsEmpty() bool {
	return len(cs) == 0
}

// Reorg describes whether applying a suffix discarded blocks of the
// previous version.
type Reorg struct {
	Occurred         bool   // true when at least one stored block was removed or replaced
	DivergenceHeight uint32 // lowest height whose stored block was removed or replaced
}

func (r *Reorg) note(height uint32) {
	if !r.Occurred || height < r.DivergenceHeight {
		r.DivergenceHeight = height
	}
	r.Occurred = true
}

// Chain is one version of the best-known chain, from genesis to tip.
//
// The zero value is not usable; build chains with New, FromBlockIDs or
// FromChangeSet.
type Chain struct {
	tip *CheckPoint
}

// New creates a chain holding only the genesis block.
func New(genesis chainhash.Hash) Chain {
	return Chain{tip: &CheckPoint{block: BlockID{Height: 0, Hash: genesis}}}
}

// FromBlockIDs builds a chain from blocks in ascending height order. The
// first block must be the genesis block.
func FromBlockIDs(ids ...BlockID) (Chain, error) {
	if len(ids) == 0 || ids[0].Height != 0 {
		return Chain{}, ErrMissingGenesis
	}

	if err := checkAscending(ids); err != nil {
		return Chain{}, err
	}

	tip := &CheckPoint{block: ids[0]}
	for _, id := range ids[1:] {
		tip = tip.push(id)
	}

	return Chain{tip: tip}, nil
}

// FromChangeSet rebuilds a chain from a (typically persisted) change set.
// Removed heights are ignored.
func FromChangeSet(cs ChangeSet) (Chain, error) {
	ids := make([]BlockID, 0, len(cs))
	for height, hash := range cs {
		if hash == nil {
			continue
		}

		ids = append(ids, BlockID{Height: height, Hash: *hash})
	}

	slices.SortFunc(ids, func(a, b BlockID) int {
		return cmp.Compare(a.Height, b.Height)
	})

	return FromBlockIDs(ids...)
}

// Tip returns the highest block of the chain.
func (c Chain) Tip() BlockID {
	return c.tip.block
}

// TipCheckPoint returns the checkpoint at the tip.
func (c Chain) TipCheckPoint() *CheckPoint {
	return c.tip
}

// Genesis returns the block at height 0.
func (c Chain) Genesis() BlockID {
	cp, _ := c.tip.get(0)
	return cp.block
}

// Get returns the block stored at height.
func (c Chain) Get(height uint32) (BlockID, bool) {
	cp, ok := c.tip.get(height)
	if !ok {
		return BlockID{}, false
	}

	return cp.block, true
}

// Contains reports whether the chain holds exactly the given block.
func (c Chain) Contains(b BlockID) bool {
	stored, ok := c.Get(b.Height)
	return ok && stored.Hash == b.Hash
}

// Len returns the number of checkpoints in the chain.
func (c Chain) Len() int {
	n := 0
	for cur := c.tip; cur != nil; cur = cur.prev {
		n++
	}

	return n
}

// BlockIDs returns every block of the chain in ascending height order.
func (c Chain) BlockIDs() []BlockID {
	return c.tip.collectFrom(0)
}

// ChangeSet returns a change set that rebuilds this chain from scratch.
func (c Chain) ChangeSet() ChangeSet {
	cs := make(ChangeSet)
	for cur := c.tip; cur != nil; cur = cur.prev {
		hash := cur.block.Hash
		cs[cur.block.Height] = &hash
	}

	return cs
}

// Apply attaches suffix to the chain and returns the resulting version
// together with the per-height change set and reorg information. The
// receiver is never modified.
//
// The first block of suffix must either be stored in the chain (the point
// of agreement) or sit directly above the tip. Walking the suffix upwards:
//   - a block equal to the stored one moves the point of agreement up;
//   - a height with no stored block is inserted;
//   - a stored height with a different hash is a conflict: every stored
//     block above the last point of agreement is discarded and replaced by
//     the blocks of the suffix.
//
// When the very first block conflicts, the stored block directly below it
// is taken as the point of agreement. Genesis can never be replaced.
func (c Chain) Apply(suffix []BlockID) (Chain, ChangeSet, Reorg, error) {
	if len(suffix) == 0 {
		return c, nil, Reorg{}, nil
	}

	if err := checkAscending(suffix); err != nil {
		return c, nil, Reorg{}, err
	}

	first, tip := suffix[0], c.tip.block
	if uint64(first.Height) > uint64(tip.Height)+1 {
		return c, nil, Reorg{}, fmt.Errorf("%w: suffix starts at height %d above tip %d",
			ErrDisconnected, first.Height, tip.Height)
	}

	if first.Height <= tip.Height {
		stored, ok := c.tip.get(first.Height)
		if !ok {
			return c, nil, Reorg{}, fmt.Errorf("%w: no stored block at height %d",
				ErrDisconnected, first.Height)
		}

		if first.Height == 0 && stored.block.Hash != first.Hash {
			return c, nil, Reorg{}, fmt.Errorf("%w: genesis hash mismatch", ErrDisconnected)
		}
	}

	window := c.tip.collectFrom(first.Height)
	stored := make(map[uint32]chainhash.Hash, len(window))
	for _, b := range window {
		stored[b.Height] = b.Hash
	}

	agreed, conflict := int64(first.Height)-1, false
	for _, b := range suffix {
		hash, ok := stored[b.Height]
		if !ok {
			continue
		}

		if hash != b.Hash {
			conflict = true
			break
		}

		agreed = int64(b.Height)
	}

	next := make(map[uint32]chainhash.Hash, len(window)+len(suffix))
	for _, b := range window {
		if conflict && int64(b.Height) > agreed {
			continue
		}

		next[b.Height] = b.Hash
	}

	for _, b := range suffix {
		next[b.Height] = b.Hash
	}

	var (
		cs    = make(ChangeSet)
		reorg Reorg
	)

	for height, hash := range stored {
		newHash, ok := next[height]
		switch {
		case !ok:
			cs[height] = nil
			reorg.note(height)
		case newHash != hash:
			cs[height] = &newHash
			reorg.note(height)
		}
	}

	for height, hash := range next {
		if _, ok := stored[height]; !ok {
			cs[height] = &hash
		}
	}

	if cs.IsEmpty() {
		return c, nil, Reorg{}, nil
	}

	lowest := slices.Min(slices.Collect(maps.Keys(cs)))
	heights := slices.Sorted(maps.Keys(next))

	// lowest is never 0: genesis is immutable, so a floor always exists.
	tipCP := c.tip.floor(lowest - 1)
	for _, height := range heights {
		if height < lowest {
			continue
		}

		tipCP = tipCP.push(BlockID{Height: height, Hash: next[height]})
	}

	return Chain{tip: tipCP}, cs, reorg, nil
}

func checkAscending(ids []BlockID) error {
	for i := 1; i < len(ids); i++ {
		if ids[i].Height <= ids[i-1].Height {
			return fmt.Errorf("%w: height %d follows %d", ErrUnorderedSuffix, ids[i].Height, ids[i-1].Height)
		}
	}

	return nil
}
