package chain

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// BlockID identifies a block by its height and hash.
//
// Two BlockIDs at the same height with different hashes describe a fork.
type BlockID struct {
	Height uint32         // block height, genesis is 0
	Hash   chainhash.Hash // block hash
}

// String renders the block as "<height>:<hash>".
func (b BlockID) String() string {
	return fmt.Sprintf("%d:%s", b.Height, b.Hash)
}

// CheckPoint is an immutable node of a chain version. Each node points to
// the node below it, so versions that agree on a prefix share the nodes of
// that prefix instead of copying them.
type CheckPoint struct {
	block BlockID
	prev  *CheckPoint
}

// BlockID returns the block stored in the checkpoint.
func (cp *CheckPoint) BlockID() BlockID {
	return cp.block
}

// Height returns the height of the checkpoint.
func (cp *CheckPoint) Height() uint32 {
	return cp.block.Height
}

// Prev returns the checkpoint directly below, or nil for genesis.
func (cp *CheckPoint) Prev() *CheckPoint {
	return cp.prev
}

// push returns a new checkpoint on top of cp. The caller guarantees that
// b is higher than cp.
func (cp *CheckPoint) push(b BlockID) *CheckPoint {
	return &CheckPoint{block: b, prev: cp}
}

// floor returns the highest checkpoint whose height is <= height, or nil
// when every checkpoint is above it.
func (cp *CheckPoint) floor(height uint32) *CheckPoint {
	for cur := cp; cur != nil; cur = cur.prev {
		if cur.block.Height <= height {
			return cur
		}
	}

	return nil
}

// get returns the checkpoint at exactly height.
func (cp *CheckPoint) get(height uint32) (*CheckPoint, bool) {
	found := cp.floor(height)
	if found == nil || found.block.Height != height {
		return nil, false
	}

	return found, true
}

// collectFrom returns, in ascending order, every block at or above height.
func (cp *CheckPoint) collectFrom(height uint32) []BlockID {
	var out []BlockID
	for cur := cp; cur != nil && cur.block.Height >= height; cur = cur.prev {
		out = append(out, cur.block)
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return out
}
