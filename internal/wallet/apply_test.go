package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gabapcia/walletsync/internal/canonical"
	"github.com/gabapcia/walletsync/internal/chain"
	"github.com/gabapcia/walletsync/internal/pkg/logger"
	"github.com/gabapcia/walletsync/internal/txgraph"
)

func init() {
	_ = logger.Init("error")
}

func hashOf(b byte) chainhash.Hash {
	var h chainhash.Hash
	for i := range h {
		h[i] = b
	}
	return h
}

func block(height uint32, b byte) chain.BlockID {
	return chain.BlockID{Height: height, Hash: hashOf(b)}
}

func anchor(b chain.BlockID, confTime uint64) txgraph.Anchor {
	return txgraph.Anchor{Block: b, ConfirmationTime: confTime}
}

// spend builds a transaction spending prevs with one output per value.
func spend(prevs []wire.OutPoint, values ...int64) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	for i := range prevs {
		tx.AddTxIn(wire.NewTxIn(&prevs[i], nil, nil))
	}
	for _, v := range values {
		tx.AddTxOut(wire.NewTxOut(v, []byte{0x00, 0x14}))
	}
	return tx
}

func outputOf(tx *wire.MsgTx, index uint32) wire.OutPoint {
	return wire.OutPoint{Hash: tx.TxHash(), Index: index}
}

var (
	genesis = block(0, 0)
	block1k = block(1000, 1)
	block2k = block(2000, 2)
)

// fundedWallet mirrors a wallet synced once from genesis: one transaction
// confirmed at height 1000 with a single output, one at height 2000 with
// two outputs.
type fundedWallet struct {
	*Wallet
	tx1k, tx2k *wire.MsgTx
}

func fundingUpdate() (Update, *wire.MsgTx, *wire.MsgTx) {
	tx1k := spend([]wire.OutPoint{{Hash: hashOf(0xa1)}}, 50_000)
	tx2k := spend([]wire.OutPoint{{Hash: hashOf(0xa2)}}, 25_000, 24_000)

	return Update{
		Chain: []chain.BlockID{genesis, block1k, block2k},
		TxUpdate: txgraph.TxUpdate{
			// listed out of height order on purpose
			Txs: []*wire.MsgTx{tx2k, tx1k},
			Anchors: []txgraph.TxAnchor{
				{Anchor: anchor(block2k, 200), TxID: tx2k.TxHash()},
				{Anchor: anchor(block1k, 100), TxID: tx1k.TxHash()},
			},
		},
	}, tx1k, tx2k
}

func newFundedWallet(t *testing.T, opts ...Option) fundedWallet {
	t.Helper()

	u, tx1k, tx2k := fundingUpdate()
	w := New(genesis.Hash, opts...)
	_, err := w.ApplyUpdateEvents(t.Context(), u)
	require.NoError(t, err)

	return fundedWallet{Wallet: w, tx1k: tx1k, tx2k: tx2k}
}

func TestApplyUpdateEvents_NewConfirmedTxs(t *testing.T) {
	u, tx1k, tx2k := fundingUpdate()
	w := New(genesis.Hash)

	events, err := w.ApplyUpdateEvents(t.Context(), u)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, ChainTipChanged{OldTip: genesis, NewTip: block2k}, events[0])

	first, ok := events[1].(TxConfirmed)
	require.True(t, ok)
	assert.Equal(t, tx1k.TxHash(), first.TxID)
	assert.Equal(t, uint32(1000), first.BlockTime.Block.Height)
	assert.Len(t, first.Tx.TxOut, 1)
	assert.Nil(t, first.OldBlockTime)

	second, ok := events[2].(TxConfirmed)
	require.True(t, ok)
	assert.Equal(t, tx2k.TxHash(), second.TxID)
	assert.Equal(t, uint32(2000), second.BlockTime.Block.Height)
	assert.Len(t, second.Tx.TxOut, 2)
}

func TestApplyUpdateEvents_ReorgUnconfirms(t *testing.T) {
	w := newFundedWallet(t)
	reorged := block(2000, 9)

	events, err := w.ApplyUpdateEvents(t.Context(), Update{
		Chain: []chain.BlockID{genesis, block1k, reorged},
	})
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, ChainTipChanged{OldTip: block2k, NewTip: reorged}, events[0])

	ev, ok := events[1].(TxUnconfirmed)
	require.True(t, ok)
	assert.Equal(t, w.tx2k.TxHash(), ev.TxID)
	require.NotNil(t, ev.OldBlockTime)
	assert.Equal(t, anchor(block2k, 200), *ev.OldBlockTime)
	assert.Len(t, ev.Tx.TxOut, 2)

	status, ok := w.Status(w.tx1k.TxHash())
	require.True(t, ok)
	assert.Equal(t, canonical.Confirmed, status.Kind, "transactions below the fork keep their status")
}

func TestApplyUpdateEvents_Replaced(t *testing.T) {
	w := newFundedWallet(t)

	orig := spend([]wire.OutPoint{outputOf(w.tx1k, 0)}, 40_000, 9_000)
	origID := orig.TxHash()

	events, err := w.ApplyUpdateEvents(t.Context(), Update{
		TxUpdate: txgraph.TxUpdate{
			Txs:     []*wire.MsgTx{orig},
			SeenAts: map[chainhash.Hash]uint64{origID: 210},
		},
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, TxUnconfirmed{TxID: origID, Tx: orig}, events[0])

	rbf := spend([]wire.OutPoint{outputOf(w.tx1k, 0)}, 40_000, 8_000)
	rbfID := rbf.TxHash()

	events, err = w.ApplyUpdateEvents(t.Context(), Update{
		TxUpdate: txgraph.TxUpdate{
			Txs:        []*wire.MsgTx{rbf},
			SeenAts:    map[chainhash.Hash]uint64{rbfID: 220},
			EvictedAts: map[chainhash.Hash]uint64{origID: 220},
		},
	})
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, TxUnconfirmed{TxID: rbfID, Tx: rbf}, events[0])
	assert.Equal(t, TxReplaced{
		TxID:      origID,
		Tx:        orig,
		Conflicts: []txgraph.Conflict{{InputIndex: 0, TxID: rbfID}},
	}, events[1])
}

func TestApplyUpdateEvents_ReplacementAdjacentToWinner(t *testing.T) {
	w := newFundedWallet(t)

	orig := spend([]wire.OutPoint{outputOf(w.tx1k, 0)}, 40_000)
	origID := orig.TxHash()

	_, err := w.ApplyUpdateEvents(t.Context(), Update{
		TxUpdate: txgraph.TxUpdate{
			Txs:     []*wire.MsgTx{orig},
			SeenAts: map[chainhash.Hash]uint64{origID: 210},
		},
	})
	require.NoError(t, err)

	rbf := spend([]wire.OutPoint{outputOf(w.tx1k, 0)}, 39_000)
	other := spend([]wire.OutPoint{{Hash: hashOf(0xc3), Index: 0}}, 1_000)
	rbfID, otherID := rbf.TxHash(), other.TxHash()

	events, err := w.ApplyUpdateEvents(t.Context(), Update{
		TxUpdate: txgraph.TxUpdate{
			Txs:        []*wire.MsgTx{rbf, other},
			SeenAts:    map[chainhash.Hash]uint64{rbfID: 220, otherID: 220},
			EvictedAts: map[chainhash.Hash]uint64{origID: 220},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []Event{
		TxUnconfirmed{TxID: rbfID, Tx: rbf},
		TxReplaced{
			TxID:      origID,
			Tx:        orig,
			Conflicts: []txgraph.Conflict{{InputIndex: 0, TxID: rbfID}},
		},
		TxUnconfirmed{TxID: otherID, Tx: other},
	}, events)
}

func TestApplyUpdateEvents_ReplacementFollowsWinner(t *testing.T) {
	w := newFundedWallet(t)

	orig := spend([]wire.OutPoint{outputOf(w.tx1k, 0)}, 40_000)
	rbf := spend([]wire.OutPoint{outputOf(w.tx1k, 0)}, 39_000)
	origID, rbfID := orig.TxHash(), rbf.TxHash()

	_, err := w.ApplyUpdateEvents(t.Context(), Update{
		TxUpdate: txgraph.TxUpdate{
			Txs:     []*wire.MsgTx{orig, rbf},
			SeenAts: map[chainhash.Hash]uint64{origID: 210},
		},
	})
	require.NoError(t, err)

	// orig appears first in the update, yet its replacement must be
	// reported after the winner's event.
	events, err := w.ApplyUpdateEvents(t.Context(), Update{
		TxUpdate: txgraph.TxUpdate{
			Txs:        []*wire.MsgTx{orig},
			SeenAts:    map[chainhash.Hash]uint64{rbfID: 220},
			EvictedAts: map[chainhash.Hash]uint64{origID: 220},
		},
	})
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, KindTxUnconfirmed, events[0].Kind())
	id, _ := EventTxID(events[0])
	assert.Equal(t, rbfID, id)

	replaced, ok := events[1].(TxReplaced)
	require.True(t, ok)
	assert.Equal(t, origID, replaced.TxID)
}

func TestApplyUpdateEvents_ConfirmAndReconfirm(t *testing.T) {
	w := newFundedWallet(t)

	tx := spend([]wire.OutPoint{outputOf(w.tx2k, 1)}, 10_000)
	txid := tx.TxHash()

	events, err := w.ApplyUpdateEvents(t.Context(), Update{
		TxUpdate: txgraph.TxUpdate{
			Txs:     []*wire.MsgTx{tx},
			SeenAts: map[chainhash.Hash]uint64{txid: 210},
		},
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, KindTxUnconfirmed, events[0].Kind())

	newBlock := block(2100, 3)
	events, err = w.ApplyUpdateEvents(t.Context(), Update{
		Chain: []chain.BlockID{block2k, newBlock},
		TxUpdate: txgraph.TxUpdate{
			Anchors: []txgraph.TxAnchor{{Anchor: anchor(newBlock, 300), TxID: txid}},
		},
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ChainTipChanged{OldTip: block2k, NewTip: newBlock}, events[0])
	assert.Equal(t, TxConfirmed{TxID: txid, Tx: tx, BlockTime: anchor(newBlock, 300)}, events[1])

	reorgBlock := block(2100, 4)
	events, err = w.ApplyUpdateEvents(t.Context(), Update{
		Chain: []chain.BlockID{block2k, reorgBlock},
		TxUpdate: txgraph.TxUpdate{
			Anchors: []txgraph.TxAnchor{{Anchor: anchor(reorgBlock, 310), TxID: txid}},
		},
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ChainTipChanged{OldTip: newBlock, NewTip: reorgBlock}, events[0])

	old := anchor(newBlock, 300)
	assert.Equal(t, TxConfirmed{
		TxID:         txid,
		Tx:           tx,
		BlockTime:    anchor(reorgBlock, 310),
		OldBlockTime: &old,
	}, events[1])
}

func TestApplyUpdateEvents_Dropped(t *testing.T) {
	w := newFundedWallet(t)

	tx := spend([]wire.OutPoint{outputOf(w.tx1k, 0)}, 10_000)
	txid := tx.TxHash()

	_, err := w.ApplyUpdateEvents(t.Context(), Update{
		TxUpdate: txgraph.TxUpdate{
			Txs:     []*wire.MsgTx{tx},
			SeenAts: map[chainhash.Hash]uint64{txid: 210},
		},
	})
	require.NoError(t, err)

	events, err := w.ApplyUpdateEvents(t.Context(), Update{
		TxUpdate: txgraph.TxUpdate{
			EvictedAts: map[chainhash.Hash]uint64{txid: 220},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []Event{TxDropped{TxID: txid, Tx: tx}}, events)
}

func TestApplyUpdateEvents_ConfirmedConflictReplacesUnconfirmed(t *testing.T) {
	w := newFundedWallet(t)

	loser := spend([]wire.OutPoint{outputOf(w.tx1k, 0)}, 10_000)
	winner := spend([]wire.OutPoint{outputOf(w.tx1k, 0)}, 9_000)
	loserID, winnerID := loser.TxHash(), winner.TxHash()

	_, err := w.ApplyUpdateEvents(t.Context(), Update{
		TxUpdate: txgraph.TxUpdate{
			Txs:        []*wire.MsgTx{loser},
			SeenAts:    map[chainhash.Hash]uint64{loserID: 210},
			EvictedAts: map[chainhash.Hash]uint64{loserID: 205},
		},
	})
	require.NoError(t, err)

	confirmBlock := block(2001, 5)
	events, err := w.ApplyUpdateEvents(t.Context(), Update{
		Chain: []chain.BlockID{block2k, confirmBlock},
		TxUpdate: txgraph.TxUpdate{
			Txs:     []*wire.MsgTx{winner},
			Anchors: []txgraph.TxAnchor{{Anchor: anchor(confirmBlock, 201), TxID: winnerID}},
		},
	})
	require.NoError(t, err)

	// the loser is not named by the update but conflicts with a named
	// transaction, and its eviction time is past the winner's confirmation
	require.Len(t, events, 3)
	assert.Equal(t, KindChainTipChanged, events[0].Kind())
	assert.Equal(t, TxConfirmed{TxID: winnerID, Tx: winner, BlockTime: anchor(confirmBlock, 201)}, events[1])
	assert.Equal(t, TxReplaced{
		TxID:      loserID,
		Tx:        loser,
		Conflicts: []txgraph.Conflict{{InputIndex: 0, TxID: winnerID}},
	}, events[2])
}

func TestApplyUpdateEvents_Errors(t *testing.T) {
	t.Run("disconnected chain", func(t *testing.T) {
		w := newFundedWallet(t)
		w.persister = NewPersisterMock(t)

		events, err := w.ApplyUpdateEvents(t.Context(), Update{Chain: []chain.BlockID{block(5000, 7)}})
		require.ErrorIs(t, err, ErrChain)
		assert.ErrorIs(t, err, chain.ErrDisconnected)
		assert.Nil(t, events)
		assert.Equal(t, block2k, w.Tip())
	})

	t.Run("anchor outside the chain", func(t *testing.T) {
		w := newFundedWallet(t)
		tx := spend([]wire.OutPoint{outputOf(w.tx1k, 0)}, 1)

		_, err := w.ApplyUpdateEvents(t.Context(), Update{
			TxUpdate: txgraph.TxUpdate{
				Txs:     []*wire.MsgTx{tx},
				Anchors: []txgraph.TxAnchor{{Anchor: anchor(block(1500, 8), 1), TxID: tx.TxHash()}},
			},
		})
		require.ErrorIs(t, err, ErrInvalidAnchor)

		_, ok := w.Status(tx.TxHash())
		assert.False(t, ok, "a rejected update must not store its transactions")
	})

	t.Run("anchor in the supplied suffix is accepted", func(t *testing.T) {
		w := newFundedWallet(t)
		tx := spend([]wire.OutPoint{outputOf(w.tx1k, 0)}, 1)
		next := block(2001, 8)

		_, err := w.ApplyUpdateEvents(t.Context(), Update{
			Chain: []chain.BlockID{block2k, next},
			TxUpdate: txgraph.TxUpdate{
				Txs:     []*wire.MsgTx{tx},
				Anchors: []txgraph.TxAnchor{{Anchor: anchor(next, 1), TxID: tx.TxHash()}},
			},
		})
		require.NoError(t, err)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		w := newFundedWallet(t)
		unknown := spend(nil, 1).TxHash()

		_, err := w.ApplyUpdateEvents(t.Context(), Update{
			Chain: []chain.BlockID{block2k, block(2001, 8)},
			TxUpdate: txgraph.TxUpdate{
				SeenAts: map[chainhash.Hash]uint64{unknown: 1},
			},
		})
		require.ErrorIs(t, err, ErrStore)
		assert.ErrorIs(t, err, txgraph.ErrUnknownTx)
		assert.Equal(t, block2k, w.Tip(), "the chain part of a rejected update must not be kept")
	})

	t.Run("persistence failure rolls back", func(t *testing.T) {
		persister := NewPersisterMock(t)
		w := newFundedWallet(t)
		w.persister = persister

		dbErr := errors.New("connection refused")
		persister.EXPECT().Persist(mock.Anything, mock.Anything).Return(dbErr).Once()

		tx := spend([]wire.OutPoint{outputOf(w.tx1k, 0)}, 1)
		events, err := w.ApplyUpdateEvents(t.Context(), Update{
			Chain: []chain.BlockID{block2k, block(2001, 8)},
			TxUpdate: txgraph.TxUpdate{
				Txs:     []*wire.MsgTx{tx},
				SeenAts: map[chainhash.Hash]uint64{tx.TxHash(): 5},
			},
		})
		require.ErrorIs(t, err, ErrStoreFailure)
		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, events)
		assert.Equal(t, block2k, w.Tip())

		_, ok := w.Status(tx.TxHash())
		assert.False(t, ok)
	})
}

func TestApplyUpdateEvents_Persistence(t *testing.T) {
	t.Run("persists the staged change set with a live context", func(t *testing.T) {
		persister := NewPersisterMock(t)
		w := New(genesis.Hash, WithPersister(persister))
		u, tx1k, tx2k := fundingUpdate()

		persister.EXPECT().
			Persist(mock.Anything, mock.Anything).
			Run(func(ctx context.Context, cs ChangeSet) {
				assert.NoError(t, ctx.Err(), "persistence must not observe caller cancellation")
				assert.Len(t, cs.Chain, 2)
				assert.Len(t, cs.Graph.Txs, 2)
				assert.Contains(t, cs.Graph.Txs, tx1k.TxHash())
				assert.Contains(t, cs.Graph.Txs, tx2k.TxHash())
				assert.Equal(t, 2, cs.Graph.Anchors.Len())
			}).
			Return(nil).
			Once()

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		events, err := w.ApplyUpdateEvents(ctx, u)
		require.NoError(t, err)
		assert.Len(t, events, 3)
	})

	t.Run("nothing to persist for a repeated update", func(t *testing.T) {
		persister := NewPersisterMock(t)
		persister.EXPECT().Persist(mock.Anything, mock.Anything).Return(nil).Once()

		w := New(genesis.Hash, WithPersister(persister))
		u, _, _ := fundingUpdate()

		_, err := w.ApplyUpdateEvents(t.Context(), u)
		require.NoError(t, err)

		events, err := w.ApplyUpdateEvents(t.Context(), u)
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestApplyUpdate(t *testing.T) {
	u, tx1k, _ := fundingUpdate()
	w := New(genesis.Hash)

	require.NoError(t, w.ApplyUpdate(t.Context(), u))
	assert.Equal(t, block2k, w.Tip())

	status, ok := w.Status(tx1k.TxHash())
	require.True(t, ok)
	assert.Equal(t, anchor(block1k, 100), status.Anchor)

	err := w.ApplyUpdate(t.Context(), Update{Chain: []chain.BlockID{block(9000, 1)}})
	assert.ErrorIs(t, err, ErrChain)
}

func TestApplyUpdateEvents_NoOp(t *testing.T) {
	w := newFundedWallet(t)
	before := w.ChangeSet()

	events, err := w.ApplyUpdateEvents(t.Context(), Update{})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, before, w.ChangeSet())
}

func TestLoad(t *testing.T) {
	w := newFundedWallet(t)

	loaded, err := Load(w.ChangeSet())
	require.NoError(t, err)

	assert.Equal(t, w.Tip(), loaded.Tip())
	assert.Equal(t, w.Chain(), loaded.Chain())
	assert.Equal(t, w.Transactions(), loaded.Transactions())

	_, err = Load(ChangeSet{})
	assert.ErrorIs(t, err, chain.ErrMissingGenesis)
}

func TestTransactions(t *testing.T) {
	w := newFundedWallet(t)

	txs := w.Transactions()
	require.Len(t, txs, 2)
	assert.Less(t, txgraph.CompareTxID(txs[0].TxID, txs[1].TxID), 0)
	for _, tx := range txs {
		assert.Equal(t, canonical.Confirmed, tx.Status.Kind)
		assert.Equal(t, tx.TxID, tx.Tx.TxHash())
	}
}
