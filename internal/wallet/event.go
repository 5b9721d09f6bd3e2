package wallet

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/gabapcia/walletsync/internal/chain"
	"github.com/gabapcia/walletsync/internal/txgraph"
)

// EventKind names the variant of an Event.
type EventKind string

const (
	KindChainTipChanged EventKind = "chain_tip_changed"
	KindTxConfirmed     EventKind = "tx_confirmed"
	KindTxUnconfirmed   EventKind = "tx_unconfirmed"
	KindTxReplaced      EventKind = "tx_replaced"
	KindTxDropped       EventKind = "tx_dropped"
)

// Event is a change in the wallet's view produced by one applied update.
//
// The set of implementations is closed: ChainTipChanged, TxConfirmed,
// TxUnconfirmed, TxReplaced and TxDropped. Consumers switch on the concrete
// type.
type Event interface {
	Kind() EventKind
	isEvent()
}

// ChainTipChanged reports that the best block moved.
type ChainTipChanged struct {
	OldTip chain.BlockID
	NewTip chain.BlockID
}

// TxConfirmed reports that a transaction became confirmed, or moved to a
// different block. OldBlockTime is set in the second case.
type TxConfirmed struct {
	TxID         chainhash.Hash
	Tx           *wire.MsgTx
	BlockTime    txgraph.Anchor
	OldBlockTime *txgraph.Anchor
}

// TxUnconfirmed reports that a transaction is now (back) in the mempool, or
// lost its confirmation. OldBlockTime is set in the second case.
type TxUnconfirmed struct {
	TxID         chainhash.Hash
	Tx           *wire.MsgTx
	OldBlockTime *txgraph.Anchor
}

// TxReplaced reports that a transaction was evicted in favour of the
// conflicting transactions listed in Conflicts.
type TxReplaced struct {
	TxID      chainhash.Hash
	Tx        *wire.MsgTx
	Conflicts []txgraph.Conflict
}

// TxDropped reports that an unconfirmed transaction was evicted without a
// known replacement.
type TxDropped struct {
	TxID chainhash.Hash
	Tx   *wire.MsgTx
}

func (ChainTipChanged) Kind() EventKind { return KindChainTipChanged }
func (TxConfirmed) Kind() EventKind     { return KindTxConfirmed }
func (TxUnconfirmed) Kind() EventKind   { return KindTxUnconfirmed }
func (TxReplaced) Kind() EventKind      { return KindTxReplaced }
func (TxDropped) Kind() EventKind       { return KindTxDropped }

func (ChainTipChanged) isEvent() {}
func (TxConfirmed) isEvent()     {}
func (TxUnconfirmed) isEvent()   {}
func (TxReplaced) isEvent()      {}
func (TxDropped) isEvent()       {}

// EventTxID returns the transaction an event is about. It reports false for
// ChainTipChanged.
func EventTxID(e Event) (chainhash.Hash, bool) {
	switch ev := e.(type) {
	case TxConfirmed:
		return ev.TxID, true
	case TxUnconfirmed:
		return ev.TxID, true
	case TxReplaced:
		return ev.TxID, true
	case TxDropped:
		return ev.TxID, true
	default:
		return chainhash.Hash{}, false
	}
}
