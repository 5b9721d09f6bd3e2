package wallet

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/wire"

	"github.com/gabapcia/walletsync/internal/chain"
	"github.com/gabapcia/walletsync/internal/txgraph"
)

type blockJSON struct {
	Height uint32 `json:"height"`
	Hash   string `json:"hash"`
}

type anchorJSON struct {
	Block            blockJSON `json:"block"`
	ConfirmationTime uint64    `json:"confirmation_time"`
}

type conflictJSON struct {
	InputIndex uint32 `json:"input_index"`
	TxID       string `json:"txid"`
}

type eventJSON struct {
	Type         EventKind      `json:"type"`
	OldTip       *blockJSON     `json:"old_tip,omitempty"`
	NewTip       *blockJSON     `json:"new_tip,omitempty"`
	TxID         string         `json:"txid,omitempty"`
	Tx           string         `json:"tx,omitempty"`
	BlockTime    *anchorJSON    `json:"block_time,omitempty"`
	OldBlockTime *anchorJSON    `json:"old_block_time,omitempty"`
	Conflicts    []conflictJSON `json:"conflicts,omitempty"`
}

func toBlockJSON(b chain.BlockID) *blockJSON {
	return &blockJSON{Height: b.Height, Hash: b.Hash.String()}
}

func toAnchorJSON(a *txgraph.Anchor) *anchorJSON {
	if a == nil {
		return nil
	}

	return &anchorJSON{Block: *toBlockJSON(a.Block), ConfirmationTime: a.ConfirmationTime}
}

func encodeTx(tx *wire.MsgTx) (string, error) {
	if tx == nil {
		return "", nil
	}

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf.Bytes()), nil
}

// MarshalEvent encodes e as a JSON object tagged with its kind. Hashes use
// their conventional display form and raw transactions are hex encoded.
func MarshalEvent(e Event) ([]byte, error) {
	out := eventJSON{Type: e.Kind()}

	var (
		tx  *wire.MsgTx
		err error
	)

	switch ev := e.(type) {
	case ChainTipChanged:
		out.OldTip, out.NewTip = toBlockJSON(ev.OldTip), toBlockJSON(ev.NewTip)
	case TxConfirmed:
		out.TxID, tx = ev.TxID.String(), ev.Tx
		out.BlockTime = toAnchorJSON(&ev.BlockTime)
		out.OldBlockTime = toAnchorJSON(ev.OldBlockTime)
	case TxUnconfirmed:
		out.TxID, tx = ev.TxID.String(), ev.Tx
		out.OldBlockTime = toAnchorJSON(ev.OldBlockTime)
	case TxReplaced:
		out.TxID, tx = ev.TxID.String(), ev.Tx
		for _, c := range ev.Conflicts {
			out.Conflicts = append(out.Conflicts, conflictJSON{InputIndex: c.InputIndex, TxID: c.TxID.String()})
		}
	case TxDropped:
		out.TxID, tx = ev.TxID.String(), ev.Tx
	default:
		return nil, fmt.Errorf("unsupported event type %T", e)
	}

	if out.Tx, err = encodeTx(tx); err != nil {
		return nil, fmt.Errorf("failed to encode transaction %s: %w", out.TxID, err)
	}

	return json.Marshal(out)
}

// MarshalEvents encodes events as a JSON array, preserving their order.
func MarshalEvents(events []Event) ([]byte, error) {
	raw := make([]json.RawMessage, 0, len(events))
	for _, e := range events {
		b, err := MarshalEvent(e)
		if err != nil {
			return nil, err
		}

		raw = append(raw, b)
	}

	return json.Marshal(raw)
}
