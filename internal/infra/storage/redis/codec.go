package redis

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/gabapcia/walletsync/internal/chain"
	"github.com/gabapcia/walletsync/internal/txgraph"
)

// keyPrefix namespaces every key written by this package.
const keyPrefix = "walletsync"

// ErrCorruptEntry is returned when a stored value cannot be decoded.
var ErrCorruptEntry = errors.New("corrupt wallet entry")

// walletKeys are the Redis keys holding the state of one wallet:
//
//	walletsync:<wallet>:chain       HASH height -> block hash
//	walletsync:<wallet>:txs         HASH txid -> raw transaction (hex)
//	walletsync:<wallet>:anchors     SET  "<height>:<block hash>:<confirmation time>:<txid>"
//	walletsync:<wallet>:last_seen   HASH txid -> unix seconds
//	walletsync:<wallet>:evicted_at  HASH txid -> unix seconds
//	walletsync:<wallet>:lock        STRING owner, with TTL
type walletKeys struct {
	chain, txs, anchors, lastSeen, evictedAt, lock string
}

func keysFor(walletID string) walletKeys {
	base := fmt.Sprintf("%s:%s", keyPrefix, walletID)

	return walletKeys{
		chain:     base + ":chain",
		txs:       base + ":txs",
		anchors:   base + ":anchors",
		lastSeen:  base + ":last_seen",
		evictedAt: base + ":evicted_at",
		lock:      base + ":lock",
	}
}

func encodeHeight(height uint32) string {
	return strconv.FormatUint(uint64(height), 10)
}

func decodeHeight(s string) (uint32, error) {
	h, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: height %q: %w", ErrCorruptEntry, s, err)
	}

	return uint32(h), nil
}

func decodeHash(s string) (chainhash.Hash, error) {
	// NewHashFromStr pads short strings, so the length is checked first
	if len(s) != 2*chainhash.HashSize {
		return chainhash.Hash{}, fmt.Errorf("%w: hash %q has the wrong length", ErrCorruptEntry, s)
	}

	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return chainhash.Hash{}, fmt.Errorf("%w: hash %q: %w", ErrCorruptEntry, s, err)
	}

	return *h, nil
}

func encodeTx(tx *wire.MsgTx) (string, error) {
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf.Bytes()), nil
}

func decodeTx(s string) (*wire.MsgTx, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: transaction: %w", ErrCorruptEntry, err)
	}

	tx := new(wire.MsgTx)
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: transaction: %w", ErrCorruptEntry, err)
	}

	return tx, nil
}

func encodeTimestamp(ts uint64) string {
	return strconv.FormatUint(ts, 10)
}

func decodeTimestamp(s string) (uint64, error) {
	ts, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: timestamp %q: %w", ErrCorruptEntry, s, err)
	}

	return ts, nil
}

func encodeAnchor(ta txgraph.TxAnchor) string {
	return fmt.Sprintf("%d:%s:%d:%s",
		ta.Anchor.Block.Height, ta.Anchor.Block.Hash, ta.Anchor.ConfirmationTime, ta.TxID)
}

func decodeAnchor(member string) (txgraph.TxAnchor, error) {
	parts := strings.Split(member, ":")
	if len(parts) != 4 {
		return txgraph.TxAnchor{}, fmt.Errorf("%w: anchor %q", ErrCorruptEntry, member)
	}

	height, err := decodeHeight(parts[0])
	if err != nil {
		return txgraph.TxAnchor{}, err
	}

	blockHash, err := decodeHash(parts[1])
	if err != nil {
		return txgraph.TxAnchor{}, err
	}

	confTime, err := decodeTimestamp(parts[2])
	if err != nil {
		return txgraph.TxAnchor{}, err
	}

	txid, err := decodeHash(parts[3])
	if err != nil {
		return txgraph.TxAnchor{}, err
	}

	return txgraph.TxAnchor{
		Anchor: txgraph.Anchor{
			Block:            chain.BlockID{Height: height, Hash: blockHash},
			ConfirmationTime: confTime,
		},
		TxID: txid,
	}, nil
}
