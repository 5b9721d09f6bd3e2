package cli

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/gabapcia/walletsync/internal/canonical"
	"github.com/gabapcia/walletsync/internal/chain"
	"github.com/gabapcia/walletsync/internal/migration"
	"github.com/gabapcia/walletsync/internal/pkg/validator"
	"github.com/gabapcia/walletsync/internal/txgraph"
	"github.com/gabapcia/walletsync/internal/wallet"
)

// maxLineSize bounds one JSON line of the start command's input.
const maxLineSize = 4 << 20

type blockJSON struct {
	Height uint32 `json:"height"`
	Hash   string `json:"hash" validate:"chainhash"`
}

type anchorJSON struct {
	TxID             string    `json:"txid" validate:"chainhash"`
	Block            blockJSON `json:"block"`
	ConfirmationTime uint64    `json:"confirmation_time"`
}

type updateJSON struct {
	Chain      []blockJSON       `json:"chain" validate:"dive"`
	Txs        []string          `json:"txs"`
	Anchors    []anchorJSON      `json:"anchors" validate:"dive"`
	SeenAts    map[string]uint64 `json:"seen_ats" validate:"dive,keys,chainhash,endkeys"`
	EvictedAts map[string]uint64 `json:"evicted_ats" validate:"dive,keys,chainhash,endkeys"`
}

func mustHash(s string) chainhash.Hash {
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		// inputs went through the chainhash tag
		panic(err)
	}
	return *h
}

func (b blockJSON) blockID() chain.BlockID {
	return chain.BlockID{Height: b.Height, Hash: mustHash(b.Hash)}
}

func timestamps(src map[string]uint64) map[chainhash.Hash]uint64 {
	if len(src) == 0 {
		return nil
	}

	out := make(map[chainhash.Hash]uint64, len(src))
	for txid, ts := range src {
		out[mustHash(txid)] = ts
	}
	return out
}

// decodeUpdate parses one update. Hashes are in display order and
// transactions are hex encoded in wire format.
func decodeUpdate(data []byte) (wallet.Update, error) {
	var in updateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return wallet.Update{}, fmt.Errorf("failed to parse update: %w", err)
	}

	if err := validator.Validate(in); err != nil {
		return wallet.Update{}, err
	}

	var u wallet.Update
	for _, b := range in.Chain {
		u.Chain = append(u.Chain, b.blockID())
	}

	for i, raw := range in.Txs {
		b, err := hex.DecodeString(raw)
		if err != nil {
			return wallet.Update{}, fmt.Errorf("failed to decode transaction %d: %w", i, err)
		}

		var tx wire.MsgTx
		if err := tx.Deserialize(bytes.NewReader(b)); err != nil {
			return wallet.Update{}, fmt.Errorf("failed to decode transaction %d: %w", i, err)
		}
		u.TxUpdate.Txs = append(u.TxUpdate.Txs, &tx)
	}

	for _, a := range in.Anchors {
		u.TxUpdate.Anchors = append(u.TxUpdate.Anchors, txgraph.TxAnchor{
			TxID:   mustHash(a.TxID),
			Anchor: txgraph.Anchor{Block: a.Block.blockID(), ConfirmationTime: a.ConfirmationTime},
		})
	}

	u.TxUpdate.SeenAts = timestamps(in.SeenAts)
	u.TxUpdate.EvictedAts = timestamps(in.EvictedAts)

	return u, nil
}

// updateReader decodes one update per line. Blank lines are skipped and
// reading stops at the first line that does not decode.
type updateReader struct {
	scanner *bufio.Scanner
	line    int
	err     error
}

func newUpdateReader(r io.Reader) *updateReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineSize)

	return &updateReader{scanner: scanner}
}

// All yields the decoded updates in input order.
func (r *updateReader) All() iter.Seq[wallet.Update] {
	return func(yield func(wallet.Update) bool) {
		for r.scanner.Scan() {
			r.line++

			line := bytes.TrimSpace(r.scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			u, err := decodeUpdate(line)
			if err != nil {
				r.err = fmt.Errorf("line %d: %w", r.line, err)
				return
			}

			if !yield(u) {
				return
			}
		}

		if err := r.scanner.Err(); err != nil {
			r.err = fmt.Errorf("failed to read updates: %w", err)
		}
	}
}

// Err returns the error that stopped All, if any. It must not be called
// while All is still running.
func (r *updateReader) Err() error {
	return r.err
}

type conflictJSON struct {
	InputIndex uint32 `json:"input_index"`
	TxID       string `json:"txid"`
}

type txStatusJSON struct {
	TxID       string         `json:"txid"`
	Status     string         `json:"status"`
	Block      *blockJSON     `json:"block,omitempty"`
	LastSeen   uint64         `json:"last_seen,omitempty"`
	ReplacedBy []conflictJSON `json:"replaced_by,omitempty"`
}

type walletStatusJSON struct {
	Tip          blockJSON      `json:"tip"`
	Transactions []txStatusJSON `json:"transactions"`
}

func toBlockJSON(b chain.BlockID) blockJSON {
	return blockJSON{Height: b.Height, Hash: b.Hash.String()}
}

func encodeStatus(tip chain.BlockID, txs []wallet.TxStatus) ([]byte, error) {
	out := walletStatusJSON{
		Tip:          toBlockJSON(tip),
		Transactions: make([]txStatusJSON, 0, len(txs)),
	}

	for _, tx := range txs {
		entry := txStatusJSON{
			TxID:     tx.TxID.String(),
			Status:   tx.Status.Kind.String(),
			LastSeen: tx.Status.LastSeen,
		}

		if tx.Status.Kind == canonical.Confirmed {
			b := toBlockJSON(tx.Status.Anchor.Block)
			entry.Block = &b
		}

		for _, c := range tx.Status.ReplacedBy {
			entry.ReplacedBy = append(entry.ReplacedBy, conflictJSON{InputIndex: c.InputIndex, TxID: c.TxID.String()})
		}

		out.Transactions = append(out.Transactions, entry)
	}

	return json.Marshal(out)
}

type keychainJSON struct {
	Keychain            string `json:"keychain"`
	LastDerivationIndex uint32 `json:"last_derivation_index"`
	Checksum            string `json:"checksum"`
}

func encodeKeychains(keychains []migration.Pre1WalletKeychain) ([]byte, error) {
	out := make([]keychainJSON, 0, len(keychains))
	for _, k := range keychains {
		out = append(out, keychainJSON{
			Keychain:            k.Keychain,
			LastDerivationIndex: k.LastDerivationIndex,
			Checksum:            hex.EncodeToString(k.Checksum),
		})
	}

	return json.Marshal(out)
}
