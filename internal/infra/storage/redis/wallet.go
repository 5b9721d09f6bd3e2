package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/redis/go-redis/v9"

	"github.com/gabapcia/walletsync/internal/chain"
	"github.com/gabapcia/walletsync/internal/txgraph"
	"github.com/gabapcia/walletsync/internal/wallet"
)

// WalletStore keeps the change sets of one wallet in Redis. Persisting is
// atomic: all keys of a change set are written in a single MULTI/EXEC.
type WalletStore struct {
	conn     *redis.Client
	walletID string
	keys     walletKeys
}

var _ wallet.Store = (*WalletStore)(nil)

// Wallet returns the store of walletID.
func (c *client) Wallet(walletID string) *WalletStore {
	return &WalletStore{
		conn:     c.conn,
		walletID: walletID,
		keys:     keysFor(walletID),
	}
}

// Persist writes cs on top of what is already stored.
func (s *WalletStore) Persist(ctx context.Context, cs wallet.ChangeSet) error {
	if cs.IsEmpty() {
		return nil
	}

	txs := make(map[string]any, len(cs.Graph.Txs))
	for txid, tx := range cs.Graph.Txs {
		raw, err := encodeTx(tx)
		if err != nil {
			return fmt.Errorf("failed to encode transaction %s: %w", txid, err)
		}
		txs[txid.String()] = raw
	}

	var (
		blocks  = make(map[string]any, len(cs.Chain))
		removed []string
	)
	for height, hash := range cs.Chain {
		if hash == nil {
			removed = append(removed, encodeHeight(height))
			continue
		}
		blocks[encodeHeight(height)] = hash.String()
	}

	anchors := make([]any, 0, cs.Graph.Anchors.Len())
	for ta := range cs.Graph.Anchors.ToIter() {
		anchors = append(anchors, encodeAnchor(ta))
	}

	_, err := s.conn.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(removed) > 0 {
			pipe.HDel(ctx, s.keys.chain, removed...)
		}
		if len(blocks) > 0 {
			pipe.HSet(ctx, s.keys.chain, blocks)
		}
		if len(txs) > 0 {
			pipe.HSet(ctx, s.keys.txs, txs)
		}
		if len(anchors) > 0 {
			pipe.SAdd(ctx, s.keys.anchors, anchors...)
		}
		setTimestamps(ctx, pipe, s.keys.lastSeen, cs.Graph.LastSeen)
		setTimestamps(ctx, pipe, s.keys.evictedAt, cs.Graph.EvictedAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist wallet %s: %w", s.walletID, err)
	}

	return nil
}

func setTimestamps(ctx context.Context, pipe redis.Pipeliner, key string, m map[chainhash.Hash]uint64) {
	if len(m) == 0 {
		return
	}

	values := make(map[string]any, len(m))
	for txid, ts := range m {
		values[txid.String()] = encodeTimestamp(ts)
	}

	pipe.HSet(ctx, key, values)
}

// Load reads back the full state of the wallet as a single change set.
func (s *WalletStore) Load(ctx context.Context) (wallet.ChangeSet, error) {
	var (
		chainCmd, txsCmd, lastSeenCmd, evictedAtCmd *redis.MapStringStringCmd
		anchorsCmd                                  *redis.StringSliceCmd
	)

	_, err := s.conn.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		chainCmd = pipe.HGetAll(ctx, s.keys.chain)
		txsCmd = pipe.HGetAll(ctx, s.keys.txs)
		anchorsCmd = pipe.SMembers(ctx, s.keys.anchors)
		lastSeenCmd = pipe.HGetAll(ctx, s.keys.lastSeen)
		evictedAtCmd = pipe.HGetAll(ctx, s.keys.evictedAt)
		return nil
	})
	if err != nil {
		return wallet.ChangeSet{}, fmt.Errorf("failed to load wallet %s: %w", s.walletID, err)
	}

	if len(chainCmd.Val()) == 0 {
		return wallet.ChangeSet{}, fmt.Errorf("%w: %s", wallet.ErrNoStateFound, s.walletID)
	}

	return decodeChangeSet(chainCmd.Val(), txsCmd.Val(), anchorsCmd.Val(), lastSeenCmd.Val(), evictedAtCmd.Val())
}

func decodeChangeSet(blocks, txs map[string]string, anchors []string, lastSeen, evictedAt map[string]string) (wallet.ChangeSet, error) {
	cs := wallet.ChangeSet{
		Chain: make(chain.ChangeSet, len(blocks)),
		Graph: txgraph.NewChangeSet(),
	}

	var errs []error

	for field, value := range blocks {
		height, err := decodeHeight(field)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		hash, err := decodeHash(value)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		cs.Chain[height] = &hash
	}

	for field, value := range txs {
		txid, err := decodeHash(field)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		tx, err := decodeTx(value)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if tx.TxHash() != txid {
			errs = append(errs, fmt.Errorf("%w: transaction stored under %s hashes to %s", ErrCorruptEntry, txid, tx.TxHash()))
			continue
		}

		cs.Graph.Txs[txid] = tx
	}

	for _, member := range anchors {
		ta, err := decodeAnchor(member)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		cs.Graph.Anchors.Add(ta)
	}

	errs = append(errs, decodeTimestamps(lastSeen, cs.Graph.LastSeen)...)
	errs = append(errs, decodeTimestamps(evictedAt, cs.Graph.EvictedAt)...)

	if err := errors.Join(errs...); err != nil {
		return wallet.ChangeSet{}, err
	}

	return cs, nil
}

func decodeTimestamps(src map[string]string, dst map[chainhash.Hash]uint64) []error {
	var errs []error
	for field, value := range src {
		txid, err := decodeHash(field)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		ts, err := decodeTimestamp(value)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		dst[txid] = ts
	}

	return errs
}
