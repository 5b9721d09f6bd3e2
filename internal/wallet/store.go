package wallet

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

var (
	// ErrNoStateFound is returned by Store.Load when nothing was persisted
	// for the wallet yet.
	ErrNoStateFound = errors.New("no persisted wallet state found")

	// ErrGenesisMismatch is returned by Open when the stored chain starts
	// at a different genesis block.
	ErrGenesisMismatch = errors.New("stored chain has a different genesis block")
)

// Store is a Persister that can also read back everything it persisted.
type Store interface {
	Persister

	// Load returns the merge of every change set persisted so far. It
	// returns ErrNoStateFound when there is none.
	Load(ctx context.Context) (ChangeSet, error)
}

// Open returns the wallet kept in store, persisting to it from then on.
//
// When store is empty, Open creates a wallet at genesis and persists its
// initial state before returning it.
func Open(ctx context.Context, genesis chainhash.Hash, store Store, opts ...Option) (*Wallet, error) {
	opts = append(slices.Clip(opts), WithPersister(store))

	cs, err := store.Load(ctx)
	if errors.Is(err, ErrNoStateFound) {
		w := New(genesis, opts...)
		if err := store.Persist(ctx, w.ChangeSet()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
		}
		return w, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	w, err := Load(cs, opts...)
	if err != nil {
		return nil, err
	}

	if stored := w.Chain()[0].Hash; stored != genesis {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrGenesisMismatch, stored, genesis)
	}

	return w, nil
}
