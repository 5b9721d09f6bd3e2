package cli

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gabapcia/walletsync/internal/wallet"
)

var errLocked = errors.New("wallet is locked by another process")

// memoryStore is a WalletStore kept in memory.
type memoryStore struct {
	mu       sync.Mutex
	state    *wallet.ChangeSet
	owner    string
	persists int
	unlocks  int
}

var _ WalletStore = (*memoryStore)(nil)

func (s *memoryStore) Load(context.Context) (wallet.ChangeSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return wallet.ChangeSet{}, wallet.ErrNoStateFound
	}

	var out wallet.ChangeSet
	out.Merge(*s.state)
	return out, nil
}

func (s *memoryStore) Persist(_ context.Context, cs wallet.ChangeSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		s.state = new(wallet.ChangeSet)
	}
	s.state.Merge(cs)
	s.persists++
	return nil
}

func (s *memoryStore) Lock(_ context.Context, owner string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owner != "" && s.owner != owner {
		return errLocked
	}
	s.owner = owner
	return nil
}

func (s *memoryStore) Unlock(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owner == owner {
		s.owner = ""
		s.unlocks++
	}
	return nil
}
