package cli

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gabapcia/walletsync/internal/pkg/logger"
	"github.com/gabapcia/walletsync/internal/wallet"
)

// lease is this process's hold on the wallet lock.
type lease struct {
	store WalletStore
	owner string
	ttl   time.Duration
}

// keepAlive extends the lease every third of its TTL until ctx is done.
func (l lease) keepAlive(ctx context.Context) {
	if l.ttl <= 0 {
		return
	}

	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := l.store.Lock(ctx, l.owner, l.ttl); err != nil && ctx.Err() == nil {
				logger.Error(ctx, "failed to extend wallet lock", "owner", l.owner, "error", err)
			}
		}
	}
}

func (l lease) release(ctx context.Context) {
	if err := l.store.Unlock(context.WithoutCancel(ctx), l.owner); err != nil {
		logger.Warn(ctx, "failed to release wallet lock", "owner", l.owner, "error", err)
	}
}

// openWallet locks the wallet and loads it. The returned lease must be
// released once the caller is done with the wallet.
func openWallet(ctx context.Context, deps Dependencies) (*wallet.Wallet, lease, error) {
	l := lease{
		store: deps.Store,
		owner: uuid.NewString(),
		ttl:   deps.LockTTL,
	}

	if err := l.store.Lock(ctx, l.owner, l.ttl); err != nil {
		return nil, lease{}, err
	}

	w, err := wallet.Open(ctx, deps.Genesis, deps.Store, deps.WalletOptions...)
	if err != nil {
		l.release(ctx)
		return nil, lease{}, err
	}

	return w, l, nil
}
