package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrWalletLocked is returned when another owner holds the wallet's lock.
var ErrWalletLocked = errors.New("wallet is locked by another process")

// unlockScript deletes the lock only when it is still held by the caller.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// lockConn is the subset of the client the lock needs.
type lockConn interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// lockAttempts bounds how many times Lock tries to claim the lease when it
// vanishes between two commands.
const lockAttempts = 2

// Lock claims exclusive write access to the wallet for owner until ttl
// elapses. Locking again with the same owner extends the lease.
//
// Returns ErrWalletLocked if a different owner holds the lock.
func (s *WalletStore) Lock(ctx context.Context, owner string, ttl time.Duration) error {
	return acquire(ctx, s.conn, s.keys.lock, owner, ttl)
}

func acquire(ctx context.Context, conn lockConn, key, owner string, ttl time.Duration) error {
	for range lockAttempts {
		ok, err := conn.SetNX(ctx, key, owner, ttl).Result()
		if err != nil {
			return err
		}

		if ok {
			return nil
		}

		current, err := conn.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			// the lease expired after SetNX failed
			continue
		}

		if err != nil {
			return err
		}

		if current != owner {
			return ErrWalletLocked
		}

		extended, err := conn.Expire(ctx, key, ttl).Result()
		if err != nil {
			return err
		}

		if extended {
			return nil
		}
	}

	return ErrWalletLocked
}

// Unlock releases the lock if owner holds it.
func (s *WalletStore) Unlock(ctx context.Context, owner string) error {
	return unlockScript.Run(ctx, s.conn, []string{s.keys.lock}, owner).Err()
}
