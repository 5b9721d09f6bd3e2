// Package cli is the command-line entry point of walletsync.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/urfave/cli/v3"

	"github.com/gabapcia/walletsync/internal/eventproc"
	"github.com/gabapcia/walletsync/internal/wallet"
)

// WalletStore keeps one wallet's state and guards it with a lease so only
// one process applies updates at a time.
type WalletStore interface {
	wallet.Store

	// Lock acquires or extends the lease for owner.
	Lock(ctx context.Context, owner string, ttl time.Duration) error

	// Unlock releases the lease if owner still holds it.
	Unlock(ctx context.Context, owner string) error
}

// Dependencies are the collaborators shared by the commands.
type Dependencies struct {
	Store   WalletStore
	Genesis chainhash.Hash
	LockTTL time.Duration

	// Notifier receives the event batches of the start command. Failures,
	// when set, receives the updates it had to skip.
	Notifier eventproc.EventNotifier
	Failures eventproc.FailureNotifier

	WalletOptions    []wallet.Option
	ProcessorOptions []eventproc.Option

	In  io.Reader
	Out io.Writer
}

func newApp(deps Dependencies) *cli.Command {
	if deps.In == nil {
		deps.In = os.Stdin
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}

	return &cli.Command{
		EnableShellCompletion: true,
		Name:                  "walletsync",
		Description:           "Reconciles a wallet with chain and transaction updates and reports what changed.",
		Usage:                 "walletsync [command] [flags]",
		Commands: []*cli.Command{
			applyUpdateCommand(deps),
			startPipelineCommand(deps),
			walletStatusCommand(deps),
			migrateLegacyCommand(deps),
		},
	}
}

// Run parses os.Args and runs the selected command.
func Run(ctx context.Context, deps Dependencies) error {
	return newApp(deps).Run(ctx, os.Args)
}
