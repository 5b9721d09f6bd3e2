package cli

import (
	"context"
	"os/signal"
	"slices"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/gabapcia/walletsync/internal/eventproc"
	"github.com/gabapcia/walletsync/internal/pkg/logger"
	"github.com/gabapcia/walletsync/internal/pkg/x/chflow"
)

// startPipelineCommand streams JSON-line updates into the wallet and hands
// every resulting event batch to the configured notifier.
//
//	walletsync start --input updates.jsonl
//
// It runs until the input is exhausted or the process is interrupted.
func startPipelineCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:        "start",
		Description: "Apply a stream of updates to the wallet and deliver the resulting events.",
		Usage:       "Reads one JSON update per line. Terminates at end of input or on Ctrl+C.",
		Flags:       []cli.Flag{inputFlag},
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			in, err := openInput(c.String("input"), deps.In)
			if err != nil {
				return err
			}
			defer in.Close()

			w, l, err := openWallet(ctx, deps)
			if err != nil {
				return err
			}
			defer l.release(ctx)

			leaseCtx, cancelLease := context.WithCancel(ctx)
			defer cancelLease()
			go l.keepAlive(leaseCtx)

			opts := slices.Clone(deps.ProcessorOptions)
			if deps.Failures != nil {
				opts = append(opts, eventproc.WithFailureNotifier(deps.Failures))
			}

			updates := newUpdateReader(in)
			proc := eventproc.New(w, deps.Notifier, opts...)
			if err := proc.Start(ctx, chflow.Produce(ctx, updates.All())); err != nil {
				return err
			}
			defer proc.Close()

			select {
			case <-proc.Done():
			case <-ctx.Done():
			}

			if ctx.Err() != nil {
				logger.Info(ctx, "stopping on signal")
				return nil
			}

			return updates.Err()
		},
	}
}
