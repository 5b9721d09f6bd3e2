package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/gabapcia/walletsync/internal/wallet"
)

var inputFlag = &cli.StringFlag{
	Name:  "input",
	Usage: "File to read updates from, or - for standard input",
	Value: "-",
}

func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(stdin), nil
	}

	return os.Open(path)
}

func writeJSONLine(w io.Writer, data []byte) error {
	_, err := fmt.Fprintf(w, "%s\n", data)
	return err
}

// applyUpdateCommand applies a single JSON update and prints the resulting
// events as a JSON array.
//
//	walletsync apply --input update.json
func applyUpdateCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:        "apply",
		Description: "Apply one update to the wallet and print the events it produced.",
		Usage:       "Reads a single JSON update and writes the ordered events as a JSON array.",
		Flags:       []cli.Flag{inputFlag},
		Action: func(ctx context.Context, c *cli.Command) error {
			in, err := openInput(c.String("input"), deps.In)
			if err != nil {
				return err
			}
			defer in.Close()

			data, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("failed to read update: %w", err)
			}

			u, err := decodeUpdate(data)
			if err != nil {
				return err
			}

			w, l, err := openWallet(ctx, deps)
			if err != nil {
				return err
			}
			defer l.release(ctx)

			events, err := w.ApplyUpdateEvents(ctx, u)
			if err != nil {
				return err
			}

			out, err := wallet.MarshalEvents(events)
			if err != nil {
				return err
			}

			return writeJSONLine(deps.Out, out)
		},
	}
}

// walletStatusCommand prints the chain tip and the status of every stored
// transaction.
//
//	walletsync status
func walletStatusCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:        "status",
		Description: "Print the wallet's chain tip and the canonical status of each transaction.",
		Usage:       "Writes the wallet status as a JSON object.",
		Action: func(ctx context.Context, c *cli.Command) error {
			w, l, err := openWallet(ctx, deps)
			if err != nil {
				return err
			}
			defer l.release(ctx)

			out, err := encodeStatus(w.Tip(), w.Transactions())
			if err != nil {
				return err
			}

			return writeJSONLine(deps.Out, out)
		},
	}
}
