package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/gabapcia/walletsync/internal/migration"
)

// migrateLegacyCommand prints the keychains stored by a pre-1.0 wallet
// database so they can be carried over.
//
//	walletsync migrate-legacy --db wallet.sqlite
func migrateLegacyCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:        "migrate-legacy",
		Description: "Read the keychains of a pre-1.0 SQLite wallet database.",
		Usage:       "Writes the keychains, their last derivation index and checksum as a JSON array.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "db",
				Usage:    "Path to the legacy SQLite database",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			db, err := migration.OpenSQLite(c.String("db"))
			if err != nil {
				return err
			}
			defer db.Close()

			keychains, err := migration.GetPre1WalletKeychains(ctx, db)
			if err != nil {
				return err
			}

			out, err := encodeKeychains(keychains)
			if err != nil {
				return err
			}

			return writeJSONLine(deps.Out, out)
		},
	}
}
