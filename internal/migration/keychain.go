// Package migration reads wallet data written by pre-1.0 releases so it can
// be carried over to the current format.
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrMalformedRow is returned when a legacy row cannot be mapped to a
// keychain record.
var ErrMalformedRow = errors.New("malformed legacy keychain row")

const selectPre1Keychains = `
SELECT idx.keychain AS keychain, value, checksum
FROM last_derivation_indices AS idx
JOIN checksums AS chk ON idx.keychain = chk.keychain`

// Pre1WalletKeychain is the state of one keychain in a pre-1.0 wallet
// database.
type Pre1WalletKeychain struct {
	Keychain            string // "External" or "Internal"
	LastDerivationIndex uint32 // Index of the last derived key
	Checksum            []byte // Descriptor checksum; must match the migrated descriptor
}

// GetPre1WalletKeychains lists the keychains of a pre-1.0 wallet database,
// in the order the database returns them. Quote characters around keychain
// names are stripped.
func GetPre1WalletKeychains(ctx context.Context, db *sql.DB) ([]Pre1WalletKeychain, error) {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, selectPre1Keychains)
	if err != nil {
		return nil, fmt.Errorf("failed to query legacy keychains: %w", err)
	}
	defer rows.Close()

	keychains := make([]Pre1WalletKeychain, 0)
	for rows.Next() {
		var (
			keychain sql.NullString
			value    sql.NullInt64
			checksum []byte
		)

		if err := rows.Scan(&keychain, &value, &checksum); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
		}

		k, err := toKeychain(keychain, value, checksum)
		if err != nil {
			return nil, err
		}

		keychains = append(keychains, k)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read legacy keychains: %w", err)
	}

	return keychains, nil
}

func toKeychain(keychain sql.NullString, value sql.NullInt64, checksum []byte) (Pre1WalletKeychain, error) {
	switch {
	case !keychain.Valid:
		return Pre1WalletKeychain{}, fmt.Errorf("%w: keychain is null", ErrMalformedRow)
	case !value.Valid:
		return Pre1WalletKeychain{}, fmt.Errorf("%w: derivation index of %s is null", ErrMalformedRow, keychain.String)
	case value.Int64 < 0 || value.Int64 > math.MaxUint32:
		return Pre1WalletKeychain{}, fmt.Errorf("%w: derivation index %d of %s is out of range",
			ErrMalformedRow, value.Int64, keychain.String)
	}

	return Pre1WalletKeychain{
		Keychain:            strings.Trim(keychain.String, `"`),
		LastDerivationIndex: uint32(value.Int64),
		Checksum:            checksum,
	}, nil
}
