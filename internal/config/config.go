// Package config reads the walletsync settings from WALLETSYNC_* environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/kelseyhightower/envconfig"

	"github.com/gabapcia/walletsync/internal/pkg/validator"
)

const envPrefix = "WALLETSYNC"

// Config holds every setting of the walletsync binary.
type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// Network picks the genesis block of the tracked chain. GenesisHash,
	// when set, overrides it.
	Network     string `envconfig:"NETWORK" default:"mainnet" validate:"oneof=mainnet testnet3 regtest signet simnet"`
	GenesisHash string `envconfig:"GENESIS_HASH" validate:"omitempty,chainhash"`

	WalletID string        `envconfig:"WALLET_ID" default:"default" validate:"required,max=128"`
	LockTTL  time.Duration `envconfig:"LOCK_TTL" default:"30s" validate:"gte=1s"`

	Telemetry Telemetry
	Redis     Redis
	Webhook   Webhook
	Retry     Retry
}

// Telemetry configures the OTLP exporters. Endpoints come from the standard
// OTEL_EXPORTER_OTLP_* variables.
type Telemetry struct {
	Enabled     bool   `envconfig:"ENABLED" default:"false"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"walletsync" validate:"required"`
}

type Redis struct {
	Addr     string `envconfig:"ADDR" validate:"required,hostname_port"`
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0" validate:"gte=0"`
}

// Webhook configures event delivery over HTTP. Events are written to stdout
// when URL is empty.
type Webhook struct {
	URL     string        `envconfig:"URL" validate:"omitempty,http_url"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"5s" validate:"gt=0"`
	Retries int           `envconfig:"RETRIES" default:"2" validate:"gte=0,lte=10"`
}

// Retry configures how often an update is retried after a store failure.
type Retry struct {
	Attempts uint          `envconfig:"ATTEMPTS" default:"5" validate:"gte=1"`
	Delay    time.Duration `envconfig:"DELAY" default:"500ms" validate:"gt=0"`
	MaxDelay time.Duration `envconfig:"MAX_DELAY" default:"10s" validate:"gtefield=Delay"`
}

// Load reads and validates the configuration.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read configuration: %w", err)
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

var networks = map[string]*chaincfg.Params{
	chaincfg.MainNetParams.Name:       &chaincfg.MainNetParams,
	chaincfg.TestNet3Params.Name:      &chaincfg.TestNet3Params,
	chaincfg.RegressionNetParams.Name: &chaincfg.RegressionNetParams,
	chaincfg.SigNetParams.Name:        &chaincfg.SigNetParams,
	chaincfg.SimNetParams.Name:        &chaincfg.SimNetParams,
}

// Genesis returns the genesis block hash of the tracked chain.
func (c Config) Genesis() (chainhash.Hash, error) {
	if c.GenesisHash != "" {
		h, err := chainhash.NewHashFromStr(c.GenesisHash)
		if err != nil {
			return chainhash.Hash{}, fmt.Errorf("invalid genesis hash: %w", err)
		}
		return *h, nil
	}

	params, ok := networks[c.Network]
	if !ok {
		return chainhash.Hash{}, fmt.Errorf("unknown network %q", c.Network)
	}

	return *params.GenesisHash, nil
}
