package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gabapcia/walletsync/internal/config"
	"github.com/gabapcia/walletsync/internal/eventproc"
	"github.com/gabapcia/walletsync/internal/handlers/cli"
	"github.com/gabapcia/walletsync/internal/infra/notifier/stdout"
	"github.com/gabapcia/walletsync/internal/infra/notifier/webhook"
	"github.com/gabapcia/walletsync/internal/infra/storage/redis"
	"github.com/gabapcia/walletsync/internal/pkg/logger"
	"github.com/gabapcia/walletsync/internal/pkg/resilience/retry"
	"github.com/gabapcia/walletsync/internal/pkg/telemetry"
	transport "github.com/gabapcia/walletsync/internal/pkg/transport/http"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, cfg.Telemetry.ServiceName)
		if err != nil {
			return fmt.Errorf("failed to start telemetry: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = shutdown(ctx)
		}()
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	genesis, err := cfg.Genesis()
	if err != nil {
		return err
	}

	store, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	var notifier eventproc.EventNotifier = stdout.New(os.Stdout)
	if cfg.Webhook.URL != "" {
		httpClient := transport.NewClient(
			transport.WithTimeout(cfg.Webhook.Timeout),
			transport.WithRetryMax(cfg.Webhook.Retries),
		)
		notifier = webhook.New(httpClient.StandardClient(), cfg.Webhook.URL)
	}

	return cli.Run(ctx, cli.Dependencies{
		Store:    store.Wallet(cfg.WalletID),
		Genesis:  genesis,
		LockTTL:  cfg.LockTTL,
		Notifier: notifier,
		Failures: stdout.New(os.Stderr),
		ProcessorOptions: []eventproc.Option{
			eventproc.WithWalletID(cfg.WalletID),
			eventproc.WithRetry(retry.New(
				retry.WithAttempts(cfg.Retry.Attempts),
				retry.WithDelay(cfg.Retry.Delay),
				retry.WithMaxDelay(cfg.Retry.MaxDelay),
			)),
		},
	})
}
