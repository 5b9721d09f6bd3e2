// Package wallet reconciles a wallet's view of the chain and of its
// transactions with partial updates, and reports what changed as an
// ordered list of events.
//
// A Wallet owns one chain.Tracker and one txgraph.Graph. Every update is
// applied atomically under the wallet's lock: it is validated and staged
// against the current state, persisted, and only then committed. A failed
// update leaves the wallet untouched and yields no events.
package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/gabapcia/walletsync/internal/canonical"
	"github.com/gabapcia/walletsync/internal/chain"
	"github.com/gabapcia/walletsync/internal/txgraph"
)

const instrumentationName = "github.com/gabapcia/walletsync/internal/wallet"

// ChangeSet is the persisted difference produced by one update.
type ChangeSet struct {
	Chain chain.ChangeSet
	Graph txgraph.ChangeSet
}

// IsEmpty reports whether the change set holds no changes.
func (cs ChangeSet) IsEmpty() bool {
	return cs.Chain.IsEmpty() && cs.Graph.IsEmpty()
}

// Merge folds other into cs. Merging every persisted change set in the
// order they were produced yields a change set Load accepts.
func (cs *ChangeSet) Merge(other ChangeSet) {
	if cs.Chain == nil {
		cs.Chain = make(chain.ChangeSet)
	}

	cs.Chain.Merge(other.Chain)
	cs.Graph.Merge(other.Graph)
}

// Persister durably stores the change set of every applied update.
//
// Persist runs before the update is committed in memory. Returning an error
// aborts the update.
type Persister interface {
	Persist(ctx context.Context, cs ChangeSet) error
}

type nopPersister struct{}

func (nopPersister) Persist(context.Context, ChangeSet) error { return nil }

type config struct {
	persister      Persister
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures a Wallet.
type Option func(*config)

// WithPersister sets the persister used for every applied update. By
// default changes are kept in memory only.
func WithPersister(p Persister) Option {
	return func(c *config) {
		c.persister = p
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		c.tracerProvider = tp
	}
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		c.meterProvider = mp
	}
}

// Wallet is the event diff engine of one wallet. It is safe for concurrent
// use; calls are serialized.
type Wallet struct {
	mu        sync.Mutex
	chain     *chain.Tracker
	graph     *txgraph.Graph
	persister Persister
	tracer    trace.Tracer
	metrics   *metrics
}

// New creates a wallet whose chain holds only the genesis block.
func New(genesis chainhash.Hash, opts ...Option) *Wallet {
	return newWallet(chain.New(genesis), txgraph.New(), opts...)
}

// Load rebuilds a wallet from a change set that describes its full state,
// typically the merge of every change set it ever persisted.
func Load(cs ChangeSet, opts ...Option) (*Wallet, error) {
	c, err := chain.FromChangeSet(cs.Chain)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild chain: %w", err)
	}

	return newWallet(c, txgraph.FromChangeSet(cs.Graph), opts...), nil
}

func newWallet(c chain.Chain, g *txgraph.Graph, opts ...Option) *Wallet {
	cfg := config{
		persister:      nopPersister{},
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Wallet{
		chain:     chain.NewTracker(c),
		graph:     g,
		persister: cfg.persister,
		tracer:    cfg.tracerProvider.Tracer(instrumentationName),
		metrics:   newMetrics(cfg.meterProvider.Meter(instrumentationName)),
	}
}

// ChangeSet returns a change set describing the whole current state. Load
// accepts it.
func (w *Wallet) ChangeSet() ChangeSet {
	w.mu.Lock()
	defer w.mu.Unlock()

	return ChangeSet{
		Chain: w.chain.Snapshot().ChangeSet(),
		Graph: w.graph.ChangeSet(),
	}
}

// Tip returns the tip of the wallet's chain.
func (w *Wallet) Tip() chain.BlockID {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.chain.Tip()
}

// Chain returns the blocks of the wallet's chain in ascending order.
func (w *Wallet) Chain() []chain.BlockID {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.chain.Snapshot().BlockIDs()
}

// Status returns the canonical status of txid. It reports false when the
// wallet does not store the transaction.
func (w *Wallet) Status(txid chainhash.Hash) (canonical.Status, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.graph.Tx(txid); !ok {
		return canonical.Status{}, false
	}

	return canonical.Resolve(txid, w.chain.Snapshot(), w.graph), true
}

// TxStatus pairs a stored transaction with its canonical status.
type TxStatus struct {
	TxID   chainhash.Hash
	Tx     *wire.MsgTx
	Status canonical.Status
}

// Transactions lists every stored transaction with its canonical status,
// ordered by txid.
func (w *Wallet) Transactions() []TxStatus {
	w.mu.Lock()
	defer w.mu.Unlock()

	snapshot := w.chain.Snapshot()
	ids := w.graph.TxIDs()
	out := make([]TxStatus, 0, len(ids))
	for _, txid := range ids {
		tx, _ := w.graph.Tx(txid)
		out = append(out, TxStatus{
			TxID:   txid,
			Tx:     tx,
			Status: canonical.Resolve(txid, snapshot, w.graph),
		})
	}

	return out
}
