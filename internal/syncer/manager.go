package syncer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/feral-file/ff-chain-sync/internal/adapter"
	"github.com/feral-file/ff-chain-sync/internal/config"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/handlers"
	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/metrics"
	"github.com/feral-file/ff-chain-sync/internal/store"
)

// Config holds the pacing shared by every worker
type Config struct {
	StepInterval       time.Duration
	WorkerRestartDelay time.Duration
	ResubscribeDelay   time.Duration
	MaxLogAttempts     int
}

// chainRuntime is what the manager needs to start workers on one chain
type chainRuntime struct {
	deps   handlers.Deps
	config config.ChainConfig
}

// Manager owns the workers of every chain. Each worker runs in its own goroutine
// and is restarted after a failed run; workers never wait on each other.
type Manager struct {
	store    store.Store
	clock    adapter.Clock
	config   Config
	registry *Registry

	mu      sync.Mutex
	chains  map[domain.Chain]chainRuntime
	workers map[Tuple]Worker
	pending []Worker
	runCtx  context.Context
	wg      sync.WaitGroup
}

// NewManager creates a manager without chains
func NewManager(st store.Store, clock adapter.Clock, cfg Config) *Manager {
	return &Manager{
		store:    st,
		clock:    clock,
		config:   cfg,
		registry: NewRegistry(),
		chains:   make(map[domain.Chain]chainRuntime),
		workers:  make(map[Tuple]Worker),
	}
}

// Registry returns the handler registry
func (m *Manager) Registry() *Registry {
	return m.registry
}

// AddChain registers the handlers of a chain's fixed contracts and creates their workers
func (m *Manager) AddChain(deps handlers.Deps, cfg config.ChainConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.chains[deps.Chain]; ok {
		return fmt.Errorf("chain %s already added", deps.Chain)
	}

	entries, err := m.registry.RegisterChain(deps, cfg, m)
	if err != nil {
		return fmt.Errorf("failed to register %s handlers: %w", deps.Chain, err)
	}
	m.chains[deps.Chain] = chainRuntime{deps: deps, config: cfg}

	for _, entry := range entries {
		m.addWorker(NewWorker(entry.Tuple, entry.Handler, deps.Client, m.store, m.clock, WorkerConfig{
			Step:             cfg.Step,
			Seed:             cfg.SeedHeight(entry.Tuple.Kind, entry.ContractKind),
			StepInterval:     m.config.StepInterval,
			ResubscribeDelay: m.config.ResubscribeDelay,
			MaxLogAttempts:   m.config.MaxLogAttempts,
		}))
	}

	logger.Info("Chain registered",
		zap.String("chain", deps.Chain.String()),
		zap.Int("workers", len(entries)))
	return nil
}

// addWorker queues a worker until Run, or starts it when already running. Callers hold mu.
func (m *Manager) addWorker(w Worker) {
	m.workers[w.Tuple()] = w
	if m.runCtx == nil {
		m.pending = append(m.pending, w)
		return
	}
	m.start(m.runCtx, w)
}

// Tuples returns the tuples with a worker, started or not
func (m *Manager) Tuples() []Tuple {
	m.mu.Lock()
	defer m.mu.Unlock()

	tuples := make([]Tuple, 0, len(m.workers))
	for tuple := range m.workers {
		tuples = append(tuples, tuple)
	}
	return tuples
}

// StartCollection starts the transfer worker of a user-registered collection.
// Base collections and collections already followed are ignored.
func (m *Manager) StartCollection(ctx context.Context, chain domain.Chain, token common.Address, is721 bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rt, ok := m.chains[chain]
	if !ok {
		logger.WarnCtx(ctx, "Collection registered on an unmanaged chain",
			zap.String("chain", chain.String()),
			zap.String("token", token.Hex()))
		return
	}
	if rt.deps.Contracts.IsBaseCollection(token) {
		return
	}

	tuple := Tuple{Chain: chain, Contract: token, Kind: domain.EventKindTransfer}
	if _, ok := m.workers[tuple]; ok {
		return
	}

	h, err := handlers.NewCollectionTransferHandler(rt.deps, token, is721)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to create collection handler: %w", err),
			zap.String("chain", chain.String()),
			zap.String("token", token.Hex()))
		return
	}
	entry, err := m.registry.Register(chain, domain.ContractCollection, h)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("chain", chain.String()), zap.String("token", token.Hex()))
		return
	}

	logger.InfoCtx(ctx, "Following collection",
		zap.String("chain", chain.String()),
		zap.String("token", token.Hex()),
		zap.Bool("is721", is721))

	// Collections are scanned from genesis: their contracts predate the registration
	m.addWorker(NewWorker(entry.Tuple, h, rt.deps.Client, m.store, m.clock, WorkerConfig{
		Step:             rt.config.CollectionStep,
		StepInterval:     m.config.StepInterval,
		ResubscribeDelay: m.config.ResubscribeDelay,
		MaxLogAttempts:   m.config.MaxLogAttempts,
	}))
}

// bootstrapCollections follows every stored user collection of the managed chains
func (m *Manager) bootstrapCollections(ctx context.Context) error {
	m.mu.Lock()
	chains := make([]domain.Chain, 0, len(m.chains))
	for chain := range m.chains {
		chains = append(chains, chain)
	}
	m.mu.Unlock()

	for _, chain := range chains {
		collections, err := m.store.ListCollections(ctx, chain)
		if err != nil {
			return fmt.Errorf("failed to list %s collections: %w", chain, err)
		}
		for _, c := range collections {
			m.StartCollection(ctx, chain, common.HexToAddress(c.Token), c.Is721)
		}
	}
	return nil
}

// Run follows the stored collections, starts every worker and blocks until ctx is done
func (m *Manager) Run(ctx context.Context) error {
	m.mu.Lock()
	running := m.runCtx != nil
	m.mu.Unlock()
	if running {
		return fmt.Errorf("manager already running")
	}

	if err := m.bootstrapCollections(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	m.runCtx = ctx
	pending := m.pending
	m.pending = nil
	for _, w := range pending {
		m.start(ctx, w)
	}
	m.mu.Unlock()

	logger.InfoCtx(ctx, "Workers started", zap.Int("workers", len(pending)))

	<-ctx.Done()
	m.wg.Wait()
	logger.InfoCtx(ctx, "All workers stopped")
	return nil
}

func (m *Manager) start(ctx context.Context, w Worker) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.supervise(ctx, w)
	}()
}

// supervise reruns a worker after each failed run until ctx is done.
// A rerun recomputes the watermark exactly as a process restart would.
func (m *Manager) supervise(ctx context.Context, w Worker) {
	tuple := w.Tuple()
	fields := []zap.Field{
		zap.String("chain", tuple.Chain.String()),
		zap.String("contract", tuple.Contract.Hex()),
		zap.String("event_kind", string(tuple.Kind)),
	}

	for {
		err := w.Run(ctx)
		if ctx.Err() != nil {
			return
		}

		logger.ErrorCtx(ctx, fmt.Errorf("worker stopped: %w", err), append(fields, zap.Duration("restart_in", m.config.WorkerRestartDelay))...)
		metrics.WorkerRestarts.WithLabelValues(tuple.Chain.String(), string(tuple.Kind)).Inc()

		select {
		case <-ctx.Done():
			return
		case <-m.clock.After(m.config.WorkerRestartDelay):
		}
	}
}
