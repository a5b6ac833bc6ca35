package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/ff-chain-sync/internal/adapter"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/handlers"
	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/metrics"
	"github.com/feral-file/ff-chain-sync/internal/providers/ethereum"
	"github.com/feral-file/ff-chain-sync/internal/store"
)

// WorkerConfig holds the pacing of one worker
type WorkerConfig struct {
	// Step is the size of a backfill window in blocks
	Step uint64
	// Seed is the watermark used while no event of the tuple is stored
	Seed             uint64
	StepInterval     time.Duration
	ResubscribeDelay time.Duration
	// MaxLogAttempts is the number of failed runs stopped at the same log after which
	// the log is skipped; 0 retries it forever
	MaxLogAttempts int
}

// Worker syncs one (chain, contract, event kind) tuple: it backfills from the stored
// watermark to the chain head, then follows the live subscription
//
//go:generate mockgen -source=worker.go -destination=../mocks/worker.go -package=mocks -mock_names=Worker=MockWorker
type Worker interface {
	// Tuple returns the synced tuple
	Tuple() Tuple
	// Run syncs until ctx is done or a log cannot be handled.
	// It never returns nil; a returned error other than ctx.Err() means the run should be restarted.
	Run(ctx context.Context) error
}

type worker struct {
	tuple   Tuple
	handler handlers.Handler
	client  ethereum.Client
	store   store.Store
	clock   adapter.Clock
	config  WorkerConfig

	// failing is the log that stopped the previous runs, seen attempts times in a row.
	// Runs of a worker never overlap.
	failing  logID
	attempts int
}

// logID identifies a log within its chain
type logID struct {
	txHash common.Hash
	index  uint
}

func idOf(log types.Log) logID {
	return logID{txHash: log.TxHash, index: log.Index}
}

// NewWorker creates the worker of a registered handler
func NewWorker(tuple Tuple, h handlers.Handler, client ethereum.Client, st store.Store, clock adapter.Clock, cfg WorkerConfig) Worker {
	if cfg.Step == 0 {
		cfg.Step = 1
	}
	return &worker{
		tuple:   tuple,
		handler: h,
		client:  client,
		store:   st,
		clock:   clock,
		config:  cfg,
	}
}

func (w *worker) Tuple() Tuple {
	return w.tuple
}

func (w *worker) fields() []zap.Field {
	return []zap.Field{
		zap.String("chain", w.tuple.Chain.String()),
		zap.String("contract", w.tuple.Contract.Hex()),
		zap.String("event_kind", string(w.tuple.Kind)),
	}
}

func (w *worker) Run(ctx context.Context) error {
	watermark, err := w.watermark(ctx)
	if err != nil {
		return err
	}

	// The live phase starts right above the height captured here, whatever the chain
	// reaches while the backfill runs
	current, err := w.client.CurrentHeight(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current height: %w", err)
	}

	liveFrom, err := w.backfill(ctx, watermark, current)
	if err != nil {
		return err
	}

	return w.live(ctx, liveFrom)
}

func (w *worker) watermark(ctx context.Context) (uint64, error) {
	return Watermark(ctx, w.store, w.tuple, w.config.Seed)
}

// dispatch hands one log to the handler.
// Malformed logs are dropped; any other failure stops the run before the watermark can pass the log,
// until the same log has stopped MaxLogAttempts runs in a row and is skipped.
func (w *worker) dispatch(ctx context.Context, log types.Log) error {
	err := w.handler.Handle(ctx, log)
	switch {
	case err == nil:
		if w.failing == idOf(log) {
			w.failing, w.attempts = logID{}, 0
		}
		metrics.EventsHandled.WithLabelValues(w.tuple.Chain.String(), string(w.tuple.Kind), "ok").Inc()
		metrics.Watermark.WithLabelValues(w.tuple.Chain.String(), w.tuple.Contract.Hex(), string(w.tuple.Kind)).Set(float64(log.BlockNumber))
		return nil

	case errors.Is(err, domain.ErrMalformedEvent):
		metrics.EventsHandled.WithLabelValues(w.tuple.Chain.String(), string(w.tuple.Kind), "dropped").Inc()
		logger.ErrorCtx(ctx, fmt.Errorf("dropping malformed log: %w", err), append(w.fields(),
			zap.Uint64("block", log.BlockNumber),
			zap.String("tx_hash", log.TxHash.Hex()),
			zap.Uint("log_index", log.Index))...)
		return nil

	case w.exhausted(log):
		metrics.EventsHandled.WithLabelValues(w.tuple.Chain.String(), string(w.tuple.Kind), "skipped").Inc()
		logger.ErrorCtx(ctx, fmt.Errorf("skipping log after %d failed attempts: %w", w.config.MaxLogAttempts, err), append(w.fields(),
			zap.Uint64("block", log.BlockNumber),
			zap.String("tx_hash", log.TxHash.Hex()),
			zap.Uint("log_index", log.Index))...)
		w.failing, w.attempts = logID{}, 0
		return nil

	default:
		metrics.EventsHandled.WithLabelValues(w.tuple.Chain.String(), string(w.tuple.Kind), "failed").Inc()
		return fmt.Errorf("failed to handle log %s:%d at block %d: %w", log.TxHash.Hex(), log.Index, log.BlockNumber, err)
	}
}

// exhausted counts a failed attempt at the log and reports whether the log is out of attempts
func (w *worker) exhausted(log types.Log) bool {
	id := idOf(log)
	if w.failing != id {
		w.failing, w.attempts = id, 0
	}
	w.attempts++
	return w.config.MaxLogAttempts > 0 && w.attempts >= w.config.MaxLogAttempts
}

// sleep waits for d unless ctx is done first
func (w *worker) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.clock.After(d):
		return nil
	}
}
