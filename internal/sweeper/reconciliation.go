package sweeper

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feral-file/ff-chain-sync/internal/adapter"
	"github.com/feral-file/ff-chain-sync/internal/canonical"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/metrics"
	"github.com/feral-file/ff-chain-sync/internal/store"
	"github.com/feral-file/ff-chain-sync/internal/store/schema"
)

// ReconciliationSweeperConfig holds configuration for the reconciliation poller
type ReconciliationSweeperConfig struct {
	PollInterval    time.Duration // Sleep when no job is due
	Delay           time.Duration // Delay before a job whose entity is still missing runs again
	BatchSize       int           // Jobs claimed per cycle
	LeaseDuration   time.Duration // How long a claimed job stays invisible to other pollers
	WorkerPoolSize  int           // Concurrent replays
	WorkerQueueSize int           // Replays buffered before submission blocks; 0 is unbounded
}

// reconciliationSweeper replays deferred mutations once their entity exists
type reconciliationSweeper struct {
	*loop
	config    *ReconciliationSweeperConfig
	store     store.Store
	canonical canonical.Adapter
	clock     adapter.Clock
	// owner identifies this poller on the leases it takes
	owner string
}

// NewReconciliationSweeper creates a new reconciliation poller
func NewReconciliationSweeper(
	config *ReconciliationSweeperConfig,
	st store.Store,
	canonicalAdapter canonical.Adapter,
	clock adapter.Clock,
) Sweeper {
	s := &reconciliationSweeper{
		config:    config,
		store:     st,
		canonical: canonicalAdapter,
		clock:     clock,
		owner:     uuid.NewString(),
	}
	s.loop = newLoop("reconciliation-sweeper", clock, config.PollInterval, s.runCycle)
	return s
}

// runCycle claims a batch of due jobs and replays them.
// A full batch means more jobs may be due right away.
func (s *reconciliationSweeper) runCycle(ctx context.Context) (bool, error) {
	jobs, err := s.store.ClaimReconciliationJobs(ctx, s.owner, s.clock.Now(), s.config.LeaseDuration, s.config.BatchSize)
	if err != nil {
		return false, fmt.Errorf("failed to claim reconciliation jobs: %w", err)
	}
	if len(jobs) == 0 {
		return false, nil
	}

	logger.DebugCtx(ctx, "Claimed reconciliation jobs", zap.Int("count", len(jobs)), zap.String("owner", s.owner))

	var applied, deferred, failed atomic.Int32
	pool := pond.NewPool(s.config.WorkerPoolSize, pond.WithQueueSize(s.config.WorkerQueueSize), pond.WithContext(ctx))
	for _, job := range jobs {
		pool.Submit(func() {
			switch s.replay(ctx, job) {
			case resultDeferred:
				deferred.Add(1)
			case resultFailed:
				failed.Add(1)
			default:
				applied.Add(1)
			}
		})
	}
	pool.StopAndWait()

	logger.InfoCtx(ctx, "Reconciliation cycle completed",
		zap.Int("claimed", len(jobs)),
		zap.Int32("done", applied.Load()),
		zap.Int32("deferred", deferred.Load()),
		zap.Int32("failed", failed.Load()),
	)

	return len(jobs) >= s.config.BatchSize, nil
}

const (
	resultDeferred = "deferred"
	resultFailed   = "failed"
)

// replay re-runs one job. The job is deleted once the mutation ran, whether it changed
// the entity or lost to a newer event; otherwise it is released with a new due time.
func (s *reconciliationSweeper) replay(ctx context.Context, job schema.ReconciliationJob) string {
	fields := []zap.Field{
		zap.String("id", job.ID),
		zap.String("kind", string(job.Kind)),
		zap.String("key", job.Key),
		zap.Int("attempts", job.Attempts),
	}

	outcome, err := s.canonical.Replay(ctx, job)
	if err == nil {
		if err := s.store.CompleteReconciliationJob(ctx, job.ID, s.owner); err != nil {
			// the lease expires and the job is replayed again
			logger.ErrorCtx(ctx, err, fields...)
		}
		metrics.ReconciliationReplayed.WithLabelValues(string(job.Kind), string(outcome)).Inc()
		logger.DebugCtx(ctx, "Reconciliation job replayed", append(fields, zap.String("outcome", string(outcome)))...)
		return string(outcome)
	}

	result := resultFailed
	if domain.IsNotFound(err) {
		result = resultDeferred
		logger.DebugCtx(ctx, "Entity still missing, rescheduling", fields...)
	} else {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to replay reconciliation job: %w", err), fields...)
	}

	dueAt := s.clock.Now().Add(s.config.Delay)
	if err := s.store.RescheduleReconciliationJob(ctx, job.ID, s.owner, dueAt, err.Error()); err != nil {
		logger.ErrorCtx(ctx, err, fields...)
	}
	metrics.ReconciliationReplayed.WithLabelValues(string(job.Kind), result).Inc()

	return result
}
