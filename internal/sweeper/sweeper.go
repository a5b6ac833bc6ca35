package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-chain-sync/internal/adapter"
	"github.com/feral-file/ff-chain-sync/internal/logger"
)

// Sweeper defines the interface for sweeper implementations
// Sweepers are long-running background tasks that perform periodic maintenance
//
//go:generate mockgen -source=sweeper.go -destination=../mocks/sweeper.go -package=mocks -mock_names=Sweeper=MockSweeper
type Sweeper interface {
	// Start begins the sweeper's main loop
	// This is a blocking call that runs until the context is canceled
	Start(ctx context.Context) error

	// Stop gracefully stops the sweeper
	// This should wait for any in-progress work to complete
	Stop(ctx context.Context) error

	// Name returns the sweeper's name for logging and identification
	Name() string
}

// loop is the start/stop plumbing shared by the sweepers.
// cycle runs one batch and reports whether more work is immediately available.
type loop struct {
	name      string
	clock     adapter.Clock
	interval  time.Duration
	cycle     func(ctx context.Context) (bool, error)
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

func newLoop(name string, clock adapter.Clock, interval time.Duration, cycle func(ctx context.Context) (bool, error)) *loop {
	return &loop{
		name:      name,
		clock:     clock,
		interval:  interval,
		cycle:     cycle,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (l *loop) Name() string {
	return l.name
}

func (l *loop) Start(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		l.running.Store(false)
		close(l.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting sweeper", zap.String("sweeper", l.name), zap.Duration("interval", l.interval))

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Sweeper stopping due to context cancellation", zap.String("sweeper", l.name))
			return nil
		case <-l.stopChan:
			logger.InfoCtx(ctx, "Sweeper stop requested", zap.String("sweeper", l.name))
			return nil
		default:
		}

		more, err := l.cycle(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorCtx(ctx, err, zap.String("sweeper", l.name))
		}
		if more && err == nil {
			continue
		}
		l.sleep(ctx, l.interval)
	}
}

func (l *loop) Stop(ctx context.Context) error {
	if !l.running.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	logger.InfoCtx(ctx, "Stopping sweeper", zap.String("sweeper", l.name))
	close(l.stopChan)

	select {
	case <-l.stoppedCh:
		logger.InfoCtx(ctx, "Sweeper stopped gracefully", zap.String("sweeper", l.name))
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Sweeper stop interrupted by context timeout", zap.String("sweeper", l.name))
		return ctx.Err()
	}
}

// sleep sleeps for the given duration but can be interrupted by context cancellation or a stop
func (l *loop) sleep(ctx context.Context, duration time.Duration) {
	select {
	case <-l.clock.After(duration):
	case <-ctx.Done():
	case <-l.stopChan:
	}
}
