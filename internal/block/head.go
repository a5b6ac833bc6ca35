package block

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/feral-file/ff-chain-sync/internal/adapter"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/metrics"
)

// headInfo represents the cached chain head
type headInfo struct {
	Number    uint64
	FetchedAt time.Time
}

// HeadProvider provides cached access to the current height of a chain.
// Every worker of a chain captures the height before its backfill, so the
// provider collapses those reads into one RPC per TTL period.
//
//go:generate mockgen -source=head.go -destination=../mocks/head_provider.go -package=mocks -mock_names=HeadProvider=MockHeadProvider
type HeadProvider interface {
	// CurrentHeight returns the latest block number, potentially from cache
	CurrentHeight(ctx context.Context) (uint64, error)
}

// HeadFetcher is the interface for fetching the latest block from the chain
//
//go:generate mockgen -source=head.go -destination=../mocks/head_provider.go -package=mocks -mock_names=HeadFetcher=MockHeadFetcher
type HeadFetcher interface {
	// FetchLatestBlock fetches the latest block number from the chain
	FetchLatestBlock(ctx context.Context) (uint64, error)
}

// Config holds configuration for the HeadProvider
type Config struct {
	Chain domain.Chain

	// TTL is how long to cache the block number
	TTL time.Duration

	// StaleWindow is how long to use stale data if fetching fails
	// If the cached data is older than this and fetch fails, return error
	StaleWindow time.Duration
}

// headProvider implements HeadProvider with TTL-based caching
type headProvider struct {
	fetcher HeadFetcher
	config  Config
	clock   adapter.Clock
	group   singleflight.Group

	mu   sync.RWMutex
	head *headInfo
}

// NewHeadProvider creates a new HeadProvider with caching
func NewHeadProvider(fetcher HeadFetcher, config Config, clock adapter.Clock) HeadProvider {
	return &headProvider{
		fetcher: fetcher,
		config:  config,
		clock:   clock,
	}
}

// CurrentHeight returns the latest block number, using cache if valid
func (p *headProvider) CurrentHeight(ctx context.Context) (uint64, error) {
	p.mu.RLock()
	cached := p.head
	p.mu.RUnlock()

	now := p.clock.Now()

	if cached != nil && now.Sub(cached.FetchedAt) < p.config.TTL {
		logger.DebugCtx(ctx, "Using cached block number",
			zap.String("chain", p.config.Chain.String()),
			zap.Uint64("block_number", cached.Number))
		return cached.Number, nil
	}

	// Concurrent callers share one in-flight fetch
	v, err, _ := p.group.Do("head", func() (interface{}, error) {
		return p.fetcher.FetchLatestBlock(ctx)
	})
	if err != nil {
		if cached != nil && now.Sub(cached.FetchedAt) < p.config.StaleWindow {
			logger.WarnCtx(ctx, "Using stale block number",
				zap.String("chain", p.config.Chain.String()),
				zap.Uint64("block_number", cached.Number),
				zap.Error(err))
			return cached.Number, nil
		}
		return 0, fmt.Errorf("failed to fetch latest block and no valid cache available: %w", err)
	}
	number := v.(uint64)

	p.mu.Lock()
	// Never move the cached head backwards when a lagging node answers
	if p.head == nil || number >= p.head.Number {
		p.head = &headInfo{Number: number, FetchedAt: now}
	} else {
		number = p.head.Number
	}
	p.mu.Unlock()

	metrics.ChainHead.WithLabelValues(p.config.Chain.String()).Set(float64(number))

	return number, nil
}
