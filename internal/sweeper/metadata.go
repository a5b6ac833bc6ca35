package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-chain-sync/internal/adapter"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/metadata"
	"github.com/feral-file/ff-chain-sync/internal/metrics"
	"github.com/feral-file/ff-chain-sync/internal/store"
	"github.com/feral-file/ff-chain-sync/internal/store/schema"
)

// MetadataEnricherConfig holds configuration for the off-chain metadata enricher
type MetadataEnricherConfig struct {
	Interval        time.Duration // Sleep between two cycles
	BatchSize       int           // Tokens and collections fetched per cycle
	MaxRetries      int           // Failed fetches after which an entity is parked
	WorkerPoolSize  int           // Concurrent fetches
	WorkerQueueSize int           // Fetches buffered before submission blocks; 0 is unbounded
}

type metadataEnricher struct {
	*loop
	config  *MetadataEnricherConfig
	store   store.Store
	fetcher metadata.Fetcher
	json    adapter.JSON
	clock   adapter.Clock
}

// NewMetadataEnricher creates the sweeper resolving pending token and collection metadata
func NewMetadataEnricher(
	config *MetadataEnricherConfig,
	st store.Store,
	fetcher metadata.Fetcher,
	json adapter.JSON,
	clock adapter.Clock,
) Sweeper {
	e := &metadataEnricher{
		config:  config,
		store:   st,
		fetcher: fetcher,
		json:    json,
		clock:   clock,
	}
	e.loop = newLoop("metadata-enricher", clock, config.Interval, e.runCycle)
	return e
}

func (e *metadataEnricher) runCycle(ctx context.Context) (bool, error) {
	tokens, err := e.store.GetPendingTokens(ctx, e.config.BatchSize, e.config.MaxRetries)
	if err != nil {
		return false, fmt.Errorf("failed to get pending tokens: %w", err)
	}
	collections, err := e.store.GetPendingCollections(ctx, e.config.BatchSize, e.config.MaxRetries)
	if err != nil {
		return false, fmt.Errorf("failed to get pending collections: %w", err)
	}
	if len(tokens) == 0 && len(collections) == 0 {
		return false, nil
	}

	startTime := e.clock.Now()
	var resolved, failed atomic.Int32
	count := func(ok bool) {
		if ok {
			resolved.Add(1)
		} else {
			failed.Add(1)
		}
	}

	pool := pond.NewPool(e.config.WorkerPoolSize, pond.WithQueueSize(e.config.WorkerQueueSize), pond.WithContext(ctx))
	for _, token := range tokens {
		pool.Submit(func() { count(e.enrichToken(ctx, token)) })
	}
	for _, collection := range collections {
		pool.Submit(func() { count(e.enrichCollection(ctx, collection)) })
	}
	pool.StopAndWait()

	logger.InfoCtx(ctx, "Enrichment cycle completed",
		zap.Duration("duration", e.clock.Since(startTime)),
		zap.Int("tokens", len(tokens)),
		zap.Int("collections", len(collections)),
		zap.Int32("resolved", resolved.Load()),
		zap.Int32("failed", failed.Load()),
	)

	// Entities still pending after this cycle wait for the next interval
	return false, nil
}

// fetch resolves a document and records its latency
func (e *metadataEnricher) fetch(ctx context.Context, entity string, uri string) (*metadata.Document, error) {
	start := e.clock.Now()
	doc, err := e.fetcher.Fetch(ctx, uri)
	metrics.EnrichmentLatency.WithLabelValues(entity).Observe(e.clock.Since(start).Seconds())
	return doc, err
}

func (e *metadataEnricher) enrichToken(ctx context.Context, token schema.Token) bool {
	fields := []zap.Field{
		zap.String("uniqueKey", token.UniqueKey),
		zap.String("uri", token.TokenURI),
	}

	doc, err := e.fetch(ctx, "token", token.TokenURI)
	if err != nil {
		e.tokenFailed(ctx, token, err, fields)
		return false
	}

	meta := metadata.NormalizeToken(doc)
	var properties datatypes.JSON
	if meta.Properties != nil {
		properties, err = e.json.Marshal(meta.Properties)
		if err != nil {
			e.tokenFailed(ctx, token, fmt.Errorf("failed to marshal properties: %w", err), fields)
			return false
		}
	}

	err = e.store.SetTokenMetadata(ctx, store.TokenMetadataInput{
		UniqueKey:   token.UniqueKey,
		Name:        meta.Name,
		Description: meta.Description,
		Image:       meta.Image,
		Thumbnail:   meta.Thumbnail,
		Kind:        meta.Kind,
		Adult:       meta.Adult,
		Properties:  properties,
		Metadata:    datatypes.JSON(doc.Canonical),
		Hash:        doc.Hash,
	})
	if err != nil {
		// left pending, the next cycle retries without counting a fetch failure
		logger.ErrorCtx(ctx, fmt.Errorf("failed to store token metadata: %w", err), fields...)
		metrics.EnrichmentResults.WithLabelValues("token", "store_failed").Inc()
		return false
	}

	e.upsertCreator(ctx, token.RoyaltyOwner, meta.Creator)
	metrics.EnrichmentResults.WithLabelValues("token", "ok").Inc()
	logger.DebugCtx(ctx, "Token metadata resolved", append(fields, zap.String("hash", doc.Hash))...)
	return true
}

func (e *metadataEnricher) tokenFailed(ctx context.Context, token schema.Token, cause error, fields []zap.Field) {
	metrics.EnrichmentResults.WithLabelValues("token", failureResult(cause)).Inc()
	if err := e.store.IncrementTokenRetry(ctx, token.UniqueKey, cause.Error()); err != nil {
		logger.ErrorCtx(ctx, err, fields...)
		return
	}
	e.logFailure(ctx, token.RetryCount+1, cause, fields)
}

func (e *metadataEnricher) enrichCollection(ctx context.Context, collection schema.Collection) bool {
	fields := []zap.Field{
		zap.String("chain", collection.Chain.String()),
		zap.String("token", collection.Token),
		zap.String("uri", collection.URI),
	}

	doc, err := e.fetch(ctx, "collection", collection.URI)
	if err != nil {
		e.collectionFailed(ctx, collection, err, fields)
		return false
	}

	meta := metadata.NormalizeCollection(doc)
	var socials datatypes.JSON
	if meta.Socials != nil {
		socials, err = e.json.Marshal(meta.Socials)
		if err != nil {
			e.collectionFailed(ctx, collection, fmt.Errorf("failed to marshal socials: %w", err), fields)
			return false
		}
	}

	err = e.store.SetCollectionMetadata(ctx, store.CollectionMetadataInput{
		Chain:       collection.Chain,
		Token:       collection.Token,
		Description: meta.Description,
		Avatar:      meta.Avatar,
		Background:  meta.Background,
		Socials:     socials,
		Metadata:    datatypes.JSON(doc.Canonical),
	})
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to store collection metadata: %w", err), fields...)
		metrics.EnrichmentResults.WithLabelValues("collection", "store_failed").Inc()
		return false
	}

	e.upsertCreator(ctx, collection.Owner, meta.Creator)
	metrics.EnrichmentResults.WithLabelValues("collection", "ok").Inc()
	logger.DebugCtx(ctx, "Collection metadata resolved", fields...)
	return true
}

func (e *metadataEnricher) collectionFailed(ctx context.Context, collection schema.Collection, cause error, fields []zap.Field) {
	metrics.EnrichmentResults.WithLabelValues("collection", failureResult(cause)).Inc()
	if err := e.store.IncrementCollectionRetry(ctx, collection.Chain, collection.Token, cause.Error()); err != nil {
		logger.ErrorCtx(ctx, err, fields...)
		return
	}
	e.logFailure(ctx, collection.RetryCount+1, cause, fields)
}

func (e *metadataEnricher) logFailure(ctx context.Context, retries int, cause error, fields []zap.Field) {
	fields = append(fields, zap.Error(cause), zap.Int("retries", retries))
	if retries >= e.config.MaxRetries {
		logger.WarnCtx(ctx, "Metadata fetch failed, parking until reset", fields...)
		return
	}
	logger.WarnCtx(ctx, "Metadata fetch failed, will retry", fields...)
}

// upsertCreator stores the creator profile embedded in a document when it carries a DID
func (e *metadataEnricher) upsertCreator(ctx context.Context, address string, creator *metadata.Profile) {
	if !creator.HasDID() || domain.IsBurnAddress(address) {
		return
	}
	err := e.store.UpsertUserProfile(ctx, store.UserProfileInput{
		Address:     address,
		DID:         creator.DID,
		Name:        creator.Name,
		Description: creator.Description,
		Avatar:      creator.Avatar,
	})
	if err != nil {
		logger.WarnCtx(ctx, "Failed to upsert creator profile", zap.String("address", address), zap.Error(err))
	}
}

func failureResult(err error) string {
	if errors.Is(err, domain.ErrUnsupportedURI) {
		return "unsupported"
	}
	return "failed"
}
