package canonical

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-chain-sync/internal/adapter"
	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/logger"
	"github.com/feral-file/ff-chain-sync/internal/metrics"
	"github.com/feral-file/ff-chain-sync/internal/store"
	"github.com/feral-file/ff-chain-sync/internal/store/schema"
)

// Outcome describes what a mutation did to the canonical state
type Outcome string

const (
	// OutcomeApplied means the mutation changed the entity
	OutcomeApplied Outcome = "applied"
	// OutcomeSkipped means the entity already existed or a newer event was already applied
	OutcomeSkipped Outcome = "skipped"
	// OutcomeDeferred means the entity does not exist yet and the mutation was queued for reconciliation
	OutcomeDeferred Outcome = "deferred"
)

// Config holds the configuration for the canonical adapter
type Config struct {
	// ReconciliationDelay is how long a deferred mutation waits before it is replayed
	ReconciliationDelay time.Duration
}

// Adapter applies idempotent mutations to tokens, orders and collections.
// Updates whose target does not exist yet are queued for reconciliation instead of failing.
//
//go:generate mockgen -source=canonical.go -destination=../mocks/canonical.go -package=mocks -mock_names=Adapter=MockCanonicalAdapter
type Adapter interface {
	// WithTx runs fn with an adapter bound to one store transaction
	WithTx(ctx context.Context, fn func(tx Adapter) error) error

	// RecordEvent appends the event to the event log; false means it was already recorded
	RecordEvent(ctx context.Context, event domain.ChainEvent) (bool, error)

	CreateToken(ctx context.Context, input store.CreateTokenInput) (Outcome, error)
	UpdateTokenOwner(ctx context.Context, input store.UpdateTokenOwnerInput) (Outcome, error)
	CreateOrder(ctx context.Context, input store.CreateOrderInput) (Outcome, error)
	UpdateOrder(ctx context.Context, input store.UpdateOrderInput) (Outcome, error)
	// UpsertCollection returns OutcomeApplied only when the collection was inserted
	UpsertCollection(ctx context.Context, input store.UpsertCollectionInput) (Outcome, error)
	UpdateCollection(ctx context.Context, input store.UpdateCollectionInput) (Outcome, error)
	UpsertUserProfile(ctx context.Context, input store.UserProfileInput) error

	// GetCollection returns a registered collection, or nil when it is unknown
	GetCollection(ctx context.Context, chain domain.Chain, token string) (*schema.Collection, error)

	// Replay re-runs the mutation of a reconciliation job.
	// A domain not-found error means the entity is still missing.
	Replay(ctx context.Context, job schema.ReconciliationJob) (Outcome, error)
}

type canonicalAdapter struct {
	store  store.Store
	clock  adapter.Clock
	json   adapter.JSON
	config Config
}

// NewAdapter creates a new canonical adapter
func NewAdapter(st store.Store, clock adapter.Clock, json adapter.JSON, cfg Config) Adapter {
	return &canonicalAdapter{
		store:  st,
		clock:  clock,
		json:   json,
		config: cfg,
	}
}

func (a *canonicalAdapter) WithTx(ctx context.Context, fn func(tx Adapter) error) error {
	return a.store.WithTx(ctx, func(tx store.Store) error {
		return fn(&canonicalAdapter{
			store:  tx,
			clock:  a.clock,
			json:   a.json,
			config: a.config,
		})
	})
}

func (a *canonicalAdapter) RecordEvent(ctx context.Context, event domain.ChainEvent) (bool, error) {
	if !event.Valid() {
		return false, fmt.Errorf("%w: invalid event identity %s/%s/%s", domain.ErrMalformedEvent, event.Chain, event.Contract, event.EventKind)
	}
	return a.store.InsertChainEvent(ctx, event)
}

func (a *canonicalAdapter) CreateToken(ctx context.Context, input store.CreateTokenInput) (Outcome, error) {
	created, err := a.store.CreateToken(ctx, input)
	if err != nil {
		return "", err
	}
	return toOutcome(created), nil
}

func (a *canonicalAdapter) UpdateTokenOwner(ctx context.Context, input store.UpdateTokenOwnerInput) (Outcome, error) {
	applied, err := a.store.UpdateTokenOwner(ctx, input)
	if errors.Is(err, domain.ErrTokenNotFound) {
		return a.enqueue(ctx, schema.ReconciliationUpdateTokenOwner, input.UniqueKey, input)
	}
	if err != nil {
		return "", err
	}
	return toOutcome(applied), nil
}

func (a *canonicalAdapter) CreateOrder(ctx context.Context, input store.CreateOrderInput) (Outcome, error) {
	created, err := a.store.CreateOrder(ctx, input)
	if err != nil {
		return "", err
	}
	return toOutcome(created), nil
}

func (a *canonicalAdapter) UpdateOrder(ctx context.Context, input store.UpdateOrderInput) (Outcome, error) {
	applied, err := a.store.UpdateOrder(ctx, input)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return a.enqueue(ctx, schema.ReconciliationUpdateOrder, orderKey(input.Chain, input.OrderID), input)
	}
	if err != nil {
		return "", err
	}
	return toOutcome(applied), nil
}

func (a *canonicalAdapter) UpsertCollection(ctx context.Context, input store.UpsertCollectionInput) (Outcome, error) {
	created, err := a.store.UpsertCollection(ctx, input)
	if err != nil {
		return "", err
	}
	return toOutcome(created), nil
}

func (a *canonicalAdapter) UpdateCollection(ctx context.Context, input store.UpdateCollectionInput) (Outcome, error) {
	applied, err := a.store.UpdateCollection(ctx, input)
	if errors.Is(err, domain.ErrCollectionNotFound) {
		return a.enqueue(ctx, schema.ReconciliationUpdateCollection, collectionKey(input.Chain, input.Token), input)
	}
	if err != nil {
		return "", err
	}
	return toOutcome(applied), nil
}

func (a *canonicalAdapter) UpsertUserProfile(ctx context.Context, input store.UserProfileInput) error {
	return a.store.UpsertUserProfile(ctx, input)
}

func (a *canonicalAdapter) GetCollection(ctx context.Context, chain domain.Chain, token string) (*schema.Collection, error) {
	return a.store.GetCollection(ctx, chain, token)
}

func (a *canonicalAdapter) Replay(ctx context.Context, job schema.ReconciliationJob) (Outcome, error) {
	var (
		applied bool
		err     error
	)

	switch job.Kind {
	case schema.ReconciliationUpdateTokenOwner:
		var input store.UpdateTokenOwnerInput
		if err := a.json.Unmarshal(job.Payload, &input); err != nil {
			return "", fmt.Errorf("failed to decode %s payload: %w", job.Kind, err)
		}
		applied, err = a.store.UpdateTokenOwner(ctx, input)
	case schema.ReconciliationUpdateOrder:
		var input store.UpdateOrderInput
		if err := a.json.Unmarshal(job.Payload, &input); err != nil {
			return "", fmt.Errorf("failed to decode %s payload: %w", job.Kind, err)
		}
		applied, err = a.store.UpdateOrder(ctx, input)
	case schema.ReconciliationUpdateCollection:
		var input store.UpdateCollectionInput
		if err := a.json.Unmarshal(job.Payload, &input); err != nil {
			return "", fmt.Errorf("failed to decode %s payload: %w", job.Kind, err)
		}
		applied, err = a.store.UpdateCollection(ctx, input)
	default:
		return "", fmt.Errorf("unknown reconciliation kind %q", job.Kind)
	}
	if err != nil {
		return "", err
	}

	return toOutcome(applied), nil
}

// enqueue queues the mutation for a delayed replay.
// Redelivered events produce the same dedupe key and collapse onto one job.
func (a *canonicalAdapter) enqueue(ctx context.Context, kind schema.ReconciliationKind, key string, input interface{}) (Outcome, error) {
	payload, err := a.json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s payload: %w", kind, err)
	}

	dedupeKey, err := a.dedupeKey(kind, input)
	if err != nil {
		return "", err
	}

	now := a.clock.Now()
	err = a.store.EnqueueReconciliation(ctx, store.EnqueueReconciliationInput{
		ID:        ulid.MustNewDefault(now).String(),
		Kind:      kind,
		Key:       key,
		DedupeKey: dedupeKey,
		Payload:   payload,
		DueAt:     now.Add(a.config.ReconciliationDelay),
	})
	if err != nil {
		return "", err
	}

	metrics.ReconciliationEnqueued.WithLabelValues(string(kind)).Inc()
	logger.DebugCtx(ctx, "Deferred mutation of a missing entity",
		zap.String("kind", string(kind)),
		zap.String("key", key),
		zap.String("dedupeKey", dedupeKey))

	return OutcomeDeferred, nil
}

func (a *canonicalAdapter) dedupeKey(kind schema.ReconciliationKind, input interface{}) (string, error) {
	canonical, err := a.json.Canonicalize(map[string]interface{}{
		"kind":    kind,
		"payload": input,
	})
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize %s payload: %w", kind, err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func toOutcome(changed bool) Outcome {
	if changed {
		return OutcomeApplied
	}
	return OutcomeSkipped
}

func orderKey(chain domain.Chain, orderID string) string {
	return fmt.Sprintf("%s:%s", chain, orderID)
}

func collectionKey(chain domain.Chain, token string) string {
	return fmt.Sprintf("%s:%s", chain, domain.NormalizeAddress(token))
}
