package store

import (
	"context"
	"time"

	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/store/schema"
)

// Store defines the interface for database operations.
// Reads return nil, nil when the record does not exist; updates of a missing
// entity return the matching domain not-found error.
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// WithTx runs fn against a store bound to one database transaction
	WithTx(ctx context.Context, fn func(Store) error) error

	// =============================================================================
	// Event log
	// =============================================================================

	// InsertChainEvent appends an event; it reports false when the event was already stored
	InsertChainEvent(ctx context.Context, event domain.ChainEvent) (bool, error)
	// GetWatermark returns the highest stored block of a (chain, contract, event kind) tuple
	GetWatermark(ctx context.Context, chain domain.Chain, contract string, kind domain.EventKind) (uint64, bool, error)

	// =============================================================================
	// Tokens
	// =============================================================================

	// CreateToken inserts a minted token unless it exists; it reports whether a row was created
	CreateToken(ctx context.Context, input CreateTokenInput) (bool, error)
	// UpdateTokenOwner sets the owner unless a newer transfer was applied; it reports whether the row changed
	UpdateTokenOwner(ctx context.Context, input UpdateTokenOwnerInput) (bool, error)
	// GetTokenByUniqueKey retrieves a token by its unique key
	GetTokenByUniqueKey(ctx context.Context, uniqueKey string) (*schema.Token, error)
	// GetPendingTokens returns tokens waiting for metadata with fewer than maxRetries failed fetches
	GetPendingTokens(ctx context.Context, limit int, maxRetries int) ([]schema.Token, error)
	// SetTokenMetadata stores resolved metadata and clears the pending flag
	SetTokenMetadata(ctx context.Context, input TokenMetadataInput) error
	// IncrementTokenRetry records a failed metadata fetch
	IncrementTokenRetry(ctx context.Context, uniqueKey string, lastError string) error
	// ResetTokenRetries re-admits parked tokens to enrichment
	ResetTokenRetries(ctx context.Context, filter ResetRetriesFilter) (int64, error)

	// =============================================================================
	// Orders
	// =============================================================================

	// CreateOrder inserts an order unless it exists; it reports whether a row was created
	CreateOrder(ctx context.Context, input CreateOrderInput) (bool, error)
	// UpdateOrder applies a partial update guarded by block height and the state machine;
	// it reports whether the row changed
	UpdateOrder(ctx context.Context, input UpdateOrderInput) (bool, error)
	// GetOrder retrieves an order by its identity
	GetOrder(ctx context.Context, chain domain.Chain, orderID string) (*schema.Order, error)

	// =============================================================================
	// Collections
	// =============================================================================

	// UpsertCollection inserts or refreshes a registered collection; it reports whether a row was created
	UpsertCollection(ctx context.Context, input UpsertCollectionInput) (bool, error)
	// UpdateCollection applies a royalty or info change; it reports whether the row changed
	UpdateCollection(ctx context.Context, input UpdateCollectionInput) (bool, error)
	// GetCollection retrieves a collection by its identity
	GetCollection(ctx context.Context, chain domain.Chain, token string) (*schema.Collection, error)
	// ListCollections returns every collection registered on a chain
	ListCollections(ctx context.Context, chain domain.Chain) ([]schema.Collection, error)
	// GetPendingCollections returns collections waiting for metadata with fewer than maxRetries failed fetches
	GetPendingCollections(ctx context.Context, limit int, maxRetries int) ([]schema.Collection, error)
	// SetCollectionMetadata stores resolved metadata and clears the pending flag
	SetCollectionMetadata(ctx context.Context, input CollectionMetadataInput) error
	// IncrementCollectionRetry records a failed metadata fetch
	IncrementCollectionRetry(ctx context.Context, chain domain.Chain, token string, lastError string) error
	// ResetCollectionRetries re-admits parked collections to enrichment
	ResetCollectionRetries(ctx context.Context, chain *domain.Chain) (int64, error)

	// =============================================================================
	// User profiles
	// =============================================================================

	// UpsertUserProfile creates or refreshes the profile of an address
	UpsertUserProfile(ctx context.Context, input UserProfileInput) error

	// =============================================================================
	// Reconciliation queue
	// =============================================================================

	// EnqueueReconciliation stores a deferred mutation; a job with the same dedupe key is kept as is
	EnqueueReconciliation(ctx context.Context, input EnqueueReconciliationInput) error
	// ClaimReconciliationJobs leases up to limit due jobs to owner
	ClaimReconciliationJobs(ctx context.Context, owner string, now time.Time, lease time.Duration, limit int) ([]schema.ReconciliationJob, error)
	// CompleteReconciliationJob deletes a job leased by owner
	CompleteReconciliationJob(ctx context.Context, id string, owner string) error
	// RescheduleReconciliationJob releases a job leased by owner and makes it due again at dueAt
	RescheduleReconciliationJob(ctx context.Context, id string, owner string, dueAt time.Time, lastError string) error
}
