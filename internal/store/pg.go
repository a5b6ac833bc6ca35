package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
// database/sql treats MaxOpenConns=0 as "unlimited" and MaxIdleConns=0 as "no idle connections".
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// WithTx runs fn against a store bound to one database transaction
func (s *pgStore) WithTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&pgStore{db: tx})
	})
}

// exists reports whether a row of model matches the condition
func (s *pgStore) exists(ctx context.Context, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where(query, args...).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// =============================================================================
// Event log
// =============================================================================

// InsertChainEvent appends an event; redelivered events are ignored
func (s *pgStore) InsertChainEvent(ctx context.Context, event domain.ChainEvent) (bool, error) {
	fields, err := json.Marshal(event.Fields)
	if err != nil {
		return false, fmt.Errorf("failed to marshal event fields: %w", err)
	}

	gasFee := event.GasFee
	if gasFee == "" {
		gasFee = "0"
	}

	row := schema.ChainEvent{
		Chain:       event.Chain,
		Contract:    domain.NormalizeAddress(event.Contract),
		EventKind:   event.EventKind,
		BlockNumber: event.BlockNumber,
		LogIndex:    event.LogIndex,
		TxHash:      event.TxHash,
		Timestamp:   event.Timestamp,
		GasFee:      gasFee,
		Fields:      datatypes.JSON(fields),
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "chain"},
			{Name: "contract"},
			{Name: "event_kind"},
			{Name: "tx_hash"},
			{Name: "log_index"},
		},
		DoNothing: true,
	}).Create(&row)
	if result.Error != nil {
		return false, fmt.Errorf("failed to insert chain event: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// GetWatermark returns the highest stored block of a (chain, contract, event kind) tuple
func (s *pgStore) GetWatermark(ctx context.Context, chain domain.Chain, contract string, kind domain.EventKind) (uint64, bool, error) {
	var height sql.NullInt64
	err := s.db.WithContext(ctx).
		Model(&schema.ChainEvent{}).
		Select("MAX(block_number)").
		Where("chain = ? AND contract = ? AND event_kind = ?", chain, domain.NormalizeAddress(contract), kind).
		Row().
		Scan(&height)
	if err != nil {
		return 0, false, fmt.Errorf("failed to get watermark: %w", err)
	}
	if !height.Valid {
		return 0, false, nil
	}

	return uint64(height.Int64), true, nil //nolint:gosec,G115
}

// =============================================================================
// Tokens
// =============================================================================

// CreateToken inserts a minted token unless it exists
func (s *pgStore) CreateToken(ctx context.Context, input CreateTokenInput) (bool, error) {
	supply := input.Supply
	if supply == "" {
		supply = "1"
	}

	token := schema.Token{
		UniqueKey:       input.UniqueKey,
		Chain:           input.Chain,
		Contract:        domain.NormalizeAddress(input.Contract),
		TokenID:         input.TokenID,
		TokenIDHex:      domain.TokenIDHex(input.TokenID),
		TokenIndex:      input.TokenIndex,
		Supply:          supply,
		Owner:           domain.NormalizeAddress(input.Owner),
		OwnerBlock:      input.BlockNumber,
		RoyaltyOwner:    domain.NormalizeAddress(input.RoyaltyOwner),
		RoyaltyFee:      input.RoyaltyFee,
		TokenURI:        input.TokenURI,
		MintBlock:       input.BlockNumber,
		MintTime:        input.MintTime,
		MetadataPending: input.MetadataPending,
	}

	// Use ON CONFLICT DO NOTHING for unique_key so a replayed mint keeps the first row
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "unique_key"}},
		DoNothing: true,
	}).Create(&token)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create token: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// UpdateTokenOwner sets the owner unless a newer transfer was applied
func (s *pgStore) UpdateTokenOwner(ctx context.Context, input UpdateTokenOwnerInput) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.Token{}).
		Where("unique_key = ? AND owner_block <= ?", input.UniqueKey, input.BlockNumber).
		Updates(map[string]interface{}{
			"owner":       domain.NormalizeAddress(input.Owner),
			"owner_block": input.BlockNumber,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update token owner: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	found, err := s.exists(ctx, &schema.Token{}, "unique_key = ?", input.UniqueKey)
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	if !found {
		return false, domain.ErrTokenNotFound
	}

	// A newer transfer already set the owner
	return false, nil
}

// GetTokenByUniqueKey retrieves a token by its unique key
func (s *pgStore) GetTokenByUniqueKey(ctx context.Context, uniqueKey string) (*schema.Token, error) {
	var token schema.Token
	err := s.db.WithContext(ctx).Where("unique_key = ?", uniqueKey).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return &token, nil
}

// GetPendingTokens returns tokens waiting for metadata with fewer than maxRetries failed fetches
func (s *pgStore) GetPendingTokens(ctx context.Context, limit int, maxRetries int) ([]schema.Token, error) {
	var tokens []schema.Token
	err := s.db.WithContext(ctx).
		Where("metadata_pending = ? AND retry_count < ?", true, maxRetries).
		Order("retry_count ASC, id ASC").
		Limit(limit).
		Find(&tokens).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending tokens: %w", err)
	}
	return tokens, nil
}

// SetTokenMetadata stores resolved metadata and clears the pending flag
func (s *pgStore) SetTokenMetadata(ctx context.Context, input TokenMetadataInput) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Token{}).
		Where("unique_key = ?", input.UniqueKey).
		Updates(map[string]interface{}{
			"name":             input.Name,
			"description":      input.Description,
			"image":            input.Image,
			"thumbnail":        input.Thumbnail,
			"kind":             input.Kind,
			"adult":            input.Adult,
			"properties":       input.Properties,
			"metadata":         input.Metadata,
			"metadata_hash":    input.Hash,
			"metadata_pending": false,
			"last_error":       nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to set token metadata: %w", err)
	}
	return nil
}

// IncrementTokenRetry records a failed metadata fetch
func (s *pgStore) IncrementTokenRetry(ctx context.Context, uniqueKey string, lastError string) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Token{}).
		Where("unique_key = ? AND metadata_pending = ?", uniqueKey, true).
		Updates(map[string]interface{}{
			"retry_count": gorm.Expr("retry_count + 1"),
			"last_error":  lastError,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to increment token retry: %w", err)
	}
	return nil
}

// ResetTokenRetries re-admits parked tokens to enrichment
func (s *pgStore) ResetTokenRetries(ctx context.Context, filter ResetRetriesFilter) (int64, error) {
	q := s.db.WithContext(ctx).
		Model(&schema.Token{}).
		Where("metadata_pending = ? AND retry_count > 0", true)
	if filter.Chain != nil {
		q = q.Where("chain = ?", *filter.Chain)
	}
	if filter.UniqueKey != nil {
		q = q.Where("unique_key = ?", *filter.UniqueKey)
	}

	result := q.Updates(map[string]interface{}{
		"retry_count": 0,
		"last_error":  nil,
	})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reset token retries: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// =============================================================================
// Orders
// =============================================================================

// CreateOrder inserts an order unless it exists
func (s *pgStore) CreateOrder(ctx context.Context, input CreateOrderInput) (bool, error) {
	order := schema.Order{
		Chain:          input.Chain,
		OrderID:        input.OrderID,
		UniqueKey:      input.UniqueKey,
		BaseToken:      domain.NormalizeAddress(input.BaseToken),
		QuoteToken:     domain.NormalizeAddress(input.QuoteToken),
		TokenID:        input.TokenID,
		TokenIDHex:     domain.TokenIDHex(input.TokenID),
		Amount:         input.Amount,
		OrderType:      input.OrderType,
		OrderState:     input.OrderState,
		Price:          input.Price,
		MinPrice:       input.MinPrice,
		ReservePrice:   input.ReservePrice,
		BuyoutPrice:    input.BuyoutPrice,
		StartTime:      input.StartTime,
		EndTime:        input.EndTime,
		SellerAddr:     domain.NormalizeAddress(input.SellerAddr),
		SellerURI:      input.SellerURI,
		SellerProfile:  input.SellerProfile,
		BuyerAddr:      domain.NormalizeAddress(input.BuyerAddr),
		BuyerURI:       input.BuyerURI,
		Bids:           input.Bids,
		LastBid:        input.LastBid,
		LastBidder:     domain.NormalizeAddress(input.LastBidder),
		Filled:         input.Filled,
		RoyaltyOwner:   domain.NormalizeAddress(input.RoyaltyOwner),
		RoyaltyFee:     input.RoyaltyFee,
		PlatformAddr:   domain.NormalizeAddress(input.PlatformAddr),
		PlatformFee:    input.PlatformFee,
		IsBlindBox:     input.IsBlindBox,
		CreateTime:     input.CreateTime,
		UpdateTime:     input.UpdateTime,
		BidBlock:       input.BlockNumber,
		PriceBlock:     input.BlockNumber,
		StateBlock:     input.BlockNumber,
		LastEventBlock: input.BlockNumber,
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chain"}, {Name: "order_id"}},
		DoNothing: true,
	}).Create(&order)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create order: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// UpdateOrder applies a partial update.
// Bid, price and state fields are guarded by their own block so that an older event
// still applies to a group no newer event has written. A state change is only allowed
// out of Created or onto the same state.
func (s *pgStore) UpdateOrder(ctx context.Context, input UpdateOrderInput) (bool, error) {
	applied := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order schema.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("chain = ? AND order_id = ?", input.Chain, input.OrderID).
			First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOrderNotFound
			}
			return fmt.Errorf("failed to lock order for update: %w", err)
		}

		updates := map[string]interface{}{}
		merge := func(cols map[string]interface{}, blockColumn string, stored uint64) {
			if len(cols) == 0 || stored > input.BlockNumber {
				return
			}
			for k, v := range cols {
				updates[k] = v
			}
			updates[blockColumn] = input.BlockNumber
		}

		merge(input.bidColumns(), "bid_block", order.BidBlock)
		merge(input.priceColumns(), "price_block", order.PriceBlock)
		if input.State == nil || order.OrderState == domain.OrderStateCreated || order.OrderState == *input.State {
			merge(input.stateColumns(), "state_block", order.StateBlock)
		}

		if len(updates) == 0 {
			return nil
		}
		if input.BlockNumber > order.LastEventBlock {
			updates["last_event_block"] = input.BlockNumber
		}
		if input.UpdateTime != nil && *input.UpdateTime > order.UpdateTime {
			updates["update_time"] = *input.UpdateTime
		}

		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		applied = true
		return nil
	})

	return applied, err
}

// GetOrder retrieves an order by its identity
func (s *pgStore) GetOrder(ctx context.Context, chain domain.Chain, orderID string) (*schema.Order, error) {
	var order schema.Order
	err := s.db.WithContext(ctx).Where("chain = ? AND order_id = ?", chain, orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// =============================================================================
// Collections
// =============================================================================

// UpsertCollection inserts a registered collection, or refreshes its registration fields
func (s *pgStore) UpsertCollection(ctx context.Context, input UpsertCollectionInput) (bool, error) {
	created := false
	token := domain.NormalizeAddress(input.Token)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		collection := schema.Collection{
			Chain:           input.Chain,
			Token:           token,
			Owner:           domain.NormalizeAddress(input.Owner),
			Name:            input.Name,
			Symbol:          input.Symbol,
			URI:             input.URI,
			Is721:           input.Is721,
			BlockNumber:     input.BlockNumber,
			InfoBlock:       input.BlockNumber,
			MetadataPending: input.MetadataPending,
		}

		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chain"}, {Name: "token"}},
			DoNothing: true,
		}).Create(&collection)
		if result.Error != nil {
			return fmt.Errorf("failed to create collection: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			created = true
			return nil
		}

		// Registration facts
		if err := tx.Model(&schema.Collection{}).
			Where("chain = ? AND token = ?", input.Chain, token).
			Updates(map[string]interface{}{
				"owner":        domain.NormalizeAddress(input.Owner),
				"symbol":       input.Symbol,
				"is_721":       input.Is721,
				"block_number": input.BlockNumber,
			}).Error; err != nil {
			return fmt.Errorf("failed to refresh collection: %w", err)
		}

		// Name and uri only when no newer info change was applied
		if err := tx.Model(&schema.Collection{}).
			Where("chain = ? AND token = ? AND info_block <= ?", input.Chain, token, input.BlockNumber).
			Updates(map[string]interface{}{
				"name":             input.Name,
				"uri":              input.URI,
				"info_block":       input.BlockNumber,
				"metadata_pending": input.MetadataPending,
			}).Error; err != nil {
			return fmt.Errorf("failed to refresh collection info: %w", err)
		}

		return nil
	})

	return created, err
}

// UpdateCollection applies a royalty or info change of an existing collection
func (s *pgStore) UpdateCollection(ctx context.Context, input UpdateCollectionInput) (bool, error) {
	token := domain.NormalizeAddress(input.Token)
	applied := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var collection schema.Collection
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("chain = ? AND token = ?", input.Chain, token).
			First(&collection).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCollectionNotFound
			}
			return fmt.Errorf("failed to lock collection for update: %w", err)
		}

		if input.Name != nil || input.URI != nil {
			if collection.InfoBlock <= input.BlockNumber {
				updates := map[string]interface{}{"info_block": input.BlockNumber}
				if input.Name != nil {
					updates["name"] = *input.Name
				}
				if input.URI != nil {
					updates["uri"] = *input.URI
				}
				if input.MetadataPending != nil {
					updates["metadata_pending"] = *input.MetadataPending
					updates["retry_count"] = 0
				}
				if err := tx.Model(&collection).Updates(updates).Error; err != nil {
					return fmt.Errorf("failed to update collection info: %w", err)
				}
				applied = true
			}
		}

		if input.RoyaltyOwners != nil || input.RoyaltyFees != nil {
			if collection.RoyaltyBlock <= input.BlockNumber {
				updates := map[string]interface{}{
					"royalty_block":  input.BlockNumber,
					"royalty_owners": datatypes.NewJSONSlice(domain.NormalizeAddresses(input.RoyaltyOwners)),
					"royalty_fees":   datatypes.NewJSONSlice(input.RoyaltyFees),
				}
				if err := tx.Model(&collection).Updates(updates).Error; err != nil {
					return fmt.Errorf("failed to update collection royalties: %w", err)
				}
				applied = true
			}
		}

		return nil
	})

	return applied, err
}

// GetCollection retrieves a collection by its identity
func (s *pgStore) GetCollection(ctx context.Context, chain domain.Chain, token string) (*schema.Collection, error) {
	var collection schema.Collection
	err := s.db.WithContext(ctx).
		Where("chain = ? AND token = ?", chain, domain.NormalizeAddress(token)).
		First(&collection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	return &collection, nil
}

// ListCollections returns every collection registered on a chain
func (s *pgStore) ListCollections(ctx context.Context, chain domain.Chain) ([]schema.Collection, error) {
	var collections []schema.Collection
	err := s.db.WithContext(ctx).Where("chain = ?", chain).Order("block_number ASC, id ASC").Find(&collections).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return collections, nil
}

// GetPendingCollections returns collections waiting for metadata
func (s *pgStore) GetPendingCollections(ctx context.Context, limit int, maxRetries int) ([]schema.Collection, error) {
	var collections []schema.Collection
	err := s.db.WithContext(ctx).
		Where("metadata_pending = ? AND retry_count < ?", true, maxRetries).
		Order("retry_count ASC, id ASC").
		Limit(limit).
		Find(&collections).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending collections: %w", err)
	}
	return collections, nil
}

// SetCollectionMetadata stores resolved metadata and clears the pending flag
func (s *pgStore) SetCollectionMetadata(ctx context.Context, input CollectionMetadataInput) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Collection{}).
		Where("chain = ? AND token = ?", input.Chain, domain.NormalizeAddress(input.Token)).
		Updates(map[string]interface{}{
			"description":      input.Description,
			"avatar":           input.Avatar,
			"background":       input.Background,
			"socials":          input.Socials,
			"metadata":         input.Metadata,
			"metadata_pending": false,
			"last_error":       nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to set collection metadata: %w", err)
	}
	return nil
}

// IncrementCollectionRetry records a failed metadata fetch
func (s *pgStore) IncrementCollectionRetry(ctx context.Context, chain domain.Chain, token string, lastError string) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Collection{}).
		Where("chain = ? AND token = ? AND metadata_pending = ?", chain, domain.NormalizeAddress(token), true).
		Updates(map[string]interface{}{
			"retry_count": gorm.Expr("retry_count + 1"),
			"last_error":  lastError,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to increment collection retry: %w", err)
	}
	return nil
}

// ResetCollectionRetries re-admits parked collections to enrichment
func (s *pgStore) ResetCollectionRetries(ctx context.Context, chain *domain.Chain) (int64, error) {
	q := s.db.WithContext(ctx).
		Model(&schema.Collection{}).
		Where("metadata_pending = ? AND retry_count > 0", true)
	if chain != nil {
		q = q.Where("chain = ?", *chain)
	}

	result := q.Updates(map[string]interface{}{
		"retry_count": 0,
		"last_error":  nil,
	})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reset collection retries: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// =============================================================================
// User profiles
// =============================================================================

// UpsertUserProfile creates or refreshes the profile of an address
func (s *pgStore) UpsertUserProfile(ctx context.Context, input UserProfileInput) error {
	profile := schema.UserProfile{
		Address:     domain.NormalizeAddress(input.Address),
		DID:         input.DID,
		Name:        input.Name,
		Description: input.Description,
		Avatar:      input.Avatar,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"did":         input.DID,
			"name":        input.Name,
			"description": input.Description,
			"avatar":      input.Avatar,
			"updated_at":  gorm.Expr("now()"),
		}),
	}).Create(&profile).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user profile: %w", err)
	}
	return nil
}

// =============================================================================
// Reconciliation queue
// =============================================================================

// EnqueueReconciliation stores a deferred mutation
func (s *pgStore) EnqueueReconciliation(ctx context.Context, input EnqueueReconciliationInput) error {
	job := schema.ReconciliationJob{
		ID:        input.ID,
		Kind:      input.Kind,
		Key:       input.Key,
		DedupeKey: input.DedupeKey,
		Payload:   input.Payload,
		DueAt:     input.DueAt,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "dedupe_key"}},
		DoNothing: true,
	}).Create(&job).Error
	if err != nil {
		return fmt.Errorf("failed to enqueue reconciliation job: %w", err)
	}
	return nil
}

// ClaimReconciliationJobs leases up to limit due jobs to owner.
// Rows locked by another poller are skipped, and an expired lease makes a job claimable again.
func (s *pgStore) ClaimReconciliationJobs(ctx context.Context, owner string, now time.Time, lease time.Duration, limit int) ([]schema.ReconciliationJob, error) {
	var jobs []schema.ReconciliationJob
	until := now.Add(lease)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("due_at <= ? AND (lease_until IS NULL OR lease_until < ?)", now, now).
			Order("due_at ASC, id ASC").
			Limit(limit).
			Find(&jobs).Error
		if err != nil {
			return fmt.Errorf("failed to select due jobs: %w", err)
		}
		if len(jobs) == 0 {
			return nil
		}

		ids := make([]string, len(jobs))
		for i := range jobs {
			ids[i] = jobs[i].ID
			jobs[i].LeaseOwner = &owner
			jobs[i].LeaseUntil = &until
		}

		return tx.Model(&schema.ReconciliationJob{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"lease_owner": owner,
				"lease_until": until,
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to claim reconciliation jobs: %w", err)
	}

	return jobs, nil
}

// CompleteReconciliationJob deletes a job leased by owner
func (s *pgStore) CompleteReconciliationJob(ctx context.Context, id string, owner string) error {
	err := s.db.WithContext(ctx).
		Where("id = ? AND lease_owner = ?", id, owner).
		Delete(&schema.ReconciliationJob{}).Error
	if err != nil {
		return fmt.Errorf("failed to complete reconciliation job: %w", err)
	}
	return nil
}

// RescheduleReconciliationJob releases a job leased by owner and makes it due again at dueAt
func (s *pgStore) RescheduleReconciliationJob(ctx context.Context, id string, owner string, dueAt time.Time, lastError string) error {
	err := s.db.WithContext(ctx).
		Model(&schema.ReconciliationJob{}).
		Where("id = ? AND lease_owner = ?", id, owner).
		Updates(map[string]interface{}{
			"attempts":    gorm.Expr("attempts + 1"),
			"due_at":      dueAt,
			"last_error":  lastError,
			"lease_owner": nil,
			"lease_until": nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to reschedule reconciliation job: %w", err)
	}
	return nil
}
