package store

import (
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/ff-chain-sync/internal/domain"
	"github.com/feral-file/ff-chain-sync/internal/store/schema"
)

// CreateTokenInput represents the input for creating a minted token
type CreateTokenInput struct {
	UniqueKey       string
	Chain           domain.Chain
	Contract        string
	TokenID         string
	TokenIndex      *string
	Supply          string
	Owner           string
	RoyaltyOwner    string
	RoyaltyFee      string
	TokenURI        string
	BlockNumber     uint64
	MintTime        time.Time
	MetadataPending bool
}

// UpdateTokenOwnerInput represents a transfer of an existing token.
// It is serialized as a reconciliation payload.
type UpdateTokenOwnerInput struct {
	UniqueKey   string `json:"unique_key"`
	Owner       string `json:"owner"`
	BlockNumber uint64 `json:"block_number"`
}

// CreateOrderInput represents the input for creating an order
type CreateOrderInput struct {
	Chain         domain.Chain
	OrderID       string
	UniqueKey     string
	BaseToken     string
	QuoteToken    string
	TokenID       string
	Amount        string
	OrderType     domain.OrderType
	OrderState    domain.OrderState
	Price         string
	MinPrice      string
	ReservePrice  string
	BuyoutPrice   string
	StartTime     int64
	EndTime       int64
	SellerAddr    string
	SellerURI     string
	SellerProfile datatypes.JSON
	BuyerAddr     string
	BuyerURI      string
	Bids          int64
	LastBid       string
	LastBidder    string
	Filled        string
	RoyaltyOwner  string
	RoyaltyFee    string
	PlatformAddr  string
	PlatformFee   string
	IsBlindBox    bool
	CreateTime    int64
	UpdateTime    int64
	BlockNumber   uint64
}

// UpdateOrderInput represents a partial order update; nil fields are left untouched.
// It is serialized as a reconciliation payload.
type UpdateOrderInput struct {
	Chain       domain.Chain `json:"chain"`
	OrderID     string       `json:"order_id"`
	BlockNumber uint64       `json:"block_number"`
	// State is set only by state-changing events
	State *domain.OrderState `json:"state,omitempty"`

	QuoteToken   *string        `json:"quote_token,omitempty"`
	Price        *string        `json:"price,omitempty"`
	MinPrice     *string        `json:"min_price,omitempty"`
	ReservePrice *string        `json:"reserve_price,omitempty"`
	BuyoutPrice  *string        `json:"buyout_price,omitempty"`
	EndTime      *int64         `json:"end_time,omitempty"`
	Bids         *int64         `json:"bids,omitempty"`
	LastBid      *string        `json:"last_bid,omitempty"`
	LastBidder   *string        `json:"last_bidder,omitempty"`
	BuyerAddr    *string        `json:"buyer_addr,omitempty"`
	BuyerURI     *string        `json:"buyer_uri,omitempty"`
	BuyerProfile datatypes.JSON `json:"buyer_profile,omitempty"`
	Filled       *string        `json:"filled,omitempty"`
	RoyaltyOwner *string        `json:"royalty_owner,omitempty"`
	RoyaltyFee   *string        `json:"royalty_fee,omitempty"`
	PlatformAddr *string        `json:"platform_addr,omitempty"`
	PlatformFee  *string        `json:"platform_fee,omitempty"`
	UpdateTime   *int64         `json:"update_time,omitempty"`
}

// Field groups of an order update. Each group carries its own block guard so an
// older event still lands in the group no newer event has touched.

// bidColumns returns the bid fields set by OrderBid
func (i UpdateOrderInput) bidColumns() map[string]interface{} {
	cols := map[string]interface{}{}
	setInt(cols, "bids", i.Bids)
	setString(cols, "last_bid", i.LastBid)
	setString(cols, "last_bidder", i.LastBidder)
	return cols
}

// priceColumns returns the listing terms set by OrderPriceChanged
func (i UpdateOrderInput) priceColumns() map[string]interface{} {
	cols := map[string]interface{}{}
	setString(cols, "quote_token", i.QuoteToken)
	setString(cols, "price", i.Price)
	setString(cols, "min_price", i.MinPrice)
	setString(cols, "reserve_price", i.ReservePrice)
	setString(cols, "buyout_price", i.BuyoutPrice)
	setInt(cols, "end_time", i.EndTime)
	return cols
}

// stateColumns returns the lifecycle fields set by OrderFilled, OrderCanceled and OrderTakenDown
func (i UpdateOrderInput) stateColumns() map[string]interface{} {
	cols := map[string]interface{}{}
	if i.State != nil {
		cols["order_state"] = *i.State
	}
	setString(cols, "buyer_addr", i.BuyerAddr)
	setString(cols, "buyer_uri", i.BuyerURI)
	if len(i.BuyerProfile) > 0 {
		cols["buyer_profile"] = i.BuyerProfile
	}
	setString(cols, "filled", i.Filled)
	setString(cols, "royalty_owner", i.RoyaltyOwner)
	setString(cols, "royalty_fee", i.RoyaltyFee)
	setString(cols, "platform_addr", i.PlatformAddr)
	setString(cols, "platform_fee", i.PlatformFee)
	return cols
}

func setString(cols map[string]interface{}, name string, v *string) {
	if v != nil {
		cols[name] = *v
	}
}

func setInt(cols map[string]interface{}, name string, v *int64) {
	if v != nil {
		cols[name] = *v
	}
}

// UpsertCollectionInput represents a collection registration
type UpsertCollectionInput struct {
	Chain           domain.Chain
	Token           string
	Owner           string
	Name            string
	Symbol          string
	URI             string
	Is721           bool
	BlockNumber     uint64
	MetadataPending bool
}

// UpdateCollectionInput represents a royalty or info change of an existing collection.
// It is serialized as a reconciliation payload.
type UpdateCollectionInput struct {
	Chain       domain.Chain `json:"chain"`
	Token       string       `json:"token"`
	BlockNumber uint64       `json:"block_number"`

	// Set by TokenInfoUpdated
	Name            *string `json:"name,omitempty"`
	URI             *string `json:"uri,omitempty"`
	MetadataPending *bool   `json:"metadata_pending,omitempty"`

	// Set by TokenRoyaltyChanged
	RoyaltyOwners []string `json:"royalty_owners,omitempty"`
	RoyaltyFees   []string `json:"royalty_fees,omitempty"`
}

// TokenMetadataInput represents resolved off-chain token metadata
type TokenMetadataInput struct {
	UniqueKey   string
	Name        *string
	Description *string
	Image       *string
	Thumbnail   *string
	Kind        *string
	Adult       bool
	Properties  datatypes.JSON
	Metadata    datatypes.JSON
	Hash        string
}

// CollectionMetadataInput represents resolved off-chain collection metadata
type CollectionMetadataInput struct {
	Chain       domain.Chain
	Token       string
	Description *string
	Avatar      *string
	Background  *string
	Socials     datatypes.JSON
	Metadata    datatypes.JSON
}

// UserProfileInput represents an off-chain user profile carrying a DID
type UserProfileInput struct {
	Address     string
	DID         string
	Name        string
	Description string
	Avatar      string
}

// EnqueueReconciliationInput represents a deferred mutation
type EnqueueReconciliationInput struct {
	ID        string
	Kind      schema.ReconciliationKind
	Key       string
	DedupeKey string
	Payload   datatypes.JSON
	DueAt     time.Time
}

// ResetRetriesFilter narrows an operator reset of the metadata retry counter.
// An empty filter resets every parked token.
type ResetRetriesFilter struct {
	Chain     *domain.Chain
	UniqueKey *string
}
