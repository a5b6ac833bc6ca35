package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/ff-chain-sync/internal/domain"
)

// Order represents the orders table - marketplace listings and their lifecycle.
// Amounts are uint256 values kept as decimal strings.
type Order struct {
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Chain and OrderID form the order identity
	Chain   domain.Chain `gorm:"column:chain;not null;type:text;uniqueIndex:uq_orders_chain_order,priority:1"`
	OrderID string       `gorm:"column:order_id;not null;type:text;uniqueIndex:uq_orders_chain_order,priority:2"`
	// UniqueKey links the order to its token
	UniqueKey  string `gorm:"column:unique_key;not null;type:text;index"`
	BaseToken  string `gorm:"column:base_token;not null;type:text"`
	QuoteToken string `gorm:"column:quote_token;not null;type:text"`
	TokenID    string `gorm:"column:token_id;not null;type:text"`
	TokenIDHex string `gorm:"column:token_id_hex;not null;type:text"`
	Amount     string `gorm:"column:amount;not null;type:text"`

	OrderType  domain.OrderType  `gorm:"column:order_type;not null"`
	OrderState domain.OrderState `gorm:"column:order_state;not null;index"`

	Price        string `gorm:"column:price;not null;type:text"`
	MinPrice     string `gorm:"column:min_price;type:text"`
	ReservePrice string `gorm:"column:reserve_price;type:text"`
	BuyoutPrice  string `gorm:"column:buyout_price;type:text"`
	StartTime    int64  `gorm:"column:start_time"`
	EndTime      int64  `gorm:"column:end_time"`

	SellerAddr    string         `gorm:"column:seller_addr;not null;type:text;index"`
	SellerURI     string         `gorm:"column:seller_uri;type:text"`
	SellerProfile datatypes.JSON `gorm:"column:seller_profile;type:jsonb"`
	BuyerAddr     string         `gorm:"column:buyer_addr;type:text;index"`
	BuyerURI      string         `gorm:"column:buyer_uri;type:text"`
	BuyerProfile  datatypes.JSON `gorm:"column:buyer_profile;type:jsonb"`

	// Bids, LastBid and LastBidder are read fresh from the contract, never incremented locally
	Bids       int64  `gorm:"column:bids;not null;default:0"`
	LastBid    string `gorm:"column:last_bid;type:text"`
	LastBidder string `gorm:"column:last_bidder;type:text"`

	Filled       string `gorm:"column:filled;type:text"`
	RoyaltyOwner string `gorm:"column:royalty_owner;type:text"`
	RoyaltyFee   string `gorm:"column:royalty_fee;type:text"`
	PlatformAddr string `gorm:"column:platform_addr;type:text"`
	PlatformFee  string `gorm:"column:platform_fee;type:text"`
	IsBlindBox   bool   `gorm:"column:is_blind_box;not null;default:false"`

	// CreateTime and UpdateTime are the on-chain order timestamps
	CreateTime int64 `gorm:"column:create_time"`
	UpdateTime int64 `gorm:"column:update_time"`
	// Blocks of the newest event applied to each field group; older events never overwrite a group
	BidBlock   uint64 `gorm:"column:bid_block;not null;default:0"`
	PriceBlock uint64 `gorm:"column:price_block;not null;default:0"`
	StateBlock uint64 `gorm:"column:state_block;not null;default:0"`
	// LastEventBlock is the block of the newest event applied to the order
	LastEventBlock uint64 `gorm:"column:last_event_block;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
