package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/ff-chain-sync/internal/domain"
)

// Token represents the tokens table - one row per on-chain token of the marketplace collections
type Token struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// UniqueKey is the token identity: chain-contract-tokenId, or tokenId alone on the legacy chain
	UniqueKey string `gorm:"column:unique_key;not null;uniqueIndex;type:text"`
	// Chain is the marketplace deployment of the token
	Chain domain.Chain `gorm:"column:chain;not null;type:text"`
	// Contract is the checksummed address of the token contract
	Contract string `gorm:"column:contract;not null;type:text"`
	// TokenID is the on-chain token id (string to support uint256)
	TokenID string `gorm:"column:token_id;not null;type:text"`
	// TokenIDHex is TokenID rendered as 0x-prefixed hex
	TokenIDHex string `gorm:"column:token_id_hex;not null;type:text"`
	// TokenIndex is the position of the token within its contract, when the contract reports one
	TokenIndex *string `gorm:"column:token_index;type:text"`
	// Supply is the minted quantity
	Supply string `gorm:"column:supply;not null;type:text;default:'1'"`
	// Owner is the current owner address
	Owner string `gorm:"column:owner;not null;type:text;index"`
	// OwnerBlock is the block of the transfer that set Owner; older transfers never overwrite it
	OwnerBlock uint64 `gorm:"column:owner_block;not null;default:0"`
	// RoyaltyOwner is the minter, who receives royalties
	RoyaltyOwner string `gorm:"column:royalty_owner;type:text;index"`
	// RoyaltyFee is the royalty rate as reported by the contract
	RoyaltyFee string `gorm:"column:royalty_fee;type:text"`
	// TokenURI is the metadata URI reported by the contract
	TokenURI string `gorm:"column:token_uri;type:text"`
	// MintBlock is the block of the mint transfer
	MintBlock uint64 `gorm:"column:mint_block;not null"`
	// MintTime is the timestamp of the mint transfer
	MintTime time.Time `gorm:"column:mint_time;not null"`

	// Name, Description, Image, Thumbnail, Kind, Adult and Properties are projected from the off-chain metadata
	Name        *string        `gorm:"column:name;type:text"`
	Description *string        `gorm:"column:description;type:text"`
	Image       *string        `gorm:"column:image;type:text"`
	Thumbnail   *string        `gorm:"column:thumbnail;type:text"`
	Kind        *string        `gorm:"column:kind;type:text"`
	Adult       bool           `gorm:"column:adult;not null;default:false"`
	Properties  datatypes.JSON `gorm:"column:properties;type:jsonb"`
	// Metadata is the raw off-chain metadata document
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb"`
	// MetadataHash is the SHA-256 of the canonical JSON of Metadata
	MetadataHash *string `gorm:"column:metadata_hash;type:text"`
	// MetadataPending is true until the off-chain metadata has been fetched
	MetadataPending bool `gorm:"column:metadata_pending;not null"`
	// RetryCount counts failed metadata fetches; the enricher stops at the configured cap
	RetryCount int `gorm:"column:retry_count;not null;default:0"`
	// LastError is the last metadata fetch error
	LastError *string `gorm:"column:last_error;type:text"`

	// CreatedAt is the timestamp when this record was first indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	// UpdatedAt is the timestamp when this record was last modified
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the Token model
func (Token) TableName() string {
	return "tokens"
}
