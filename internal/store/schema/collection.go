package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/ff-chain-sync/internal/domain"
)

// Collection represents the collections table - token contracts registered on the marketplace
type Collection struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Chain and Token form the collection identity
	Chain domain.Chain `gorm:"column:chain;not null;type:text;uniqueIndex:uq_collections_chain_token,priority:1"`
	// Token is the checksummed address of the collection contract
	Token string `gorm:"column:token;not null;type:text;uniqueIndex:uq_collections_chain_token,priority:2"`
	// Owner is the registrant of the collection
	Owner  string `gorm:"column:owner;not null;type:text"`
	Name   string `gorm:"column:name;type:text"`
	Symbol string `gorm:"column:symbol;type:text"`
	URI    string `gorm:"column:uri;type:text"`
	// Is721 distinguishes ERC-721 collections from ERC-1155 ones
	Is721 bool `gorm:"column:is_721;not null;default:false"`
	// RoyaltyOwners and RoyaltyFees are parallel lists
	RoyaltyOwners datatypes.JSONSlice[string] `gorm:"column:royalty_owners;type:jsonb"`
	RoyaltyFees   datatypes.JSONSlice[string] `gorm:"column:royalty_fees;type:jsonb"`
	// BlockNumber is the registration block
	BlockNumber uint64 `gorm:"column:block_number;not null"`
	// InfoBlock and RoyaltyBlock are the blocks of the newest name/uri and royalty changes applied.
	// Older events never overwrite a newer value of the same field group.
	InfoBlock    uint64 `gorm:"column:info_block;not null;default:0"`
	RoyaltyBlock uint64 `gorm:"column:royalty_block;not null;default:0"`

	// Description, Avatar, Background and Socials are projected from the off-chain metadata
	Description *string        `gorm:"column:description;type:text"`
	Avatar      *string        `gorm:"column:avatar;type:text"`
	Background  *string        `gorm:"column:background;type:text"`
	Socials     datatypes.JSON `gorm:"column:socials;type:jsonb"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:jsonb"`
	// MetadataPending is true while a pasar: URI has not been resolved
	MetadataPending bool    `gorm:"column:metadata_pending;not null;default:false"`
	RetryCount      int     `gorm:"column:retry_count;not null;default:0"`
	LastError       *string `gorm:"column:last_error;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the Collection model
func (Collection) TableName() string {
	return "collections"
}
