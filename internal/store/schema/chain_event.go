package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/ff-chain-sync/internal/domain"
)

// ChainEvent represents the chain_events table - the append-only log of every handled contract event.
// It is the audit trail and the source of the per (chain, contract, event_kind) watermark.
type ChainEvent struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Chain is the marketplace deployment the event was emitted on
	Chain domain.Chain `gorm:"column:chain;not null;type:text;uniqueIndex:uq_chain_events_identity,priority:1;index:idx_chain_events_watermark,priority:1"`
	// Contract is the checksummed address of the emitting contract
	Contract string `gorm:"column:contract;not null;type:text;uniqueIndex:uq_chain_events_identity,priority:2;index:idx_chain_events_watermark,priority:2"`
	// EventKind is the normalized event kind (transfer, order_bid, ...)
	EventKind domain.EventKind `gorm:"column:event_kind;not null;type:text;uniqueIndex:uq_chain_events_identity,priority:3;index:idx_chain_events_watermark,priority:3"`
	// BlockNumber is the height of the block holding the log
	BlockNumber uint64 `gorm:"column:block_number;not null;index:idx_chain_events_watermark,priority:4"`
	// LogIndex is the position of the log within the block
	LogIndex uint `gorm:"column:log_index;not null;uniqueIndex:uq_chain_events_identity,priority:5"`
	// TxHash is the hash of the emitting transaction
	TxHash string `gorm:"column:tx_hash;not null;type:text;uniqueIndex:uq_chain_events_identity,priority:4"`
	// Timestamp is the block timestamp
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	// GasFee is gas used times the effective gas price, in wei
	GasFee string `gorm:"column:gas_fee;not null;type:text;default:'0'"`
	// Fields holds the decoded event arguments
	Fields datatypes.JSON `gorm:"column:fields;type:jsonb"`
	// CreatedAt is the timestamp when this record was inserted
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
}

// TableName specifies the table name for the ChainEvent model
func (ChainEvent) TableName() string {
	return "chain_events"
}
