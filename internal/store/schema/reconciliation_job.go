package schema

import (
	"time"

	"gorm.io/datatypes"
)

// ReconciliationKind identifies the mutation a reconciliation job replays
type ReconciliationKind string

const (
	// ReconciliationUpdateTokenOwner replays a token owner update
	ReconciliationUpdateTokenOwner ReconciliationKind = "update_token_owner"
	// ReconciliationUpdateOrder replays an order update
	ReconciliationUpdateOrder ReconciliationKind = "update_order"
	// ReconciliationUpdateCollection replays a collection update
	ReconciliationUpdateCollection ReconciliationKind = "update_collection"
)

// ReconciliationJob represents the reconciliation_jobs table - durable delayed replays of
// mutations whose target entity did not exist yet
type ReconciliationJob struct {
	// ID is a ULID, so jobs sort by creation time
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Kind is the mutation to replay
	Kind ReconciliationKind `gorm:"column:kind;not null;type:text"`
	// Key is the identity of the target entity (e.g. "ela:7" for an order)
	Key string `gorm:"column:key;not null;type:text"`
	// DedupeKey is the SHA-256 of the canonical JSON of kind and payload; redelivered events collapse onto one job
	DedupeKey string `gorm:"column:dedupe_key;not null;uniqueIndex;type:text"`
	// Payload is the JSON-encoded mutation input
	Payload datatypes.JSON `gorm:"column:payload;not null;type:jsonb"`
	// DueAt is the earliest time the job may run
	DueAt time.Time `gorm:"column:due_at;not null;index"`
	// Attempts counts replays that found the entity still missing
	Attempts int `gorm:"column:attempts;not null;default:0"`
	// LastError is the error of the last failed replay
	LastError *string `gorm:"column:last_error;type:text"`
	// LeaseOwner and LeaseUntil mark a job claimed by a poller instance
	LeaseOwner *string    `gorm:"column:lease_owner;type:text"`
	LeaseUntil *time.Time `gorm:"column:lease_until"`

	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the ReconciliationJob model
func (ReconciliationJob) TableName() string {
	return "reconciliation_jobs"
}
