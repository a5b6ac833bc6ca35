package schema

import "time"

// UserProfile represents the user_profiles table - off-chain profiles published by sellers, buyers and creators
type UserProfile struct {
	Address     string    `gorm:"column:address;primaryKey;type:text"`
	DID         string    `gorm:"column:did;not null;type:text"`
	Name        string    `gorm:"column:name;type:text"`
	Description string    `gorm:"column:description;type:text"`
	Avatar      string    `gorm:"column:avatar;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;default:now()"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;default:now()"`
}

// TableName specifies the table name for the UserProfile model
func (UserProfile) TableName() string {
	return "user_profiles"
}
