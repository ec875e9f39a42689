package models

import (
	"time"

	"github.com/google/uuid"
)

// Payout rows are append-only. The composite unique index backs the
// one-entry-per-(merchant, recipient, type) ledger invariant at the database
// level, on top of the existence check in the usecase.
type Payout struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	MerchantID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_payout_trigger"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_payout_trigger;index"`
	Type        string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_payout_trigger"`
	Amount      float64   `gorm:"type:decimal(12,2);not null"`
	Currency    string    `gorm:"type:varchar(10);not null"`
	Status      string    `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
}
