package entities

import (
	"time"

	"github.com/google/uuid"
)

// PayoutType represents the trigger that created a payout
type PayoutType string

const (
	PayoutTypeWon  PayoutType = "WON"
	PayoutTypeLive PayoutType = "LIVE"
)

// PayoutStatus represents payout processing status
type PayoutStatus string

const (
	PayoutStatusPending PayoutStatus = "PENDING"
	PayoutStatusPaid    PayoutStatus = "PAID"
)

// Payout is an immutable ledger entry for a rep bonus. At most one entry
// exists per (merchant, recipient, type); creation is idempotent.
type Payout struct {
	ID          uuid.UUID    `json:"id"`
	MerchantID  uuid.UUID    `json:"merchantId"`
	RecipientID uuid.UUID    `json:"recipientId"`
	Type        PayoutType   `json:"type"`
	Amount      float64      `json:"amount"`
	Currency    string       `json:"currency"`
	Status      PayoutStatus `json:"status"`
	CreatedBy   uuid.UUID    `json:"createdBy"`
	CreatedAt   time.Time    `json:"createdAt"`
}
