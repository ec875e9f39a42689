package repositories

import (
	"context"

	"github.com/google/uuid"
	"merchant-crm.backend/internal/domain/entities"
)

// PayoutRepository defines the append-only payout ledger. No update or delete
// operations are exposed.
type PayoutRepository interface {
	Create(ctx context.Context, payout *entities.Payout) error
	GetByTrigger(ctx context.Context, merchantID, recipientID uuid.UUID, payoutType entities.PayoutType) (*entities.Payout, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]*entities.Payout, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*entities.Payout, error)
	List(ctx context.Context) ([]*entities.Payout, error)
}
