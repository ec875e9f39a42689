package repositories

import (
	"context"

	"github.com/google/uuid"
	"merchant-crm.backend/internal/domain/entities"
)

// ActivityRepository defines activity log data operations
type ActivityRepository interface {
	Create(ctx context.Context, activity *entities.Activity) error
	ListByMerchantID(ctx context.Context, merchantID uuid.UUID) ([]*entities.Activity, error)
}
