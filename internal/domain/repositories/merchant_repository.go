package repositories

import (
	"context"

	"github.com/google/uuid"
	"merchant-crm.backend/internal/domain/entities"
)

// MerchantRepository defines merchant data operations
type MerchantRepository interface {
	Create(ctx context.Context, merchant *entities.Merchant) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Merchant, error)
	Update(ctx context.Context, merchant *entities.Merchant) error
	AssignRep(ctx context.Context, id, repID uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*entities.Merchant, int, error)
	ListByAssignedRep(ctx context.Context, repID uuid.UUID, limit, offset int) ([]*entities.Merchant, int, error)
}
