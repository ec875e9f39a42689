package usecases

import (
	"context"

	"github.com/google/uuid"
	"merchant-crm.backend/internal/domain/entities"
	domainerrors "merchant-crm.backend/internal/domain/errors"
	"merchant-crm.backend/internal/domain/repositories"
)

// AccessGate resolves whether an actor may read or mutate a merchant's
// pipeline and onboarding. Admins always pass; reps pass only when they are
// the merchant's canonical assigned rep.
type AccessGate struct {
	merchantRepo repositories.MerchantRepository
}

// NewAccessGate creates a new access gate
func NewAccessGate(merchantRepo repositories.MerchantRepository) *AccessGate {
	return &AccessGate{merchantRepo: merchantRepo}
}

// AuthorizeMerchant checks the actor against the merchant's assignment and
// returns the merchant so callers avoid a second lookup.
func (g *AccessGate) AuthorizeMerchant(ctx context.Context, actorID uuid.UUID, role entities.UserRole, merchantID uuid.UUID) (*entities.Merchant, error) {
	merchant, err := g.merchantRepo.GetByID(ctx, merchantID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("merchant not found")
		}
		return nil, err
	}

	if role == entities.UserRoleAdmin {
		return merchant, nil
	}
	if merchant.AssignedRepID != nil && *merchant.AssignedRepID == actorID {
		return merchant, nil
	}
	return nil, domainerrors.Forbidden("you are not assigned to this merchant")
}
