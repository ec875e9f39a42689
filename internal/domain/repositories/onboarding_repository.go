package repositories

import (
	"context"

	"github.com/google/uuid"
	"merchant-crm.backend/internal/domain/entities"
)

// OnboardingRepository defines onboarding data operations.
// Update is version-guarded like PipelineRepository.Update.
type OnboardingRepository interface {
	Create(ctx context.Context, onboarding *entities.Onboarding) error
	GetByMerchantID(ctx context.Context, merchantID uuid.UUID) (*entities.Onboarding, error)
	Update(ctx context.Context, onboarding *entities.Onboarding) error
}
