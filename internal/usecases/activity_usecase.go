package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"merchant-crm.backend/internal/domain/entities"
	domainerrors "merchant-crm.backend/internal/domain/errors"
	"merchant-crm.backend/internal/domain/repositories"
)

// ActivityUsecase handles the rep activity log
type ActivityUsecase struct {
	activityRepo repositories.ActivityRepository
	gate         *AccessGate
}

// NewActivityUsecase creates a new activity usecase
func NewActivityUsecase(activityRepo repositories.ActivityRepository, gate *AccessGate) *ActivityUsecase {
	return &ActivityUsecase{
		activityRepo: activityRepo,
		gate:         gate,
	}
}

// LogActivity records an interaction with a merchant, gate-checked
func (u *ActivityUsecase) LogActivity(ctx context.Context, actorID uuid.UUID, role entities.UserRole, merchantID uuid.UUID, input *entities.LogActivityInput) (*entities.Activity, error) {
	if _, err := u.gate.AuthorizeMerchant(ctx, actorID, role, merchantID); err != nil {
		return nil, err
	}
	if !entities.ValidActivityType(input.Type) {
		return nil, domainerrors.BadRequest("unknown activity type: " + string(input.Type))
	}

	activity := &entities.Activity{
		MerchantID: merchantID,
		UserID:     actorID,
		Type:       input.Type,
	}
	if input.Note != "" {
		activity.Note.SetValid(input.Note)
	}
	if input.OccurredAt != nil {
		activity.OccurredAt = *input.OccurredAt
	} else {
		activity.OccurredAt = time.Now()
	}

	if err := u.activityRepo.Create(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// ListActivities returns a merchant's activity log, gate-checked
func (u *ActivityUsecase) ListActivities(ctx context.Context, actorID uuid.UUID, role entities.UserRole, merchantID uuid.UUID) ([]*entities.Activity, error) {
	if _, err := u.gate.AuthorizeMerchant(ctx, actorID, role, merchantID); err != nil {
		return nil, err
	}
	return u.activityRepo.ListByMerchantID(ctx, merchantID)
}
