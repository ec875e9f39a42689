package usecases

import (
	"context"

	"github.com/google/uuid"
	"merchant-crm.backend/internal/domain/entities"
	domainerrors "merchant-crm.backend/internal/domain/errors"
	"merchant-crm.backend/internal/domain/repositories"
)

// MerchantUsecase handles merchant profile lifecycle. Creation is atomic with
// the pipeline record: a merchant never exists without a pipeline at
// PENDING_FIRST_VISIT.
type MerchantUsecase struct {
	merchantRepo repositories.MerchantRepository
	pipelineRepo repositories.PipelineRepository
	userRepo     repositories.UserRepository
	gate         *AccessGate
	uow          repositories.UnitOfWork
}

// NewMerchantUsecase creates a new merchant usecase
func NewMerchantUsecase(
	merchantRepo repositories.MerchantRepository,
	pipelineRepo repositories.PipelineRepository,
	userRepo repositories.UserRepository,
	gate *AccessGate,
	uow repositories.UnitOfWork,
) *MerchantUsecase {
	return &MerchantUsecase{
		merchantRepo: merchantRepo,
		pipelineRepo: pipelineRepo,
		userRepo:     userRepo,
		gate:         gate,
		uow:          uow,
	}
}

// CreateMerchant creates a merchant and its pipeline in one transaction.
// Reps creating a merchant become its assigned rep unless an admin supplied
// an explicit assignment.
func (u *MerchantUsecase) CreateMerchant(ctx context.Context, actorID uuid.UUID, role entities.UserRole, input *entities.CreateMerchantInput) (*entities.Merchant, error) {
	if !entities.ValidCategory(input.Category) {
		return nil, domainerrors.BadRequest("unknown merchant category: " + string(input.Category))
	}

	merchant := &entities.Merchant{
		Name:         input.Name,
		Category:     input.Category,
		City:         input.City,
		ContactName:  input.ContactName,
		ContactPhone: input.ContactPhone,
		CreatedBy:    actorID,
	}
	if input.District != "" {
		merchant.District.SetValid(input.District)
	}
	if input.Address != "" {
		merchant.Address.SetValid(input.Address)
	}
	if input.ContactEmail != "" {
		merchant.ContactEmail.SetValid(input.ContactEmail)
	}

	switch {
	case input.AssignedRepID != nil && role == entities.UserRoleAdmin:
		rep, err := u.userRepo.GetByID(ctx, *input.AssignedRepID)
		if err != nil {
			if err == domainerrors.ErrNotFound {
				return nil, domainerrors.BadRequest("assigned rep does not exist")
			}
			return nil, err
		}
		merchant.AssignedRepID = &rep.ID
	case role == entities.UserRoleRep:
		id := actorID
		merchant.AssignedRepID = &id
	}

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.merchantRepo.Create(txCtx, merchant); err != nil {
			return err
		}
		pipeline := &entities.Pipeline{
			MerchantID:    merchant.ID,
			CurrentStage:  entities.StagePendingFirstVisit,
			LastUpdatedBy: actorID,
		}
		return u.pipelineRepo.Create(txCtx, pipeline)
	})
	if err != nil {
		return nil, err
	}
	return merchant, nil
}

// GetMerchant returns a merchant, gate-checked
func (u *MerchantUsecase) GetMerchant(ctx context.Context, actorID uuid.UUID, role entities.UserRole, merchantID uuid.UUID) (*entities.Merchant, error) {
	return u.gate.AuthorizeMerchant(ctx, actorID, role, merchantID)
}

// ListMerchants lists all merchants for admins, assigned merchants for reps
func (u *MerchantUsecase) ListMerchants(ctx context.Context, actorID uuid.UUID, role entities.UserRole, limit, offset int) ([]*entities.Merchant, int, error) {
	if role == entities.UserRoleAdmin {
		return u.merchantRepo.List(ctx, limit, offset)
	}
	return u.merchantRepo.ListByAssignedRep(ctx, actorID, limit, offset)
}

// UpdateMerchant applies a partial profile update, gate-checked
func (u *MerchantUsecase) UpdateMerchant(ctx context.Context, actorID uuid.UUID, role entities.UserRole, merchantID uuid.UUID, input *entities.UpdateMerchantInput) (*entities.Merchant, error) {
	merchant, err := u.gate.AuthorizeMerchant(ctx, actorID, role, merchantID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		merchant.Name = *input.Name
	}
	if input.Category != nil {
		if !entities.ValidCategory(*input.Category) {
			return nil, domainerrors.BadRequest("unknown merchant category: " + string(*input.Category))
		}
		merchant.Category = *input.Category
	}
	if input.City != nil {
		merchant.City = *input.City
	}
	if input.District != nil {
		merchant.District.SetValid(*input.District)
	}
	if input.Address != nil {
		merchant.Address.SetValid(*input.Address)
	}
	if input.ContactName != nil {
		merchant.ContactName = *input.ContactName
	}
	if input.ContactPhone != nil {
		merchant.ContactPhone = *input.ContactPhone
	}
	if input.ContactEmail != nil {
		merchant.ContactEmail.SetValid(*input.ContactEmail)
	}

	if err := u.merchantRepo.Update(ctx, merchant); err != nil {
		return nil, err
	}
	return merchant, nil
}

// AssignRep sets the canonical assigned rep for a merchant (admin only,
// enforced at the route level; the rep must exist and carry the REP role).
func (u *MerchantUsecase) AssignRep(ctx context.Context, merchantID, repID uuid.UUID) error {
	rep, err := u.userRepo.GetByID(ctx, repID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return domainerrors.BadRequest("rep does not exist")
		}
		return err
	}
	if rep.Role != entities.UserRoleRep {
		return domainerrors.BadRequest("assignee must have the REP role")
	}
	if err := u.merchantRepo.AssignRep(ctx, merchantID, repID); err != nil {
		if err == domainerrors.ErrNotFound {
			return domainerrors.NotFound("merchant not found")
		}
		return err
	}
	return nil
}

// DeleteMerchant tombstones a merchant (admin only, enforced at the route
// level). The pipeline, onboarding and ledger rows are kept for history.
func (u *MerchantUsecase) DeleteMerchant(ctx context.Context, merchantID uuid.UUID) error {
	if err := u.merchantRepo.SoftDelete(ctx, merchantID); err != nil {
		if err == domainerrors.ErrNotFound {
			return domainerrors.NotFound("merchant not found")
		}
		return err
	}
	return nil
}
