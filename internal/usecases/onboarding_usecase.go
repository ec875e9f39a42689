package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"merchant-crm.backend/internal/domain/entities"
	domainerrors "merchant-crm.backend/internal/domain/errors"
	"merchant-crm.backend/internal/domain/repositories"
	"merchant-crm.backend/pkg/logger"
)

// OnboardingUsecase drives post-Won onboarding completion. Requirement
// updates recompute the completion score and derive the status purely from
// flags + QA verdict; the first transition into LIVE stamps liveDate and
// appends the LIVE payout inside the same transaction.
type OnboardingUsecase struct {
	onboardingRepo repositories.OnboardingRepository
	pipelineRepo   repositories.PipelineRepository
	payoutUsecase  *PayoutUsecase
	gate           *AccessGate
	uow            repositories.UnitOfWork
}

// NewOnboardingUsecase creates a new onboarding usecase
func NewOnboardingUsecase(
	onboardingRepo repositories.OnboardingRepository,
	pipelineRepo repositories.PipelineRepository,
	payoutUsecase *PayoutUsecase,
	gate *AccessGate,
	uow repositories.UnitOfWork,
) *OnboardingUsecase {
	return &OnboardingUsecase{
		onboardingRepo: onboardingRepo,
		pipelineRepo:   pipelineRepo,
		payoutUsecase:  payoutUsecase,
		gate:           gate,
		uow:            uow,
	}
}

// GetOnboarding returns a merchant's onboarding record, gate-checked
func (u *OnboardingUsecase) GetOnboarding(ctx context.Context, actorID uuid.UUID, role entities.UserRole, merchantID uuid.UUID) (*entities.Onboarding, error) {
	if _, err := u.gate.AuthorizeMerchant(ctx, actorID, role, merchantID); err != nil {
		return nil, err
	}
	onboarding, err := u.onboardingRepo.GetByMerchantID(ctx, merchantID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("onboarding not found")
		}
		return nil, err
	}
	return onboarding, nil
}

// UpdateRequirements patches requirement flags (and, for admins, the QA
// verdict) and recomputes completion and status. A non-admin's qaApproved
// field is dropped rather than rejected; the ignore-foreign-role-fields
// policy keeps partial updates from mixed clients usable.
func (u *OnboardingUsecase) UpdateRequirements(ctx context.Context, actorID uuid.UUID, role entities.UserRole, merchantID uuid.UUID, input *entities.UpdateRequirementsInput) (*entities.Onboarding, error) {
	merchant, err := u.gate.AuthorizeMerchant(ctx, actorID, role, merchantID)
	if err != nil {
		return nil, err
	}

	var onboarding *entities.Onboarding
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		pipeline, err := u.pipelineRepo.GetByMerchantID(txCtx, merchantID)
		if err != nil {
			if err == domainerrors.ErrNotFound {
				return domainerrors.NotFound("pipeline not found")
			}
			return err
		}
		if pipeline.CurrentStage != entities.StageWon {
			return domainerrors.NewAppError(400, "merchant must be Won to update onboarding", domainerrors.ErrInvalidState)
		}

		onboarding, err = u.onboardingRepo.GetByMerchantID(txCtx, merchantID)
		if err != nil {
			if err == domainerrors.ErrNotFound {
				return domainerrors.NotFound("onboarding not found")
			}
			return err
		}

		if input.SurveyFilled != nil {
			onboarding.Flags.SurveyFilled = *input.SurveyFilled
		}
		if input.OffersAdded != nil {
			onboarding.Flags.OffersAdded = *input.OffersAdded
		}
		if input.BranchesCovered != nil {
			onboarding.Flags.BranchesCovered = *input.BranchesCovered
		}
		if input.AssetsComplete != nil {
			onboarding.Flags.AssetsComplete = *input.AssetsComplete
		}
		if input.QAApproved != nil {
			if role == entities.UserRoleAdmin {
				onboarding.QAApproved.SetValid(*input.QAApproved)
			} else {
				logger.Warn(txCtx, "dropping qaApproved from non-admin actor",
					zap.String("actor_id", actorID.String()),
					zap.String("merchant_id", merchantID.String()),
				)
			}
		}
		if input.Notes != "" {
			onboarding.Notes.SetValid(input.Notes)
		}

		onboarding.CompletionPercentage = onboarding.Flags.CompletionPercentage()
		previous := onboarding.Status
		onboarding.Status = entities.DeriveStatus(onboarding.Flags, onboarding.QAApproved, previous)
		onboarding.LastUpdatedBy = actorID

		if onboarding.Status == entities.OnboardingLive && previous != entities.OnboardingLive {
			if err := u.onLive(txCtx, merchant, onboarding, actorID); err != nil {
				return err
			}
		}

		if err := u.onboardingRepo.Update(txCtx, onboarding); err != nil {
			if err == domainerrors.ErrConflict {
				return domainerrors.Conflict("onboarding was modified concurrently, retry with fresh state")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return onboarding, nil
}

// OverrideStatus is the admin-only manual status override. A manual move into
// LIVE carries the same side effects as a derived one.
func (u *OnboardingUsecase) OverrideStatus(ctx context.Context, actorID uuid.UUID, role entities.UserRole, merchantID uuid.UUID, input *entities.OverrideStatusInput) (*entities.Onboarding, error) {
	if role != entities.UserRoleAdmin {
		return nil, domainerrors.Forbidden("only admins may override onboarding status")
	}
	merchant, err := u.gate.AuthorizeMerchant(ctx, actorID, role, merchantID)
	if err != nil {
		return nil, err
	}
	if !entities.ValidOnboardingStatus(input.Status) {
		return nil, domainerrors.BadRequest("unknown onboarding status: " + string(input.Status))
	}

	var onboarding *entities.Onboarding
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		onboarding, err = u.onboardingRepo.GetByMerchantID(txCtx, merchantID)
		if err != nil {
			if err == domainerrors.ErrNotFound {
				return domainerrors.NotFound("onboarding not found")
			}
			return err
		}

		previous := onboarding.Status
		onboarding.Status = input.Status
		onboarding.LastUpdatedBy = actorID
		if input.Notes != "" {
			onboarding.Notes.SetValid(input.Notes)
		}

		if onboarding.Status == entities.OnboardingLive && previous != entities.OnboardingLive {
			if err := u.onLive(txCtx, merchant, onboarding, actorID); err != nil {
				return err
			}
		}

		if err := u.onboardingRepo.Update(txCtx, onboarding); err != nil {
			if err == domainerrors.ErrConflict {
				return domainerrors.Conflict("onboarding was modified concurrently, retry with fresh state")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return onboarding, nil
}

// onLive stamps liveDate on the first entry into LIVE and appends the LIVE
// payout for the assigned rep. liveDate is never overwritten once set.
func (u *OnboardingUsecase) onLive(ctx context.Context, merchant *entities.Merchant, onboarding *entities.Onboarding, actorID uuid.UUID) error {
	if !onboarding.LiveDate.Valid {
		onboarding.LiveDate.SetValid(time.Now())
	}
	onboardingsLiveTotal.Inc()

	if merchant.AssignedRepID == nil {
		logger.Warn(ctx, "onboarding went live without an assigned rep, skipping payout",
			zap.String("merchant_id", merchant.ID.String()))
		return nil
	}
	_, err := u.payoutUsecase.CreatePayout(ctx, merchant.ID, *merchant.AssignedRepID, entities.PayoutTypeLive, actorID)
	return err
}
