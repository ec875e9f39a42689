package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"merchant-crm.backend/internal/domain/entities"
	domainerrors "merchant-crm.backend/internal/domain/errors"
	"merchant-crm.backend/internal/domain/repositories"
	"merchant-crm.backend/pkg/logger"
)

// DefaultNextActionLead is how far out the default next action is scheduled
// after a transition.
const DefaultNextActionLead = 7 * 24 * time.Hour

// PipelineUsecase drives the sales-stage state machine. Every transition is
// applied in a single unit of work: the stage write, the history append and
// any Won side effects (onboarding auto-create, WON payout) commit or roll
// back together.
type PipelineUsecase struct {
	pipelineRepo   repositories.PipelineRepository
	historyRepo    repositories.StageHistoryRepository
	onboardingRepo repositories.OnboardingRepository
	payoutUsecase  *PayoutUsecase
	gate           *AccessGate
	uow            repositories.UnitOfWork
}

// NewPipelineUsecase creates a new pipeline usecase
func NewPipelineUsecase(
	pipelineRepo repositories.PipelineRepository,
	historyRepo repositories.StageHistoryRepository,
	onboardingRepo repositories.OnboardingRepository,
	payoutUsecase *PayoutUsecase,
	gate *AccessGate,
	uow repositories.UnitOfWork,
) *PipelineUsecase {
	return &PipelineUsecase{
		pipelineRepo:   pipelineRepo,
		historyRepo:    historyRepo,
		onboardingRepo: onboardingRepo,
		payoutUsecase:  payoutUsecase,
		gate:           gate,
		uow:            uow,
	}
}

// GetPipeline returns a merchant's pipeline, gate-checked
func (u *PipelineUsecase) GetPipeline(ctx context.Context, actorID uuid.UUID, role entities.UserRole, merchantID uuid.UUID) (*entities.Pipeline, error) {
	if _, err := u.gate.AuthorizeMerchant(ctx, actorID, role, merchantID); err != nil {
		return nil, err
	}
	pipeline, err := u.pipelineRepo.GetByMerchantID(ctx, merchantID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("pipeline not found")
		}
		return nil, err
	}
	return pipeline, nil
}

// GetStageHistory returns the transition log for a merchant, gate-checked
func (u *PipelineUsecase) GetStageHistory(ctx context.Context, actorID uuid.UUID, role entities.UserRole, merchantID uuid.UUID) ([]*entities.StageHistoryEntry, error) {
	if _, err := u.gate.AuthorizeMerchant(ctx, actorID, role, merchantID); err != nil {
		return nil, err
	}
	return u.historyRepo.ListByMerchantID(ctx, merchantID)
}

// TransitionStage validates and applies a stage transition for a merchant.
func (u *PipelineUsecase) TransitionStage(ctx context.Context, actorID uuid.UUID, role entities.UserRole, merchantID uuid.UUID, input *entities.TransitionStageInput) (*entities.Pipeline, error) {
	merchant, err := u.gate.AuthorizeMerchant(ctx, actorID, role, merchantID)
	if err != nil {
		return nil, err
	}

	if !entities.ValidStage(input.Stage) {
		return nil, domainerrors.BadRequest("unknown stage: " + string(input.Stage))
	}
	if input.Stage == entities.StageRejected && strings.TrimSpace(input.Notes) == "" {
		return nil, domainerrors.BadRequest("a rejection reason is required")
	}
	if input.NextActionDate != nil && input.NextActionDate.Before(time.Now()) {
		return nil, domainerrors.BadRequest("nextActionDate must not be in the past")
	}

	var pipeline *entities.Pipeline
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		pipeline, err = u.pipelineRepo.GetByMerchantID(txCtx, merchantID)
		if err != nil {
			if err == domainerrors.ErrNotFound {
				return domainerrors.NotFound("pipeline not found")
			}
			return err
		}

		from := pipeline.CurrentStage
		if input.Stage == from {
			return domainerrors.NewAppError(400, "pipeline is already in stage "+string(from), domainerrors.ErrAlreadyInStage)
		}
		if !entities.CanTransition(from, input.Stage) {
			return domainerrors.InvalidTransition(
				"cannot move from "+string(from)+" to "+string(input.Stage),
				entities.AllowedTransitions(from),
			)
		}

		pipeline.CurrentStage = input.Stage
		pipeline.LastUpdatedBy = actorID
		applyNextAction(pipeline, input)

		if err := u.pipelineRepo.Update(txCtx, pipeline); err != nil {
			if err == domainerrors.ErrConflict {
				return domainerrors.Conflict("pipeline was modified concurrently, retry with fresh state")
			}
			return err
		}

		entry := &entities.StageHistoryEntry{
			PipelineID: pipeline.ID,
			MerchantID: merchantID,
			FromStage:  from,
			ToStage:    input.Stage,
			ChangedBy:  actorID,
		}
		if input.Notes != "" {
			entry.Note.SetValid(input.Notes)
		}
		if err := u.historyRepo.Append(txCtx, entry); err != nil {
			return err
		}

		if input.Stage == entities.StageWon {
			if err := u.onWon(txCtx, merchant, actorID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stageTransitionsTotal.WithLabelValues(string(input.Stage)).Inc()
	logger.Info(ctx, "pipeline stage transitioned",
		zap.String("merchant_id", merchantID.String()),
		zap.String("to_stage", string(input.Stage)),
	)
	return pipeline, nil
}

// onWon runs the Won side effects inside the transition's transaction:
// onboarding is created once, and exactly one WON payout per merchant+rep is
// appended. Both are no-ops for unassigned merchants.
func (u *PipelineUsecase) onWon(ctx context.Context, merchant *entities.Merchant, actorID uuid.UUID) error {
	if merchant.AssignedRepID == nil {
		logger.Warn(ctx, "merchant won without an assigned rep, skipping onboarding and payout",
			zap.String("merchant_id", merchant.ID.String()))
		return nil
	}

	_, err := u.onboardingRepo.GetByMerchantID(ctx, merchant.ID)
	if err == domainerrors.ErrNotFound {
		onboarding := &entities.Onboarding{
			MerchantID:    merchant.ID,
			Status:        entities.OnboardingInProgress,
			LastUpdatedBy: actorID,
		}
		if err := u.onboardingRepo.Create(ctx, onboarding); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	_, err = u.payoutUsecase.CreatePayout(ctx, merchant.ID, *merchant.AssignedRepID, entities.PayoutTypeWon, actorID)
	return err
}

// UpdateNextAction updates the planned next action without a stage change.
func (u *PipelineUsecase) UpdateNextAction(ctx context.Context, actorID uuid.UUID, role entities.UserRole, merchantID uuid.UUID, input *entities.UpdateNextActionInput) (*entities.Pipeline, error) {
	if _, err := u.gate.AuthorizeMerchant(ctx, actorID, role, merchantID); err != nil {
		return nil, err
	}
	if input.NextActionDate != nil && input.NextActionDate.Before(time.Now()) {
		return nil, domainerrors.BadRequest("nextActionDate must not be in the past")
	}

	pipeline, err := u.pipelineRepo.GetByMerchantID(ctx, merchantID)
	if err != nil {
		if err == domainerrors.ErrNotFound {
			return nil, domainerrors.NotFound("pipeline not found")
		}
		return nil, err
	}

	pipeline.NextActionDescription.SetValid(input.NextActionDescription)
	if input.NextActionDate != nil {
		pipeline.NextActionDate.SetValid(*input.NextActionDate)
	}
	pipeline.LastUpdatedBy = actorID

	if err := u.pipelineRepo.Update(ctx, pipeline); err != nil {
		if err == domainerrors.ErrConflict {
			return nil, domainerrors.Conflict("pipeline was modified concurrently, retry with fresh state")
		}
		return nil, err
	}
	return pipeline, nil
}

// applyNextAction fills the next action after a transition: REJECTED clears
// it, otherwise caller overrides win and the default is a 7-day follow-up.
func applyNextAction(pipeline *entities.Pipeline, input *entities.TransitionStageInput) {
	if input.Stage == entities.StageRejected {
		pipeline.NextActionDescription.Valid = false
		pipeline.NextActionDate.Valid = false
		return
	}

	if input.NextActionDescription != "" {
		pipeline.NextActionDescription.SetValid(input.NextActionDescription)
	} else {
		pipeline.NextActionDescription.SetValid(defaultNextActionDescription(input.Stage))
	}
	if input.NextActionDate != nil {
		pipeline.NextActionDate.SetValid(*input.NextActionDate)
	} else {
		pipeline.NextActionDate.SetValid(time.Now().Add(DefaultNextActionLead))
	}
}

func defaultNextActionDescription(stage entities.Stage) string {
	switch stage {
	case entities.StageFollowUpNeeded:
		return "Follow up with the merchant"
	case entities.StageContractSent:
		return "Check whether the contract was signed"
	case entities.StageWon:
		return "Kick off onboarding"
	default:
		return "Schedule first visit"
	}
}
