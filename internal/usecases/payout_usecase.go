package usecases

import (
	"context"

	"github.com/google/uuid"
	"merchant-crm.backend/internal/config"
	"merchant-crm.backend/internal/domain/entities"
	domainerrors "merchant-crm.backend/internal/domain/errors"
	"merchant-crm.backend/internal/domain/repositories"
)

// PayoutUsecase handles the rep bonus ledger. Amounts are fixed per trigger
// type from configuration, never caller-supplied.
type PayoutUsecase struct {
	payoutRepo repositories.PayoutRepository
	gate       *AccessGate
	cfg        config.PayoutConfig
}

// NewPayoutUsecase creates a new payout usecase
func NewPayoutUsecase(payoutRepo repositories.PayoutRepository, gate *AccessGate, cfg config.PayoutConfig) *PayoutUsecase {
	return &PayoutUsecase{
		payoutRepo: payoutRepo,
		gate:       gate,
		cfg:        cfg,
	}
}

func (u *PayoutUsecase) amountFor(payoutType entities.PayoutType) float64 {
	if payoutType == entities.PayoutTypeLive {
		return u.cfg.LiveAmount
	}
	return u.cfg.WonAmount
}

// CreatePayout appends a ledger entry for a trigger, idempotently: when an
// entry already exists for the (merchant, recipient, type) key the existing
// entry is returned unchanged. Intended to run inside the unit of work of the
// triggering state transition.
func (u *PayoutUsecase) CreatePayout(ctx context.Context, merchantID, recipientID uuid.UUID, payoutType entities.PayoutType, createdBy uuid.UUID) (*entities.Payout, error) {
	existing, err := u.payoutRepo.GetByTrigger(ctx, merchantID, recipientID, payoutType)
	if err == nil {
		return existing, nil
	}
	if err != domainerrors.ErrNotFound {
		return nil, err
	}

	payout := &entities.Payout{
		MerchantID:  merchantID,
		RecipientID: recipientID,
		Type:        payoutType,
		Amount:      u.amountFor(payoutType),
		Currency:    u.cfg.Currency,
		Status:      entities.PayoutStatusPending,
		CreatedBy:   createdBy,
	}
	if err := u.payoutRepo.Create(ctx, payout); err != nil {
		return nil, err
	}
	payoutsCreatedTotal.WithLabelValues(string(payoutType)).Inc()
	return payout, nil
}

// ListForActor returns the whole ledger for admins and the actor's own
// payouts for reps.
func (u *PayoutUsecase) ListForActor(ctx context.Context, actorID uuid.UUID, role entities.UserRole) ([]*entities.Payout, error) {
	if role == entities.UserRoleAdmin {
		return u.payoutRepo.List(ctx)
	}
	return u.payoutRepo.ListByRecipient(ctx, actorID)
}

// ListForMerchant returns a merchant's payouts, gate-checked
func (u *PayoutUsecase) ListForMerchant(ctx context.Context, actorID uuid.UUID, role entities.UserRole, merchantID uuid.UUID) ([]*entities.Payout, error) {
	if _, err := u.gate.AuthorizeMerchant(ctx, actorID, role, merchantID); err != nil {
		return nil, err
	}
	return u.payoutRepo.ListByMerchant(ctx, merchantID)
}
