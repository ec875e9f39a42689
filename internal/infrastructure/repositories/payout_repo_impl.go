package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"merchant-crm.backend/internal/domain/entities"
	domainerrors "merchant-crm.backend/internal/domain/errors"
	"merchant-crm.backend/internal/infrastructure/models"
	"merchant-crm.backend/pkg/utils"
)

// PayoutRepository implements the append-only payout ledger
type PayoutRepository struct {
	db *gorm.DB
}

// NewPayoutRepository creates a new payout repository
func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

func (r *PayoutRepository) toEntity(m *models.Payout) *entities.Payout {
	return &entities.Payout{
		ID:          m.ID,
		MerchantID:  m.MerchantID,
		RecipientID: m.RecipientID,
		Type:        entities.PayoutType(m.Type),
		Amount:      m.Amount,
		Currency:    m.Currency,
		Status:      entities.PayoutStatus(m.Status),
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

// Create appends a payout ledger entry
func (r *PayoutRepository) Create(ctx context.Context, payout *entities.Payout) error {
	if payout.ID == uuid.Nil {
		payout.ID = utils.GenerateUUIDv7()
	}
	if payout.Status == "" {
		payout.Status = entities.PayoutStatusPending
	}
	m := &models.Payout{
		ID:          payout.ID,
		MerchantID:  payout.MerchantID,
		RecipientID: payout.RecipientID,
		Type:        string(payout.Type),
		Amount:      payout.Amount,
		Currency:    payout.Currency,
		Status:      string(payout.Status),
		CreatedBy:   payout.CreatedBy,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	payout.CreatedAt = m.CreatedAt
	return nil
}

// GetByTrigger looks up the ledger entry for a (merchant, recipient, type)
// key. Returns ErrNotFound when no entry exists yet.
func (r *PayoutRepository) GetByTrigger(ctx context.Context, merchantID, recipientID uuid.UUID, payoutType entities.PayoutType) (*entities.Payout, error) {
	var m models.Payout
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("merchant_id = ? AND recipient_id = ? AND type = ?", merchantID, recipientID, string(payoutType)).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListByRecipient lists payouts earned by a rep, newest first
func (r *PayoutRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]*entities.Payout, error) {
	return r.list(ctx, "recipient_id = ?", recipientID)
}

// ListByMerchant lists payouts recorded for a merchant, newest first
func (r *PayoutRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*entities.Payout, error) {
	return r.list(ctx, "merchant_id = ?", merchantID)
}

// List lists the whole ledger, newest first
func (r *PayoutRepository) List(ctx context.Context) ([]*entities.Payout, error) {
	return r.list(ctx, "")
}

func (r *PayoutRepository) list(ctx context.Context, cond string, args ...interface{}) ([]*entities.Payout, error) {
	var ms []models.Payout
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx).Order("created_at DESC")
	if cond != "" {
		q = q.Where(cond, args...)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Payout, 0, len(ms))
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out, nil
}
