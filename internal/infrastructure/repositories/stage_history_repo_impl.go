package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"merchant-crm.backend/internal/domain/entities"
	"merchant-crm.backend/internal/infrastructure/models"
	"merchant-crm.backend/pkg/utils"
)

// StageHistoryRepository implements the append-only stage transition log
type StageHistoryRepository struct {
	db *gorm.DB
}

// NewStageHistoryRepository creates a new stage history repository
func NewStageHistoryRepository(db *gorm.DB) *StageHistoryRepository {
	return &StageHistoryRepository{db: db}
}

// Append records a stage transition
func (r *StageHistoryRepository) Append(ctx context.Context, entry *entities.StageHistoryEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = utils.GenerateUUIDv7()
	}
	if entry.TransitionedAt.IsZero() {
		entry.TransitionedAt = time.Now()
	}
	m := &models.StageHistory{
		ID:             entry.ID,
		PipelineID:     entry.PipelineID,
		MerchantID:     entry.MerchantID,
		FromStage:      string(entry.FromStage),
		ToStage:        string(entry.ToStage),
		ChangedBy:      entry.ChangedBy,
		TransitionedAt: entry.TransitionedAt,
	}
	if entry.Note.Valid {
		m.Note = &entry.Note.String
	}
	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Create(m).Error
}

// ListByMerchantID returns the transition log for a merchant, oldest first
func (r *StageHistoryRepository) ListByMerchantID(ctx context.Context, merchantID uuid.UUID) ([]*entities.StageHistoryEntry, error) {
	var ms []models.StageHistory
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("transitioned_at ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.StageHistoryEntry, 0, len(ms))
	for i := range ms {
		e := &entities.StageHistoryEntry{
			ID:             ms[i].ID,
			PipelineID:     ms[i].PipelineID,
			MerchantID:     ms[i].MerchantID,
			FromStage:      entities.Stage(ms[i].FromStage),
			ToStage:        entities.Stage(ms[i].ToStage),
			ChangedBy:      ms[i].ChangedBy,
			TransitionedAt: ms[i].TransitionedAt,
		}
		if ms[i].Note != nil {
			e.Note = null.StringFrom(*ms[i].Note)
		}
		out = append(out, e)
	}
	return out, nil
}
