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

// ActivityRepository implements activity log data operations
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create logs an activity
func (r *ActivityRepository) Create(ctx context.Context, activity *entities.Activity) error {
	if activity.ID == uuid.Nil {
		activity.ID = utils.GenerateUUIDv7()
	}
	if activity.OccurredAt.IsZero() {
		activity.OccurredAt = time.Now()
	}
	m := &models.Activity{
		ID:         activity.ID,
		MerchantID: activity.MerchantID,
		UserID:     activity.UserID,
		Type:       string(activity.Type),
		OccurredAt: activity.OccurredAt,
	}
	if activity.Note.Valid {
		m.Note = &activity.Note.String
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	activity.CreatedAt = m.CreatedAt
	return nil
}

// ListByMerchantID returns activities for a merchant, newest first
func (r *ActivityRepository) ListByMerchantID(ctx context.Context, merchantID uuid.UUID) ([]*entities.Activity, error) {
	var ms []models.Activity
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("occurred_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Activity, 0, len(ms))
	for i := range ms {
		a := &entities.Activity{
			ID:         ms[i].ID,
			MerchantID: ms[i].MerchantID,
			UserID:     ms[i].UserID,
			Type:       entities.ActivityType(ms[i].Type),
			OccurredAt: ms[i].OccurredAt,
			CreatedAt:  ms[i].CreatedAt,
		}
		if ms[i].Note != nil {
			a.Note = null.StringFrom(*ms[i].Note)
		}
		out = append(out, a)
	}
	return out, nil
}
