package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"merchant-crm.backend/internal/domain/entities"
	domainerrors "merchant-crm.backend/internal/domain/errors"
	"merchant-crm.backend/internal/infrastructure/models"
	"merchant-crm.backend/pkg/utils"
)

// PipelineRepository implements pipeline data operations
type PipelineRepository struct {
	db *gorm.DB
}

// NewPipelineRepository creates a new pipeline repository
func NewPipelineRepository(db *gorm.DB) *PipelineRepository {
	return &PipelineRepository{db: db}
}

func (r *PipelineRepository) toEntity(m *models.Pipeline) *entities.Pipeline {
	p := &entities.Pipeline{
		ID:            m.ID,
		MerchantID:    m.MerchantID,
		CurrentStage:  entities.Stage(m.CurrentStage),
		LastUpdatedBy: m.LastUpdatedBy,
		Version:       m.Version,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.NextActionDescription != nil {
		p.NextActionDescription = null.StringFrom(*m.NextActionDescription)
	}
	if m.NextActionDate != nil {
		p.NextActionDate = null.TimeFrom(*m.NextActionDate)
	}
	return p
}

// Create creates a new pipeline record
func (r *PipelineRepository) Create(ctx context.Context, pipeline *entities.Pipeline) error {
	if pipeline.ID == uuid.Nil {
		pipeline.ID = utils.GenerateUUIDv7()
	}
	if pipeline.Version == 0 {
		pipeline.Version = 1
	}
	m := &models.Pipeline{
		ID:            pipeline.ID,
		MerchantID:    pipeline.MerchantID,
		CurrentStage:  string(pipeline.CurrentStage),
		LastUpdatedBy: pipeline.LastUpdatedBy,
		Version:       pipeline.Version,
	}
	if pipeline.NextActionDescription.Valid {
		m.NextActionDescription = &pipeline.NextActionDescription.String
	}
	if pipeline.NextActionDate.Valid {
		m.NextActionDate = &pipeline.NextActionDate.Time
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	pipeline.CreatedAt = m.CreatedAt
	pipeline.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByMerchantID gets the pipeline for a merchant
func (r *PipelineRepository) GetByMerchantID(ctx context.Context, merchantID uuid.UUID) (*entities.Pipeline, error) {
	var m models.Pipeline
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("merchant_id = ?", merchantID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Update persists the pipeline with an optimistic-concurrency check: the row
// is only written when the stored version matches the entity's version, and
// the version is bumped in the same statement. A zero-row result means a
// concurrent writer got there first.
func (r *PipelineRepository) Update(ctx context.Context, pipeline *entities.Pipeline) error {
	updates := map[string]interface{}{
		"current_stage":   string(pipeline.CurrentStage),
		"last_updated_by": pipeline.LastUpdatedBy,
		"version":         gorm.Expr("version + 1"),
		"updated_at":      time.Now(),
	}
	if pipeline.NextActionDescription.Valid {
		updates["next_action_description"] = pipeline.NextActionDescription.String
	} else {
		updates["next_action_description"] = nil
	}
	if pipeline.NextActionDate.Valid {
		updates["next_action_date"] = pipeline.NextActionDate.Time
	} else {
		updates["next_action_date"] = nil
	}

	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Pipeline{}).
		Where("id = ? AND version = ?", pipeline.ID, pipeline.Version).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing row from a stale version.
		var count int64
		if err := db.WithContext(ctx).Model(&models.Pipeline{}).
			Where("id = ?", pipeline.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
		return domainerrors.ErrConflict
	}
	pipeline.Version++
	return nil
}

// ListOverdueNextActions returns pipelines whose planned next action is past
// due, oldest first. Terminal stages are excluded.
func (r *PipelineRepository) ListOverdueNextActions(ctx context.Context, before time.Time, limit int) ([]*entities.Pipeline, error) {
	var ms []models.Pipeline
	db := GetDB(ctx, r.db)
	q := db.WithContext(ctx).
		Where("next_action_date IS NOT NULL AND next_action_date < ?", before).
		Where("current_stage NOT IN ?", []string{string(entities.StageWon), string(entities.StageRejected)}).
		Order("next_action_date ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Pipeline, 0, len(ms))
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out, nil
}
