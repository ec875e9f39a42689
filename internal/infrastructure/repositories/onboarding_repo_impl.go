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

// OnboardingRepository implements onboarding data operations
type OnboardingRepository struct {
	db *gorm.DB
}

// NewOnboardingRepository creates a new onboarding repository
func NewOnboardingRepository(db *gorm.DB) *OnboardingRepository {
	return &OnboardingRepository{db: db}
}

func (r *OnboardingRepository) toEntity(m *models.Onboarding) *entities.Onboarding {
	o := &entities.Onboarding{
		ID:         m.ID,
		MerchantID: m.MerchantID,
		Flags: entities.RequirementFlags{
			SurveyFilled:    m.SurveyFilled,
			OffersAdded:     m.OffersAdded,
			BranchesCovered: m.BranchesCovered,
			AssetsComplete:  m.AssetsComplete,
		},
		CompletionPercentage: m.CompletionPercentage,
		Status:               entities.OnboardingStatus(m.Status),
		LastUpdatedBy:        m.LastUpdatedBy,
		Version:              m.Version,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
	if m.QAApproved != nil {
		o.QAApproved = null.BoolFrom(*m.QAApproved)
	}
	if m.LiveDate != nil {
		o.LiveDate = null.TimeFrom(*m.LiveDate)
	}
	if m.Notes != nil {
		o.Notes = null.StringFrom(*m.Notes)
	}
	return o
}

// Create creates a new onboarding record
func (r *OnboardingRepository) Create(ctx context.Context, onboarding *entities.Onboarding) error {
	if onboarding.ID == uuid.Nil {
		onboarding.ID = utils.GenerateUUIDv7()
	}
	if onboarding.Version == 0 {
		onboarding.Version = 1
	}
	if onboarding.Status == "" {
		onboarding.Status = entities.OnboardingInProgress
	}
	m := &models.Onboarding{
		ID:                   onboarding.ID,
		MerchantID:           onboarding.MerchantID,
		SurveyFilled:         onboarding.Flags.SurveyFilled,
		OffersAdded:          onboarding.Flags.OffersAdded,
		BranchesCovered:      onboarding.Flags.BranchesCovered,
		AssetsComplete:       onboarding.Flags.AssetsComplete,
		CompletionPercentage: onboarding.CompletionPercentage,
		Status:               string(onboarding.Status),
		LastUpdatedBy:        onboarding.LastUpdatedBy,
		Version:              onboarding.Version,
	}
	if onboarding.QAApproved.Valid {
		m.QAApproved = &onboarding.QAApproved.Bool
	}
	if onboarding.LiveDate.Valid {
		m.LiveDate = &onboarding.LiveDate.Time
	}
	if onboarding.Notes.Valid {
		m.Notes = &onboarding.Notes.String
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	onboarding.CreatedAt = m.CreatedAt
	onboarding.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByMerchantID gets the onboarding record for a merchant
func (r *OnboardingRepository) GetByMerchantID(ctx context.Context, merchantID uuid.UUID) (*entities.Onboarding, error) {
	var m models.Onboarding
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("merchant_id = ?", merchantID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Update persists the onboarding record with an optimistic-concurrency check,
// same discipline as PipelineRepository.Update.
func (r *OnboardingRepository) Update(ctx context.Context, onboarding *entities.Onboarding) error {
	updates := map[string]interface{}{
		"survey_filled":         onboarding.Flags.SurveyFilled,
		"offers_added":          onboarding.Flags.OffersAdded,
		"branches_covered":      onboarding.Flags.BranchesCovered,
		"assets_complete":       onboarding.Flags.AssetsComplete,
		"completion_percentage": onboarding.CompletionPercentage,
		"status":                string(onboarding.Status),
		"last_updated_by":       onboarding.LastUpdatedBy,
		"version":               gorm.Expr("version + 1"),
		"updated_at":            time.Now(),
	}
	if onboarding.QAApproved.Valid {
		updates["qa_approved"] = onboarding.QAApproved.Bool
	} else {
		updates["qa_approved"] = nil
	}
	if onboarding.LiveDate.Valid {
		updates["live_date"] = onboarding.LiveDate.Time
	}
	if onboarding.Notes.Valid {
		updates["notes"] = onboarding.Notes.String
	}

	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Onboarding{}).
		Where("id = ? AND version = ?", onboarding.ID, onboarding.Version).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.WithContext(ctx).Model(&models.Onboarding{}).
			Where("id = ?", onboarding.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
		return domainerrors.ErrConflict
	}
	onboarding.Version++
	return nil
}
