package models

import (
	"time"

	"github.com/google/uuid"
)

type Onboarding struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	MerchantID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	SurveyFilled         bool      `gorm:"not null;default:false"`
	OffersAdded          bool      `gorm:"not null;default:false"`
	BranchesCovered      bool      `gorm:"not null;default:false"`
	AssetsComplete       bool      `gorm:"not null;default:false"`
	CompletionPercentage float64   `gorm:"type:decimal(3,2);not null;default:0"`
	QAApproved           *bool
	Status               string     `gorm:"type:varchar(50);not null;default:'IN_PROGRESS'"`
	LiveDate             *time.Time
	Notes                *string   `gorm:"type:text"`
	LastUpdatedBy        uuid.UUID `gorm:"type:uuid;not null"`
	Version              int64     `gorm:"not null;default:1"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName overrides the default pluralization
func (Onboarding) TableName() string {
	return "onboardings"
}
