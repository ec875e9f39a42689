package models

import (
	"time"

	"github.com/google/uuid"
)

type Pipeline struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	MerchantID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	CurrentStage          string    `gorm:"type:varchar(50);not null;default:'PENDING_FIRST_VISIT'"`
	NextActionDescription *string   `gorm:"type:text"`
	NextActionDate        *time.Time `gorm:"index"`
	LastUpdatedBy         uuid.UUID `gorm:"type:uuid;not null"`
	Version               int64     `gorm:"not null;default:1"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type StageHistory struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	PipelineID     uuid.UUID `gorm:"type:uuid;not null;index"`
	MerchantID     uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStage      string    `gorm:"type:varchar(50);not null"`
	ToStage        string    `gorm:"type:varchar(50);not null"`
	ChangedBy      uuid.UUID `gorm:"type:uuid;not null"`
	Note           *string   `gorm:"type:text"`
	TransitionedAt time.Time `gorm:"not null"`
}

// TableName overrides the default pluralization
func (StageHistory) TableName() string {
	return "stage_history"
}
