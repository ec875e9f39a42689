package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Merchant struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Category      string    `gorm:"type:varchar(50);not null"`
	City          string    `gorm:"type:varchar(100);not null"`
	District      string    `gorm:"type:varchar(100)"`
	Address       string    `gorm:"type:text"`
	ContactName   string    `gorm:"type:varchar(255);not null"`
	ContactPhone  string    `gorm:"type:varchar(50);not null"`
	ContactEmail  string    `gorm:"type:varchar(255)"`
	CreatedBy     uuid.UUID `gorm:"type:uuid;not null;index"`
	AssignedRepID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}
