package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// MerchantCategory represents merchant business categories
type MerchantCategory string

const (
	MerchantCategoryRestaurant MerchantCategory = "restaurant"
	MerchantCategoryCafe       MerchantCategory = "cafe"
	MerchantCategoryRetail     MerchantCategory = "retail"
	MerchantCategoryServices   MerchantCategory = "services"
	MerchantCategoryOther      MerchantCategory = "other"
)

// Merchant represents a merchant profile tracked through the sales pipeline.
// AssignedRepID is the single canonical assignment field; payout recipients and
// the access gate both resolve through it.
type Merchant struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Category      MerchantCategory `json:"category"`
	City          string           `json:"city"`
	District      null.String      `json:"district,omitempty"`
	Address       null.String      `json:"address,omitempty"`
	ContactName   string           `json:"contactName"`
	ContactPhone  string           `json:"contactPhone"`
	ContactEmail  null.String      `json:"contactEmail,omitempty"`
	CreatedBy     uuid.UUID        `json:"createdBy"`
	AssignedRepID *uuid.UUID       `json:"assignedRepId,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	DeletedAt     null.Time        `json:"-"`
}

// CreateMerchantInput represents input for creating a merchant
type CreateMerchantInput struct {
	Name          string           `json:"name" binding:"required,min=2,max=255"`
	Category      MerchantCategory `json:"category" binding:"required"`
	City          string           `json:"city" binding:"required"`
	District      string           `json:"district,omitempty"`
	Address       string           `json:"address,omitempty"`
	ContactName   string           `json:"contactName" binding:"required"`
	ContactPhone  string           `json:"contactPhone" binding:"required"`
	ContactEmail  string           `json:"contactEmail,omitempty" binding:"omitempty,email"`
	AssignedRepID *uuid.UUID       `json:"assignedRepId,omitempty"`
}

// UpdateMerchantInput represents a partial merchant profile update
type UpdateMerchantInput struct {
	Name         *string           `json:"name,omitempty" binding:"omitempty,min=2,max=255"`
	Category     *MerchantCategory `json:"category,omitempty"`
	City         *string           `json:"city,omitempty"`
	District     *string           `json:"district,omitempty"`
	Address      *string           `json:"address,omitempty"`
	ContactName  *string           `json:"contactName,omitempty"`
	ContactPhone *string           `json:"contactPhone,omitempty"`
	ContactEmail *string           `json:"contactEmail,omitempty" binding:"omitempty,email"`
}

// AssignRepInput represents input for assigning a responsible rep
type AssignRepInput struct {
	RepID uuid.UUID `json:"repId" binding:"required"`
}

// ValidCategory reports whether c is a known merchant category.
func ValidCategory(c MerchantCategory) bool {
	switch c {
	case MerchantCategoryRestaurant, MerchantCategoryCafe, MerchantCategoryRetail,
		MerchantCategoryServices, MerchantCategoryOther:
		return true
	}
	return false
}
