package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ActivityType represents the kind of rep activity logged against a merchant
type ActivityType string

const (
	ActivityTypeVisit    ActivityType = "visit"
	ActivityTypeCall     ActivityType = "call"
	ActivityTypeFollowUp ActivityType = "follow_up"
	ActivityTypeNote     ActivityType = "note"
)

// Activity is a rep's logged interaction with a merchant
type Activity struct {
	ID         uuid.UUID    `json:"id"`
	MerchantID uuid.UUID    `json:"merchantId"`
	UserID     uuid.UUID    `json:"userId"`
	Type       ActivityType `json:"type"`
	Note       null.String  `json:"note,omitempty"`
	OccurredAt time.Time    `json:"occurredAt"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// LogActivityInput represents input for logging an activity
type LogActivityInput struct {
	Type       ActivityType `json:"type" binding:"required"`
	Note       string       `json:"note,omitempty"`
	OccurredAt *time.Time   `json:"occurredAt,omitempty"`
}

// ValidActivityType reports whether t is a known activity type.
func ValidActivityType(t ActivityType) bool {
	switch t {
	case ActivityTypeVisit, ActivityTypeCall, ActivityTypeFollowUp, ActivityTypeNote:
		return true
	}
	return false
}
