package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// OnboardingStatus represents the onboarding lifecycle status
type OnboardingStatus string

const (
	OnboardingInProgress OnboardingStatus = "IN_PROGRESS"
	OnboardingReadyForQA OnboardingStatus = "READY_FOR_QA"
	OnboardingQAFailed   OnboardingStatus = "QA_FAILED"
	OnboardingLive       OnboardingStatus = "LIVE"
)

// RequirementWeight is the contribution of each requirement flag to the
// completion percentage.
const RequirementWeight = 0.25

// RequirementFlags are the four booleans gating onboarding completion
type RequirementFlags struct {
	SurveyFilled    bool `json:"surveyFilled"`
	OffersAdded     bool `json:"offersAdded"`
	BranchesCovered bool `json:"branchesCovered"`
	AssetsComplete  bool `json:"assetsComplete"`
}

// AllMet reports whether every requirement flag is true.
func (f RequirementFlags) AllMet() bool {
	return f.SurveyFilled && f.OffersAdded && f.BranchesCovered && f.AssetsComplete
}

// CompletionPercentage returns the weighted completion score in [0,1].
func (f RequirementFlags) CompletionPercentage() float64 {
	score := 0.0
	for _, set := range []bool{f.SurveyFilled, f.OffersAdded, f.BranchesCovered, f.AssetsComplete} {
		if set {
			score += RequirementWeight
		}
	}
	return score
}

// DeriveStatus computes the onboarding status purely from the requirement
// flags, the QA verdict and the previous status. The previous status only
// matters for the QA_FAILED tie-break: once QA has failed, clearing the
// verdict back to null does not silently re-enter READY_FOR_QA.
func DeriveStatus(flags RequirementFlags, qaApproved null.Bool, current OnboardingStatus) OnboardingStatus {
	if !flags.AllMet() {
		return OnboardingInProgress
	}
	if !qaApproved.Valid {
		if current == OnboardingQAFailed {
			return OnboardingQAFailed
		}
		return OnboardingReadyForQA
	}
	if !qaApproved.Bool {
		return OnboardingQAFailed
	}
	return OnboardingLive
}

// Onboarding represents a merchant's post-Won onboarding record (1:1 with
// merchant, created when the pipeline first reaches WON). Version is bumped on
// every write and checked by the repository.
type Onboarding struct {
	ID                   uuid.UUID        `json:"id"`
	MerchantID           uuid.UUID        `json:"merchantId"`
	Flags                RequirementFlags `json:"requirements"`
	CompletionPercentage float64          `json:"completionPercentage"`
	QAApproved           null.Bool        `json:"qaApproved,omitempty"`
	Status               OnboardingStatus `json:"status"`
	LiveDate             null.Time        `json:"liveDate,omitempty"`
	Notes                null.String      `json:"notes,omitempty"`
	LastUpdatedBy        uuid.UUID        `json:"lastUpdatedBy"`
	Version              int64            `json:"version"`
	CreatedAt            time.Time        `json:"createdAt"`
	UpdatedAt            time.Time        `json:"updatedAt"`
}

// UpdateRequirementsInput patches any subset of the requirement flags plus the
// QA verdict. QAApproved is only honored for admin actors; for everyone else
// the field is dropped before status derivation.
type UpdateRequirementsInput struct {
	SurveyFilled    *bool  `json:"surveyFilled,omitempty"`
	OffersAdded     *bool  `json:"offersAdded,omitempty"`
	BranchesCovered *bool  `json:"branchesCovered,omitempty"`
	AssetsComplete  *bool  `json:"assetsComplete,omitempty"`
	QAApproved      *bool  `json:"qaApproved,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// OverrideStatusInput is the admin-only manual status override
type OverrideStatusInput struct {
	Status OnboardingStatus `json:"status" binding:"required"`
	Notes  string           `json:"notes,omitempty"`
}

// ValidOnboardingStatus reports whether s is a known onboarding status.
func ValidOnboardingStatus(s OnboardingStatus) bool {
	switch s {
	case OnboardingInProgress, OnboardingReadyForQA, OnboardingQAFailed, OnboardingLive:
		return true
	}
	return false
}
