package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Stage represents a pipeline sales stage
type Stage string

const (
	StagePendingFirstVisit Stage = "PENDING_FIRST_VISIT"
	StageFollowUpNeeded    Stage = "FOLLOW_UP_NEEDED"
	StageContractSent      Stage = "CONTRACT_SENT"
	StageWon               Stage = "WON"
	StageRejected          Stage = "REJECTED"
)

// stageTransitions is the directed transition graph. REJECTED is terminal and
// reachable from every other stage; the only back-edge is CONTRACT_SENT back to
// FOLLOW_UP_NEEDED.
var stageTransitions = map[Stage][]Stage{
	StagePendingFirstVisit: {StageFollowUpNeeded, StageRejected},
	StageFollowUpNeeded:    {StageContractSent, StageRejected},
	StageContractSent:      {StageWon, StageFollowUpNeeded, StageRejected},
	StageWon:               {StageRejected},
	StageRejected:          {},
}

// ValidStage reports whether s is a known pipeline stage.
func ValidStage(s Stage) bool {
	_, ok := stageTransitions[s]
	return ok
}

// AllowedTransitions returns the stages reachable from the given stage.
func AllowedTransitions(from Stage) []Stage {
	allowed := stageTransitions[from]
	out := make([]Stage, len(allowed))
	copy(out, allowed)
	return out
}

// CanTransition reports whether the stage graph permits from -> to.
func CanTransition(from, to Stage) bool {
	for _, s := range stageTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Pipeline represents a merchant's sales-stage record (1:1 with merchant).
// Version is bumped on every write and checked by the repository to reject
// stale read-then-write updates.
type Pipeline struct {
	ID                    uuid.UUID   `json:"id"`
	MerchantID            uuid.UUID   `json:"merchantId"`
	CurrentStage          Stage       `json:"currentStage"`
	NextActionDescription null.String `json:"nextActionDescription,omitempty"`
	NextActionDate        null.Time   `json:"nextActionDate,omitempty"`
	LastUpdatedBy         uuid.UUID   `json:"lastUpdatedBy"`
	Version               int64       `json:"version"`
	CreatedAt             time.Time   `json:"createdAt"`
	UpdatedAt             time.Time   `json:"updatedAt"`
}

// StageHistoryEntry is an append-only record of a single stage transition
type StageHistoryEntry struct {
	ID            uuid.UUID   `json:"id"`
	PipelineID    uuid.UUID   `json:"pipelineId"`
	MerchantID    uuid.UUID   `json:"merchantId"`
	FromStage     Stage       `json:"fromStage"`
	ToStage       Stage       `json:"toStage"`
	ChangedBy     uuid.UUID   `json:"changedBy"`
	Note          null.String `json:"note,omitempty"`
	TransitionedAt time.Time  `json:"transitionedAt"`
}

// TransitionStageInput represents input for a stage transition
type TransitionStageInput struct {
	Stage                 Stage      `json:"stage" binding:"required"`
	Notes                 string     `json:"notes,omitempty"`
	NextActionDescription string     `json:"nextActionDescription,omitempty"`
	NextActionDate        *time.Time `json:"nextActionDate,omitempty"`
}

// UpdateNextActionInput represents input for updating the planned next action
type UpdateNextActionInput struct {
	NextActionDescription string     `json:"nextActionDescription" binding:"required"`
	NextActionDate        *time.Time `json:"nextActionDate,omitempty"`
}
