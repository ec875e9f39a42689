package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"merchant-crm.backend/internal/domain/entities"
)

// PipelineRepository defines pipeline data operations.
// Update is version-guarded: implementations must match the entity's Version
// against the stored row and fail with ErrConflict on a stale write.
type PipelineRepository interface {
	Create(ctx context.Context, pipeline *entities.Pipeline) error
	GetByMerchantID(ctx context.Context, merchantID uuid.UUID) (*entities.Pipeline, error)
	Update(ctx context.Context, pipeline *entities.Pipeline) error
	ListOverdueNextActions(ctx context.Context, before time.Time, limit int) ([]*entities.Pipeline, error)
}

// StageHistoryRepository defines the append-only stage transition log
type StageHistoryRepository interface {
	Append(ctx context.Context, entry *entities.StageHistoryEntry) error
	ListByMerchantID(ctx context.Context, merchantID uuid.UUID) ([]*entities.StageHistoryEntry, error)
}
