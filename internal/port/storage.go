package port

import (
	"context"

	"github.com/bnema/shrink/internal/domain"
)

type RunRecorder interface {
	StartRun(ctx context.Context, r *domain.RunRecord) error
	FinishRun(ctx context.Context, r *domain.RunRecord) error
	ListRuns(ctx context.Context, limit int) ([]*domain.RunRecord, error)
}
