package repository

import (
	"context"

	"tukarlapak/internal/domain/entity"
)

// ActionLogRepository is append-only; no update or delete exists.
type ActionLogRepository interface {
	Append(ctx context.Context, entry *entity.ActionLogEntry) error
	// ListByDisputeID returns entries in chronological ascending order.
	ListByDisputeID(ctx context.Context, disputeID string) ([]*entity.ActionLogEntry, error)
}
