package repository

import (
	"context"
	"time"

	"tukarlapak/internal/domain/entity"
)

type DisputeFilter struct {
	ClientID string
	SellerID string
	Status   entity.DisputeStatus
	Limit    int
	Offset   int
}

type DisputeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Dispute, error)
	List(ctx context.Context, filter DisputeFilter) ([]*entity.Dispute, int64, error)

	// TxGet reads a dispute inside a running transaction.
	TxGet(tx Tx, id string) (*entity.Dispute, error)
	// TxCreate inserts a dispute and its order-uniqueness marker. Returns a
	// DISPUTE_EXISTS conflict when a dispute already exists for the order.
	TxCreate(tx Tx, dispute *entity.Dispute) error
	// TxSet overwrites a dispute read earlier in the same transaction.
	TxSet(tx Tx, dispute *entity.Dispute) error

	// Abuse-signal and quota inputs.
	CountByClientSince(ctx context.Context, clientID string, since time.Time) (int, error)
	CountBySellerSince(ctx context.Context, sellerID string, since time.Time) (int, error)
	// ClientOutcomeCounts returns how many of the client's disputes are
	// terminal and how many of those resolved in the client's favor.
	ClientOutcomeCounts(ctx context.Context, clientID string) (terminal int, won int, err error)

	// Deadline sweep candidates.
	ListOpenExpired(ctx context.Context, now time.Time) ([]*entity.Dispute, error)
	ListOpenNeedingReminder(ctx context.Context, now time.Time, within time.Duration) ([]*entity.Dispute, error)

	// Guarded single-document transitions. Both return ErrStateChanged when
	// the guard no longer holds, which is the sole concurrency-correctness
	// mechanism for the sweep.
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
	EscalateToReview(ctx context.Context, id string, at time.Time) error
}
