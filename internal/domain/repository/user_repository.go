package repository

import (
	"context"

	"tukarlapak/internal/domain/entity"
)

// UserDisputeDelta is a set of counter increments applied atomically with a
// dispute transition. All values are added; Reputation may be negative for
// the one-time penalty on a losing seller.
type UserDisputeDelta struct {
	Opened            int
	OpenedAgainst     int
	Won               int
	Lost              int
	Rejected          int
	ResolvedForSeller int
	Reputation        int
}

func (d UserDisputeDelta) IsZero() bool {
	return d == UserDisputeDelta{}
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// ListAdminIDs returns the broadcast list of users with arbitration
	// capability (admin and manager roles).
	ListAdminIDs(ctx context.Context) ([]string, error)

	TxApplyDisputeDelta(tx Tx, userID string, delta UserDisputeDelta) error
}
