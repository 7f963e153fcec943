package entity

import (
	"time"
)

// DisputeStats are monotonically increasing aggregate counters. They are
// incremented exclusively by the dispute lifecycle and never decremented.
type DisputeStats struct {
	Opened            int `json:"opened" firestore:"opened"`
	OpenedAgainst     int `json:"opened_against" firestore:"openedAgainst"`
	Won               int `json:"won" firestore:"won"`
	Lost              int `json:"lost" firestore:"lost"`
	Rejected          int `json:"rejected" firestore:"rejected"`
	ResolvedForSeller int `json:"resolved_for_seller" firestore:"resolvedForSeller"`
}

type User struct {
	ID       string `json:"id" firestore:"id"`
	Email    string `json:"email" firestore:"email"`
	Username string `json:"username" firestore:"username"`
	Role     string `json:"role" firestore:"role"` // client, seller, admin, manager
	Status   string `json:"status" firestore:"status"`

	ReputationScore int          `json:"reputation_score" firestore:"reputationScore"`
	DisputeStats    DisputeStats `json:"dispute_stats" firestore:"disputeStats"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (u *User) CanArbitrate() bool {
	return u.Role == "admin" || u.Role == "manager"
}
