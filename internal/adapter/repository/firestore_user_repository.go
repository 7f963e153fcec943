package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/domain/repository"
	"tukarlapak/pkg/errors"
)

const userCollection = "users"

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection(userCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}

	return &user, nil
}

func (r *firestoreUserRepository) ListAdminIDs(ctx context.Context) ([]string, error) {
	iter := r.client.Collection(userCollection).
		Where("role", "in", []string{"admin", "manager"}).
		Documents(ctx)
	defer iter.Stop()

	var ids []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate admin users", err)
		}
		ids = append(ids, doc.Ref.ID)
	}

	return ids, nil
}

// TxApplyDisputeDelta increments the user's dispute counters and reputation
// score with server-side increments, so concurrent transitions never lose
// updates. Counters only ever grow; Reputation is the single signed field.
func (r *firestoreUserRepository) TxApplyDisputeDelta(tx repository.Tx, userID string, delta repository.UserDisputeDelta) error {
	if delta.IsZero() {
		return nil
	}

	var updates []firestore.Update
	add := func(path string, n int) {
		if n != 0 {
			updates = append(updates, firestore.Update{Path: path, Value: firestore.Increment(n)})
		}
	}

	add("disputeStats.opened", delta.Opened)
	add("disputeStats.openedAgainst", delta.OpenedAgainst)
	add("disputeStats.won", delta.Won)
	add("disputeStats.lost", delta.Lost)
	add("disputeStats.rejected", delta.Rejected)
	add("disputeStats.resolvedForSeller", delta.ResolvedForSeller)
	add("reputationScore", delta.Reputation)
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now()})

	if err := firestoreTx(tx).Update(r.client.Collection(userCollection).Doc(userID), updates); err != nil {
		return errors.Internal("Failed to update user counters", err)
	}

	return nil
}
