package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/domain/repository"
	"tukarlapak/pkg/errors"
)

const actionLogCollection = "dispute_action_logs"

type firestoreActionLogRepository struct {
	client *firestore.Client
}

func NewFirestoreActionLogRepository(client *firestore.Client) repository.ActionLogRepository {
	return &firestoreActionLogRepository{
		client: client,
	}
}

func (r *firestoreActionLogRepository) Append(ctx context.Context, entry *entity.ActionLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()

	_, err := r.client.Collection(actionLogCollection).Doc(entry.ID).Create(ctx, entry)
	if err != nil {
		return errors.Internal("Failed to append action log entry", err)
	}

	return nil
}

func (r *firestoreActionLogRepository) ListByDisputeID(ctx context.Context, disputeID string) ([]*entity.ActionLogEntry, error) {
	query := r.client.Collection(actionLogCollection).
		Where("disputeId", "==", disputeID).
		OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var entries []*entity.ActionLogEntry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate action log entries", err)
		}

		var entry entity.ActionLogEntry
		if err := doc.DataTo(&entry); err != nil {
			return nil, errors.Internal("Failed to parse action log entry", err)
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}
