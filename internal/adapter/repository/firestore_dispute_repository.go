package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/domain/repository"
	"tukarlapak/pkg/errors"
)

const (
	disputeCollection = "disputes"
	disputeOrderIndex = "dispute_order_index"
)

type firestoreDisputeRepository struct {
	client *firestore.Client
}

func NewFirestoreDisputeRepository(client *firestore.Client) repository.DisputeRepository {
	return &firestoreDisputeRepository{
		client: client,
	}
}

func (r *firestoreDisputeRepository) GetByID(ctx context.Context, id string) (*entity.Dispute, error) {
	doc, err := r.client.Collection(disputeCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Dispute", err)
		}
		return nil, errors.Internal("Failed to get dispute", err)
	}

	var dispute entity.Dispute
	if err := doc.DataTo(&dispute); err != nil {
		return nil, errors.Internal("Failed to parse dispute data", err)
	}

	return &dispute, nil
}

func (r *firestoreDisputeRepository) List(ctx context.Context, filter repository.DisputeFilter) ([]*entity.Dispute, int64, error) {
	query := r.client.Collection(disputeCollection).Query

	if filter.ClientID != "" {
		query = query.Where("clientId", "==", filter.ClientID)
	}
	if filter.SellerID != "" {
		query = query.Where("sellerId", "==", filter.SellerID)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", string(filter.Status))
	}

	query = query.OrderBy("createdAt", firestore.Desc)

	// Get total count
	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count disputes", err)
	}
	total := int64(len(countDocs))

	// Apply pagination
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	iter := query.Documents(ctx)
	var disputes []*entity.Dispute

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate disputes", err)
		}

		var dispute entity.Dispute
		if err := doc.DataTo(&dispute); err != nil {
			return nil, 0, errors.Internal("Failed to parse dispute data", err)
		}
		disputes = append(disputes, &dispute)
	}

	return disputes, total, nil
}

func (r *firestoreDisputeRepository) TxGet(tx repository.Tx, id string) (*entity.Dispute, error) {
	doc, err := firestoreTx(tx).Get(r.client.Collection(disputeCollection).Doc(id))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Dispute", err)
		}
		return nil, errors.Internal("Failed to get dispute", err)
	}

	var dispute entity.Dispute
	if err := doc.DataTo(&dispute); err != nil {
		return nil, errors.Internal("Failed to parse dispute data", err)
	}

	return &dispute, nil
}

// TxCreate inserts the dispute together with an order-keyed marker document.
// The marker is what makes the one-dispute-per-order constraint hold: its
// existence check and create happen in the same serialized transaction, so a
// concurrent second attempt either sees the marker or fails to commit.
func (r *firestoreDisputeRepository) TxCreate(tx repository.Tx, dispute *entity.Dispute) error {
	ftx := firestoreTx(tx)

	if dispute.ID == "" {
		dispute.ID = uuid.New().String()
	}
	now := time.Now()
	dispute.CreatedAt = now
	dispute.UpdatedAt = now

	indexRef := r.client.Collection(disputeOrderIndex).Doc(dispute.OrderID)
	_, err := ftx.Get(indexRef)
	if err == nil {
		return errors.Conflict("DISPUTE_EXISTS", "A dispute already exists for this order")
	}
	if status.Code(err) != codes.NotFound {
		return errors.Internal("Failed to check dispute uniqueness", err)
	}

	if err := ftx.Create(indexRef, map[string]interface{}{
		"disputeId": dispute.ID,
		"orderId":   dispute.OrderID,
		"createdAt": now,
	}); err != nil {
		return errors.Internal("Failed to create dispute index", err)
	}

	if err := ftx.Create(r.client.Collection(disputeCollection).Doc(dispute.ID), dispute); err != nil {
		return errors.Internal("Failed to create dispute", err)
	}

	return nil
}

func (r *firestoreDisputeRepository) TxSet(tx repository.Tx, dispute *entity.Dispute) error {
	dispute.UpdatedAt = time.Now()

	if err := firestoreTx(tx).Set(r.client.Collection(disputeCollection).Doc(dispute.ID), dispute); err != nil {
		return errors.Internal("Failed to update dispute", err)
	}

	return nil
}

func (r *firestoreDisputeRepository) CountByClientSince(ctx context.Context, clientID string, since time.Time) (int, error) {
	return r.countSince(ctx, "clientId", clientID, since)
}

func (r *firestoreDisputeRepository) CountBySellerSince(ctx context.Context, sellerID string, since time.Time) (int, error) {
	return r.countSince(ctx, "sellerId", sellerID, since)
}

func (r *firestoreDisputeRepository) countSince(ctx context.Context, field, value string, since time.Time) (int, error) {
	docs, err := r.client.Collection(disputeCollection).
		Where(field, "==", value).
		Where("createdAt", ">=", since).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count disputes", err)
	}
	return len(docs), nil
}

func (r *firestoreDisputeRepository) ClientOutcomeCounts(ctx context.Context, clientID string) (int, int, error) {
	iter := r.client.Collection(disputeCollection).
		Where("clientId", "==", clientID).
		Documents(ctx)
	defer iter.Stop()

	terminal := 0
	won := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, 0, errors.Internal("Failed to iterate client disputes", err)
		}

		var dispute entity.Dispute
		if err := doc.DataTo(&dispute); err != nil {
			return 0, 0, errors.Internal("Failed to parse dispute data", err)
		}

		if dispute.Status.IsTerminal() {
			terminal++
			if dispute.Status == entity.DisputeStatusResolvedClient {
				won++
			}
		}
	}

	return terminal, won, nil
}

func (r *firestoreDisputeRepository) ListOpenExpired(ctx context.Context, now time.Time) ([]*entity.Dispute, error) {
	query := r.client.Collection(disputeCollection).
		Where("status", "==", string(entity.DisputeStatusOpen)).
		Where("sellerDeadline", "<", now)

	return r.collect(ctx, query)
}

func (r *firestoreDisputeRepository) ListOpenNeedingReminder(ctx context.Context, now time.Time, within time.Duration) ([]*entity.Dispute, error) {
	query := r.client.Collection(disputeCollection).
		Where("status", "==", string(entity.DisputeStatusOpen)).
		Where("deadlineReminderSentAt", "==", nil).
		Where("sellerDeadline", ">", now).
		Where("sellerDeadline", "<=", now.Add(within))

	return r.collect(ctx, query)
}

func (r *firestoreDisputeRepository) collect(ctx context.Context, query firestore.Query) ([]*entity.Dispute, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var disputes []*entity.Dispute
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate disputes", err)
		}

		var dispute entity.Dispute
		if err := doc.DataTo(&dispute); err != nil {
			return nil, errors.Internal("Failed to parse dispute data", err)
		}
		disputes = append(disputes, &dispute)
	}

	return disputes, nil
}

// MarkReminderSent stamps the reminder atomically, guarded by status = OPEN
// and reminder-not-yet-sent so concurrent sweeps send at most once.
func (r *firestoreDisputeRepository) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docRef := r.client.Collection(disputeCollection).Doc(id)
		doc, err := tx.Get(docRef)
		if err != nil {
			return err
		}

		var dispute entity.Dispute
		if err := doc.DataTo(&dispute); err != nil {
			return err
		}

		if dispute.Status != entity.DisputeStatusOpen || dispute.DeadlineReminderSentAt != nil {
			return repository.ErrStateChanged
		}

		return tx.Update(docRef, []firestore.Update{
			{Path: "deadlineReminderSentAt", Value: at},
			{Path: "updatedAt", Value: at},
		})
	})
}

// EscalateToReview moves OPEN to UNDER_REVIEW, guarded by status = OPEN so a
// concurrent seller response wins the race.
func (r *firestoreDisputeRepository) EscalateToReview(ctx context.Context, id string, at time.Time) error {
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docRef := r.client.Collection(disputeCollection).Doc(id)
		doc, err := tx.Get(docRef)
		if err != nil {
			return err
		}

		var dispute entity.Dispute
		if err := doc.DataTo(&dispute); err != nil {
			return err
		}

		if dispute.Status != entity.DisputeStatusOpen {
			return repository.ErrStateChanged
		}

		return tx.Update(docRef, []firestore.Update{
			{Path: "status", Value: string(entity.DisputeStatusUnderReview)},
			{Path: "escalatedAt", Value: at},
			{Path: "updatedAt", Value: at},
		})
	})
}
