package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/domain/repository"
	"tukarlapak/pkg/errors"
)

type fakeTxRunner struct{}

func (f *fakeTxRunner) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

type fakeDisputeRepo struct {
	mu       sync.Mutex
	disputes map[string]*entity.Dispute
	byOrder  map[string]string
}

func newFakeDisputeRepo() *fakeDisputeRepo {
	return &fakeDisputeRepo{
		disputes: make(map[string]*entity.Dispute),
		byOrder:  make(map[string]string),
	}
}

func (r *fakeDisputeRepo) put(d *entity.Dispute) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	clone := *d
	r.disputes[d.ID] = &clone
	r.byOrder[d.OrderID] = d.ID
}

func (r *fakeDisputeRepo) GetByID(ctx context.Context, id string) (*entity.Dispute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.disputes[id]
	if !ok {
		return nil, errors.NotFound("Dispute", nil)
	}
	clone := *d
	return &clone, nil
}

func (r *fakeDisputeRepo) List(ctx context.Context, filter repository.DisputeFilter) ([]*entity.Dispute, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Dispute
	for _, d := range r.disputes {
		if filter.ClientID != "" && d.ClientID != filter.ClientID {
			continue
		}
		if filter.SellerID != "" && d.SellerID != filter.SellerID {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		clone := *d
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	return matched, total, nil
}

func (r *fakeDisputeRepo) TxGet(tx repository.Tx, id string) (*entity.Dispute, error) {
	return r.GetByID(context.Background(), id)
}

func (r *fakeDisputeRepo) TxCreate(tx repository.Tx, dispute *entity.Dispute) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byOrder[dispute.OrderID]; exists {
		return errors.Conflict("DISPUTE_EXISTS", "A dispute already exists for this order")
	}

	if dispute.ID == "" {
		dispute.ID = uuid.New().String()
	}
	now := time.Now()
	dispute.CreatedAt = now
	dispute.UpdatedAt = now

	clone := *dispute
	r.disputes[dispute.ID] = &clone
	r.byOrder[dispute.OrderID] = dispute.ID
	return nil
}

func (r *fakeDisputeRepo) TxSet(tx repository.Tx, dispute *entity.Dispute) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dispute.UpdatedAt = time.Now()
	clone := *dispute
	r.disputes[dispute.ID] = &clone
	return nil
}

func (r *fakeDisputeRepo) CountByClientSince(ctx context.Context, clientID string, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, d := range r.disputes {
		if d.ClientID == clientID && !d.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeDisputeRepo) CountBySellerSince(ctx context.Context, sellerID string, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, d := range r.disputes {
		if d.SellerID == sellerID && !d.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *fakeDisputeRepo) ClientOutcomeCounts(ctx context.Context, clientID string) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	terminal, won := 0, 0
	for _, d := range r.disputes {
		if d.ClientID != clientID || !d.Status.IsTerminal() {
			continue
		}
		terminal++
		if d.Status == entity.DisputeStatusResolvedClient {
			won++
		}
	}
	return terminal, won, nil
}

func (r *fakeDisputeRepo) ListOpenExpired(ctx context.Context, now time.Time) ([]*entity.Dispute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Dispute
	for _, d := range r.disputes {
		if d.Status == entity.DisputeStatusOpen && d.SellerDeadline.Before(now) {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeDisputeRepo) ListOpenNeedingReminder(ctx context.Context, now time.Time, within time.Duration) ([]*entity.Dispute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Dispute
	for _, d := range r.disputes {
		if d.Status != entity.DisputeStatusOpen || d.DeadlineReminderSentAt != nil {
			continue
		}
		if d.SellerDeadline.After(now) && !d.SellerDeadline.After(now.Add(within)) {
			clone := *d
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeDisputeRepo) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.disputes[id]
	if !ok {
		return errors.NotFound("Dispute", nil)
	}
	if d.Status != entity.DisputeStatusOpen || d.DeadlineReminderSentAt != nil {
		return repository.ErrStateChanged
	}
	stamp := at
	d.DeadlineReminderSentAt = &stamp
	d.UpdatedAt = at
	return nil
}

func (r *fakeDisputeRepo) EscalateToReview(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.disputes[id]
	if !ok {
		return errors.NotFound("Dispute", nil)
	}
	if d.Status != entity.DisputeStatusOpen {
		return repository.ErrStateChanged
	}
	stamp := at
	d.Status = entity.DisputeStatusUnderReview
	d.EscalatedAt = &stamp
	d.UpdatedAt = at
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*entity.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*entity.Order)}
}

func (r *fakeOrderRepo) put(o *entity.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *o
	r.orders[o.ID] = &clone
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	clone := *o
	return &clone, nil
}

func (r *fakeOrderRepo) TxGet(tx repository.Tx, id string) (*entity.Order, error) {
	return r.GetByID(context.Background(), id)
}

func (r *fakeOrderRepo) TxSetStatus(tx repository.Tx, id string, status entity.OrderStatus, cancelReason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return errors.NotFound("Order", nil)
	}
	o.Status = status
	if cancelReason != "" {
		o.CancelReason = cancelReason
	}
	o.UpdatedAt = time.Now()
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) put(u *entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *u
	r.users[u.ID] = &clone
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) ListAdminIDs(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, u := range r.users {
		if u.CanArbitrate() {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (r *fakeUserRepo) TxApplyDisputeDelta(tx repository.Tx, userID string, delta repository.UserDisputeDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	u.DisputeStats.Opened += delta.Opened
	u.DisputeStats.OpenedAgainst += delta.OpenedAgainst
	u.DisputeStats.Won += delta.Won
	u.DisputeStats.Lost += delta.Lost
	u.DisputeStats.Rejected += delta.Rejected
	u.DisputeStats.ResolvedForSeller += delta.ResolvedForSeller
	u.ReputationScore += delta.Reputation
	return nil
}

type fakeActionLogRepo struct {
	mu      sync.Mutex
	entries []*entity.ActionLogEntry
}

func newFakeActionLogRepo() *fakeActionLogRepo {
	return &fakeActionLogRepo{}
}

func (r *fakeActionLogRepo) Append(ctx context.Context, entry *entity.ActionLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()
	clone := *entry
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *fakeActionLogRepo) ListByDisputeID(ctx context.Context, disputeID string) ([]*entity.ActionLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ActionLogEntry
	for _, e := range r.entries {
		if e.DisputeID == disputeID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeActionLogRepo) actions(disputeID string) []entity.ActionLogAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.ActionLogAction
	for _, e := range r.entries {
		if e.DisputeID == disputeID {
			out = append(out, e.Action)
		}
	}
	return out
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *notification
	r.notifications = append(r.notifications, &clone)
	return nil
}

func (r *fakeNotificationRepo) countByType(notificationType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.notifications {
		if n.Type == notificationType {
			count++
		}
	}
	return count
}

type fakeChatRepo struct {
	mu       sync.Mutex
	messages map[string][]*entity.ChatMessage
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{messages: make(map[string][]*entity.ChatMessage)}
}

func (r *fakeChatRepo) put(orderID string, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < count; i++ {
		r.messages[orderID] = append(r.messages[orderID], &entity.ChatMessage{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			SenderID:  "user-1",
			Content:   fmt.Sprintf("message %d", i),
			CreatedAt: time.Now().Add(time.Duration(i) * time.Minute),
		})
	}
}

func (r *fakeChatRepo) ListRecentByOrderID(ctx context.Context, orderID string, limit int) ([]*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[orderID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]*entity.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}
