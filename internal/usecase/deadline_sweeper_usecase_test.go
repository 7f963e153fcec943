package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tukarlapak/internal/domain/entity"
)

func newSweeperEnv(t *testing.T) (*DeadlineSweeper, *fakeDisputeRepo, *fakeActionLogRepo, time.Time) {
	t.Helper()

	disputeRepo := newFakeDisputeRepo()
	logRepo := newFakeActionLogRepo()
	userRepo := newFakeUserRepo()
	notifier := NewNotifier(newFakeNotificationRepo(), userRepo)

	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	sweeper := NewDeadlineSweeper(disputeRepo, logRepo, notifier)
	sweeper.now = func() time.Time { return now }

	return sweeper, disputeRepo, logRepo, now
}

func TestSweepSendsReminderOnce(t *testing.T) {
	sweeper, disputeRepo, logRepo, now := newSweeperEnv(t)

	disputeRepo.put(&entity.Dispute{
		ID:             "dispute-1",
		OrderID:        "order-1",
		ClientID:       "client-1",
		SellerID:       "seller-1",
		Status:         entity.DisputeStatusOpen,
		SellerDeadline: now.Add(3 * time.Hour),
	})

	result, err := sweeper.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.RemindersSent)
	assert.Equal(t, 0, result.Escalated)

	dispute, err := disputeRepo.GetByID(context.Background(), "dispute-1")
	require.NoError(t, err)
	assert.Equal(t, entity.DisputeStatusOpen, dispute.Status)
	require.NotNil(t, dispute.DeadlineReminderSentAt)
	assert.Equal(t, now, *dispute.DeadlineReminderSentAt)
	assert.Contains(t, logRepo.actions("dispute-1"), entity.ActionDeadlineReminderSent)

	// A second run finds nothing to do.
	result, err = sweeper.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.RemindersSent)
}

func TestSweepSkipsReminderOutsideLead(t *testing.T) {
	sweeper, disputeRepo, _, now := newSweeperEnv(t)

	disputeRepo.put(&entity.Dispute{
		ID:             "dispute-1",
		OrderID:        "order-1",
		ClientID:       "client-1",
		SellerID:       "seller-1",
		Status:         entity.DisputeStatusOpen,
		SellerDeadline: now.Add(12 * time.Hour),
	})

	result, err := sweeper.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.RemindersSent)
}

func TestSweepEscalatesExpired(t *testing.T) {
	sweeper, disputeRepo, logRepo, now := newSweeperEnv(t)

	disputeRepo.put(&entity.Dispute{
		ID:             "dispute-1",
		OrderID:        "order-1",
		ClientID:       "client-1",
		SellerID:       "seller-1",
		Status:         entity.DisputeStatusOpen,
		SellerDeadline: now.Add(-time.Minute),
	})

	result, err := sweeper.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Escalated)

	dispute, err := disputeRepo.GetByID(context.Background(), "dispute-1")
	require.NoError(t, err)
	assert.Equal(t, entity.DisputeStatusUnderReview, dispute.Status)
	require.NotNil(t, dispute.EscalatedAt)
	assert.Equal(t, now, *dispute.EscalatedAt)
	assert.Contains(t, logRepo.actions("dispute-1"), entity.ActionAutoEscalated)

	// Already escalated; rerun is a no-op.
	result, err = sweeper.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Escalated)
}

func TestSweepIgnoresRespondedDisputes(t *testing.T) {
	sweeper, disputeRepo, logRepo, now := newSweeperEnv(t)

	disputeRepo.put(&entity.Dispute{
		ID:             "dispute-1",
		OrderID:        "order-1",
		ClientID:       "client-1",
		SellerID:       "seller-1",
		Status:         entity.DisputeStatusSellerResponded,
		SellerDeadline: now.Add(-time.Hour),
	})

	result, err := sweeper.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.RemindersSent)
	assert.Equal(t, 0, result.Escalated)
	assert.Empty(t, logRepo.actions("dispute-1"))
}
