package usecase

import (
	"context"
	"errors"
	"time"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/domain/repository"
	"tukarlapak/pkg/logger"
)

// sellerReminderLead is how far ahead of the response deadline the seller is
// reminded.
const sellerReminderLead = 6 * time.Hour

type SweepResult struct {
	RemindersSent int `json:"reminders_sent"`
	Escalated     int `json:"escalated"`
}

// DeadlineSweeper applies time-driven dispute transitions: a reminder shortly
// before the seller deadline and escalation to admin review once it passes.
// Run is idempotent and safe to call concurrently from any number of request
// handlers; the guarded conditional updates in the repository are the sole
// concurrency mechanism.
type DeadlineSweeper struct {
	disputeRepo repository.DisputeRepository
	logRepo     repository.ActionLogRepository
	notifier    *Notifier

	now func() time.Time
}

func NewDeadlineSweeper(
	disputeRepo repository.DisputeRepository,
	logRepo repository.ActionLogRepository,
	notifier *Notifier,
) *DeadlineSweeper {
	return &DeadlineSweeper{
		disputeRepo: disputeRepo,
		logRepo:     logRepo,
		notifier:    notifier,
		now:         time.Now,
	}
}

func (s *DeadlineSweeper) Run(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	now := s.now()

	// Reminder pass
	candidates, err := s.disputeRepo.ListOpenNeedingReminder(ctx, now, sellerReminderLead)
	if err != nil {
		return result, err
	}

	for _, dispute := range candidates {
		err := s.disputeRepo.MarkReminderSent(ctx, dispute.ID, now)
		if errors.Is(err, repository.ErrStateChanged) {
			continue // another sweep or a seller response got there first
		}
		if err != nil {
			logger.Warn("Failed to mark deadline reminder for dispute %s: %v", dispute.ID, err)
			continue
		}
		result.RemindersSent++

		s.appendLog(ctx, dispute, entity.ActionDeadlineReminderSent, map[string]interface{}{
			"seller_deadline": dispute.SellerDeadline,
		})
		s.notifier.Fanout("", entity.NotificationDeadlineReminder, map[string]interface{}{
			"dispute_id":      dispute.ID,
			"order_id":        dispute.OrderID,
			"seller_deadline": dispute.SellerDeadline,
		}, dispute.SellerID)
	}

	// Escalation pass
	expired, err := s.disputeRepo.ListOpenExpired(ctx, now)
	if err != nil {
		return result, err
	}

	for _, dispute := range expired {
		err := s.disputeRepo.EscalateToReview(ctx, dispute.ID, now)
		if errors.Is(err, repository.ErrStateChanged) {
			continue // a concurrent seller response wins the race
		}
		if err != nil {
			logger.Warn("Failed to escalate dispute %s: %v", dispute.ID, err)
			continue
		}
		result.Escalated++

		s.appendLog(ctx, dispute, entity.ActionAutoEscalated, map[string]interface{}{
			"seller_deadline": dispute.SellerDeadline,
		})

		recipients := append(s.notifier.AdminRecipients(ctx), dispute.ClientID, dispute.SellerID)
		s.notifier.Fanout("", entity.NotificationDisputeEscalated, map[string]interface{}{
			"dispute_id": dispute.ID,
			"order_id":   dispute.OrderID,
		}, recipients...)
	}

	return result, nil
}

// StartJob runs the sweep on a fixed cadence so disputes do not sit past
// their deadline on quiet traffic. Correctness never depends on the cadence;
// Run is also invoked inline at the top of every dispute request.
func (s *DeadlineSweeper) StartJob(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)

	go func() {
		for {
			select {
			case <-ticker.C:
				if _, err := s.Run(ctx); err != nil {
					logger.Error("Deadline sweep job error: %v", err)
				}
			case <-ctx.Done():
				ticker.Stop()
				return
			}
		}
	}()

	logger.Info("Deadline sweep job started (checking every 10 minutes)")
}

func (s *DeadlineSweeper) appendLog(ctx context.Context, dispute *entity.Dispute, action entity.ActionLogAction, metadata map[string]interface{}) {
	entry := &entity.ActionLogEntry{
		DisputeID: dispute.ID,
		OrderID:   dispute.OrderID,
		ActorRole: "system",
		Action:    action,
		Metadata:  metadata,
	}
	if err := s.logRepo.Append(ctx, entry); err != nil {
		logger.Warn("Failed to append %s log for dispute %s: %v", action, dispute.ID, err)
	}
}
