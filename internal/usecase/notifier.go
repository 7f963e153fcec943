package usecase

import (
	"context"
	"time"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/domain/repository"
	"tukarlapak/pkg/logger"
)

// Notifier persists lifecycle notifications for the out-of-process delivery
// layer. Dispatch is fire-and-forget: it never blocks the caller and its
// failures never roll anything back.
type Notifier struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

func NewNotifier(notificationRepo repository.NotificationRepository, userRepo repository.UserRepository) *Notifier {
	return &Notifier{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// Fanout dispatches one notification per recipient in the background. The
// request context may already be gone when the writes run, so a detached
// context with a timeout is used instead.
func (n *Notifier) Fanout(actorID, notificationType string, metadata map[string]interface{}, recipientIDs ...string) {
	recipients := dedupe(recipientIDs)
	if len(recipients) == 0 {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		failed := 0
		for _, recipientID := range recipients {
			notification := &entity.Notification{
				RecipientID: recipientID,
				ActorID:     actorID,
				Type:        notificationType,
				Metadata:    metadata,
			}
			if err := n.notificationRepo.Create(ctx, notification); err != nil {
				failed++
				logger.Warn("Failed to deliver %s notification to %s: %v", notificationType, recipientID, err)
			}
		}

		if failed > 0 {
			logger.Warn("Notification fanout %s: %d of %d deliveries failed", notificationType, failed, len(recipients))
		}
	}()
}

// AdminRecipients resolves the admin/manager broadcast list. Failures yield
// an empty list; missing a broadcast is acceptable, blocking a transition is
// not.
func (n *Notifier) AdminRecipients(ctx context.Context) []string {
	ids, err := n.userRepo.ListAdminIDs(ctx)
	if err != nil {
		logger.Warn("Failed to resolve admin recipients: %v", err)
		return nil
	}
	return ids
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
