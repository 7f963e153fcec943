package entity

import (
	"time"
)

const (
	NotificationDisputeOpened    = "dispute_opened"
	NotificationDisputeResponse  = "dispute_response"
	NotificationDeadlineReminder = "dispute_deadline_reminder"
	NotificationDisputeEscalated = "dispute_escalated"
	NotificationDisputeResolved  = "dispute_resolved"
)

// Notification is a persisted lifecycle event for a single recipient. The
// delivery layer that pushes these to devices lives outside this service.
type Notification struct {
	ID          string                 `json:"id" firestore:"id"`
	RecipientID string                 `json:"recipient_id" firestore:"recipientId"`
	ActorID     string                 `json:"actor_id,omitempty" firestore:"actorId,omitempty"`
	Type        string                 `json:"type" firestore:"type"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" firestore:"metadata,omitempty"`
	Read        bool                   `json:"read" firestore:"read"`
	CreatedAt   time.Time              `json:"created_at" firestore:"createdAt"`
}
