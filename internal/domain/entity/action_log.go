package entity

import (
	"time"
)

type ActionLogAction string

const (
	ActionDisputeCreated       ActionLogAction = "dispute_created"
	ActionSellerResponded      ActionLogAction = "seller_responded"
	ActionLateResponseRejected ActionLogAction = "late_response_rejected"
	ActionDeadlineReminderSent ActionLogAction = "deadline_reminder_sent"
	ActionAutoEscalated        ActionLogAction = "auto_escalated"
	ActionAdminResolved        ActionLogAction = "admin_resolved"
)

// ActionLogEntry is an immutable fact appended for every state-changing
// dispute action. Entries are never updated or deleted.
type ActionLogEntry struct {
	ID        string                 `json:"id" firestore:"id"`
	DisputeID string                 `json:"dispute_id" firestore:"disputeId"`
	OrderID   string                 `json:"order_id" firestore:"orderId"`
	ActorID   string                 `json:"actor_id,omitempty" firestore:"actorId,omitempty"` // empty for system actions
	ActorRole string                 `json:"actor_role" firestore:"actorRole"`                 // client, seller, admin, system
	Action    ActionLogAction        `json:"action" firestore:"action"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" firestore:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at" firestore:"createdAt"`
}
