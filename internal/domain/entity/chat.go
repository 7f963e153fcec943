package entity

import (
	"time"
)

// ChatMessage is the read-only projection of the order chat used for the
// recent-message preview on dispute detail. Chat transport is out of scope.
type ChatMessage struct {
	ID        string    `json:"id" firestore:"id"`
	OrderID   string    `json:"order_id" firestore:"orderId"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	Content   string    `json:"content" firestore:"content"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
