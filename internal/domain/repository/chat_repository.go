package repository

import (
	"context"

	"tukarlapak/internal/domain/entity"
)

type ChatRepository interface {
	// ListRecentByOrderID returns at most limit messages from the order's
	// chat, oldest first.
	ListRecentByOrderID(ctx context.Context, orderID string, limit int) ([]*entity.ChatMessage, error)
}
