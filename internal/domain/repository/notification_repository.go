package repository

import (
	"context"

	"tukarlapak/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
}
