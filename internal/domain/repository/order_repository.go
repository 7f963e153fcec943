package repository

import (
	"context"

	"tukarlapak/internal/domain/entity"
)

type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Order, error)

	TxGet(tx Tx, id string) (*entity.Order, error)
	// TxSetStatus patches the order status (and cancel reason when moving to
	// cancelled). Eligibility is re-checked by the caller on the copy read in
	// the same transaction; the store aborts on concurrent modification.
	TxSetStatus(tx Tx, id string, status entity.OrderStatus, cancelReason string) error
}
