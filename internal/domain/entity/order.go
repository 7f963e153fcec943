package entity

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusDeliveryProofSubmitted OrderStatus = "delivery_proof_submitted"
	OrderStatusDelivered              OrderStatus = "delivered"
	OrderStatusConfirmedByClient      OrderStatus = "confirmed_by_client"
	OrderStatusCompleted              OrderStatus = "completed"
	OrderStatusDisputed               OrderStatus = "disputed"
	OrderStatusCancelled              OrderStatus = "cancelled"
)

// DisputableOrderStatuses are the order statuses a dispute may be opened from.
var DisputableOrderStatuses = []OrderStatus{
	OrderStatusDeliveryProofSubmitted,
	OrderStatusDelivered,
	OrderStatusConfirmedByClient,
	OrderStatusCompleted,
}

func (s OrderStatus) Disputable() bool {
	for _, eligible := range DisputableOrderStatuses {
		if s == eligible {
			return true
		}
	}
	return false
}

// ShopSnapshot is the shop data frozen into an order line item at checkout.
type ShopSnapshot struct {
	ID      string `json:"id" firestore:"id"`
	OwnerID string `json:"owner_id" firestore:"ownerId"`
	Name    string `json:"name" firestore:"name"`
}

type OrderItem struct {
	ProductID      string        `json:"product_id" firestore:"productId"`
	ProductOwnerID string        `json:"product_owner_id,omitempty" firestore:"productOwnerId,omitempty"`
	Shop           *ShopSnapshot `json:"shop,omitempty" firestore:"shop,omitempty"`
	Title          string        `json:"title" firestore:"title"`
	Quantity       int           `json:"quantity" firestore:"quantity"`
	Price          float64       `json:"price" firestore:"price"`
}

// Order is the projection of the order aggregate this subsystem reads and
// patches. The order is mutated only as a side effect of dispute transitions.
type Order struct {
	ID      string      `json:"id" firestore:"id"`
	BuyerID string      `json:"buyer_id" firestore:"buyerId"`
	Items   []OrderItem `json:"items" firestore:"items"`
	Status  OrderStatus `json:"status" firestore:"status"`

	DeliveredAt *time.Time `json:"delivered_at,omitempty" firestore:"deliveredAt,omitempty"`

	Address    string `json:"address,omitempty" firestore:"address,omitempty"`
	City       string `json:"city,omitempty" firestore:"city,omitempty"`
	PaymentRef string `json:"payment_ref,omitempty" firestore:"paymentRef,omitempty"`

	CancelReason string `json:"cancel_reason,omitempty" firestore:"cancelReason,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// SellerID resolves the respondent from the line-item shop snapshot, falling
// back to the product owner reference. Empty when neither is present.
func (o *Order) SellerID() string {
	for _, item := range o.Items {
		if item.Shop != nil && item.Shop.OwnerID != "" {
			return item.Shop.OwnerID
		}
	}
	for _, item := range o.Items {
		if item.ProductOwnerID != "" {
			return item.ProductOwnerID
		}
	}
	return ""
}
