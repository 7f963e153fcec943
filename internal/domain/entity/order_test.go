package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusDisputable(t *testing.T) {
	assert.True(t, OrderStatusDelivered.Disputable())
	assert.True(t, OrderStatusCompleted.Disputable())
	assert.True(t, OrderStatusDeliveryProofSubmitted.Disputable())
	assert.True(t, OrderStatusConfirmedByClient.Disputable())
	assert.False(t, OrderStatusDisputed.Disputable())
	assert.False(t, OrderStatusCancelled.Disputable())
}

func TestOrderSellerID(t *testing.T) {
	order := &Order{Items: []OrderItem{
		{ProductID: "p1", Shop: &ShopSnapshot{ID: "shop-1", OwnerID: "seller-1"}},
		{ProductID: "p2", ProductOwnerID: "seller-2"},
	}}
	assert.Equal(t, "seller-1", order.SellerID())

	// Falls back to the product owner when no shop snapshot carries an owner.
	order = &Order{Items: []OrderItem{
		{ProductID: "p1", Shop: &ShopSnapshot{ID: "shop-1"}},
		{ProductID: "p2", ProductOwnerID: "seller-2"},
	}}
	assert.Equal(t, "seller-2", order.SellerID())

	order = &Order{Items: []OrderItem{{ProductID: "p1"}}}
	assert.Equal(t, "", order.SellerID())
}
