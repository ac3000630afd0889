package service

import (
	"context"
	"time"
)

type OrderItemEvent struct {
	ProductID uint  `json:"product_id"`
	Quantity  int   `json:"quantity"`
	Price     int64 `json:"price"`
}

type OrderCreatedEvent struct {
	OrderID       uint             `json:"order_id"`
	UserID        uint             `json:"user_id"`
	UserAddressID uint             `json:"user_address_id"`
	Status        string           `json:"status"`
	TotalPrice    int64            `json:"total_price"`
	Items         []OrderItemEvent `json:"items"`
	CreatedAt     time.Time        `json:"created_at"`
}

type EventBus interface {
	PublishOrderCreated(ctx context.Context, e OrderCreatedEvent) error
}

type NopEventBus struct{}

func (NopEventBus) PublishOrderCreated(context.Context, OrderCreatedEvent) error { return nil }
