package mykafka

import (
	"context"
	"strconv"

	"github.com/Skotchmaster/storefront/internal/service"
)

const EventOrderCreated = "order_created"

// OrderEvents publishes order lifecycle events through a Producer.
type OrderEvents struct {
	P *Producer
}

func (o *OrderEvents) PublishOrderCreated(ctx context.Context, e service.OrderCreatedEvent) error {
	return o.P.PublishEvent(ctx, EventOrderCreated, strconv.FormatUint(uint64(e.OrderID), 10), e)
}
