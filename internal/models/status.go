package models

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusShipped,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Deletable reports whether an order in this status may be removed.
func Deletable(status string) bool {
	return status == OrderStatusPending || status == OrderStatusCancelled
}

// Revenue statuses count towards statistics revenue.
var RevenueStatuses = []string{OrderStatusPaid, OrderStatusShipped, OrderStatusCompleted}
