package models

import "time"

type OrderStatus string

const (
	OrderStatusOrdered          OrderStatus = "ordered"
	OrderStatusPaymentCompleted OrderStatus = "payment_completed"
	OrderStatusStarted          OrderStatus = "started"
	OrderStatusDelivered        OrderStatus = "delivered"
)

type Order struct {
	ID                string         `json:"id"`
	UserID            string         `json:"userId"`
	Products          []OrderProduct `json:"products"`
	SalonID           string         `json:"salonId"`
	SalonName         string         `json:"salonName"`
	TotalAmount       float64        `json:"totalAmount"`
	Status            OrderStatus    `json:"status"`
	PaymentScreenshot string         `json:"paymentScreenshot,omitempty"`
	TrackingLink      string         `json:"trackingLink,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
}

// OrderProduct is a snapshot of a cart line at the time the order was placed.
type OrderProduct struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

// orderStatusRank orders the fulfilment pipeline. Orders only ever move forward.
var orderStatusRank = map[OrderStatus]int{
	OrderStatusOrdered:          0,
	OrderStatusPaymentCompleted: 1,
	OrderStatusStarted:          2,
	OrderStatusDelivered:        3,
}

// IsValid reports whether s is a known order status.
func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// Before reports whether s comes strictly earlier in the pipeline than other.
func (s OrderStatus) Before(other OrderStatus) bool {
	a, okA := orderStatusRank[s]
	b, okB := orderStatusRank[other]
	return okA && okB && a < b
}

// IsForwardOrderTransition checks that moving from one status to another advances the order.
func IsForwardOrderTransition(from, to OrderStatus) bool {
	return from.Before(to)
}
