package models

import "time"

// OrderEvent is published after an order is fulfilled. Delivery is
// best-effort; consumers must not be a prerequisite for fulfillment.
type OrderEvent struct {
	Type              string    `json:"type"`
	OrderID           string    `json:"order_id"`
	UserID            string    `json:"user_id"`
	CheckoutSessionID string    `json:"checkout_session_id"`
	Amount            float64   `json:"amount"`
	Timestamp         time.Time `json:"timestamp"`
}
