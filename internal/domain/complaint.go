package domain

import "time"

type Complaint struct {
	ID          int64     `json:"id"`
	OrderID     int64     `json:"order_id"`
	UserID      int64     `json:"user_id"`
	Type        string    `json:"type"` // stored upper-case
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderRefund records a refund request against an order.
type OrderRefund struct {
	ID          int64     `json:"id"`
	OrderID     int64     `json:"order_id"`
	UserID      int64     `json:"user_id"`
	Description string    `json:"description,omitempty"`
	Percent     int       `json:"percent"`
	Amount      int64     `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// QrCode is the redemption token of an order's ticket.
type QrCode struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}
