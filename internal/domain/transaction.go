package domain

import "time"

// TransactionStatus follows the payment record numbering of the billing
// system the platform settles against.
type TransactionStatus int

const (
	TxCreated         TransactionStatus = 0
	TxPending         TransactionStatus = 1
	TxHolding         TransactionStatus = 2 // funds authorized, not captured
	TxConfirmed       TransactionStatus = 3 // funds captured
	TxFinished        TransactionStatus = 4 // settled to the partner
	TxRefundRequested TransactionStatus = 5
	TxFailed          TransactionStatus = 6
)

func (s TransactionStatus) String() string {
	switch s {
	case TxCreated:
		return "CREATED"
	case TxPending:
		return "PENDING"
	case TxHolding:
		return "HOLDING"
	case TxConfirmed:
		return "CONFIRMED"
	case TxFinished:
		return "FINISHED"
	case TxRefundRequested:
		return "REFUND_REQUESTED"
	case TxFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Transaction is the payment record of an order, 1:1.
type Transaction struct {
	ID             int64             `json:"id"`
	OrderID        int64             `json:"order_id"`
	Status         TransactionStatus `json:"status"`
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	GatewayRef     string            `json:"gateway_ref,omitempty"` // hold or capture reference
	IdempotencyKey string            `json:"-"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (t *Transaction) IsHolding() bool {
	return t.Status == TxHolding
}

// Refundable reports whether a refund may still be requested for this
// transaction: funds are either held or captured and not yet returned.
func (t *Transaction) Refundable() bool {
	return t.Status == TxHolding || t.Status == TxConfirmed
}

// Valid reports whether the transaction still represents money movement that
// a confirmation may settle.
func (t *Transaction) Valid() bool {
	return t.Status != TxFailed && t.Status != TxRefundRequested
}
