package payment

import "errors"

var (
	ErrRefundDenied      = errors.New("refund denied")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("order not found")
	ErrNoTransaction     = errors.New("no valid transaction for order")
	ErrAlreadyConfirmed  = errors.New("ticket already redeemed")
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrExternalPayment means the gateway call failed or returned an
	// ambiguous result; the enclosing operation is rolled back entirely.
	ErrExternalPayment = errors.New("external payment failure")
)
