package booking

import "excursia/internal/domain"

type CreateOrderRequest struct {
	ExcursionID    int64 `json:"excursion_id" binding:"required"`
	PointID        int64 `json:"point_id" binding:"required"`
	NumberAdult    int   `json:"number_adult" binding:"gte=0"`
	NumberChildren int   `json:"number_children" binding:"gte=0"`
	// Amount is the total the buyer saw in the UI; the order is rejected if
	// the current price no longer matches it.
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description"`
	Transfer    *bool  `json:"transfer,omitempty"`
	// IgnoreRepeatOrder skips the friendly duplicate check when the buyer
	// really wants a second identical order.
	IgnoreRepeatOrder bool `json:"ignore_repeat_order"`
}

// AdmissionResult is the verdict of the booking-window check, with the
// window bounds so the UI can explain itself.
type AdmissionResult struct {
	Allowed  bool     `json:"allowed"`
	Reasons  []string `json:"reasons,omitempty"`
	OpensAt  string   `json:"opens_at"`  // RFC 3339
	ClosesAt string   `json:"closes_at"` // RFC 3339
	Amount   int64    `json:"amount"`    // current total for the requested party size
}

type OrderResponse struct {
	Order   *domain.Order `json:"order"`
	QrToken string        `json:"qr_token"`
}
