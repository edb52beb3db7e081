package payment

// CanRefundResult mirrors what the UI shows before a buyer requests a
// refund.
type CanRefundResult struct {
	Status        bool   `json:"status"`
	NoPenaltyDate string `json:"no_penalty_date"` // 02.01.2006
	Percent       int    `json:"percent"`
}

type RefundRequest struct {
	Description string `json:"description"`
}
