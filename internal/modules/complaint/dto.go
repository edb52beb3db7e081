package complaint

type FileComplaintRequest struct {
	Type        string `json:"type"`
	Description string `json:"description" binding:"required"`
}

// Checks itemizes every complaint precondition so the UI can tell the buyer
// exactly which one failed.
type Checks struct {
	CheckUser       bool   `json:"check_user"`       // order belongs to the caller
	CheckTicket     bool   `json:"check_ticket"`     // ticket not redeemed yet
	CheckDate       bool   `json:"check_date"`       // deadline not passed
	ExpiredDate     string `json:"expired_date"`     // RFC 3339 deadline
	ComplaintExists bool   `json:"complaint_exists"` // one complaint per order
	CheckStatus     bool   `json:"check_status"`     // order may still be suspended
	Status          bool   `json:"status"`           // the aggregate verdict
}
