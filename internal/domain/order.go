package domain

import "time"

type OrderStatus int

const (
	OrderNotCompleted OrderStatus = 0
	OrderCompleted    OrderStatus = 1
	OrderCanceled     OrderStatus = 2
	OrderSuspended    OrderStatus = 3
)

func (s OrderStatus) String() string {
	switch s {
	case OrderNotCompleted:
		return "NOT_COMPLETED"
	case OrderCompleted:
		return "COMPLETED"
	case OrderCanceled:
		return "CANCELED"
	case OrderSuspended:
		return "SUSPENDED"
	default:
		return "UNKNOWN"
	}
}

// CanTransitionTo encodes the order state machine. COMPLETED and CANCELED are
// terminal; SUSPENDED is reachable from NOT_COMPLETED only and may still end
// in COMPLETED or CANCELED.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	switch s {
	case OrderNotCompleted:
		return to == OrderCompleted || to == OrderCanceled || to == OrderSuspended
	case OrderSuspended:
		return to == OrderCompleted || to == OrderCanceled
	default:
		return false
	}
}

// PointSnapshot is the meeting point frozen into the order at purchase time.
type PointSnapshot struct {
	ID              int64   `json:"id"`
	ExcursionTimeID int64   `json:"excursion_time_id"`
	Address         string  `json:"address"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
}

// OrderItems is the frozen snapshot of what was bought. It never changes
// after creation, even if the excursion is edited later.
type OrderItems struct {
	Point     PointSnapshot `json:"point"`
	DateStart string        `json:"date_start"` // 2006-01-02
	TimeStart string        `json:"time_start"` // 15:04
	Languages []string      `json:"languages,omitempty"`
	Transfer  *bool         `json:"transfer,omitempty"`
}

type Order struct {
	ID             int64       `json:"id"`
	UserID         int64       `json:"user_id"`
	ExcursionID    int64       `json:"excursion_id"`
	PointID        int64       `json:"point_id"`
	NumberAdult    int         `json:"number_adult"`
	NumberChildren int         `json:"number_children"`
	Items          OrderItems  `json:"items"`
	Amount         int64       `json:"amount"`
	Currency       string      `json:"currency"`
	Status         OrderStatus `json:"status"`
	DateStart      string      `json:"date_start"` // denormalized from Items
	TimeStart      string      `json:"time_start"`
	DateFinish     time.Time   `json:"date_finish"`
	DateConfirm    *time.Time  `json:"date_confirm,omitempty"`
	EmployeeID     *int64      `json:"employee_id,omitempty"`
	Description    string      `json:"description,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	DeletedAt      *time.Time  `json:"deleted_at,omitempty"`

	Excursion   *Excursion   `json:"excursion,omitempty"`
	Transaction *Transaction `json:"transaction,omitempty"`
}

// IsConfirmed reports whether the ticket has been redeemed. date_confirm and
// employee_id are always set together.
func (o *Order) IsConfirmed() bool {
	return o.DateConfirm != nil && o.EmployeeID != nil
}
