package payment

import (
	"context"
	"time"

	"excursia/internal/appconfig"
	"excursia/internal/domain"
)

// Gateway is the abstract payment processor capability. Every call carries an
// idempotency key; the gateway's own wire protocol is out of scope here.
type Gateway interface {
	// Hold authorizes the amount without transferring it.
	Hold(ctx context.Context, orderRef string, amount int64, idempotencyKey string) (holdRef string, err error)
	// Capture converts a hold into an actual funds transfer.
	Capture(ctx context.Context, holdRef string, amount int64, idempotencyKey string) (captureRef string, err error)
	// CancelHold releases an unsettled hold in full.
	CancelHold(ctx context.Context, holdRef string, idempotencyKey string) error
	// Refund returns amount against a captured transaction.
	Refund(ctx context.Context, transactionRef string, amount int64, description, idempotencyKey string) (refundRef string, err error)
}

type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to domain.OrderStatus) (bool, error)
	SetConfirmed(ctx context.Context, id, employeeID int64, at time.Time) (bool, error)
}

type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	LatestValidForOrder(ctx context.Context, orderID int64) (*domain.Transaction, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TransactionStatus) error
	SetGatewayRef(ctx context.Context, id int64, ref string) error
}

type RefundRepository interface {
	Create(ctx context.Context, r *domain.OrderRefund) error
}

// ConfigSource yields the current platform configuration snapshot.
type ConfigSource interface {
	Snapshot() appconfig.Snapshot
}
