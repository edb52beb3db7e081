package order

import (
	"context"

	"excursia/internal/appconfig"
	"excursia/internal/domain"
)

type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error)
	ListSalesByPartner(ctx context.Context, partnerID int64, limit, offset int) ([]domain.Order, error)
}

type QrCodeRepository interface {
	GetByToken(ctx context.Context, token string) (*domain.QrCode, error)
	GetByOrderID(ctx context.Context, orderID int64) (*domain.QrCode, error)
}

type ExcursionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Excursion, error)
}

// Confirmer settles an order on ticket redemption.
type Confirmer interface {
	ConfirmAndCapture(ctx context.Context, orderID, employeeID int64) (*domain.Order, error)
}

type ConfigSource interface {
	Snapshot() appconfig.Snapshot
}
