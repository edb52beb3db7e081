package booking

import (
	"context"

	"excursia/internal/appconfig"
	"excursia/internal/domain"
)

type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindDuplicate(ctx context.Context, userID, excursionID, pointID int64, dateStart, timeStart string, numberAdult int) (*domain.Order, error)
}

type ExcursionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Excursion, error)
	GetTime(ctx context.Context, timeID int64) (*domain.ExcursionTime, error)
	GetTimePoint(ctx context.Context, pointID int64) (*domain.ExcursionTimePoint, error)
}

type QrCodeRepository interface {
	Create(ctx context.Context, q *domain.QrCode) error
}

// PaymentInitiator opens the payment record for a freshly created order,
// inside the caller's transaction.
type PaymentInitiator interface {
	InitiateHold(ctx context.Context, order *domain.Order, exc *domain.Excursion) (*domain.Transaction, error)
}

type ConfigSource interface {
	Snapshot() appconfig.Snapshot
}
