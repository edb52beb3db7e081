package complaint

import (
	"context"

	"excursia/internal/domain"
)

type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to domain.OrderStatus) (bool, error)
}

type ComplaintRepository interface {
	Create(ctx context.Context, c *domain.Complaint) error
	ExistsForOrder(ctx context.Context, orderID int64) (bool, error)
}
