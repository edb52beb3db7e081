package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"excursia/internal/domain"
)

type RefundRepository struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) *RefundRepository {
	return &RefundRepository{db: db}
}

type refundModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	OrderID     int64     `gorm:"column:order_id;index"`
	UserID      int64     `gorm:"column:user_id"`
	Description string    `gorm:"column:description;type:text"`
	Percent     int       `gorm:"column:percent"`
	Amount      int64     `gorm:"column:amount"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (refundModel) TableName() string { return "order_refunds" }

func (r *RefundRepository) Create(ctx context.Context, rec *domain.OrderRefund) error {
	m := refundModel{
		OrderID:     rec.OrderID,
		UserID:      rec.UserID,
		Description: rec.Description,
		Percent:     rec.Percent,
		Amount:      rec.Amount,
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return err
	}
	rec.ID = m.ID
	rec.CreatedAt = m.CreatedAt
	return nil
}
