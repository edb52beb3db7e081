package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"excursia/internal/domain"
)

type ComplaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

type complaintModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	OrderID     int64     `gorm:"column:order_id;index"`
	UserID      int64     `gorm:"column:user_id"`
	Type        string    `gorm:"column:type"`
	Description string    `gorm:"column:description;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (complaintModel) TableName() string { return "complaints" }

func (r *ComplaintRepository) ExistsForOrder(ctx context.Context, orderID int64) (bool, error) {
	var cnt int64
	tx := conn(ctx, r.db).Model(&complaintModel{}).
		Where("order_id = ?", orderID).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

func (r *ComplaintRepository) Create(ctx context.Context, c *domain.Complaint) error {
	m := complaintModel{
		OrderID:     c.OrderID,
		UserID:      c.UserID,
		Type:        strings.ToUpper(c.Type),
		Description: c.Description,
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return err
	}
	c.ID = m.ID
	c.Type = m.Type
	c.CreatedAt = m.CreatedAt
	return nil
}
