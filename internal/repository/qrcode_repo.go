package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"excursia/internal/domain"
)

type QrCodeRepository struct {
	db *gorm.DB
}

func NewQrCodeRepository(db *gorm.DB) *QrCodeRepository {
	return &QrCodeRepository{db: db}
}

type qrCodeModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	OrderID   int64     `gorm:"column:order_id;uniqueIndex"`
	Token     string    `gorm:"column:token;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (qrCodeModel) TableName() string { return "qr_codes" }

func (r *QrCodeRepository) Create(ctx context.Context, q *domain.QrCode) error {
	m := qrCodeModel{OrderID: q.OrderID, Token: q.Token}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return err
	}
	q.ID = m.ID
	q.CreatedAt = m.CreatedAt
	return nil
}

func (r *QrCodeRepository) GetByOrderID(ctx context.Context, orderID int64) (*domain.QrCode, error) {
	var m qrCodeModel
	tx := conn(ctx, r.db).Where("order_id = ?", orderID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &domain.QrCode{ID: m.ID, OrderID: m.OrderID, Token: m.Token, CreatedAt: m.CreatedAt}, nil
}

func (r *QrCodeRepository) GetByToken(ctx context.Context, token string) (*domain.QrCode, error) {
	var m qrCodeModel
	tx := conn(ctx, r.db).Where("token = ?", token).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &domain.QrCode{ID: m.ID, OrderID: m.OrderID, Token: m.Token, CreatedAt: m.CreatedAt}, nil
}
