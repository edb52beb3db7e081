package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"excursia/internal/domain"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

type transactionModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	OrderID        int64     `gorm:"column:order_id;index"`
	Status         int       `gorm:"column:status"`
	Amount         int64     `gorm:"column:amount"`
	Currency       string    `gorm:"column:currency"`
	GatewayRef     string    `gorm:"column:gateway_ref"`
	IdempotencyKey string    `gorm:"column:idempotency_key;uniqueIndex"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (transactionModel) TableName() string { return "transactions" }

func toDomainTransaction(m transactionModel) *domain.Transaction {
	return &domain.Transaction{
		ID:             m.ID,
		OrderID:        m.OrderID,
		Status:         domain.TransactionStatus(m.Status),
		Amount:         m.Amount,
		Currency:       m.Currency,
		GatewayRef:     m.GatewayRef,
		IdempotencyKey: m.IdempotencyKey,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	m := transactionModel{
		OrderID:        t.OrderID,
		Status:         int(t.Status),
		Amount:         t.Amount,
		Currency:       t.Currency,
		GatewayRef:     t.GatewayRef,
		IdempotencyKey: t.IdempotencyKey,
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return err
	}
	t.ID = m.ID
	t.CreatedAt = m.CreatedAt
	t.UpdatedAt = m.UpdatedAt
	return nil
}

// LatestValidForOrder returns the newest transaction of the order that is
// neither failed nor already in a refund, i.e. the one a confirmation or
// refund should settle against.
func (r *TransactionRepository) LatestValidForOrder(ctx context.Context, orderID int64) (*domain.Transaction, error) {
	var m transactionModel
	tx := conn(ctx, r.db).
		Where("order_id = ?", orderID).
		Where("status NOT IN ?", []int{int(domain.TxFailed), int(domain.TxRefundRequested)}).
		Order("id DESC").
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainTransaction(m), nil
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, id int64, status domain.TransactionStatus) error {
	return conn(ctx, r.db).Model(&transactionModel{}).
		Where("id = ?", id).
		Update("status", int(status)).Error
}

func (r *TransactionRepository) SetGatewayRef(ctx context.Context, id int64, ref string) error {
	return conn(ctx, r.db).Model(&transactionModel{}).
		Where("id = ?", id).
		Update("gateway_ref", ref).Error
}
