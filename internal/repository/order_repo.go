package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"excursia/internal/domain"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

type orderModel struct {
	ID             int64          `gorm:"column:id;primaryKey"`
	UserID         int64          `gorm:"column:user_id;index"`
	ExcursionID    int64          `gorm:"column:excursion_id;index"`
	PointID        int64          `gorm:"column:point_id"`
	NumberAdult    int            `gorm:"column:number_adult"`
	NumberChildren int            `gorm:"column:number_children"`
	Items          string         `gorm:"column:items;type:text"`
	Amount         int64          `gorm:"column:amount"`
	Currency       string         `gorm:"column:currency"`
	Status         int            `gorm:"column:status;index"`
	DateStart      string         `gorm:"column:date_start"`
	TimeStart      string         `gorm:"column:time_start"`
	DateFinish     time.Time      `gorm:"column:date_finish"`
	DateConfirm    *time.Time     `gorm:"column:date_confirm"`
	EmployeeID     *int64         `gorm:"column:employee_id"`
	Description    string         `gorm:"column:description"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (orderModel) TableName() string { return "orders" }

func toDomainOrder(m orderModel) (*domain.Order, error) {
	var items domain.OrderItems
	if m.Items != "" {
		if err := json.Unmarshal([]byte(m.Items), &items); err != nil {
			return nil, err
		}
	}

	o := &domain.Order{
		ID:             m.ID,
		UserID:         m.UserID,
		ExcursionID:    m.ExcursionID,
		PointID:        m.PointID,
		NumberAdult:    m.NumberAdult,
		NumberChildren: m.NumberChildren,
		Items:          items,
		Amount:         m.Amount,
		Currency:       m.Currency,
		Status:         domain.OrderStatus(m.Status),
		DateStart:      m.DateStart,
		TimeStart:      m.TimeStart,
		DateFinish:     m.DateFinish,
		DateConfirm:    m.DateConfirm,
		EmployeeID:     m.EmployeeID,
		Description:    m.Description,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		o.DeletedAt = &t
	}
	return o, nil
}

func toOrderModel(o *domain.Order) (orderModel, error) {
	raw, err := json.Marshal(o.Items)
	if err != nil {
		return orderModel{}, err
	}
	return orderModel{
		ID:             o.ID,
		UserID:         o.UserID,
		ExcursionID:    o.ExcursionID,
		PointID:        o.PointID,
		NumberAdult:    o.NumberAdult,
		NumberChildren: o.NumberChildren,
		Items:          string(raw),
		Amount:         o.Amount,
		Currency:       o.Currency,
		Status:         int(o.Status),
		DateStart:      o.DateStart,
		TimeStart:      o.TimeStart,
		DateFinish:     o.DateFinish,
		DateConfirm:    o.DateConfirm,
		EmployeeID:     o.EmployeeID,
		Description:    o.Description,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}, nil
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	m, err := toOrderModel(o)
	if err != nil {
		return err
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return err
	}
	o.ID = m.ID
	o.CreatedAt = m.CreatedAt
	o.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var m orderModel
	tx := conn(ctx, r.db).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainOrder(m)
}

// FindDuplicate looks for an existing, not yet completed order with the same
// purchase tuple. This read exists for the friendly error message only; the
// partial unique index idx_no_duplicate_order is what actually serializes
// concurrent attempts.
func (r *OrderRepository) FindDuplicate(ctx context.Context, userID, excursionID, pointID int64, dateStart, timeStart string, numberAdult int) (*domain.Order, error) {
	var m orderModel
	tx := conn(ctx, r.db).
		Where("user_id = ? AND excursion_id = ? AND point_id = ? AND date_start = ? AND time_start = ? AND number_adult = ?",
			userID, excursionID, pointID, dateStart, timeStart, numberAdult).
		Where("status <> ?", int(domain.OrderCompleted)).
		First(&m)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainOrder(m)
}

// UpdateStatusFrom is a compare-and-set status transition. It reports whether
// a row changed; a false result means the order was no longer in the expected
// state.
func (r *OrderRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.OrderStatus) (bool, error) {
	tx := conn(ctx, r.db).Model(&orderModel{}).
		Where("id = ? AND status = ?", id, int(from)).
		Update("status", int(to))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// SetConfirmed stamps the ticket redemption. date_confirm and employee_id are
// written in one statement so they are never set separately.
func (r *OrderRepository) SetConfirmed(ctx context.Context, id, employeeID int64, at time.Time) (bool, error) {
	tx := conn(ctx, r.db).Model(&orderModel{}).
		Where("id = ? AND date_confirm IS NULL AND employee_id IS NULL", id).
		Updates(map[string]any{
			"date_confirm": at,
			"employee_id":  employeeID,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	var rows []orderModel
	tx := conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainOrders(rows)
}

// ListSalesByPartner returns orders sold against the partner's excursions.
func (r *OrderRepository) ListSalesByPartner(ctx context.Context, partnerID int64, limit, offset int) ([]domain.Order, error) {
	var rows []orderModel
	tx := conn(ctx, r.db).
		Joins("JOIN excursions ON excursions.id = orders.excursion_id").
		Where("excursions.user_id = ?", partnerID).
		Order("orders.id DESC").
		Limit(limit).Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainOrders(rows)
}

func toDomainOrders(rows []orderModel) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(rows))
	for _, m := range rows {
		o, err := toDomainOrder(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, nil
}
