package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"excursia/internal/domain"
)

type ExcursionRepository struct {
	db *gorm.DB
}

func NewExcursionRepository(db *gorm.DB) *ExcursionRepository {
	return &ExcursionRepository{db: db}
}

type excursionModel struct {
	ID            int64          `gorm:"column:id;primaryKey"`
	UserID        int64          `gorm:"column:user_id;index"`
	Name          string         `gorm:"column:name"`
	Type          string         `gorm:"column:type"`
	Subtype       string         `gorm:"column:subtype"`
	PriceAdult    int64          `gorm:"column:price_adult"`
	PriceChildren int64          `gorm:"column:price_children"`
	Props         string         `gorm:"column:props;type:text"`
	Status        string         `gorm:"column:status"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (excursionModel) TableName() string { return "excursions" }

type excursionTimeModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	ExcursionID int64     `gorm:"column:excursion_id;index"`
	Date        string    `gorm:"column:date"`
	Start       string    `gorm:"column:start"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (excursionTimeModel) TableName() string { return "excursion_times" }

type excursionTimePointModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	ExcursionID     int64     `gorm:"column:excursion_id;index"`
	ExcursionTimeID int64     `gorm:"column:excursion_time_id;index"`
	Address         string    `gorm:"column:address"`
	Lat             float64   `gorm:"column:lat"`
	Lng             float64   `gorm:"column:lng"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (excursionTimePointModel) TableName() string { return "excursion_time_points" }

func toDomainExcursion(m excursionModel) (*domain.Excursion, error) {
	var props domain.ExcursionProps
	if m.Props != "" {
		if err := json.Unmarshal([]byte(m.Props), &props); err != nil {
			return nil, err
		}
	}

	e := &domain.Excursion{
		ID:            m.ID,
		UserID:        m.UserID,
		Name:          m.Name,
		Type:          domain.ExcursionType(m.Type),
		Subtype:       domain.ExcursionSubtype(m.Subtype),
		PriceAdult:    m.PriceAdult,
		PriceChildren: m.PriceChildren,
		Props:         props,
		Status:        domain.ExcursionStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		e.DeletedAt = &t
	}
	return e, nil
}

func toExcursionModel(e *domain.Excursion) (excursionModel, error) {
	raw, err := json.Marshal(e.Props)
	if err != nil {
		return excursionModel{}, err
	}
	return excursionModel{
		ID:            e.ID,
		UserID:        e.UserID,
		Name:          e.Name,
		Type:          string(e.Type),
		Subtype:       string(e.Subtype),
		PriceAdult:    e.PriceAdult,
		PriceChildren: e.PriceChildren,
		Props:         string(raw),
		Status:        string(e.Status),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}, nil
}

func (r *ExcursionRepository) GetByID(ctx context.Context, id int64) (*domain.Excursion, error) {
	var m excursionModel
	tx := conn(ctx, r.db).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainExcursion(m)
}

func (r *ExcursionRepository) Create(ctx context.Context, e *domain.Excursion) error {
	m, err := toExcursionModel(e)
	if err != nil {
		return err
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return err
	}
	e.ID = m.ID
	e.CreatedAt = m.CreatedAt
	e.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ExcursionRepository) CreateTime(ctx context.Context, t *domain.ExcursionTime) error {
	m := excursionTimeModel{
		ExcursionID: t.ExcursionID,
		Date:        t.Date,
		Start:       t.Start,
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return err
	}
	t.ID = m.ID
	t.CreatedAt = m.CreatedAt
	return nil
}

func (r *ExcursionRepository) CreatePoint(ctx context.Context, p *domain.ExcursionTimePoint) error {
	m := excursionTimePointModel{
		ExcursionID:     p.ExcursionID,
		ExcursionTimeID: p.ExcursionTimeID,
		Address:         p.Address,
		Lat:             p.Lat,
		Lng:             p.Lng,
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return err
	}
	p.ID = m.ID
	p.CreatedAt = m.CreatedAt
	return nil
}

func (r *ExcursionRepository) GetTimePoint(ctx context.Context, pointID int64) (*domain.ExcursionTimePoint, error) {
	var m excursionTimePointModel
	tx := conn(ctx, r.db).First(&m, pointID)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &domain.ExcursionTimePoint{
		ID:              m.ID,
		ExcursionID:     m.ExcursionID,
		ExcursionTimeID: m.ExcursionTimeID,
		Address:         m.Address,
		Lat:             m.Lat,
		Lng:             m.Lng,
		CreatedAt:       m.CreatedAt,
	}, nil
}

// ListActive returns bookable excursions with the total count for paging.
func (r *ExcursionRepository) ListActive(ctx context.Context, limit, offset int) ([]domain.Excursion, int64, error) {
	q := conn(ctx, r.db).Model(&excursionModel{}).Where("status = ?", string(domain.ExcursionActive))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []excursionModel
	if err := q.Order("id").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Excursion, 0, len(rows))
	for _, m := range rows {
		e, err := toDomainExcursion(m)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *e)
	}
	return out, total, nil
}

// ListTimes returns the scheduled sessions of an excursion, soonest first.
func (r *ExcursionRepository) ListTimes(ctx context.Context, excursionID int64) ([]domain.ExcursionTime, error) {
	var rows []excursionTimeModel
	tx := conn(ctx, r.db).
		Where("excursion_id = ?", excursionID).
		Order("date, start").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.ExcursionTime, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.ExcursionTime{
			ID:          m.ID,
			ExcursionID: m.ExcursionID,
			Date:        m.Date,
			Start:       m.Start,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out, nil
}

// ListPoints returns the meeting points of one session.
func (r *ExcursionRepository) ListPoints(ctx context.Context, timeID int64) ([]domain.ExcursionTimePoint, error) {
	var rows []excursionTimePointModel
	tx := conn(ctx, r.db).
		Where("excursion_time_id = ?", timeID).
		Order("id").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.ExcursionTimePoint, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.ExcursionTimePoint{
			ID:              m.ID,
			ExcursionID:     m.ExcursionID,
			ExcursionTimeID: m.ExcursionTimeID,
			Address:         m.Address,
			Lat:             m.Lat,
			Lng:             m.Lng,
			CreatedAt:       m.CreatedAt,
		})
	}
	return out, nil
}

func (r *ExcursionRepository) GetTime(ctx context.Context, timeID int64) (*domain.ExcursionTime, error) {
	var m excursionTimeModel
	tx := conn(ctx, r.db).First(&m, timeID)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &domain.ExcursionTime{
		ID:          m.ID,
		ExcursionID: m.ExcursionID,
		Date:        m.Date,
		Start:       m.Start,
		CreatedAt:   m.CreatedAt,
	}, nil
}
