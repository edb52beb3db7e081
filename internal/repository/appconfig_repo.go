package repository

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
)

type AppConfigRepository struct {
	db *gorm.DB
}

func NewAppConfigRepository(db *gorm.DB) *AppConfigRepository {
	return &AppConfigRepository{db: db}
}

type appConfigModel struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value string `gorm:"column:value"`
}

func (appConfigModel) TableName() string { return "app_configs" }

func (r *AppConfigRepository) GetAll(ctx context.Context) (map[string]json.RawMessage, error) {
	var rows []appConfigModel
	tx := conn(ctx, r.db).Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make(map[string]json.RawMessage, len(rows))
	for _, row := range rows {
		out[row.Key] = json.RawMessage(row.Value)
	}
	return out, nil
}

func (r *AppConfigRepository) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m := appConfigModel{Key: key, Value: string(raw)}
	return conn(ctx, r.db).Save(&m).Error
}
