package repository

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxFunc runs fn inside one database transaction. The transaction travels in
// the context, so every repository call made from fn joins it.
type TxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

// NewTxRunner builds the TxFunc the services use for their all-or-nothing
// operations.
func NewTxRunner(db *gorm.DB) TxFunc {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(context.WithValue(ctx, txKey{}, tx))
		})
	}
}

// conn resolves the connection for a call: the ambient transaction when one
// is running, the root handle otherwise.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
