package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/natural-surplus/backend/internal/application/adapter"
)

type txKey struct{}

// transactionManager implements adapter.TransactionManager on top of gorm transactions.
type transactionManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a new transaction manager instance.
func NewTransactionManager(db *gorm.DB) adapter.TransactionManager {
	return &transactionManager{db: db}
}

// WithinTransaction runs fn in a transaction carried by ctx. A call made while a
// transaction is already open joins it.
func (m *transactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction carried by ctx, or db bound to ctx.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
