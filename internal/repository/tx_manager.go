package repository

import (
	"context"

	"gorm.io/gorm"
)

type ctxKey int

const txCtxKey ctxKey = 0

// TransactionManager runs a function inside a single database transaction.
// Workflow mutations touch several repositories (instance, steps, document,
// audit) and must commit or roll back as one unit; the transaction handle is
// carried through the context so repository methods stay transaction-agnostic.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txCtxKey, tx))
	})
}

// GetDB returns the transaction carried by ctx, or rootDB when the caller is
// not inside RunInTx.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txCtxKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}
