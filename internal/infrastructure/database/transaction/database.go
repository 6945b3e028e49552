package transaction

import (
	"context"

	"gorm.io/gorm"
)

type transactionContextKey struct{}

// WithTx stores a running transaction on the context so repositories called
// inside it join the same unit of work.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, transactionContextKey{}, tx)
}

// Database hands out the ambient transaction when one is running, otherwise
// the root connection.
type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db}
}

func (t *Database) GetTx(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(transactionContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return t.db
}

// InTransaction runs fn inside a database transaction; any error rolls the
// whole unit back.
func (t *Database) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.GetTx(ctx).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx))
	})
}
