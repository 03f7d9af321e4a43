package base

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sukryu/pSite/pkg/store/query"
)

// Key addresses a single row by one column: id, uuid, slug or param.
type Key struct {
	Column string
	Value  interface{}
}

func ByID(id interface{}) Key {
	return Key{Column: "id", Value: id}
}

func ByField(column string, value interface{}) Key {
	return Key{Column: column, Value: value}
}

func (k Key) String() string {
	return fmt.Sprintf("%s=%v", k.Column, k.Value)
}

// Store is the generic soft-delete repository every resource shares.
type Store[T any] interface {
	// Basic CRUD operations
	Create(ctx context.Context, obj *T) error
	Get(ctx context.Context, key Key, withDeleted bool) (*T, error)
	// Update writes the given columns of obj to the live row at key and
	// returns the row as stored. Soft-deleted rows are not updated.
	Update(ctx context.Context, key Key, obj *T, columns ...string) (*T, error)
	// Delete soft-deletes the row. Deleting a deleted row succeeds and keeps
	// its original deletion timestamp.
	Delete(ctx context.Context, key Key) error
	Restore(ctx context.Context, key Key) (*T, error)
	List(ctx context.Context, plan query.Plan) ([]T, int64, error)

	// Transaction support
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) Store[T]

	// Database specific operations
	GetDB() *gorm.DB
	GetTableName() string
}
