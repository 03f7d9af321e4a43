package controllers

import (
	"context"
	"fmt"

	"github.com/sukryu/pSite/pkg/store/base"
	"github.com/sukryu/pSite/pkg/store/query"
)

// ResourceController is the set of operations every site resource exposes.
type ResourceController[T any] interface {
	Create(ctx context.Context, obj *T) (*T, error)
	Update(ctx context.Context, key base.Key, obj *T) (*T, error)
	Delete(ctx context.Context, key base.Key) error
	Restore(ctx context.Context, key base.Key) (*T, error)
	Get(ctx context.Context, key base.Key, withDeleted bool) (*T, error)
	List(ctx context.Context, plan query.Plan) (*query.Result[T], error)
}

// ColumnFilter is implemented by models that narrow the update column set
// to what the request actually carried.
type ColumnFilter interface {
	UpdateColumns(columns []string) []string
}

type resourceController[T any] struct {
	store   base.Store[T]
	columns []string
}

// NewResourceController returns a controller whose updates write exactly
// columns.
func NewResourceController[T any](store base.Store[T], columns []string) ResourceController[T] {
	return &resourceController[T]{
		store:   store,
		columns: columns,
	}
}

func (c *resourceController[T]) Create(ctx context.Context, obj *T) (*T, error) {
	if err := c.store.Create(ctx, obj); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", c.store.GetTableName(), err)
	}
	return obj, nil
}

func (c *resourceController[T]) Update(ctx context.Context, key base.Key, obj *T) (*T, error) {
	columns := c.columns
	if f, ok := any(obj).(ColumnFilter); ok {
		columns = f.UpdateColumns(columns)
	}

	updated, err := c.store.Update(ctx, key, obj, columns...)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", c.store.GetTableName(), err)
	}
	return updated, nil
}

func (c *resourceController[T]) Delete(ctx context.Context, key base.Key) error {
	if err := c.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", c.store.GetTableName(), err)
	}
	return nil
}

func (c *resourceController[T]) Restore(ctx context.Context, key base.Key) (*T, error) {
	restored, err := c.store.Restore(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to restore %s: %w", c.store.GetTableName(), err)
	}
	return restored, nil
}

func (c *resourceController[T]) Get(ctx context.Context, key base.Key, withDeleted bool) (*T, error) {
	obj, err := c.store.Get(ctx, key, withDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", c.store.GetTableName(), err)
	}
	return obj, nil
}

func (c *resourceController[T]) List(ctx context.Context, plan query.Plan) (*query.Result[T], error) {
	items, total, err := c.store.List(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.store.GetTableName(), err)
	}
	return &query.Result[T]{
		Items: items,
		Page:  plan.Page,
		Limit: plan.Limit,
		Total: total,
	}, nil
}
