package sqlstore

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sukryu/pSite/pkg/errors"
	"github.com/sukryu/pSite/pkg/store/base"
	"github.com/sukryu/pSite/pkg/store/query"
)

type Option func(*config)

type config struct {
	preload []string
}

// WithPreload names relations loaded with every read.
func WithPreload(relations ...string) Option {
	return func(c *config) {
		c.preload = append(c.preload, relations...)
	}
}

type SQLStore[T any] struct {
	db        *gorm.DB
	tableName string
	preload   []string
}

func NewSQLStore[T any](db *gorm.DB, tableName string, opts ...Option) base.Store[T] {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &SQLStore[T]{
		db:        db,
		tableName: tableName,
		preload:   cfg.preload,
	}
}

func (s *SQLStore[T]) where(db *gorm.DB, key base.Key) *gorm.DB {
	return db.Where(clause.Eq{Column: clause.Column{Table: s.tableName, Name: key.Column}, Value: key.Value})
}

func (s *SQLStore[T]) withPreload(db *gorm.DB) *gorm.DB {
	for _, rel := range s.preload {
		db = db.Preload(rel)
	}
	return db
}

func (s *SQLStore[T]) Create(ctx context.Context, obj *T) error {
	result := s.db.WithContext(ctx).Omit(clause.Associations).Create(obj)
	if result.Error != nil {
		return classify(result.Error, s.tableName, nil)
	}
	return nil
}

func (s *SQLStore[T]) Get(ctx context.Context, key base.Key, withDeleted bool) (*T, error) {
	db := s.db.WithContext(ctx)
	if withDeleted {
		db = db.Unscoped()
	}

	var obj T
	result := s.where(s.withPreload(db), key).First(&obj)
	if result.Error != nil {
		return nil, classify(result.Error, s.tableName, key)
	}
	return &obj, nil
}

func (s *SQLStore[T]) Update(ctx context.Context, key base.Key, obj *T, columns ...string) (*T, error) {
	var updated *T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.WithTx(tx).Get(ctx, key, false)
		if err != nil {
			return err
		}
		// key may name a column the update rewrites, so the row is written
		// and re-read by its primary key
		id, err := s.primaryKey(tx, current)
		if err != nil {
			return err
		}

		db := tx.Model(new(T)).Omit(clause.Associations)
		if len(columns) > 0 {
			db = db.Select(columns)
		}
		if err := s.where(db, id).Updates(obj).Error; err != nil {
			return classify(err, s.tableName, key)
		}

		updated, err = s.WithTx(tx).Get(ctx, id, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *SQLStore[T]) primaryKey(tx *gorm.DB, obj *T) (base.Key, error) {
	stmt := &gorm.Statement{DB: tx}
	if err := stmt.Parse(obj); err != nil {
		return base.Key{}, classify(err, s.tableName, nil)
	}
	field := stmt.Schema.PrioritizedPrimaryField
	if field == nil {
		return base.Key{}, errors.ErrStorageOperation.WithReason(s.tableName + ": no primary key")
	}
	value, _ := field.ValueOf(tx.Statement.Context, reflect.ValueOf(obj).Elem())
	return base.ByField(field.DBName, value), nil
}

func (s *SQLStore[T]) Delete(ctx context.Context, key base.Key) error {
	result := s.where(s.db.WithContext(ctx), key).Delete(new(T))
	if result.Error != nil {
		return classify(result.Error, s.tableName, key)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// already deleted rows keep their timestamp
	var count int64
	err := s.where(s.db.WithContext(ctx).Unscoped().Model(new(T)), key).Count(&count).Error
	if err != nil {
		return classify(err, s.tableName, key)
	}
	if count == 0 {
		return classify(gorm.ErrRecordNotFound, s.tableName, key)
	}
	return nil
}

func (s *SQLStore[T]) Restore(ctx context.Context, key base.Key) (*T, error) {
	result := s.where(s.db.WithContext(ctx).Unscoped().Model(new(T)), key).Update("deleted_at", nil)
	if result.Error != nil {
		return nil, classify(result.Error, s.tableName, key)
	}
	if result.RowsAffected == 0 {
		return nil, classify(gorm.ErrRecordNotFound, s.tableName, key)
	}
	return s.Get(ctx, key, false)
}

func (s *SQLStore[T]) List(ctx context.Context, plan query.Plan) ([]T, int64, error) {
	var total int64
	if err := plan.Filter(s.db.WithContext(ctx).Model(new(T))).Count(&total).Error; err != nil {
		return nil, 0, classify(err, s.tableName, nil)
	}

	items := make([]T, 0)
	if err := plan.Apply(s.withPreload(s.db.WithContext(ctx).Model(new(T)))).Find(&items).Error; err != nil {
		return nil, 0, classify(err, s.tableName, nil)
	}
	return items, total, nil
}

func (s *SQLStore[T]) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := s.db.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}
	if errors.StatusOf(err) != nil || IsUnavailable(err) {
		return classify(err, s.tableName, nil)
	}
	return fmt.Errorf("%w: %v", errors.ErrTransactionFailed.WithReason(s.tableName), err)
}

func (s *SQLStore[T]) WithTx(tx *gorm.DB) base.Store[T] {
	return &SQLStore[T]{
		db:        tx,
		tableName: s.tableName,
		preload:   s.preload,
	}
}

func (s *SQLStore[T]) GetDB() *gorm.DB {
	return s.db
}

func (s *SQLStore[T]) GetTableName() string {
	return s.tableName
}
