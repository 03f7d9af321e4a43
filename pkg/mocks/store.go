package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/sukryu/pSite/pkg/mail"
	"github.com/sukryu/pSite/pkg/store/base"
	"github.com/sukryu/pSite/pkg/store/query"
)

// MockStore는 base.Store 인터페이스를 구현하는 mock 객체입니다.
type MockStore[T any] struct {
	mock.Mock
	table string
}

// NewMockStore는 MockStore의 새 인스턴스를 생성합니다.
func NewMockStore[T any](table string) *MockStore[T] {
	return &MockStore[T]{table: table}
}

func (m *MockStore[T]) Create(ctx context.Context, obj *T) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *MockStore[T]) Get(ctx context.Context, key base.Key, withDeleted bool) (*T, error) {
	args := m.Called(ctx, key, withDeleted)
	if obj, ok := args.Get(0).(*T); ok {
		return obj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore[T]) Update(ctx context.Context, key base.Key, obj *T, columns ...string) (*T, error) {
	args := m.Called(ctx, key, obj, columns)
	if updated, ok := args.Get(0).(*T); ok {
		return updated, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore[T]) Delete(ctx context.Context, key base.Key) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStore[T]) Restore(ctx context.Context, key base.Key) (*T, error) {
	args := m.Called(ctx, key)
	if obj, ok := args.Get(0).(*T); ok {
		return obj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore[T]) List(ctx context.Context, plan query.Plan) ([]T, int64, error) {
	args := m.Called(ctx, plan)
	if items, ok := args.Get(0).([]T); ok {
		return items, args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

// 트랜잭션은 tx 없이 바로 실행합니다.
func (m *MockStore[T]) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (m *MockStore[T]) WithTx(tx *gorm.DB) base.Store[T] {
	return m
}

func (m *MockStore[T]) GetDB() *gorm.DB {
	return nil
}

func (m *MockStore[T]) GetTableName() string {
	return m.table
}

// MockMailer는 mail.Mailer mock입니다.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg mail.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockTokenIssuer는 토큰 발급 mock입니다.
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(subject string) (string, error) {
	args := m.Called(subject)
	return args.String(0), args.Error(1)
}
