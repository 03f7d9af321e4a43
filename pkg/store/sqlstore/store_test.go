package sqlstore

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sukryu/pSite/pkg/apis/site/v1alpha1"
	"github.com/sukryu/pSite/pkg/errors"
	"github.com/sukryu/pSite/pkg/store/base"
	"github.com/sukryu/pSite/pkg/store/query"
)

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	// 임시 데이터베이스 파일 생성
	tempFile, err := os.CreateTemp("", "sqlstore-*.db")
	require.NoError(t, err)
	tempFile.Close()

	db, err := gorm.Open(sqlite.Open(tempFile.Name()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(v1alpha1.AllModels()...))

	cleanup := func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
		os.Remove(tempFile.Name())
	}

	return db, cleanup
}

var hobbySpec = query.Spec{
	SearchColumns: []string{"title", "content"},
	BoolFilters:   map[string]string{"published": "published"},
	OrderBy:       []query.OrderByClause{{Column: "sort_order", Desc: true}},
}

func list(t *testing.T, s base.Store[v1alpha1.Hobby], req query.Request) []v1alpha1.Hobby {
	t.Helper()
	items, _, err := s.List(context.Background(), query.Build(hobbySpec, req))
	require.NoError(t, err)
	return items
}

func titles(items []v1alpha1.Hobby) []string {
	out := make([]string, len(items))
	for i, h := range items {
		out[i] = h.Title
	}
	return out
}

func TestSQLStore_CRUD(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	s := NewSQLStore[v1alpha1.Tech](db, "techs")

	tech := &v1alpha1.Tech{Title: "Go", Icon: "go.svg"}
	require.NoError(t, s.Create(ctx, tech))
	require.NotZero(t, tech.ID)

	got, err := s.Get(ctx, base.ByID(tech.ID), false)
	require.NoError(t, err)
	assert.Equal(t, "Go", got.Title)

	updated, err := s.Update(ctx, base.ByID(tech.ID), &v1alpha1.Tech{Title: "Golang", Icon: ""}, "title", "icon")
	require.NoError(t, err)
	assert.Equal(t, "Golang", updated.Title)
	assert.Equal(t, "", updated.Icon)
	assert.Equal(t, tech.ID, updated.ID)

	_, err = s.Get(ctx, base.ByID(9999), false)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	_, err = s.Update(ctx, base.ByID(9999), &v1alpha1.Tech{Title: "x"}, "title")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestSQLStore_UpdateRewritesKeyColumn(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	s := NewSQLStore[v1alpha1.Tech](db, "techs")

	tech := &v1alpha1.Tech{Title: "Go"}
	require.NoError(t, s.Create(ctx, tech))

	updated, err := s.Update(ctx, base.ByField("title", "Go"), &v1alpha1.Tech{Title: "Golang"}, "title")
	require.NoError(t, err)
	assert.Equal(t, tech.ID, updated.ID)
	assert.Equal(t, "Golang", updated.Title)

	_, err = s.Get(ctx, base.ByField("title", "Go"), false)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	got, err := s.Get(ctx, base.ByField("title", "Golang"), false)
	require.NoError(t, err)
	assert.Equal(t, tech.ID, got.ID)
}

func TestSQLStore_SoftDeleteIsIdempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	s := NewSQLStore[v1alpha1.Tech](db, "techs")

	tech := &v1alpha1.Tech{Title: "Rust"}
	require.NoError(t, s.Create(ctx, tech))
	key := base.ByID(tech.ID)

	require.NoError(t, s.Delete(ctx, key))

	first, err := s.Get(ctx, key, true)
	require.NoError(t, err)
	require.True(t, first.DeletedAt.Valid)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.Delete(ctx, key))

	second, err := s.Get(ctx, key, true)
	require.NoError(t, err)
	assert.True(t, first.DeletedAt.Time.Equal(second.DeletedAt.Time))

	_, err = s.Get(ctx, key, false)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	// deleted rows cannot be updated
	_, err = s.Update(ctx, key, &v1alpha1.Tech{Title: "x"}, "title")
	assert.ErrorIs(t, err, errors.ErrNotFound)

	restored, err := s.Restore(ctx, key)
	require.NoError(t, err)
	assert.False(t, restored.DeletedAt.Valid)

	assert.ErrorIs(t, s.Delete(ctx, base.ByID(12345)), errors.ErrNotFound)
	_, err = s.Restore(ctx, base.ByID(12345))
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestSQLStore_ListSearchDeleteRestore(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	s := NewSQLStore[v1alpha1.Hobby](db, "hobbies")

	hobby := &v1alpha1.Hobby{Title: "A", Content: "first"}
	require.NoError(t, s.Create(ctx, hobby))
	require.NoError(t, s.Create(ctx, &v1alpha1.Hobby{Title: "Chess", Content: "board games"}))

	// "board games" matches too; search spans every configured column
	assert.Equal(t, []string{"Chess", "A"}, titles(list(t, s, query.Request{Page: 1, Search: "a"})))

	found := list(t, s, query.Request{Page: 1, Search: "FIRST"})
	require.Len(t, found, 1)
	assert.Equal(t, "A", found[0].Title)

	require.NoError(t, s.Delete(ctx, base.ByID(hobby.ID)))
	assert.Empty(t, list(t, s, query.Request{Page: 1, Search: "first"}))
	assert.Len(t, list(t, s, query.Request{Page: 1, Search: "first", WithDeleted: true}), 1)

	_, err := s.Restore(ctx, base.ByID(hobby.ID))
	require.NoError(t, err)
	assert.Len(t, list(t, s, query.Request{Page: 1, Search: "first"}), 1)

	assert.Empty(t, list(t, s, query.Request{Page: 1, Search: "no such hobby"}))
	assert.Empty(t, list(t, s, query.Request{Page: 1, Search: "%"}))
}

func TestSQLStore_PaginationIsDeterministic(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	s := NewSQLStore[v1alpha1.Hobby](db, "hobbies")
	for i := 0; i < 7; i++ {
		require.NoError(t, s.Create(ctx, &v1alpha1.Hobby{Title: fmt.Sprintf("h%d", i), Content: "c"}))
	}
	// duplicate sort keys must still order by id
	require.NoError(t, db.Model(&v1alpha1.Hobby{}).Where("1 = 1").Update("sort_order", 1).Error)

	page1 := list(t, s, query.Request{Page: 1, Limit: 3, LimitSet: true})
	again := list(t, s, query.Request{Page: 1, Limit: 3, LimitSet: true})
	page2 := list(t, s, query.Request{Page: 2, Limit: 3, LimitSet: true})
	page3 := list(t, s, query.Request{Page: 3, Limit: 3, LimitSet: true})

	assert.Equal(t, titles(page1), titles(again))
	assert.Equal(t, []string{"h6", "h5", "h4"}, titles(page1))
	assert.Equal(t, []string{"h3", "h2", "h1"}, titles(page2))
	assert.Equal(t, []string{"h0"}, titles(page3))

	_, total, err := s.List(ctx, query.Build(hobbySpec, query.Request{Page: 2, Limit: 3, LimitSet: true}))
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
}

func TestSQLStore_HobbyOrderIsAssigned(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	s := NewSQLStore[v1alpha1.Hobby](db, "hobbies")

	first := &v1alpha1.Hobby{Title: "one", Content: "c"}
	second := &v1alpha1.Hobby{Title: "two", Content: "c"}
	require.NoError(t, s.Create(ctx, first))
	require.NoError(t, s.Delete(ctx, base.ByID(first.ID)))
	require.NoError(t, s.Create(ctx, second))

	assert.Equal(t, 1, first.SortOrder)
	assert.Equal(t, 2, second.SortOrder)
}

func TestSQLStore_UniqueViolationIsRepositoryError(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	s := NewSQLStore[v1alpha1.Setting](db, "settings")

	require.NoError(t, s.Create(ctx, &v1alpha1.Setting{Param: "title", Value: "a"}))
	err := s.Create(ctx, &v1alpha1.Setting{Param: "title", Value: "b"})

	require.ErrorIs(t, err, errors.ErrUniqueViolation)
	assert.Equal(t, http.StatusInternalServerError, errors.StatusOf(err).Code)

	got, err := s.Get(ctx, base.ByField("param", "title"), false)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Value)
}

func TestSQLStore_Transaction(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	s := NewSQLStore[v1alpha1.Tech](db, "techs")

	err := s.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.WithTx(tx).Create(ctx, &v1alpha1.Tech{Title: "rolled back"}); err != nil {
			return err
		}
		return errors.ErrInvalidInput.WithReason("abort")
	})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	items, total, err := s.List(ctx, query.Build(query.Spec{}, query.Request{Page: 1}))
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}

func TestSQLStore_TransactionFailure(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	s := NewSQLStore[v1alpha1.Tech](db, "techs")
	err := s.Transaction(context.Background(), func(tx *gorm.DB) error {
		return fmt.Errorf("link rows: %w", gorm.ErrInvalidData)
	})
	assert.ErrorIs(t, err, errors.ErrTransactionFailed)
	assert.ErrorContains(t, err, "link rows")
}

func TestSQLStore_CanceledContextIsUnavailable(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSQLStore[v1alpha1.Tech](db, "techs")
	_, _, err := s.List(ctx, query.Build(query.Spec{}, query.Request{Page: 1}))
	assert.ErrorIs(t, err, errors.ErrServiceUnavailable)
}
