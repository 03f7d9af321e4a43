package controllers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sukryu/pSite/pkg/apis/site/v1alpha1"
	"github.com/sukryu/pSite/pkg/errors"
	"github.com/sukryu/pSite/pkg/mocks"
	"github.com/sukryu/pSite/pkg/store/base"
	"github.com/sukryu/pSite/pkg/store/query"
)

func TestResourceController_List(t *testing.T) {
	mockStore := mocks.NewMockStore[v1alpha1.Tech]("techs")
	plan := query.Build(query.Spec{}, query.Request{Page: 2, Limit: 5, LimitSet: true})
	mockStore.On("List", mock.Anything, plan).Return([]v1alpha1.Tech{{Title: "Go"}}, int64(6), nil)

	result, err := NewResourceController[v1alpha1.Tech](mockStore, []string{"title"}).List(context.Background(), plan)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 5, result.Limit)
	assert.EqualValues(t, 6, result.Total)
	assert.Len(t, result.Items, 1)
	mockStore.AssertExpectations(t)
}

func TestResourceController_Update(t *testing.T) {
	mockStore := mocks.NewMockStore[v1alpha1.Tech]("techs")
	key := base.ByID(uint(3))
	tech := &v1alpha1.Tech{Title: "Go"}
	mockStore.On("Update", mock.Anything, key, tech, []string{"title", "icon"}).Return(tech, nil)

	got, err := NewResourceController[v1alpha1.Tech](mockStore, []string{"title", "icon"}).Update(context.Background(), key, tech)
	require.NoError(t, err)
	assert.Same(t, tech, got)
	mockStore.AssertExpectations(t)
}

func TestResourceController_UpdateKeepsSlug(t *testing.T) {
	mockStore := mocks.NewMockStore[v1alpha1.Post]("posts")
	key := base.ByField("slug", "hello")
	post := &v1alpha1.Post{Title: "Hello World", Slug: "hello-world"}
	mockStore.On("Update", mock.Anything, key, post, []string{"title", "content"}).Return(post, nil)

	_, err := NewResourceController[v1alpha1.Post](mockStore, []string{"title", "slug", "content"}).Update(context.Background(), key, post)
	require.NoError(t, err)
	mockStore.AssertExpectations(t)
}

func TestResourceController_ErrorsKeepStatus(t *testing.T) {
	tests := []struct {
		name string
		call func(ResourceController[v1alpha1.Setting]) error
		mock func(*mocks.MockStore[v1alpha1.Setting])
		want error
	}{
		{
			name: "get missing",
			call: func(c ResourceController[v1alpha1.Setting]) error {
				_, err := c.Get(context.Background(), base.ByField("param", "x"), false)
				return err
			},
			mock: func(ms *mocks.MockStore[v1alpha1.Setting]) {
				ms.On("Get", mock.Anything, base.ByField("param", "x"), false).Return(nil, errors.ErrNotFound)
			},
			want: errors.ErrNotFound,
		},
		{
			name: "delete missing",
			call: func(c ResourceController[v1alpha1.Setting]) error {
				return c.Delete(context.Background(), base.ByField("param", "x"))
			},
			mock: func(ms *mocks.MockStore[v1alpha1.Setting]) {
				ms.On("Delete", mock.Anything, base.ByField("param", "x")).Return(errors.ErrNotFound)
			},
			want: errors.ErrNotFound,
		},
		{
			name: "restore storage failure",
			call: func(c ResourceController[v1alpha1.Setting]) error {
				_, err := c.Restore(context.Background(), base.ByField("param", "x"))
				return err
			},
			mock: func(ms *mocks.MockStore[v1alpha1.Setting]) {
				ms.On("Restore", mock.Anything, base.ByField("param", "x")).Return(nil, errors.ErrStorageOperation)
			},
			want: errors.ErrStorageOperation,
		},
		{
			name: "create unique violation",
			call: func(c ResourceController[v1alpha1.Setting]) error {
				_, err := c.Create(context.Background(), &v1alpha1.Setting{Param: "x"})
				return err
			},
			mock: func(ms *mocks.MockStore[v1alpha1.Setting]) {
				ms.On("Create", mock.Anything, mock.Anything).Return(errors.ErrUniqueViolation)
			},
			want: errors.ErrUniqueViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := mocks.NewMockStore[v1alpha1.Setting]("settings")
			tt.mock(mockStore)

			err := tt.call(NewResourceController[v1alpha1.Setting](mockStore, []string{"value", "note"}))
			assert.ErrorIs(t, err, tt.want)
			mockStore.AssertExpectations(t)
		})
	}
}
