package controllers

import (
	"context"
	"fmt"

	"github.com/sukryu/pSite/pkg/apis/site/v1alpha1"
	"github.com/sukryu/pSite/pkg/errors"
	"github.com/sukryu/pSite/pkg/store/base"
	"github.com/sukryu/pSite/pkg/utils/password"
)

type userController struct {
	ResourceController[v1alpha1.User]
	store   base.Store[v1alpha1.User]
	columns []string
}

// NewUserController hashes passwords on the way in. An update without a
// password keeps the stored hash.
func NewUserController(store base.Store[v1alpha1.User], columns []string) ResourceController[v1alpha1.User] {
	return &userController{
		ResourceController: NewResourceController(store, columns),
		store:              store,
		columns:            columns,
	}
}

func (c *userController) Create(ctx context.Context, user *v1alpha1.User) (*v1alpha1.User, error) {
	if user.Password == "" {
		return nil, errors.ErrInvalidInput.WithReason("password is required")
	}

	hashed, err := password.Hash(user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashed

	return c.ResourceController.Create(ctx, user)
}

func (c *userController) Update(ctx context.Context, key base.Key, user *v1alpha1.User) (*v1alpha1.User, error) {
	columns := c.columns
	if user.Password == "" {
		columns = without(columns, "password")
	} else {
		hashed, err := password.Hash(user.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hashed
	}

	updated, err := c.store.Update(ctx, key, user, columns...)
	if err != nil {
		return nil, fmt.Errorf("failed to update users: %w", err)
	}
	return updated, nil
}

func without(columns []string, drop string) []string {
	out := make([]string, 0, len(columns))
	for _, col := range columns {
		if col != drop {
			out = append(out, col)
		}
	}
	return out
}
