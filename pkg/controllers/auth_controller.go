package controllers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sukryu/pSite/pkg/apis/site/v1alpha1"
	"github.com/sukryu/pSite/pkg/errors"
	"github.com/sukryu/pSite/pkg/store/base"
	"github.com/sukryu/pSite/pkg/utils/password"
)

// TokenIssuer signs an identity token for a subject.
type TokenIssuer interface {
	GenerateToken(subject string) (string, error)
}

// AuthController defines authentication operations
type AuthController interface {
	Login(ctx context.Context, email, password string) (*v1alpha1.LoginResponse, error)
}

type authController struct {
	users  base.Store[v1alpha1.User]
	issuer TokenIssuer
	logger *slog.Logger
}

func NewAuthController(users base.Store[v1alpha1.User], issuer TokenIssuer, logger *slog.Logger) AuthController {
	return &authController{
		users:  users,
		issuer: issuer,
		logger: logger,
	}
}

// Login never tells an unknown email apart from a wrong password.
func (c *authController) Login(ctx context.Context, email, plain string) (*v1alpha1.LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := c.users.Get(ctx, base.ByField("email", email), false)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			c.logger.Info("login rejected", "reason", "unknown user")
			return nil, errors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !password.Verify(plain, user.Password) {
		c.logger.Info("login rejected", "reason", "password mismatch", "user_id", user.ID.String())
		return nil, errors.ErrInvalidCredentials
	}

	token, err := c.issuer.GenerateToken(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInternal.WithReason("failed to generate token"), err)
	}

	return &v1alpha1.LoginResponse{
		Token:  token,
		UserID: user.ID.String(),
	}, nil
}
