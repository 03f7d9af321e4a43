package controllers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sukryu/pSite/pkg/apis/site/v1alpha1"
	"github.com/sukryu/pSite/pkg/errors"
	"github.com/sukryu/pSite/pkg/mail"
	"github.com/sukryu/pSite/pkg/store/base"
	"github.com/sukryu/pSite/pkg/store/query"
)

type ContactController interface {
	// Send mails the message to the site owner and then stores it. A message
	// that could not be delivered is not stored.
	Send(ctx context.Context, contact *v1alpha1.Contact) (*v1alpha1.Contact, error)
	List(ctx context.Context, plan query.Plan) (*query.Result[v1alpha1.Contact], error)
}

type contactController struct {
	store  base.Store[v1alpha1.Contact]
	mailer mail.Mailer
	logger *slog.Logger
}

func NewContactController(store base.Store[v1alpha1.Contact], mailer mail.Mailer, logger *slog.Logger) ContactController {
	return &contactController{
		store:  store,
		mailer: mailer,
		logger: logger,
	}
}

func (c *contactController) Send(ctx context.Context, contact *v1alpha1.Contact) (*v1alpha1.Contact, error) {
	err := c.mailer.Send(ctx, mail.Message{
		Subject:     contact.Subject,
		Body:        contact.Content,
		ReplyToName: contact.Name,
		ReplyTo:     contact.Email,
	})
	if err != nil {
		c.logger.Error("contact mail failed", "error", err)
		return nil, fmt.Errorf("%w: %v", errors.ErrMailDelivery, err)
	}

	if err := c.store.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to store contact: %w", err)
	}
	return contact, nil
}

func (c *contactController) List(ctx context.Context, plan query.Plan) (*query.Result[v1alpha1.Contact], error) {
	items, total, err := c.store.List(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return &query.Result[v1alpha1.Contact]{Items: items, Page: plan.Page, Limit: plan.Limit, Total: total}, nil
}
