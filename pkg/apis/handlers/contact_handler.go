package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sukryu/pSite/pkg/apis/site/v1alpha1"
	"github.com/sukryu/pSite/pkg/controllers"
	"github.com/sukryu/pSite/pkg/store/query"
	"github.com/sukryu/pSite/pkg/store/resources"
)

type ContactHandler struct {
	controller controllers.ContactController
}

func NewContactHandler(controller controllers.ContactController) *ContactHandler {
	return &ContactHandler{controller: controller}
}

// Send accepts a contact form submission and records the sender's address.
func (h *ContactHandler) Send(c *gin.Context) {
	var req v1alpha1.ContactRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	contact, err := req.ToModel()
	if err != nil {
		c.Error(err)
		return
	}
	contact.IPAddress = c.ClientIP()

	result, err := h.controller.Send(c.Request.Context(), contact)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *ContactHandler) List(c *gin.Context) {
	req, err := query.ParseRequest(c.Request.URL.Query(), resources.ContactSpec)
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.controller.List(c.Request.Context(), query.Build(resources.ContactSpec, req))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
