package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sukryu/pSite/pkg/apis/site/v1alpha1"
	"github.com/sukryu/pSite/pkg/controllers"
)

type AuthHandler struct {
	controller controllers.AuthController
}

func NewAuthHandler(controller controllers.AuthController) *AuthHandler {
	return &AuthHandler{controller: controller}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req v1alpha1.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	result, err := h.controller.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
