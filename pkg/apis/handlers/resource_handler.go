package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sukryu/pSite/pkg/controllers"
	"github.com/sukryu/pSite/pkg/errors"
	"github.com/sukryu/pSite/pkg/store/query"
)

// Decoder builds a model from the request body.
type Decoder[T any] func(c *gin.Context) (*T, error)

// Decode binds the body into a request DTO R and converts it with toModel,
// typically a method expression such as (*v1alpha1.TechRequest).ToModel.
func Decode[R any, T any](toModel func(*R) (*T, error)) Decoder[T] {
	return func(c *gin.Context) (*T, error) {
		req := new(R)
		if err := bindJSON(c, req); err != nil {
			return nil, err
		}
		return toModel(req)
	}
}

// ResourceHandler serves the create/update/delete/restore/get/list routes
// shared by every resource.
type ResourceHandler[T any] struct {
	controller controllers.ResourceController[T]
	decode     Decoder[T]
	key        KeyFunc
	spec       query.Spec
}

func NewResourceHandler[T any](controller controllers.ResourceController[T], decode Decoder[T], key KeyFunc, spec query.Spec) *ResourceHandler[T] {
	return &ResourceHandler[T]{
		controller: controller,
		decode:     decode,
		key:        key,
		spec:       spec,
	}
}

// Register mounts the protected routes of the resource under path.
func (h *ResourceHandler[T]) Register(g *gin.RouterGroup, path string) {
	item := path + "/:" + KeyParam

	g.POST(path, h.Create)
	g.GET(path, h.List)
	g.GET(item, h.Get)
	g.POST(item, h.Update)
	g.DELETE(item, h.Delete)
	g.POST(item+"/restore", h.Restore)
}

func (h *ResourceHandler[T]) Create(c *gin.Context) {
	obj, err := h.decode(c)
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.controller.Create(c.Request.Context(), obj)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *ResourceHandler[T]) Update(c *gin.Context) {
	key, err := h.key(c)
	if err != nil {
		c.Error(err)
		return
	}

	obj, err := h.decode(c)
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.controller.Update(c.Request.Context(), key, obj)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	key, err := h.key(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.controller.Delete(c.Request.Context(), key); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ResourceHandler[T]) Restore(c *gin.Context) {
	key, err := h.key(c)
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.controller.Restore(c.Request.Context(), key)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get honours with_deleted so deleted rows can be inspected before a restore.
func (h *ResourceHandler[T]) Get(c *gin.Context) {
	key, err := h.key(c)
	if err != nil {
		c.Error(err)
		return
	}

	req, err := query.ParseRequest(c.Request.URL.Query(), query.Spec{})
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.controller.Get(c.Request.Context(), key, req.WithDeleted)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ResourceHandler[T]) List(c *gin.Context) {
	h.list(c, h.spec, true)
}

// PublicList lists through spec. Deleted rows are never included whatever
// the query says.
func (h *ResourceHandler[T]) PublicList(spec query.Spec) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.list(c, spec, false)
	}
}

// PublicGet returns live rows only, and answers 404 for rows visible rejects.
func (h *ResourceHandler[T]) PublicGet(visible func(*T) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := h.key(c)
		if err != nil {
			c.Error(err)
			return
		}

		result, err := h.controller.Get(c.Request.Context(), key, false)
		if err != nil {
			c.Error(err)
			return
		}
		if visible != nil && !visible(result) {
			c.Error(errors.ErrNotFound.WithReason(key.String()))
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func (h *ResourceHandler[T]) list(c *gin.Context, spec query.Spec, allowDeleted bool) {
	req, err := query.ParseRequest(c.Request.URL.Query(), spec)
	if err != nil {
		c.Error(err)
		return
	}
	if !allowDeleted {
		req.WithDeleted = false
	}

	result, err := h.controller.List(c.Request.Context(), query.Build(spec, req))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
