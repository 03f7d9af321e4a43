package controllers

import (
	"context"
	"io"

	"github.com/sukryu/pSite/pkg/apis/site/v1alpha1"
)

// ImageStorage is the narrow contract of the upload directory.
type ImageStorage interface {
	Save(name string, r io.Reader) (*v1alpha1.Image, error)
	List() ([]v1alpha1.Image, error)
	Path(name string) (string, error)
}

type ImageController interface {
	Upload(ctx context.Context, name string, r io.Reader) (*v1alpha1.Image, error)
	List(ctx context.Context) ([]v1alpha1.Image, error)
	// Locate returns the file path of a stored image for serving.
	Locate(ctx context.Context, name string) (string, error)
}

type imageController struct {
	storage ImageStorage
}

func NewImageController(storage ImageStorage) ImageController {
	return &imageController{storage: storage}
}

func (c *imageController) Upload(_ context.Context, name string, r io.Reader) (*v1alpha1.Image, error) {
	return c.storage.Save(name, r)
}

func (c *imageController) List(_ context.Context) ([]v1alpha1.Image, error) {
	return c.storage.List()
}

func (c *imageController) Locate(_ context.Context, name string) (string, error) {
	return c.storage.Path(name)
}
