package store

import (
	"context"
	"errors"

	"github.com/nulzo/image-playground/internal/store/model"
)

var ErrNotFound = errors.New("object not found")

// ImageStore is the object store generated images are kept in.
type ImageStore interface {
	// Put stores (or replaces) an object under its key.
	Put(ctx context.Context, obj *model.Object) error
	// Get returns the object for key, or ErrNotFound.
	Get(ctx context.Context, key string) (*model.Object, error)
	// List returns metadata for every stored image, ordered by key.
	List(ctx context.Context) ([]model.Image, error)

	Close() error
}
