// Package playground holds the client state of the image playground: model
// catalog, schema-driven form, generation state machine and gallery.
//
// Components follow the bubbletea contract. Retrievals are returned as
// tea.Cmd values that run off the UI goroutine; their results come back as
// messages applied by Update on the UI goroutine, so components need no locks.
package playground

import (
	"context"

	"github.com/nulzo/image-playground/pkg/api"
)

// CatalogSource lists the models a user can pick from.
type CatalogSource interface {
	ListModels(ctx context.Context) ([]api.Model, error)
}

// SchemaSource fetches the input schema of one model.
type SchemaSource interface {
	Schema(ctx context.Context, modelID string) (*api.InputSchema, error)
}

// ImageGenerator runs a generation and returns the image reference.
type ImageGenerator interface {
	Generate(ctx context.Context, req api.GenerateRequest) (string, error)
}

// ImageFetcher loads the bytes behind an image reference.
type ImageFetcher interface {
	FetchImage(ctx context.Context, ref string) ([]byte, error)
}

// ImageLister enumerates stored images and builds their display URLs.
type ImageLister interface {
	ListImages(ctx context.Context) ([]api.R2Image, error)
	ImageURL(key string) string
}

// Backend is everything a full session needs; *client.Client satisfies it.
type Backend interface {
	CatalogSource
	SchemaSource
	ImageGenerator
	ImageFetcher
	ImageLister
}
