// Package v1 serves the playground's collaborator endpoints: catalog,
// schema, generation and the image gallery.
package v1

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nulzo/image-playground/internal/store"
	"github.com/nulzo/image-playground/internal/store/cache"
	"github.com/nulzo/image-playground/internal/workersai"
	"github.com/nulzo/image-playground/pkg/api"
	"go.uber.org/zap"
)

// Inference is the model-serving side, satisfied by *workersai.Adapter.
type Inference interface {
	Schema(ctx context.Context, model string) (*api.ModelSchema, error)
	Run(ctx context.Context, model string, inputs map[string]any) (*workersai.Image, error)
}

type Handler struct {
	catalog   []api.Model
	ai        Inference
	images    store.ImageStore
	cache     cache.CacheService
	schemaTTL time.Duration
	logger    *zap.Logger
	started   time.Time
	newKey    func() string
}

type Option func(*Handler)

// WithSchemaCache caches schema responses for ttl.
func WithSchemaCache(c cache.CacheService, ttl time.Duration) Option {
	return func(h *Handler) {
		h.cache = c
		h.schemaTTL = ttl
	}
}

func WithKeyFunc(f func() string) Option {
	return func(h *Handler) { h.newKey = f }
}

func NewHandler(catalog []api.Model, ai Inference, images store.ImageStore, logger *zap.Logger, opts ...Option) *Handler {
	if catalog == nil {
		catalog = []api.Model{}
	}
	h := &Handler{
		catalog: catalog,
		ai:      ai,
		images:  images,
		logger:  logger,
		started: time.Now(),
		newKey:  newImageKey,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// newImageKey uses time-ordered UUIDs so a lexicographic listing is also
// chronological.
func newImageKey() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String() + ".png"
}

func (h *Handler) inCatalog(id string) bool {
	for _, m := range h.catalog {
		if m.ID == id {
			return true
		}
	}
	return false
}
