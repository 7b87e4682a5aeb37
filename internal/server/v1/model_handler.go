package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/image-playground/internal/httpclient"
	"github.com/nulzo/image-playground/internal/store/cache"
	"github.com/nulzo/image-playground/pkg/api"
	"go.uber.org/zap"
)

// ListModels returns the configured catalog in order.
func (h *Handler) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog)
}

// GetSchema returns the input/output schema of ?model=, from cache when
// possible.
func (h *Handler) GetSchema(c *gin.Context) {
	model := c.Query("model")
	if model == "" {
		_ = c.Error(api.BadRequest("query parameter 'model' is required"))
		return
	}

	ctx := c.Request.Context()
	key := cache.SchemaKey(model)

	if h.cache != nil {
		var cached api.ModelSchema
		err := h.cache.Get(ctx, key, &cached)
		if err == nil {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, &cached)
			return
		}
		if !errors.Is(err, cache.ErrMiss) {
			h.logger.Warn("schema cache read failed", zap.String("model", model), zap.Error(err))
		}
	}

	schema, err := h.ai.Schema(ctx, model)
	if err != nil {
		if status := httpclient.StatusCode(err); status >= 400 && status < 500 {
			_ = c.Error(api.NotFound("no schema for model "+model, api.WithLog(err)))
			return
		}
		_ = c.Error(api.BadGateway("failed to fetch model schema", err))
		return
	}

	if err := schema.Input.Validate(); err != nil {
		h.logger.Warn("model schema is inconsistent", zap.String("model", model), zap.Error(err))
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, key, schema, h.schemaTTL); err != nil {
			h.logger.Warn("schema cache write failed", zap.String("model", model), zap.Error(err))
		}
	}

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, schema)
}
