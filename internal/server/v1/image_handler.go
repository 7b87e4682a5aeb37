package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/image-playground/internal/store"
	"github.com/nulzo/image-playground/pkg/api"
)

// ListImages returns every stored image in store order.
func (h *Handler) ListImages(c *gin.Context) {
	images, err := h.images.List(c.Request.Context())
	if err != nil {
		_ = c.Error(api.BadGateway("failed to list images", err))
		return
	}

	out := make([]api.R2Image, 0, len(images))
	for _, img := range images {
		out = append(out, api.R2Image{
			Key:      img.Key,
			Uploaded: img.UploadedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, out)
}

// GetImage proxies the stored bytes of ?key=.
func (h *Handler) GetImage(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		_ = c.Error(api.BadRequest("query parameter 'key' is required"))
		return
	}

	obj, err := h.images.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = c.Error(api.NotFound("no image with key " + key))
			return
		}
		_ = c.Error(api.BadGateway("failed to read image", err))
		return
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, contentType, obj.Data)
}
