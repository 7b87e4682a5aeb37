package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/image-playground/internal/httpclient"
	"github.com/nulzo/image-playground/internal/server/validator"
	"github.com/nulzo/image-playground/internal/store/model"
	"github.com/nulzo/image-playground/pkg/api"
	"go.uber.org/zap"
)

// GenerateImage runs the requested model and answers with the image as a
// data URL in a text/plain body. The image is also kept in the object store
// for the gallery.
func (h *Handler) GenerateImage(c *gin.Context) {
	var req api.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationProblem(validator.ParseValidationError(err)))
		return
	}

	if !h.inCatalog(req.Model) {
		_ = c.Error(api.BadRequest("unknown model "+req.Model, api.WithExtension("model", req.Model)))
		return
	}

	ctx := c.Request.Context()
	img, err := h.ai.Run(ctx, req.Model, req.Inputs)
	if err != nil {
		if status := httpclient.StatusCode(err); status >= 400 && status < 500 {
			_ = c.Error(api.BadRequest("the model rejected the request", api.WithLog(err)))
			return
		}
		_ = c.Error(api.BadGateway("image generation failed", err))
		return
	}

	obj := &model.Object{
		Image: model.Image{
			Key:         h.newKey(),
			ContentType: img.ContentType,
			Model:       req.Model,
			UploadedAt:  time.Now().UTC(),
		},
		Data: img.Data,
	}
	if err := h.images.Put(ctx, obj); err != nil {
		// the caller still gets its image; only the gallery misses it
		h.logger.Error("failed to store generated image", zap.String("key", obj.Key), zap.Error(err))
	} else {
		h.logger.Info("stored generated image",
			zap.String("key", obj.Key),
			zap.String("model", req.Model),
			zap.Int64("size", obj.Size),
		)
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(api.DataURL(img.ContentType, img.Data)))
}
