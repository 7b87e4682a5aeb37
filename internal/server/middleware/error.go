package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/image-playground/pkg/api"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error pushed by a handler as RFC 9457
// problem JSON.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var problem *api.Problem
		if errors.As(err, &problem) {
			if problem.Log != nil {
				logger.Error("request failed",
					zap.Int("status", problem.Status),
					zap.String("detail", problem.Detail),
					zap.Error(problem.Log),
				)
			}
			problem.Instance = c.Request.URL.Path
			c.AbortWithStatusJSON(problem.Status, problem)
			return
		}

		logger.Error("unhandled error", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.NewProblem(
			http.StatusInternalServerError,
			"Internal Server Error",
			"An unexpected error occurred.",
		))
	}
}
