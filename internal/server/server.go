package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/nulzo/image-playground/internal/config"
	"github.com/nulzo/image-playground/internal/server/middleware"
	v1 "github.com/nulzo/image-playground/internal/server/v1"
	"github.com/nulzo/image-playground/internal/server/validator"
	"go.uber.org/zap"
)

type Server struct {
	router  *gin.Engine
	config  *config.Config
	logger  *zap.Logger
	handler *v1.Handler
	http    *http.Server
}

func New(cfg *config.Config, logger *zap.Logger, handler *v1.Handler) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.InitValidator()

	engine := gin.New()
	engine.Use(ginzap.RecoveryWithZap(logger, true))
	if cfg.Tracing.Enabled {
		engine.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	}
	engine.Use(middleware.Logger(logger))
	engine.Use(middleware.ErrorHandler(logger))

	s := &Server{
		router:  engine,
		config:  cfg,
		logger:  logger,
		handler: handler,
	}
	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              ":" + s.config.Server.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("port", s.config.Server.Port))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
