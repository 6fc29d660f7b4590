package api

import (
	"context"
	"net/http"
	"time"

	"fraudeda/internal"
	"fraudeda/internal/config"
	"fraudeda/internal/errors"
	"fraudeda/ports"

	"github.com/gin-gonic/gin"
)

// Server serves fraud predictions over HTTP
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	handler    *PredictionHandler
	logger     *internal.Logger
	cfg        config.ServerConfig
}

// NewServer builds the router for predictor. gin's mode follows cfg.GinMode.
func NewServer(cfg config.ServerConfig, predictor ports.Predictor, logger *internal.Logger) *Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:  gin.New(),
		handler: NewPredictionHandler(predictor, logger),
		logger:  logger,
		cfg:     cfg,
	}
	s.router.Use(gin.Recovery(), requestID())
	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/credit_fraud_detection", s.handler.Health)
	s.router.POST("/predict", s.handler.Predict)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on cfg.Addr() until Shutdown is called. Shutdown may run
// before Start, in which case Start returns nil at once.
func (s *Server) Start() error {
	s.logger.Info("Starting fraud detection API on http://%s", s.cfg.Addr())
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "prediction server failed")
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down fraud detection API")
	return s.httpServer.Shutdown(ctx)
}
