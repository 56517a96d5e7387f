package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/ports"
	"github.com/mikey/spam-classifier/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var _ ports.Frontend = (*Server)(nil)

// Server is the web front end for the request controller
type Server struct {
	cfg        config.ServerConfig
	router     *gin.Engine
	httpServer *http.Server
	hub        *Hub
	logger     *zap.Logger
}

// NewServer creates the gin router and wires the API, websocket, health and metrics routes
func NewServer(
	cfg config.ServerConfig,
	controller Controller,
	hub *Hub,
	textProcessor *utils.TextProcessor,
	maxChars int,
	probe BackendProbe,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	router := gin.New()
	router.Use(RequestID())
	router.Use(Logger(logger))
	router.Use(Recovery(logger))

	healthHandler := NewHealthHandler(probe)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	handler := NewHandler(controller, hub, textProcessor, maxChars, logger)
	api := router.Group("/api")
	{
		api.POST("/classify", handler.Classify)
		api.GET("/state", handler.State)
		api.GET("/input/stats", handler.InputStats)
	}
	router.GET("/ws", handler.Stream)

	return &Server{
		cfg:    cfg,
		router: router,
		httpServer: &http.Server{
			Addr:    cfg.ListenAddress,
			Handler: router,
		},
		hub:    hub,
		logger: logger,
	}
}

// Handler returns the HTTP handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listen address and serves in the background
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.ListenAddress, err)
	}

	s.logger.Info("Starting web server", zap.String("address", listener.Addr().String()))

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Web server failed", zap.Error(err))
		}
	}()

	return nil
}

// Stop disconnects websocket clients and shuts the server down gracefully
func (s *Server) Stop() error {
	s.logger.Info("Stopping web server")

	s.hub.Close()

	ctx := context.Background()
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}
	return nil
}
