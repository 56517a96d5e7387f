package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/utils"
	"go.uber.org/zap"
)

// Controller is the request controller driven by the web surface
type Controller interface {
	Submit(ctx context.Context, rawText string) (core.State, error)
	State() core.State
	Busy() bool
}

// ClassifyRequest is the body of POST /api/classify
type ClassifyRequest struct {
	Text string `json:"text"`
}

// StateResponse is the body returned by the state endpoints
type StateResponse struct {
	Busy  bool       `json:"busy"`
	State core.State `json:"state"`
	Error string     `json:"error,omitempty"`
}

// Handler handles the classification API endpoints
type Handler struct {
	controller    Controller
	hub           *Hub
	textProcessor *utils.TextProcessor
	maxChars      int
	logger        *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(controller Controller, hub *Hub, textProcessor *utils.TextProcessor, maxChars int, logger *zap.Logger) *Handler {
	return &Handler{
		controller:    controller,
		hub:           hub,
		textProcessor: textProcessor,
		maxChars:      maxChars,
		logger:        logger,
	}
}

// Classify handles POST /api/classify
func (h *Handler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// The submission outlives a disconnecting caller
	state, err := h.controller.Submit(context.WithoutCancel(c.Request.Context()), req.Text)
	if errors.Is(err, core.ErrBusy) {
		c.JSON(http.StatusConflict, StateResponse{Busy: true, State: state, Error: err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("Submit failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, StateResponse{Busy: h.controller.Busy(), State: state})
}

// State handles GET /api/state
func (h *Handler) State(c *gin.Context) {
	c.JSON(http.StatusOK, StateResponse{
		Busy:  h.controller.Busy(),
		State: h.controller.State(),
	})
}

// InputStats handles GET /api/input/stats?text=...
func (h *Handler) InputStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.textProcessor.InputStats(c.Query("text"), h.maxChars))
}
