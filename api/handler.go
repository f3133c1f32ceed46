// Package api provides HTTP handlers for the chat backend.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/config"
	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/n8n"
	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/store"
	"github.com/jumadi-cloud/bot-meta-analisis-api-V2/workflow"
)

// Handler handles HTTP requests.
type Handler struct {
	store   store.Store
	router  *workflow.Router
	webhook *n8n.Client
	config  *config.Config
	logger  *zap.Logger
}

// NewHandler creates a new handler.
func NewHandler(store store.Store, router *workflow.Router, webhook *n8n.Client, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		store:   store,
		router:  router,
		webhook: webhook,
		config:  cfg,
		logger:  logger,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Renderer = newRenderer()

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/chat")
	})

	// Chat page and API
	e.GET("/chat", h.Index)
	e.POST("/chat", h.Send)
	e.GET("/chat/sessions", h.Sessions)
	e.POST("/chat/new", h.New)
	e.GET("/chat/:id", h.Show)
	e.DELETE("/chat/:id", h.Destroy)

	// Direct proxy variant
	e.POST("/webhook/n8n", h.WebhookProxy)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
