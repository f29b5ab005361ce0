// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/file2md/backend/internal/session"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Engine      Converter
	Results     *session.Manager
	TempDir     string
	Timeout     time.Duration
	AllowDelete bool
	Version     string
	WSMaxBytes  int64
}

// Handlers holds all handler instances
type Handlers struct {
	Health  HealthHandler
	Convert ConvertHandler
	WS      *WebSocketHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	convertHandler := NewConvertHandler(deps.Engine, deps.Results, deps.TempDir, deps.Timeout, deps.AllowDelete)
	return &Handlers{
		Health:  NewHealthHandler(deps.Version),
		Convert: convertHandler,
		WS:      NewWebSocketHandler(convertHandler.(*ConvertHandlerImpl), deps.WSMaxBytes),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// Supported formats (drives the page's file picker)
	apiGroup.GET("/formats", handlers.Convert.HandleFormats)

	// Conversion pipeline
	apiGroup.POST("/convert", handlers.Convert.HandleConvert)
	apiGroup.POST("/convert/base64", handlers.Convert.HandleConvertBase64)
	apiGroup.GET("/convert/:id", handlers.Convert.HandleGetResult)
	apiGroup.GET("/convert/:id/download", handlers.Convert.HandleDownload)
	apiGroup.GET("/convert/:id/preview.html", handlers.Convert.HandlePreviewHTML)
	apiGroup.GET("/convert/:id/msgpack", handlers.Convert.HandleResultMsgpack)
	apiGroup.DELETE("/convert/:id", handlers.Convert.HandleDeleteResult)

	// WebSocket chunked upload + convert
	apiGroup.GET("/ws/convert", handlers.WS.HandleWebSocket)
}

// SetupMiddleware configures the error handler; the rest of the middleware
// stack is assembled in cmd/server from config.
func SetupMiddleware(e *echo.Echo) {
	e.HTTPErrorHandler = ErrorHandler
}
