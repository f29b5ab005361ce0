// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/file2md/backend/internal/convert"
)

// ConvertHandler handles the upload → convert → preview → download pipeline
type ConvertHandler interface {
	HandleConvert(c echo.Context) error
	HandleConvertBase64(c echo.Context) error
	HandleGetResult(c echo.Context) error
	HandleDownload(c echo.Context) error
	HandlePreviewHTML(c echo.Context) error
	HandleResultMsgpack(c echo.Context) error
	HandleDeleteResult(c echo.Context) error
	HandleFormats(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// Converter is the engine surface the handlers depend on.
// This allows mocking in tests.
type Converter interface {
	Convert(ctx context.Context, path string) (convert.Output, error)
	Supports(ext string) bool
	Extensions() []string
}
