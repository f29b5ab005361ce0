// handlers_convert.go - Conversion pipeline handlers
package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/file2md/backend/internal/export"
	"github.com/file2md/backend/internal/models"
	"github.com/file2md/backend/internal/session"
	"github.com/file2md/backend/internal/staging"
)

// ConvertHandlerImpl implements the ConvertHandler interface
type ConvertHandlerImpl struct {
	engine      Converter
	results     *session.Manager
	tempDir     string
	timeout     time.Duration
	allowDelete bool
}

// NewConvertHandler creates a new conversion handler instance
func NewConvertHandler(engine Converter, results *session.Manager, tempDir string, timeout time.Duration, allowDelete bool) ConvertHandler {
	return &ConvertHandlerImpl{
		engine:      engine,
		results:     results,
		tempDir:     tempDir,
		timeout:     timeout,
		allowDelete: allowDelete,
	}
}

// convertResponse is the JSON body for a completed run.
type convertResponse struct {
	ID           string                  `json:"id"`
	FileName     string                  `json:"fileName"`
	Extension    string                  `json:"extension"`
	SizeBytes    int64                   `json:"sizeBytes"`
	SizeHuman    string                  `json:"sizeHuman"`
	Characters   int                     `json:"characters"`
	Header       string                  `json:"header"`
	Preview      string                  `json:"preview"`
	Remaining    int                     `json:"remaining"`
	Empty        bool                    `json:"empty"`
	Metadata     models.DocumentMetadata `json:"metadata"`
	DownloadName string                  `json:"downloadName"`
	ConvertedAt  time.Time               `json:"convertedAt"`
}

// HandleConvert accepts a multipart upload and runs the full pipeline:
// validate extension, stage to disk, convert, cache the result.
func (h *ConvertHandlerImpl) HandleConvert(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	result, apiErr := h.runConversion(c.Request().Context(), file.Filename, src)
	if apiErr != nil {
		return apiErr
	}

	return c.JSON(http.StatusCreated, h.toResponse(result))
}

type convertBase64Request struct {
	Name string `json:"name"`
	Data string `json:"data"` // Base64-encoded content
}

func (r *convertBase64Request) validate() error {
	if r.Name == "" {
		return NewValidationError("name")
	}
	if r.Data == "" {
		return NewValidationError("data")
	}
	return nil
}

// HandleConvertBase64 accepts a file as base64 JSON and runs the same
// pipeline as the multipart endpoint.
func (h *ConvertHandlerImpl) HandleConvertBase64(c echo.Context) error {
	var req convertBase64Request
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	if err := req.validate(); err != nil {
		return err
	}

	decoded, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return NewBadRequestError("invalid base64 data", err)
	}

	result, apiErr := h.runConversion(c.Request().Context(), req.Name, bytes.NewReader(decoded))
	if apiErr != nil {
		return apiErr
	}

	return c.JSON(http.StatusCreated, h.toResponse(result))
}

// runConversion is one run of the pipeline. Ordering is fixed: extension
// check, staging, conversion, result caching. The staged file is removed on
// every exit path via defer; the engine is never invoked for a rejected
// extension and never retried.
func (h *ConvertHandlerImpl) runConversion(ctx context.Context, filename string, r io.Reader) (*models.ConversionResult, *APIError) {
	ext := models.ExtensionOf(filename)
	if !h.engine.Supports(ext) {
		return nil, NewUnsupportedFormatError(ext)
	}

	staged, err := staging.Stage(h.tempDir, filename, r)
	if err != nil {
		return nil, NewStagingError(err)
	}
	defer staged.Remove()

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	out, err := h.engine.Convert(ctx, staged.Path())
	if err != nil {
		return nil, NewConversionFailedError(err)
	}

	result := &models.ConversionResult{
		SourceFilename: filename,
		Extension:      ext,
		SizeBytes:      staged.Size(),
		Markdown:       out.Markdown,
		Metadata:       out.Metadata,
		ConvertedAt:    time.Now(),
	}
	h.results.Put(result)

	return result, nil
}

func (h *ConvertHandlerImpl) toResponse(r *models.ConversionResult) convertResponse {
	return convertResponse{
		ID:           r.ID,
		FileName:     r.SourceFilename,
		Extension:    r.Extension,
		SizeBytes:    r.SizeBytes,
		SizeHuman:    r.SizeHuman(),
		Characters:   len([]rune(r.Markdown)),
		Header:       export.Header(r),
		Preview:      export.Preview(r.Markdown),
		Remaining:    export.Remaining(r.Markdown),
		Empty:        r.Empty(),
		Metadata:     r.Metadata,
		DownloadName: export.DownloadName(r),
		ConvertedAt:  r.ConvertedAt,
	}
}

// HandleGetResult returns the cached metadata and preview for a finished run
func (h *ConvertHandlerImpl) HandleGetResult(c echo.Context) error {
	result, apiErr := h.lookup(c)
	if apiErr != nil {
		return apiErr
	}
	return c.JSON(http.StatusOK, h.toResponse(result))
}

// HandleDownload streams the full artifact (metadata header + body) as a
// markdown attachment. The bytes are a pure function of the cached result.
func (h *ConvertHandlerImpl) HandleDownload(c echo.Context) error {
	result, apiErr := h.lookup(c)
	if apiErr != nil {
		return apiErr
	}

	name := export.DownloadName(result)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", export.Artifact(result))
}

// HandlePreviewHTML returns the rendered preview for the page's preview pane
func (h *ConvertHandlerImpl) HandlePreviewHTML(c echo.Context) error {
	result, apiErr := h.lookup(c)
	if apiErr != nil {
		return apiErr
	}

	html, err := export.PreviewHTML(result.Markdown)
	if err != nil {
		return NewInternalError("failed to render preview", err)
	}
	return c.HTML(http.StatusOK, html)
}

// HandleResultMsgpack returns the full result msgpack-encoded, for clients
// that want the body without JSON escaping overhead
func (h *ConvertHandlerImpl) HandleResultMsgpack(c echo.Context) error {
	result, apiErr := h.lookup(c)
	if apiErr != nil {
		return apiErr
	}

	data, err := msgpack.Marshal(result)
	if err != nil {
		return NewInternalError("failed to encode result", err)
	}
	return c.Blob(http.StatusOK, "application/x-msgpack", data)
}

// HandleDeleteResult discards a cached result ahead of its TTL
func (h *ConvertHandlerImpl) HandleDeleteResult(c echo.Context) error {
	if !h.allowDelete {
		return echo.NewHTTPError(http.StatusMethodNotAllowed, "result deletion is disabled")
	}

	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}
	if _, ok := h.results.Get(id); !ok {
		return NewNotFoundError("result", id)
	}

	h.results.Delete(id)
	return c.NoContent(http.StatusNoContent)
}

// HandleFormats returns the extension allow-list the page builds its file
// picker from
func (h *ConvertHandlerImpl) HandleFormats(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"formats": h.engine.Extensions(),
	})
}

func (h *ConvertHandlerImpl) lookup(c echo.Context) (*models.ConversionResult, *APIError) {
	id := c.Param("id")
	if id == "" {
		return nil, NewValidationError("id")
	}
	result, ok := h.results.Get(id)
	if !ok {
		return nil, NewNotFoundError("result", id)
	}
	return result, nil
}
