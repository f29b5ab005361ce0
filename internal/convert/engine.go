// Package convert turns documents, images, data files and archives into
// markdown text. The engine dispatches on file extension to a per-format
// backend; parsing itself is delegated to format libraries (pdf text layer,
// excelize, html-to-markdown) or to an external OCR binary for images.
package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/file2md/backend/internal/models"
)

// Output is what a backend produces: markdown text plus whatever metadata
// the source format carries. Markdown may be empty for degenerate inputs.
type Output struct {
	Markdown string
	Metadata models.DocumentMetadata
}

// formatFn converts the file at path. Backends must not mutate or delete
// the file; the staging layer owns its lifetime.
type formatFn func(ctx context.Context, path string) (Output, error)

// Options configures engine construction.
type Options struct {
	// OCRLanguage is the tesseract language code. Defaults to "eng".
	OCRLanguage string
	// MaxArchiveMembers bounds how many zip members one upload may contain.
	// Defaults to 64.
	MaxArchiveMembers int
	// Enabled restricts the engine to a subset of extensions (without dots).
	// Nil or empty enables every built-in format. Unknown entries are
	// ignored; UnknownEnabled reports them after construction.
	Enabled []string
}

// Engine converts files to markdown. It is immutable after construction and
// safe for concurrent use; backends hold no shared state and OCR spawns an
// independent subprocess per call.
type Engine struct {
	formats        map[string]formatFn
	ocrLang        string
	maxMembers     int
	unknownEnabled []string
}

// NewEngine builds an engine with all built-in format backends, optionally
// narrowed to opts.Enabled.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		ocrLang:    opts.OCRLanguage,
		maxMembers: opts.MaxArchiveMembers,
	}
	if e.ocrLang == "" {
		e.ocrLang = "eng"
	}
	if e.maxMembers <= 0 {
		e.maxMembers = 64
	}

	all := map[string]formatFn{
		"pdf":  convertPDF,
		"docx": convertDOCX,
		"pptx": convertPPTX,
		"xlsx": convertXLSX,
		"html": convertHTML,
		"htm":  convertHTML,
		"txt":  convertText,
		"md":   convertText,
		"csv":  convertCSV,
		"json": convertJSON,
		"xml":  convertXML,
		"jpg":  e.convertImage,
		"jpeg": e.convertImage,
		"png":  e.convertImage,
		"bmp":  e.convertImage,
		"gif":  e.convertImage,
		"zip":  e.convertArchive,
	}

	if len(opts.Enabled) == 0 {
		e.formats = all
		return e
	}

	e.formats = make(map[string]formatFn)
	for _, ext := range opts.Enabled {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if fn, ok := all[ext]; ok {
			e.formats[ext] = fn
		} else if ext != "" {
			e.unknownEnabled = append(e.unknownEnabled, ext)
		}
	}
	return e
}

// Supports reports whether ext (with or without a leading dot, any case)
// has a registered backend.
func (e *Engine) Supports(ext string) bool {
	_, ok := e.formats[normalizeExt(ext)]
	return ok
}

// Extensions returns the registered extensions, sorted, without dots.
func (e *Engine) Extensions() []string {
	exts := make([]string, 0, len(e.formats))
	for ext := range e.formats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// UnknownEnabled returns entries from Options.Enabled that matched no
// built-in format. Callers log these at startup.
func (e *Engine) UnknownEnabled() []string {
	return e.unknownEnabled
}

// Convert runs the backend for path's extension. All failure modes —
// backend error, backend panic, context deadline — come back as a single
// *ConversionError carrying the underlying cause. The staged file is only
// read, never modified.
func (e *Engine) Convert(ctx context.Context, path string) (Output, error) {
	name := filepath.Base(path)
	fn, ok := e.formats[normalizeExt(filepath.Ext(path))]
	if !ok {
		return Output{}, &ConversionError{Filename: name, Cause: ErrUnsupported}
	}

	type outcome struct {
		out Output
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("converter panicked: %v", r)}
			}
		}()
		out, err := fn(ctx, path)
		done <- outcome{out: out, err: err}
	}()

	select {
	case <-ctx.Done():
		// The backend goroutine is abandoned. It only holds a read fd on
		// the staged file, so the caller's cleanup can unlink underneath it.
		return Output{}, &ConversionError{Filename: name, Cause: ctx.Err()}
	case o := <-done:
		if o.err != nil {
			return Output{}, &ConversionError{Filename: name, Cause: o.err}
		}
		return o.out, nil
	}
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
