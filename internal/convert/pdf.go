package convert

// PDF conversion reads the embedded text layer only. Scanned (image-only)
// PDFs yield empty output rather than an error; running them through OCR
// would require rasterization, which none of our backends do.

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/file2md/backend/internal/models"
)

// convertPDF is the formatFn for .pdf files.
func convertPDF(_ context.Context, path string) (Output, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Output{}, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	fonts := make(map[string]*pdf.Font)
	var pages []string

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return Output{}, fmt.Errorf("reading pdf page %d: %w", i, err)
		}
		if t := strings.TrimSpace(text); t != "" {
			pages = append(pages, t)
		}
	}

	return Output{
		Markdown: strings.Join(pages, "\n\n---\n\n"),
		Metadata: pdfMetadata(r),
	}, nil
}

// pdfMetadata pulls Title/Author from the Info dictionary when present.
// Malformed dictionaries panic inside the pdf package; swallow that and
// return empty metadata, the text extraction already succeeded.
func pdfMetadata(r *pdf.Reader) (meta models.DocumentMetadata) {
	defer func() {
		if recover() != nil {
			meta = models.DocumentMetadata{}
		}
	}()

	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return meta
	}
	meta.Title = strings.TrimSpace(info.Key("Title").Text())
	meta.Author = strings.TrimSpace(info.Key("Author").Text())
	return meta
}
