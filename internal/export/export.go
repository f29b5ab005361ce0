// Package export formats conversion results for display and download. Every
// function is a pure function of its inputs; calling twice on the same
// result yields byte-identical output.
package export

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"

	"github.com/file2md/backend/internal/models"
)

// PreviewLength bounds the preview to the first 1000 characters of the body.
const PreviewLength = 1000

// Header renders the metadata block that precedes the markdown body in the
// download artifact. The timestamp comes from the result itself, so the
// header is stable for a given result.
func Header(r *models.ConversionResult) string {
	var b strings.Builder
	b.WriteString("# Converted Markdown Document\n")
	b.WriteString("<!--\n")
	fmt.Fprintf(&b, "Original File: %s\n", r.SourceFilename)
	fmt.Fprintf(&b, "Conversion Date: %s\n", r.ConvertedAt.UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Original Size: %s (%d bytes)\n", r.SizeHuman(), r.SizeBytes)
	fmt.Fprintf(&b, "Converted Characters: %d\n", utf8.RuneCountInString(r.Markdown))
	if r.Metadata.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", r.Metadata.Title)
	}
	if r.Metadata.Author != "" {
		fmt.Fprintf(&b, "Author: %s\n", r.Metadata.Author)
	}
	b.WriteString("-->\n")
	return b.String()
}

// Artifact is the full downloadable document: metadata header followed by
// the raw markdown body.
func Artifact(r *models.ConversionResult) []byte {
	return []byte(Header(r) + "\n" + r.Markdown)
}

// DownloadName derives the artifact filename from the original upload:
// extension replaced by .md, with a timestamp so repeated conversions of the
// same file do not collide in the user's download directory.
func DownloadName(r *models.ConversionResult) string {
	stem := strings.TrimSuffix(r.SourceFilename, filepath.Ext(r.SourceFilename))
	if stem == "" {
		stem = "converted"
	}
	return fmt.Sprintf("%s_converted_%s.md", stem, r.ConvertedAt.UTC().Format("20060102_150405"))
}

// Preview returns the first min(PreviewLength, len) characters of body. The
// cut is rune-aligned so a multi-byte sequence is never split.
func Preview(body string) string {
	if utf8.RuneCountInString(body) <= PreviewLength {
		return body
	}
	runes := []rune(body)
	return string(runes[:PreviewLength])
}

// Remaining reports how many characters of body fall outside the preview.
func Remaining(body string) int {
	n := utf8.RuneCountInString(body) - PreviewLength
	if n < 0 {
		return 0
	}
	return n
}

// PreviewHTML renders the preview portion of the body as HTML for the
// page's preview pane.
func PreviewHTML(body string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(Preview(body)), &buf); err != nil {
		return "", fmt.Errorf("rendering preview: %w", err)
	}
	return buf.String(), nil
}
