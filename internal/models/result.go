package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DocumentMetadata holds optional, format-dependent metadata extracted
// during conversion. Fields are empty when the source format carries none.
type DocumentMetadata struct {
	Title  string `json:"title,omitempty" msgpack:"title,omitempty"`
	Author string `json:"author,omitempty" msgpack:"author,omitempty"`
}

// ConversionResult is the outcome of one successful conversion run. It is
// immutable once built; everything the download and preview endpoints serve
// is derived from it.
type ConversionResult struct {
	ID             string           `json:"id" msgpack:"id"`
	SourceFilename string           `json:"sourceFilename" msgpack:"sourceFilename"`
	Extension      string           `json:"extension" msgpack:"extension"`
	SizeBytes      int64            `json:"sizeBytes" msgpack:"sizeBytes"`
	Markdown       string           `json:"markdown" msgpack:"markdown"`
	Metadata       DocumentMetadata `json:"metadata" msgpack:"metadata"`
	ConvertedAt    time.Time        `json:"convertedAt" msgpack:"convertedAt"`
}

// Empty reports whether conversion succeeded but produced no text.
func (r *ConversionResult) Empty() bool {
	return strings.TrimSpace(r.Markdown) == ""
}

// SizeHuman returns the source size in human-readable form, e.g. "1.5 MB".
func (r *ConversionResult) SizeHuman() string {
	return FormatSize(r.SizeBytes)
}

// FormatSize converts a byte count to a human-readable string.
func FormatSize(n int64) string {
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024.0 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.1f TB", size)
}

// ExtensionOf returns the lowercased extension of name without the leading
// dot, or "" when name has none.
func ExtensionOf(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return strings.TrimPrefix(ext, ".")
}
