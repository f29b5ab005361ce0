package export

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/file2md/backend/internal/models"
)

func sampleResult(body string) *models.ConversionResult {
	return &models.ConversionResult{
		ID:             "run-1",
		SourceFilename: "report.pdf",
		Extension:      "pdf",
		SizeBytes:      2048,
		Markdown:       body,
		ConvertedAt:    time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}
}

func TestPreview_LengthInvariant(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty", "", 0},
		{"short", "Hello World", 11},
		{"exactly at limit", strings.Repeat("a", PreviewLength), PreviewLength},
		{"over limit", strings.Repeat("a", PreviewLength+500), PreviewLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Preview(tt.body)
			assert.Equal(t, tt.want, utf8.RuneCountInString(p))
			assert.True(t, strings.HasPrefix(tt.body, p), "preview must be a prefix of the body")
		})
	}
}

func TestPreview_RuneSafeCut(t *testing.T) {
	body := strings.Repeat("ü", PreviewLength+10)
	p := Preview(body)

	assert.Equal(t, PreviewLength, utf8.RuneCountInString(p))
	assert.True(t, utf8.ValidString(p))
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, 0, Remaining("short"))
	assert.Equal(t, 0, Remaining(strings.Repeat("a", PreviewLength)))
	assert.Equal(t, 42, Remaining(strings.Repeat("a", PreviewLength+42)))
}

func TestArtifact_Deterministic(t *testing.T) {
	r := sampleResult("# Heading\n\nbody")

	first := Artifact(r)
	second := Artifact(r)
	assert.Equal(t, first, second, "export must be a pure function of the result")
}

func TestArtifact_HeaderThenBody(t *testing.T) {
	r := sampleResult("# Heading\n\nbody")
	artifact := string(Artifact(r))

	assert.True(t, strings.HasPrefix(artifact, "# Converted Markdown Document\n"))
	assert.True(t, strings.HasSuffix(artifact, "# Heading\n\nbody"))
	assert.Contains(t, artifact, "Original File: report.pdf")
	assert.Contains(t, artifact, "Conversion Date: 2026-03-14 09:26:53")
	assert.Contains(t, artifact, "(2048 bytes)")
}

func TestHeader_OptionalMetadata(t *testing.T) {
	r := sampleResult("body")
	assert.NotContains(t, Header(r), "Title:")

	r.Metadata = models.DocumentMetadata{Title: "Q1", Author: "A. Writer"}
	h := Header(r)
	assert.Contains(t, h, "Title: Q1")
	assert.Contains(t, h, "Author: A. Writer")
}

func TestHeader_EmptyBodyStillRenders(t *testing.T) {
	r := sampleResult("")
	h := Header(r)
	assert.Contains(t, h, "Converted Characters: 0")
}

func TestDownloadName(t *testing.T) {
	r := sampleResult("body")
	name := DownloadName(r)

	assert.True(t, strings.HasSuffix(name, ".md"))
	assert.True(t, strings.HasPrefix(name, "report_converted_"))
	assert.NotContains(t, name, ".pdf")
	assert.Equal(t, "report_converted_20260314_092653.md", name)
}

func TestDownloadName_NoExtension(t *testing.T) {
	r := sampleResult("body")
	r.SourceFilename = "README"
	assert.Equal(t, "README_converted_20260314_092653.md", DownloadName(r))
}

func TestPreviewHTML(t *testing.T) {
	html, err := PreviewHTML("# Title\n\nSome *emphasis* here.")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<em>emphasis</em>")
}
