package convert

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildZip writes a zip file with the given members and returns its path.
func buildZip(t *testing.T, name string, members map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for member, content := range members {
		w, err := zw.Create(member)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

const docxBody = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
    <w:p></w:p>
  </w:body>
</w:document>`

const coreProps = `<?xml version="1.0"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
  xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:title>Quarterly Report</dc:title>
  <dc:creator>A. Writer</dc:creator>
</cp:coreProperties>`

func TestConvertDOCX(t *testing.T) {
	path := buildZip(t, "report.docx", map[string]string{
		"word/document.xml": docxBody,
		"docProps/core.xml": coreProps,
	})

	out, err := convertDOCX(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", out.Markdown)
	assert.Equal(t, "Quarterly Report", out.Metadata.Title)
	assert.Equal(t, "A. Writer", out.Metadata.Author)
}

func TestConvertDOCX_MissingBody(t *testing.T) {
	path := buildZip(t, "hollow.docx", map[string]string{
		"word/other.xml": "<x/>",
	})

	_, err := convertDOCX(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word/document.xml")
}

func slideXML(text string) string {
	return `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
  xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree><p:sp><p:txBody>
    <a:p><a:r><a:t>` + text + `</a:t></a:r></a:p>
  </p:txBody></p:sp></p:spTree></p:cSld>
</p:sld>`
}

func TestConvertPPTX_SlidesInDeckOrder(t *testing.T) {
	// slide10 sorts after slide2 numerically, not lexically
	path := buildZip(t, "deck.pptx", map[string]string{
		"ppt/slides/slide10.xml": slideXML("tenth"),
		"ppt/slides/slide2.xml":  slideXML("second"),
		"ppt/slides/slide1.xml":  slideXML("first"),
	})

	out, err := convertPPTX(context.Background(), path)
	require.NoError(t, err)

	first := strings.Index(out.Markdown, "## Slide 1\n")
	second := strings.Index(out.Markdown, "## Slide 2\n")
	tenth := strings.Index(out.Markdown, "## Slide 10\n")
	require.True(t, first >= 0 && second >= 0 && tenth >= 0, "all slides present:\n%s", out.Markdown)
	assert.Less(t, first, second)
	assert.Less(t, second, tenth)
	assert.Contains(t, out.Markdown, "tenth")
}

func TestConvertDOCX_NotAZip(t *testing.T) {
	path := writeFile(t, "fake.docx", "plain text, no zip magic")

	_, err := convertDOCX(context.Background(), path)
	require.Error(t, err)
}
