package convert

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertArchive_SupportedMembers(t *testing.T) {
	e := NewEngine(Options{})
	path := buildZip(t, "bundle.zip", map[string]string{
		"notes.txt":  "some notes",
		"readme.md":  "# readme",
		"binary.exe": "MZ",
	})

	out, err := e.Convert(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, out.Markdown, "## notes.txt")
	assert.Contains(t, out.Markdown, "some notes")
	assert.Contains(t, out.Markdown, "## readme.md")
	assert.Contains(t, out.Markdown, "# readme")
	assert.Contains(t, out.Markdown, "## Skipped members")
	assert.Contains(t, out.Markdown, "- binary.exe")
}

func TestConvertArchive_NestedZipSkipped(t *testing.T) {
	e := NewEngine(Options{})
	path := buildZip(t, "outer.zip", map[string]string{
		"inner.zip": "PK\x03\x04not really",
		"ok.txt":    "fine",
	})

	out, err := e.Convert(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, out.Markdown, "- inner.zip")
	assert.Contains(t, out.Markdown, "fine")
}

func TestConvertArchive_MemberFailureFailsRun(t *testing.T) {
	e := NewEngine(Options{})
	path := buildZip(t, "bad.zip", map[string]string{
		"broken.pdf": "not a pdf at all",
	})

	_, err := e.Convert(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.pdf")
}

func TestConvertArchive_EmptyMemberNoted(t *testing.T) {
	e := NewEngine(Options{})
	path := buildZip(t, "sparse.zip", map[string]string{
		"blank.txt": "",
	})

	out, err := e.Convert(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, out.Markdown, "## blank.txt")
	assert.Contains(t, out.Markdown, "no extractable text")
}

func TestConvertArchive_TooManyMembers(t *testing.T) {
	e := NewEngine(Options{MaxArchiveMembers: 2})
	path := buildZip(t, "big.zip", map[string]string{
		"a.txt": "a",
		"b.txt": "b",
		"c.txt": "c",
	})

	_, err := e.Convert(context.Background(), path)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "more than 2 members"), err.Error())
}
