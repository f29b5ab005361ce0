package convert

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertImage_TesseractMissing(t *testing.T) {
	orig := lookPath
	lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	t.Cleanup(func() { lookPath = orig })

	e := NewEngine(Options{})
	path := writeFile(t, "scan.png", "\x89PNG")

	_, err := e.Convert(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OCR backend unavailable")
	assert.Contains(t, err.Error(), "scan.png")
}

func TestConvertImage_StubbedOCR(t *testing.T) {
	origLook, origRun := lookPath, runCommand
	lookPath = func(string) (string, error) { return "/usr/bin/tesseract", nil }
	runCommand = func(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
		assert.Equal(t, "tesseract", name)
		require.Len(t, args, 4)
		assert.Equal(t, "stdout", args[1])
		assert.Equal(t, []string{"-l", "deu"}, args[2:])
		return []byte("  recognized text \n"), nil, nil
	}
	t.Cleanup(func() { lookPath, runCommand = origLook, origRun })

	e := NewEngine(Options{OCRLanguage: "deu"})
	path := writeFile(t, "photo.jpg", "\xff\xd8")

	out, err := e.Convert(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "recognized text", out.Markdown)
}

func TestConvertImage_TesseractFailure(t *testing.T) {
	origLook, origRun := lookPath, runCommand
	lookPath = func(string) (string, error) { return "/usr/bin/tesseract", nil }
	runCommand = func(context.Context, string, ...string) ([]byte, []byte, error) {
		return nil, []byte("Error in pixReadStream"), errors.New("exit status 1")
	}
	t.Cleanup(func() { lookPath, runCommand = origLook, origRun })

	e := NewEngine(Options{})
	path := writeFile(t, "garbage.gif", "GIF89a")

	_, err := e.Convert(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pixReadStream")
}
