package convert

// Image conversion shells out to tesseract. The binary is probed per call
// with exec.LookPath so a server without OCR installed still converts every
// other format and reports a descriptive failure for images only.

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// lookPath is swapped out in tests to simulate a missing tesseract binary.
var lookPath = exec.LookPath

// runCommand is swapped out in tests to stub the OCR subprocess.
var runCommand = func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// convertImage is the formatFn for .jpg/.jpeg/.png/.bmp/.gif files.
func (e *Engine) convertImage(ctx context.Context, path string) (Output, error) {
	if _, err := lookPath("tesseract"); err != nil {
		return Output{}, fmt.Errorf("OCR backend unavailable: tesseract not on PATH (needed for %s)", filepath.Base(path))
	}

	stdout, stderr, err := runCommand(ctx, "tesseract", path, "stdout", "-l", e.ocrLang)
	if err != nil {
		msg := strings.TrimSpace(string(stderr))
		if msg == "" {
			msg = err.Error()
		}
		return Output{}, fmt.Errorf("tesseract: %s", msg)
	}

	return Output{Markdown: strings.TrimSpace(string(stdout))}, nil
}
