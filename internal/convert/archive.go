package convert

// ZIP uploads: every supported member is converted independently and the
// outputs are concatenated in archive order under "## <member>" headings.
// Unsupported members are listed at the end. One failing member fails the
// whole archive — the pipeline reports a single error per run, never a
// partial artifact. Nested archives are not descended into.

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// convertArchive is the formatFn for .zip files.
func (e *Engine) convertArchive(ctx context.Context, path string) (Output, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return Output{}, fmt.Errorf("opening archive: %w", err)
	}
	defer zr.Close()

	var (
		sections []string
		skipped  []string
		members  int
	)

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		members++
		if members > e.maxMembers {
			return Output{}, fmt.Errorf("archive has more than %d members", e.maxMembers)
		}

		ext := normalizeExt(filepath.Ext(f.Name))
		if ext == "zip" || !e.Supports(ext) {
			skipped = append(skipped, f.Name)
			continue
		}

		out, err := e.convertMember(ctx, f, ext)
		if err != nil {
			return Output{}, fmt.Errorf("archive member %s: %w", f.Name, err)
		}

		body := strings.TrimSpace(out.Markdown)
		if body == "" {
			body = "_(no extractable text)_"
		}
		sections = append(sections, fmt.Sprintf("## %s\n\n%s", f.Name, body))
	}

	if len(skipped) > 0 {
		var b strings.Builder
		b.WriteString("## Skipped members\n")
		for _, name := range skipped {
			fmt.Fprintf(&b, "\n- %s", name)
		}
		sections = append(sections, b.String())
	}

	return Output{Markdown: strings.Join(sections, "\n\n")}, nil
}

// convertMember extracts one archive member to its own temp file and runs
// the matching backend on it. The temp copy is removed before returning,
// success or not.
func (e *Engine) convertMember(ctx context.Context, f *zip.File, ext string) (Output, error) {
	rc, err := f.Open()
	if err != nil {
		return Output{}, fmt.Errorf("opening member: %w", err)
	}
	defer rc.Close()

	tmp, err := os.CreateTemp("", "file2md-member-*."+ext)
	if err != nil {
		return Output{}, fmt.Errorf("staging member: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		return Output{}, fmt.Errorf("extracting member: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Output{}, fmt.Errorf("staging member: %w", err)
	}

	out, err := e.Convert(ctx, tmpPath)
	if err != nil {
		// Unwrap the inner ConversionError so the archive error reads as
		// one message with the member's cause attached.
		var cerr *ConversionError
		if errors.As(err, &cerr) {
			return Output{}, cerr.Cause
		}
		return Output{}, err
	}
	return out, nil
}
