// Package staging writes uploaded bytes to a short-lived temp file so the
// conversion engine can operate on a filesystem path.
package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Staged is a temporary on-disk copy of an uploaded file. It is owned by a
// single conversion run; callers must defer Remove so the file is deleted on
// every exit path.
type Staged struct {
	path    string
	ext     string
	size    int64
	removed bool
}

// Stage writes r to a uniquely named file under dir. The original file's
// extension is preserved because the engine dispatches on it. The file is
// fully written and closed before Stage returns.
func Stage(dir, filename string, r io.Reader) (*Staged, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(dir, uuid.New().String()+ext)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating staged file: %w", err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("writing staged file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("closing staged file: %w", err)
	}

	return &Staged{path: path, ext: ext, size: size}, nil
}

// Path returns the absolute filesystem location of the staged file.
func (s *Staged) Path() string {
	return s.path
}

// Ext returns the lowercased extension, including the leading dot.
func (s *Staged) Ext() string {
	return s.ext
}

// Size returns the number of bytes written.
func (s *Staged) Size() int64 {
	return s.size
}

// Remove deletes the staged file. It is idempotent and safe to defer; a
// missing file is not an error.
func (s *Staged) Remove() error {
	if s.removed {
		return nil
	}
	s.removed = true
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing staged file: %w", err)
	}
	return nil
}
