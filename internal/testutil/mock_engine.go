// mock_engine.go - Stub conversion engine for handler tests
package testutil

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"

	"github.com/file2md/backend/internal/convert"
	"github.com/file2md/backend/internal/models"
)

// MockEngine implements api.Converter. By default it echoes the staged
// file's content as markdown; tests override ConvertFn to force failures or
// canned output.
type MockEngine struct {
	Exts      []string
	ConvertFn func(ctx context.Context, path string) (convert.Output, error)

	// Calls records every path Convert saw, so tests can assert the engine
	// was (or was not) invoked and inspect the staged path afterwards.
	Calls []string
}

// NewMockEngine creates a stub engine supporting the given extensions
// (defaults to txt and md when none are given).
func NewMockEngine(exts ...string) *MockEngine {
	if len(exts) == 0 {
		exts = []string{"txt", "md"}
	}
	return &MockEngine{Exts: exts}
}

func (m *MockEngine) Convert(ctx context.Context, path string) (convert.Output, error) {
	m.Calls = append(m.Calls, path)
	if m.ConvertFn != nil {
		return m.ConvertFn(ctx, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return convert.Output{}, err
	}
	return convert.Output{
		Markdown: string(data),
		Metadata: models.DocumentMetadata{},
	}, nil
}

func (m *MockEngine) Supports(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, e := range m.Exts {
		if e == ext {
			return true
		}
	}
	return false
}

func (m *MockEngine) Extensions() []string {
	exts := append([]string(nil), m.Exts...)
	sort.Strings(exts)
	return exts
}

// FailingEngine returns a MockEngine whose Convert always fails with msg.
func FailingEngine(msg string, exts ...string) *MockEngine {
	m := NewMockEngine(exts...)
	m.ConvertFn = func(context.Context, string) (convert.Output, error) {
		return convert.Output{}, &convert.ConversionError{Filename: "stub", Cause: errors.New(msg)}
	}
	return m
}
