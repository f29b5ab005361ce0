package convert

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// convertText is the formatFn for .txt and .md files. The content already is
// (or passes as) markdown, so it goes through untouched.
func convertText(_ context.Context, path string) (Output, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Output{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Output{Markdown: string(data)}, nil
}

// convertJSON wraps the document in a fenced json code block.
func convertJSON(ctx context.Context, path string) (Output, error) {
	return fencedBlock(ctx, path, "json")
}

// convertXML wraps the document in a fenced xml code block.
func convertXML(ctx context.Context, path string) (Output, error) {
	return fencedBlock(ctx, path, "xml")
}

func fencedBlock(_ context.Context, path, lang string) (Output, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Output{}, fmt.Errorf("reading %s: %w", path, err)
	}
	body := strings.TrimRight(string(data), "\n")
	if body == "" {
		return Output{}, nil
	}
	return Output{Markdown: "```" + lang + "\n" + body + "\n```\n"}, nil
}
