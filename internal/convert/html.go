package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	readability "github.com/go-shiori/go-readability"

	"github.com/file2md/backend/internal/models"
)

// convertHTML is the formatFn for .html and .htm files. The whole document
// is converted to markdown; a readability pass supplies title/byline
// metadata when the page looks like an article.
func convertHTML(_ context.Context, path string) (Output, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Output{}, fmt.Errorf("reading %s: %w", path, err)
	}

	conv := md.NewConverter("", true, nil)
	markdown, err := conv.ConvertString(string(data))
	if err != nil {
		return Output{}, fmt.Errorf("converting html: %w", err)
	}

	return Output{
		Markdown: strings.TrimSpace(markdown) + "\n",
		Metadata: htmlMetadata(data),
	}, nil
}

// htmlMetadata runs readability over the document for title and byline.
// Best-effort only; failures leave metadata empty.
func htmlMetadata(data []byte) models.DocumentMetadata {
	article, err := readability.FromReader(bytes.NewReader(data), nil)
	if err != nil {
		return models.DocumentMetadata{}
	}
	return models.DocumentMetadata{
		Title:  strings.TrimSpace(article.Title),
		Author: strings.TrimSpace(article.Byline),
	}
}
