package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/file2md/backend/internal/models"
)

// convertXLSX is the formatFn for .xlsx files. Each sheet becomes a markdown
// table; with more than one sheet, each table sits under a "## <name>"
// heading.
func convertXLSX(_ context.Context, path string) (Output, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Output{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	var sections []string

	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return Output{}, fmt.Errorf("reading sheet %q: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}

		padded := padRows(rows)
		table := markdownTable(padded[0], padded[1:])
		if len(sheets) > 1 {
			sections = append(sections, fmt.Sprintf("## %s\n\n%s", sheet, table))
		} else {
			sections = append(sections, table)
		}
	}

	return Output{
		Markdown: strings.Join(sections, "\n"),
		Metadata: workbookMetadata(f),
	}, nil
}

// padRows right-pads ragged rows so every row has the width of the widest
// one; GetRows trims trailing empty cells.
func padRows(rows [][]string) [][]string {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		if len(r) == width {
			out[i] = r
			continue
		}
		padded := make([]string, width)
		copy(padded, r)
		out[i] = padded
	}
	return out
}

func workbookMetadata(f *excelize.File) models.DocumentMetadata {
	props, err := f.GetDocProps()
	if err != nil || props == nil {
		return models.DocumentMetadata{}
	}
	return models.DocumentMetadata{
		Title:  strings.TrimSpace(props.Title),
		Author: strings.TrimSpace(props.Creator),
	}
}
