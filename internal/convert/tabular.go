package convert

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// convertCSV is the formatFn for .csv files. Rows become one markdown table;
// the first record is treated as the header.
func convertCSV(_ context.Context, path string) (Output, error) {
	f, err := os.Open(path)
	if err != nil {
		return Output{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are common in the wild
	records, err := r.ReadAll()
	if err != nil {
		return Output{}, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return Output{}, nil
	}

	return Output{Markdown: markdownTable(records[0], records[1:])}, nil
}

// markdownTable renders a header row plus data rows as a pipe table. Shared
// by the csv and xlsx backends.
func markdownTable(header []string, rows [][]string) string {
	var b strings.Builder
	t := tablewriter.NewWriter(&b)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	t.SetCenterSeparator("|")
	t.AppendBulk(rows)
	t.Render()
	return b.String()
}
