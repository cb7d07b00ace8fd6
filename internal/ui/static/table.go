// Package static renders non-interactive terminal output: record tables
// and key/value blocks.
package static

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).PaddingRight(2)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
	keyStyle    = lipgloss.NewStyle().Bold(true)
)

// RenderTable renders rows below bold headers with aligned columns and no
// borders. Rows shorter than headers are padded with empty cells. Nothing
// is rendered without rows.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	padded := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) < len(headers) {
			row = append(row[:len(row):len(row)], make([]string, len(headers)-len(row))...)
		}
		padded[i] = row
	}

	t := table.New().
		Headers(headers...).
		Rows(padded...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return t.String() + "\n"
}

// RenderKeyValues renders one "Key: value" line per pair with the values
// aligned. Pairs with an empty value are skipped.
func RenderKeyValues(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		if p[1] != "" {
			width = max(width, len(p[0]))
		}
	}

	var b strings.Builder
	for _, p := range pairs {
		if p[1] == "" {
			continue
		}
		b.WriteString(keyStyle.Render(p[0] + ":"))
		b.WriteString(strings.Repeat(" ", width-len(p[0])+1))
		b.WriteString(p[1])
		b.WriteString("\n")
	}
	return b.String()
}
