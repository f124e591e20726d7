package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/baseplate/storeops/internal/core/search"
)

const maxCellWidth = 40

var (
	chipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("25")).
			Padding(0, 1)
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("105")).
			Background(lipgloss.Color("236"))
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)

// render draws the chips, the displayed columns of every row and a paging
// status line.
func render[T any](columns search.Columns, displayed []string, chips []search.Chip, rows []T, page search.Page, total int64) string {
	var cols []*search.Column
	for _, name := range displayed {
		if c := columns.ByName(name); c != nil {
			cols = append(cols, c)
		}
	}

	cells := make([][]string, len(rows))
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = lipgloss.Width(c.Label())
	}
	for r, row := range rows {
		values := flatten(row)
		cells[r] = make([]string, len(cols))
		for i, c := range cols {
			s := search.FormatValue(c, values[c.Name])
			if rs := []rune(s); len(rs) > maxCellWidth {
				s = string(rs[:maxCellWidth-1]) + "…"
			}
			cells[r][i] = s
			widths[i] = max(widths[i], lipgloss.Width(s))
		}
	}

	var b strings.Builder
	if len(chips) > 0 {
		parts := make([]string, len(chips))
		for i, chip := range chips {
			parts[i] = chipStyle.Render(chip.Text)
		}
		b.WriteString(strings.Join(parts, " "))
		b.WriteString("\n\n")
	}

	header := make([]string, len(cols))
	rule := make([]string, len(cols))
	for i, c := range cols {
		header[i] = pad(c.Label(), widths[i])
		rule[i] = strings.Repeat("─", widths[i])
	}
	b.WriteString(headerStyle.Render(" " + strings.Join(header, " │ ") + " "))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render("─" + strings.Join(rule, "─┼─") + "─"))
	b.WriteString("\n")
	for _, row := range cells {
		for i := range row {
			row[i] = pad(row[i], widths[i])
		}
		b.WriteString(" " + strings.Join(row, " │ ") + " \n")
	}

	first := int64(page.Number*page.Size) + 1
	last := first + int64(len(rows)) - 1
	if len(rows) == 0 {
		first, last = 0, 0
	}
	b.WriteString(statusStyle.Render(fmt.Sprintf(" %d-%d of %d rows", first, last, total)))
	return b.String()
}

func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// flatten maps a row to dotted JSON paths ("store.code"), keeping the
// intermediate objects too so custom columns can format them.
func flatten(row any) map[string]any {
	b, err := json.Marshal(row)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	out := map[string]any{}
	var walk func(prefix string, v any)
	walk = func(prefix string, v any) {
		out[prefix] = v
		if obj, ok := v.(map[string]any); ok {
			for k, child := range obj {
				walk(prefix+"."+k, child)
			}
		}
	}
	for k, v := range m {
		walk(k, v)
	}
	return out
}
