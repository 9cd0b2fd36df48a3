package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Alignment represents column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

// ColumnDef defines a column in a ResultsTable.
type ColumnDef struct {
	Name       string         // Column name (used for width lookups, not displayed)
	WidthRatio float64        // Proportion of available width (0.0-1.0), 0 means fixed width
	MinWidth   int            // Minimum width in characters
	MaxWidth   int            // Maximum width (0 = no limit)
	Align      Alignment      // Text alignment
	Style      lipgloss.Style // Style to apply to cells in this column
}

// ResultRow represents a single row in the results table.
type ResultRow struct {
	Num   int      // Row number (1-indexed)
	Cells []string // Cell values for each column
}

// ResultsTable renders search results with muted row separators and
// terminal-width-aware column sizing.
type ResultsTable struct {
	display *DisplayContext
	columns []ColumnDef
	rows    []ResultRow
}

// Standard column definitions for search output.
var (
	// ColNum is the result number column (fixed width, right-aligned, muted).
	ColNum = ColumnDef{
		Name:     "num",
		MinWidth: 4,
		MaxWidth: 6,
		Align:    AlignRight,
		Style:    Muted,
	}

	// ColPath is the symbol+path column (flexible width).
	ColPath = ColumnDef{
		Name:       "path",
		WidthRatio: 0.62,
		MinWidth:   24,
		MaxWidth:   120,
		Align:      AlignLeft,
	}

	// ColID is the node ID column.
	ColID = ColumnDef{
		Name:       "id",
		WidthRatio: 0.22,
		MinWidth:   8,
		MaxWidth:   24,
		Align:      AlignLeft,
		Style:      Muted,
	}

	// ColKind is the node kind column.
	ColKind = ColumnDef{
		Name:       "kind",
		WidthRatio: 0.16,
		MinWidth:   6,
		MaxWidth:   14,
		Align:      AlignLeft,
		Style:      Muted,
	}
)

// SearchLayout is used for search results: [num, path, id, kind]
var SearchLayout = []ColumnDef{ColNum, ColPath, ColID, ColKind}

// Column definitions for history listings.
var (
	// ColAge is the relative-time column.
	ColAge = ColumnDef{
		Name:     "age",
		MinWidth: 10,
		MaxWidth: 14,
		Align:    AlignLeft,
		Style:    Muted,
	}

	// ColQuery is the raw query column (flexible width).
	ColQuery = ColumnDef{
		Name:       "query",
		WidthRatio: 0.55,
		MinWidth:   16,
		MaxWidth:   80,
		Align:      AlignLeft,
	}

	// ColStatus is the search outcome column.
	ColStatus = ColumnDef{
		Name:     "status",
		MinWidth: 9,
		MaxWidth: 10,
		Align:    AlignLeft,
		Style:    Muted,
	}

	// ColCount is the result count column.
	ColCount = ColumnDef{
		Name:     "count",
		MinWidth: 5,
		MaxWidth: 7,
		Align:    AlignRight,
		Style:    Muted,
	}

	// ColScene is the scene file column.
	ColScene = ColumnDef{
		Name:       "scene",
		WidthRatio: 0.45,
		MinWidth:   12,
		MaxWidth:   40,
		Align:      AlignLeft,
		Style:      Muted,
	}
)

// HistoryLayout is used for history listings: [age, query, status, count, scene]
var HistoryLayout = []ColumnDef{ColAge, ColQuery, ColStatus, ColCount, ColScene}

// NewResultsTable creates a new ResultsTable with the given display context and column layout.
func NewResultsTable(display *DisplayContext, columns []ColumnDef) *ResultsTable {
	return &ResultsTable{
		display: display,
		columns: columns,
		rows:    make([]ResultRow, 0),
	}
}

// AddRow adds a row to the table.
func (t *ResultsTable) AddRow(row ResultRow) {
	t.rows = append(t.rows, row)
}

// ContentWidth returns the calculated width for a column by name, so
// callers can truncate cell content to the actual available space.
func (t *ResultsTable) ContentWidth(columnName string) int {
	widths := t.calculateWidths()
	for i, col := range t.columns {
		if col.Name == columnName {
			return widths[i]
		}
	}
	return 60 // fallback
}

// calculateWidths computes column widths based on terminal size and column definitions.
func (t *ResultsTable) calculateWidths() []int {
	widths := make([]int, len(t.columns))

	// First pass: calculate fixed widths and total ratio
	var totalRatio float64
	var fixedWidth int
	const columnPadding = 2 // padding between columns

	for i, col := range t.columns {
		if col.WidthRatio == 0 {
			widths[i] = col.MinWidth
			if col.MaxWidth > 0 && widths[i] > col.MaxWidth {
				widths[i] = col.MaxWidth
			}
			fixedWidth += widths[i]
		} else {
			totalRatio += col.WidthRatio
		}
	}

	// Calculate available space for flexible columns
	totalPadding := (len(t.columns) - 1) * columnPadding
	leftMargin := 2 // indent for aesthetic
	available := t.display.TermWidth - fixedWidth - totalPadding - leftMargin

	if available < 0 {
		available = 0
	}

	// Second pass: distribute available space by ratio
	for i, col := range t.columns {
		if col.WidthRatio > 0 {
			ratio := col.WidthRatio / totalRatio
			width := int(float64(available) * ratio)

			if width < col.MinWidth {
				width = col.MinWidth
			}
			if col.MaxWidth > 0 && width > col.MaxWidth {
				width = col.MaxWidth
			}

			widths[i] = width
		}
	}

	return widths
}

// Render generates the table output as a string.
func (t *ResultsTable) Render() string {
	if len(t.rows) == 0 {
		return ""
	}

	widths := t.calculateWidths()

	tableRows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		tableRow := make([]string, len(t.columns))
		for j := range t.columns {
			if j < len(row.Cells) {
				tableRow[j] = row.Cells[j]
			}
		}
		tableRows[i] = tableRow
	}

	// Lipgloss table with minimal border style: muted row separators only
	tbl := table.New().
		Border(lipgloss.Border{
			Top:    "─",
			Bottom: "─",
			Left:   "",
			Right:  "",
			Middle: "─",
		}).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(true).
		BorderColumn(false).
		BorderStyle(Muted).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col >= len(t.columns) {
				return lipgloss.NewStyle()
			}

			colDef := t.columns[col]
			style := colDef.Style
			if style.Value() == "" {
				style = lipgloss.NewStyle()
			}

			style = style.Width(widths[col])

			switch colDef.Align {
			case AlignRight:
				style = style.Align(lipgloss.Right)
			case AlignCenter:
				style = style.Align(lipgloss.Center)
			default:
				style = style.Align(lipgloss.Left)
			}

			// Right padding except for last column
			if col < len(t.columns)-1 {
				style = style.PaddingRight(2)
			}

			return style
		}).
		Rows(tableRows...)

	return tbl.Render()
}

// TruncateWithEllipsis truncates a string to maxLen, adding ellipsis if needed.
// It tries to break at word boundaries.
func TruncateWithEllipsis(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}

	truncated := s[:maxLen-3]
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > maxLen/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}

// TruncatePath shortens a node path to maxLen by dropping leading
// segments, keeping the leaf end intact: "#Home/@Deck/@Card/=CTA"
// becomes "…/@Card/=CTA". A single overlong segment falls back to
// plain truncation.
func TruncatePath(path string, maxLen int) string {
	if len(path) <= maxLen || maxLen <= 0 {
		return path
	}

	segments := strings.Split(path, "/")
	kept := ""
	for i := len(segments) - 1; i >= 0; i-- {
		candidate := segments[i]
		if kept != "" {
			candidate = candidate + "/" + kept
		}
		// Reserve two cells for the "…/" prefix.
		if len(candidate)+2 > maxLen {
			break
		}
		kept = candidate
	}

	if kept == "" {
		return TruncateWithEllipsis(path, maxLen)
	}
	return "…/" + kept
}

// FormatRowNum formats a row number with consistent width.
func FormatRowNum(num, maxNum int) string {
	width := len(fmt.Sprintf("%d", maxNum))
	if width < 2 {
		width = 2
	}
	return fmt.Sprintf("%*d", width, num)
}
