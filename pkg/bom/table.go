package bom

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Column separator and row markers for the monospace table
const (
	colSep   = " │ "
	rowJoin  = "─┼─"
	rowFill  = "─"
	altFill  = "╌"
	idxBlank = " "
)

// Table renders the groups as a monospace text table suitable for a
// terminal or any fixed-width textbox. Columns are sized to their content
// up to maxWidth characters (truncated); the Reference column is never
// truncated. Horizontal separators split the table whenever the reference
// prefix changes, and every other row is filled with a faint marker to
// make long rows easier to follow.
//
// maxWidth <= 0 disables truncation.
func Table(groups []*Group, columns []string, maxWidth int) string {
	// Index column first, then the requested columns
	widths := make([]int, len(columns)+1)
	widths[0] = len(strconv.Itoa(len(groups)))

	for i, col := range columns {
		w := utf8.RuneCountInString(col)
		for _, g := range groups {
			val := g.Field(col)
			if col != ColReference {
				val = truncate(val, maxWidth)
			}
			if n := utf8.RuneCountInString(val); n > w {
				w = n
			}
		}
		widths[i+1] = w
	}

	var sb strings.Builder

	// Header
	sb.WriteString(strings.Repeat(idxBlank, widths[0]))
	sb.WriteString(colSep)
	for i, col := range columns {
		if i > 0 {
			sb.WriteString(colSep)
		}
		sb.WriteString(pad(col, widths[i+1], " "))
	}
	sb.WriteByte('\n')

	sep := rowSeparator(widths)
	sb.WriteString(sep)

	lastPrefix := ""
	for i, g := range groups {
		prefix := RefPrefix(firstToken(g.RefDisplay()))
		if i > 0 && prefix != lastPrefix {
			sb.WriteString(sep)
		}
		lastPrefix = prefix

		fill := " "
		if i%2 == 1 {
			fill = altFill
		}

		cells := make([]string, 0, len(columns)+1)
		cells = append(cells, padAlt(strconv.Itoa(i), widths[0], fill))
		for j, col := range columns {
			val := g.Field(col)
			if col != ColReference {
				val = truncate(val, maxWidth)
			}
			cells = append(cells, padAlt(val, widths[j+1], fill))
		}
		sb.WriteString(strings.Join(cells, colSep))
		sb.WriteByte('\n')
	}

	return sb.String()
}

func rowSeparator(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat(rowFill, w)
	}
	return strings.Join(parts, rowJoin) + "\n"
}

// truncate limits a value to maxWidth runes; maxWidth <= 0 means unlimited
func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 || utf8.RuneCountInString(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxWidth])
}

// pad left-justifies s to the given rune width
func pad(s string, width int, fill string) string {
	n := width - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(fill, n)
}

// padAlt pads like pad, but marker fills keep one plain space after the
// value so the marker does not touch the text
func padAlt(s string, width int, fill string) string {
	if fill == " " {
		return pad(s, width, " ")
	}
	if utf8.RuneCountInString(s) < width {
		s += " "
	}
	return pad(s, width, fill)
}

// firstToken returns the first reference of a compressed display list
func firstToken(display string) string {
	if idx := strings.IndexAny(display, "-,"); idx > 0 {
		return display[:idx]
	}
	return display
}
