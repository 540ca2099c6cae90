package qstat

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// headerCell matches one header token. Its start offset is where the
	// previous column ends.
	headerCell = regexp.MustCompile(`[^ ]+`)

	// splitAt joins "submit/start at" into one token. Same length, so the
	// column offsets do not move.
	splitAt = regexp.MustCompile(` at( |$)`)
)

// ParseReader reads all of r and parses it with Parse.
func ParseReader(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read status output: %w", err)
	}
	return Parse(string(data))
}

// Parse converts fixed-width status text into a Table.
//
// Horizontal rules are dropped and the first remaining non-blank line is the
// header. Column boundaries are the start offsets of every header token
// except the first one; the same offsets cut every data row, so a row whose
// alignment differs from the header's ends up with shifted cells rather than
// an error. Every row yields one cell per name: cells past the end of a
// short row are empty and text past the last boundary belongs to the last
// column. Blank rows are skipped.
func Parse(raw string) (*Table, error) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	headerAt := -1
	for i, line := range lines {
		if isRule(line) || isBlank(line) {
			continue
		}
		headerAt = i
		break
	}
	if headerAt < 0 {
		return nil, &FormatError{Reason: "no header line"}
	}

	header := splitAt.ReplaceAllString(strings.TrimRight(lines[headerAt], " \t"), "_at$1")
	names, bounds := scanHeader(header)
	if len(names) == 0 || len(names) != len(bounds)+1 {
		return nil, &FormatError{
			Line:   headerAt + 1,
			Reason: fmt.Sprintf("header has %d names but %d column boundaries", len(names), len(bounds)),
		}
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, &FormatError{Line: headerAt + 1, Reason: fmt.Sprintf("duplicate column %q", name)}
		}
		seen[name] = true
	}

	t := NewTable(names...)
	for i := headerAt + 1; i < len(lines); i++ {
		line := lines[i]
		if isRule(line) || isBlank(line) {
			continue
		}
		t.appendRow(cutRow(line, bounds))
	}
	return t, nil
}

// scanHeader returns the header's column names and the rune offsets at which
// each column after the first begins.
func scanHeader(header string) ([]string, []int) {
	names := strings.FieldsFunc(header, func(r rune) bool { return r == ' ' })

	var bounds []int
	for i, loc := range headerCell.FindAllStringIndex(header, -1) {
		if i == 0 {
			continue
		}
		bounds = append(bounds, utf8.RuneCountInString(header[:loc[0]]))
	}
	return names, bounds
}

func cutRow(line string, bounds []int) []string {
	runes := []rune(line)
	cells := make([]string, 0, len(bounds)+1)
	start := 0
	for _, end := range bounds {
		cells = append(cells, cell(runes, start, end))
		start = end
	}
	return append(cells, cell(runes, start, len(runes)))
}

// cell slices runes[start:end], clamped to the row length, and trims it.
func cell(runes []rune, start, end int) string {
	if start > len(runes) {
		start = len(runes)
	}
	if end > len(runes) {
		end = len(runes)
	}
	if end < start {
		end = start
	}
	return strings.TrimSpace(string(runes[start:end]))
}

func isRule(line string) bool {
	line = strings.TrimSpace(line)
	return line != "" && strings.Trim(line, "-") == ""
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
