package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format represents the output format type.
type Format string

const (
	// FormatText is human-readable output (default).
	FormatText Format = "text"
	// FormatJSON is pretty-printed JSON format.
	FormatJSON Format = "json"
	// FormatNDJSON is newline-delimited JSON format.
	FormatNDJSON Format = "ndjson"
	// FormatTable is tabular format for lists.
	FormatTable Format = "table"
	// FormatYAML is YAML format.
	FormatYAML Format = "yaml"
)

// ParseFormat converts a string to a Format type.
// Empty string defaults to FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatNDJSON, "jsonl":
		return FormatNDJSON, nil
	case FormatTable:
		return FormatTable, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", errors.New("invalid --output format (expected text|json|ndjson|jsonl|table|yaml)")
	}
}

// Printer handles output formatting across different formats.
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter creates a new Printer that writes to w in the given format.
func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{w: w, format: format}
}

// Print outputs data in the configured format.
func (p *Printer) Print(ctx context.Context, data interface{}) error {
	if data == nil {
		return nil
	}

	if t, ok := asTable(data); ok && (p.format != FormatText && p.format != FormatTable || hasTransforms(ctx)) {
		data = t.Records()
	}

	updated, err := applyOutputTransforms(ctx, data, p.format)
	if err != nil {
		return err
	}
	data = updated

	switch p.format {
	case FormatJSON:
		return p.printJSON(ctx, data)
	case FormatNDJSON:
		return p.printNDJSON(ctx, data)
	case FormatYAML:
		return p.printYAML(data)
	case FormatTable:
		return p.printTable(data)
	case FormatText:
		return p.printText(ctx, data)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

func asTable(data interface{}) (Table, bool) {
	switch v := data.(type) {
	case Table:
		return v, true
	case *Table:
		if v != nil {
			return *v, true
		}
	}
	return Table{}, false
}

func hasTransforms(ctx context.Context) bool {
	return QueryFromContext(ctx) != "" || FieldsFromContext(ctx) != "" || JSONPathFromContext(ctx) != ""
}

func (p *Printer) printYAML(data interface{}) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}

// printText applies --query first, then renders tables and lists as aligned
// columns, structs and maps as "key: value" lines, and scalars as-is.
func (p *Printer) printText(ctx context.Context, data interface{}) error {
	if query := QueryFromContext(ctx); query != "" {
		results, err := runQueryRaw(query, data)
		if err != nil {
			return err
		}
		switch len(results) {
		case 0:
			return nil
		case 1:
			data = results[0]
		default:
			data = results
		}
	}

	if t, ok := asTable(data); ok {
		return p.printTableFromTable(t)
	}

	v := derefValue(reflect.ValueOf(data))
	if !v.IsValid() || (v.Kind() == reflect.Ptr && v.IsNil()) {
		return nil
	}

	switch v.Kind() {
	case reflect.Map:
		return p.printTextMap(v)
	case reflect.Struct:
		return p.printTextStruct(v)
	case reflect.Slice, reflect.Array:
		return p.printTextSlice(v)
	default:
		_, err := fmt.Fprintf(p.w, "%v\n", v)
		return err
	}
}

func (p *Printer) printTextMap(v reflect.Value) error {
	for _, key := range sortedKeys(v) {
		if _, err := fmt.Fprintf(p.w, "%s: %s\n", key, formatCompact(v.MapIndex(reflect.ValueOf(key)))); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printTextStruct(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, omitEmpty := fieldJSONName(f)
		if name == "-" || (omitEmpty && v.Field(i).IsZero()) {
			continue
		}
		if _, err := fmt.Fprintf(p.w, "%s: %s\n", name, formatCompact(v.Field(i))); err != nil {
			return err
		}
	}
	return nil
}

// printTextSlice renders structs and maps as a table and scalars one per line.
func (p *Printer) printTextSlice(v reflect.Value) error {
	if v.Len() == 0 {
		return nil
	}
	switch derefValue(v.Index(0)).Kind() {
	case reflect.Struct:
		return p.printTableFromStructs(v)
	case reflect.Map:
		return p.printTableFromMaps(v)
	}
	for i := 0; i < v.Len(); i++ {
		if _, err := fmt.Fprintln(p.w, formatCompact(v.Index(i))); err != nil {
			return err
		}
	}
	return nil
}

// printTable outputs data in tabular format using text/tabwriter.
// Only works with a Table or slices of maps or structs.
func (p *Printer) printTable(data interface{}) error {
	if t, ok := asTable(data); ok {
		return p.printTableFromTable(t)
	}

	v := derefValue(reflect.ValueOf(data))
	if !v.IsValid() {
		return nil
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return errors.New("table format requires a slice or array")
	}
	if v.Len() == 0 {
		return nil
	}

	switch derefValue(v.Index(0)).Kind() {
	case reflect.Map:
		return p.printTableFromMaps(v)
	case reflect.Struct:
		return p.printTableFromStructs(v)
	default:
		return errors.New("table format requires slice of maps or structs")
	}
}

func (p *Printer) printTableFromTable(t Table) error {
	if len(t.Headers) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	writeRow(tw, t.Headers)
	for _, row := range t.Rows {
		cells := make([]string, len(t.Headers))
		for i := range cells {
			if i < len(row) && row[i] != "" {
				cells[i] = row[i]
			} else {
				cells[i] = "-"
			}
		}
		writeRow(tw, cells)
	}
	return tw.Flush()
}

func (p *Printer) printTableFromMaps(v reflect.Value) error {
	seen := make(map[string]bool)
	var keys []string
	for i := 0; i < v.Len(); i++ {
		m := derefValue(v.Index(i))
		if m.Kind() != reflect.Map {
			continue
		}
		for _, k := range sortedKeys(m) {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	headers := make([]string, len(keys))
	for i, k := range keys {
		headers[i] = strings.ToUpper(k)
	}
	writeRow(tw, headers)

	for i := 0; i < v.Len(); i++ {
		m := derefValue(v.Index(i))
		if m.Kind() != reflect.Map {
			continue
		}
		cells := make([]string, len(keys))
		for j, k := range keys {
			cells[j] = "-"
			if val := m.MapIndex(reflect.ValueOf(k)); val.IsValid() {
				cells[j] = formatCompact(val)
			}
		}
		writeRow(tw, cells)
	}
	return tw.Flush()
}

func (p *Printer) printTableFromStructs(v reflect.Value) error {
	t := derefValue(v.Index(0)).Type()

	type fieldInfo struct {
		index int
		name  string
	}
	var fields []fieldInfo
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if name, _ := fieldJSONName(f); name != "-" {
			fields = append(fields, fieldInfo{index: i, name: name})
		}
	}
	if len(fields) == 0 {
		return errors.New("no exported fields in struct")
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	headers := make([]string, len(fields))
	for i, fi := range fields {
		headers[i] = strings.ToUpper(fi.name)
	}
	writeRow(tw, headers)

	for i := 0; i < v.Len(); i++ {
		item := derefValue(v.Index(i))
		if item.Kind() != reflect.Struct {
			continue
		}
		cells := make([]string, len(fields))
		for j, fi := range fields {
			cells[j] = formatCompact(item.Field(fi.index))
			if cells[j] == "" {
				cells[j] = "-"
			}
		}
		writeRow(tw, cells)
	}
	return tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	_, _ = fmt.Fprintln(w, strings.Join(cells, "\t"))
}

// derefValue dereferences pointers and interfaces to the underlying value.
func derefValue(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v
		}
		v = v.Elem()
	}
	return v
}

// fieldJSONName returns the json tag name for a struct field, or the field
// name, and whether the tag asks for omitempty.
func fieldJSONName(f reflect.StructField) (string, bool) {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name, false
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, strings.Contains(opts, "omitempty")
}

func sortedKeys(v reflect.Value) []string {
	keys := make([]string, 0, v.Len())
	for _, k := range v.MapKeys() {
		keys = append(keys, fmt.Sprintf("%v", k))
	}
	sort.Strings(keys)
	return keys
}

// formatCompact formats a value for a single table cell or text line.
func formatCompact(v reflect.Value) string {
	v = derefValue(v)
	if !v.IsValid() || ((v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && v.IsNil()) {
		return "<nil>"
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Len() == 0 {
			return "{}"
		}
		parts := make([]string, 0, v.Len())
		for _, k := range sortedKeys(v) {
			parts = append(parts, k+"="+formatCompact(v.MapIndex(reflect.ValueOf(k))))
		}
		return strings.Join(parts, " ")
	case reflect.Slice, reflect.Array:
		parts := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			parts = append(parts, formatCompact(v.Index(i)))
		}
		return strings.Join(parts, ",")
	case reflect.Struct:
		t := v.Type()
		var parts []string
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() {
				parts = append(parts, formatCompact(v.Field(i)))
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
