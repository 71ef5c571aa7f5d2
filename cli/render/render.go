// Package render provides centralized output rendering for the abacus CLI.
//
// Format selection rules:
//   - If output is a TTY, default to table
//   - If output is not a TTY, default to json
//   - --format flag always overrides defaults
//   - Invalid formats are errors
//
// Color handling:
//   - --no-color affects table output only
//   - The interactive calculator is unaffected by --no-color (uses its own styling)
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// Format represents an output format.
type Format string

// Supported formats.
const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a format string, returning an error for invalid formats.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "table":
		return FormatTable, nil
	case "yaml":
		return FormatYAML, nil
	case "":
		return "", nil // Let caller decide default
	default:
		return "", fmt.Errorf("invalid format: %q (must be json, table, or yaml)", s)
	}
}

// Renderer handles output formatting.
type Renderer struct {
	format  Format
	noColor bool
	out     io.Writer
}

// NewRenderer creates a renderer from CLI context writing to the app's
// writer (stdout by default). Applies the TTY-based format selection rules.
func NewRenderer(c *cli.Context) (*Renderer, error) {
	formatStr := c.String("format")
	format, err := ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stdout
	if c.App != nil && c.App.Writer != nil {
		out = c.App.Writer
	}

	// Apply default format based on TTY detection
	if format == "" {
		if f, ok := out.(*os.File); ok && isTTY(f) {
			format = FormatTable
		} else {
			format = FormatJSON
		}
	}

	return &Renderer{
		format:  format,
		noColor: c.Bool("no-color"),
		out:     out,
	}, nil
}

// NewRendererWithWriter creates a renderer with a custom writer (for testing).
func NewRendererWithWriter(format Format, noColor bool, out io.Writer) *Renderer {
	return &Renderer{
		format:  format,
		noColor: noColor,
		out:     out,
	}
}

// Render outputs the data in the configured format.
func (r *Renderer) Render(data any) error {
	switch r.format {
	case FormatJSON:
		return r.renderJSON(data)
	case FormatTable:
		return r.renderTable(data)
	case FormatYAML:
		return r.renderYAML(data)
	default:
		return fmt.Errorf("unknown format: %s", r.format)
	}
}

// Format returns the selected output format.
func (r *Renderer) Format() Format {
	return r.format
}

// headerStyle emphasises table headers and section titles when color is on.
var headerStyle = lipgloss.NewStyle().Bold(true)

// Section writes a titled block in table output. Other formats ignore it so
// that json and yaml stay machine-readable.
func (r *Renderer) Section(title string) {
	if r.format != FormatTable {
		return
	}
	if r.noColor {
		fmt.Fprintf(r.out, "== %s ==\n", title)
		return
	}
	fmt.Fprintln(r.out, headerStyle.Render(title))
}

func (r *Renderer) renderJSON(data any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (r *Renderer) renderYAML(data any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	return enc.Encode(data)
}

func (r *Renderer) renderTable(data any) error {
	v := indirect(reflect.ValueOf(data))
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		r.writeRows(w, v)
	case reflect.Struct:
		for _, c := range columnsOf(v) {
			fmt.Fprintf(w, "%s:\t%s\n", c.name, r.formatValue(c.value(v)))
		}
	case reflect.Map:
		for _, key := range sortedKeys(v) {
			fmt.Fprintf(w, "%v:\t%s\n", key.Interface(), r.formatValue(v.MapIndex(key)))
		}
	default:
		fmt.Fprintf(w, "%v\n", data)
	}
	return nil
}

// writeRows writes one row per element. Scalars get an index column;
// structs and maps take their columns from the first element.
func (r *Renderer) writeRows(w io.Writer, v reflect.Value) {
	if v.Len() == 0 {
		fmt.Fprintln(w, "(no results)")
		return
	}

	first := v.Index(0)
	if isScalar(first) {
		r.writeHeader(w, []string{"#", "value"})
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintf(w, "%d\t%s\n", i+1, r.formatValue(v.Index(i)))
		}
		return
	}

	cols := columnsOf(indirect(first))
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	r.writeHeader(w, names)

	row := make([]string, len(cols))
	for i := 0; i < v.Len(); i++ {
		elem := indirect(v.Index(i))
		for j, c := range cols {
			row[j] = r.formatValue(c.value(elem))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
}

func (r *Renderer) writeHeader(w io.Writer, names []string) {
	if !r.noColor {
		styled := make([]string, len(names))
		for i, n := range names {
			styled[i] = headerStyle.Render(n)
		}
		names = styled
	}
	fmt.Fprintln(w, strings.Join(names, "\t"))
}

// column is one rendered field of a struct or key of a map.
type column struct {
	name  string
	value func(reflect.Value) reflect.Value
}

// columnsOf lists the exported, non-skipped struct fields of v, named by
// their json tag, or the sorted keys of a map.
func columnsOf(v reflect.Value) []column {
	var cols []column
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name, ok := fieldName(f)
			if !f.IsExported() || !ok {
				continue
			}
			cols = append(cols, column{name: name, value: func(v reflect.Value) reflect.Value { return v.Field(i) }})
		}
	case reflect.Map:
		for _, key := range sortedKeys(v) {
			cols = append(cols, column{
				name:  fmt.Sprint(key.Interface()),
				value: func(v reflect.Value) reflect.Value { return v.MapIndex(key) },
			})
		}
	}
	return cols
}

// fieldName returns the json tag name of f, or its lowercased Go name.
// Fields tagged "-" are skipped.
func fieldName(f reflect.StructField) (string, bool) {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return "", false
	case "":
		return strings.ToLower(f.Name), true
	default:
		return name, true
	}
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

func (r *Renderer) formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}

	if v.Kind() == reflect.Ptr && v.IsNil() {
		return ""
	}
	v = indirect(v)

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "[]"
		}
		if v.Len() <= maxInlineItems && isScalar(v.Index(0)) {
			parts := make([]string, v.Len())
			for i := range parts {
				parts[i] = r.formatValue(v.Index(i))
			}
			return strings.Join(parts, "; ")
		}
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		if v.Len() == 0 {
			return "{}"
		}
		return fmt.Sprintf("{%d keys}", v.Len())
	case reflect.Struct:
		// Types with a String method (time.Time, ...) render themselves
		if s, ok := v.Interface().(fmt.Stringer); ok {
			return s.String()
		}
		return "{...}"
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// maxInlineItems bounds scalar slices rendered inline in a table cell.
const maxInlineItems = 10

// isScalar reports whether v renders as a single table cell.
func isScalar(v reflect.Value) bool {
	if v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return true
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return false
	case reflect.Struct:
		_, ok := v.Interface().(fmt.Stringer)
		return ok
	default:
		return true
	}
}

// sortedKeys returns map keys in string order for deterministic output.
func sortedKeys(v reflect.Value) []reflect.Value {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	return keys
}

// isTTY returns true if the writer is a TTY.
func isTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
