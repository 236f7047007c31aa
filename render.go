package rowcodec

import (
	"fmt"
	"strconv"
	"strings"
)

// Unification selects how differing key sets across named rows reconcile into
// a single header.
type Unification int

const (
	// UnifyError takes the first row's keys and requires every other row's
	// key set to match exactly.
	UnifyError Unification = iota
	// UnifyDrop takes the first row's keys; extra keys on later rows are
	// silently ignored and missing keys render as absent cells.
	UnifyDrop
	// UnifyPad takes the union of keys across all rows, in first-seen order.
	UnifyPad
)

// FormatFunc pre-maps an arbitrary value to one of the primitive kinds before
// formatting. Returning false passes the value to the next formatter.
type FormatFunc func(v any) (any, bool)

// RenderOptions configures Render. The zero value renders CRLF output with a
// header line and exact key-set matching.
type RenderOptions struct {
	// LineBreak is the row separator. Empty selects CRLF.
	LineBreak string

	// Unification reconciles differing key sets across named rows.
	Unification Unification

	// OmitHeader suppresses the header line. Positional and scalar tables
	// carry no column names, so they never emit one.
	OmitHeader bool

	// Formatters are tried in order against each non-primitive value.
	Formatters []FormatFunc
}

// Render serializes rows to RFC 4180 CSV text. Each row is either a named
// Fields row, a positional []any row, or a bare primitive when the whole
// table is a flat list of scalars; mixing shapes is fatal. Output uses the
// configured line break between rows with no trailing line break.
func Render(rows []any, opts RenderOptions) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}
	lineBreak := opts.LineBreak
	if lineBreak == "" {
		lineBreak = defaultLineBreak
	}

	switch rows[0].(type) {
	case Fields:
		named := make([]Fields, len(rows))
		for i, row := range rows {
			fields, ok := row.(Fields)
			if !ok {
				return "", &RowError{Row: i, Err: ErrRowShape}
			}
			named[i] = fields
		}
		return renderNamed(named, lineBreak, opts)
	case []any:
		lists := make([][]any, len(rows))
		for i, row := range rows {
			list, ok := row.([]any)
			if !ok {
				return "", &RowError{Row: i, Err: ErrRowShape}
			}
			lists[i] = list
		}
		return renderLists(lists, lineBreak, opts)
	default:
		return renderScalars(rows, lineBreak, opts)
	}
}

func renderNamed(rows []Fields, lineBreak string, opts RenderOptions) (string, error) {
	header, err := unifyHeader(rows, opts.Unification)
	if err != nil {
		return "", err
	}

	var lines []string
	if !opts.OmitHeader {
		cells := make([]string, len(header))
		for i, name := range header {
			cell, err := formatValue(name, lineBreak, opts.Formatters)
			if err != nil {
				return "", err
			}
			cells[i] = cell
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	for ri, row := range rows {
		cells := make([]string, len(header))
		for i, name := range header {
			value, _ := row.Get(name)
			cell, err := formatValue(value, lineBreak, opts.Formatters)
			if err != nil {
				return "", &RowError{Row: ri, Err: err}
			}
			cells[i] = cell
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, lineBreak), nil
}

func renderLists(rows [][]any, lineBreak string, opts RenderOptions) (string, error) {
	lines := make([]string, len(rows))
	for ri, row := range rows {
		cells := make([]string, len(row))
		for i, value := range row {
			cell, err := formatValue(value, lineBreak, opts.Formatters)
			if err != nil {
				return "", &RowError{Row: ri, Err: err}
			}
			cells[i] = cell
		}
		lines[ri] = strings.Join(cells, ",")
	}
	return strings.Join(lines, lineBreak), nil
}

func renderScalars(rows []any, lineBreak string, opts RenderOptions) (string, error) {
	lines := make([]string, len(rows))
	for ri, value := range rows {
		cell, err := formatValue(value, lineBreak, opts.Formatters)
		if err != nil {
			return "", &RowError{Row: ri, Err: err}
		}
		lines[ri] = cell
	}
	return strings.Join(lines, lineBreak), nil
}

// unifyHeader computes the effective header for named rows. The header is
// computed once per render and is immutable thereafter.
func unifyHeader(rows []Fields, policy Unification) ([]string, error) {
	header := rows[0].Names()

	switch policy {
	case UnifyError:
		want := nameSet(header)
		for i, row := range rows[1:] {
			got := nameSet(row.Names())
			if !sameNameSet(want, got) {
				return nil, &RowError{Row: i + 1, Err: ErrRowShape}
			}
		}
		return header, nil
	case UnifyPad:
		seen := nameSet(header)
		for _, row := range rows[1:] {
			for _, name := range row.Names() {
				if _, ok := seen[name]; ok {
					continue
				}
				seen[name] = struct{}{}
				header = append(header, name)
			}
		}
		return header, nil
	default: // UnifyDrop
		return header, nil
	}
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func sameNameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for n := range a {
		if _, ok := b[n]; !ok {
			return false
		}
	}
	return true
}

// formatValue renders a single cell. Absent cells render empty; text is quoted
// when it contains a comma, a double quote, or the line break; numbers and
// booleans use their canonical strconv forms.
func formatValue(v any, lineBreak string, formatters []FormatFunc) (string, error) {
	for _, f := range formatters {
		mapped, ok := f(v)
		if ok {
			v = mapped
			break
		}
	}

	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return quoteField(x, lineBreak), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	}

	if s, ok := v.(fmt.Stringer); ok {
		return quoteField(s.String(), lineBreak), nil
	}
	return "", &UnsupportedValueError{Value: v}
}

func quoteField(s, lineBreak string) string {
	if !strings.ContainsAny(s, ",\"") && !strings.Contains(s, lineBreak) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
