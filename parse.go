package rowcodec

import "io"

// ParseOptions configures Parse. The zero value parses headerless CRLF input
// without a schema, yielding positional dynamic records.
type ParseOptions struct {
	// Schema, when set, drives per-property type conversion and rejects rows
	// carrying columns the schema does not declare.
	Schema *Schema

	// Header treats the first row as column names instead of data.
	Header bool

	// LineBreak is the row separator. Empty selects CRLF.
	LineBreak string

	// Converters shadow the built-in type converters by concrete type name.
	Converters map[string]Converter
}

// Parse tokenizes src and returns one record per data row, in input order.
// Column names come from the header row when Header is set, otherwise from
// the schema's visible properties; with neither, records are positional and
// their fields carry empty names. Values are raw text (or nil for absent
// cells) unless a schema directs conversion. Every failure is fatal: there is
// no partial result or row skipping.
func Parse(src string, opts ParseOptions) ([]Fields, error) {
	rows, err := NewTokenizer(src, opts.LineBreak).Rows()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var header []string
	data := rows
	switch {
	case opts.Header:
		header = headerNames(rows[0])
		data = rows[1:]
	case opts.Schema != nil:
		header = opts.Schema.Columns()
	}

	records := make([]Fields, 0, len(data))
	for i, raw := range data {
		record, err := buildRecord(raw, header, opts)
		if err != nil {
			return nil, &RowError{Row: i, Err: err}
		}
		records = append(records, record)
	}
	return records, nil
}

// ParseReader reads r to completion and parses the result. The codec itself
// performs no I/O beyond this initial read.
func ParseReader(r io.Reader, opts ParseOptions) ([]Fields, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(data), opts)
}

func headerNames(row []RawField) []string {
	names := make([]string, len(row))
	for i, f := range row {
		if f.Valid {
			names[i] = f.Text
		}
	}
	return names
}

func buildRecord(raw []RawField, header []string, opts ParseOptions) (Fields, error) {
	if header == nil {
		// No header source: positional dynamic record with raw values.
		record := make(Fields, len(raw))
		for i, cell := range raw {
			record[i] = Field{Value: cellValue(cell)}
		}
		return record, nil
	}

	if len(raw) > len(header) {
		return nil, ErrRowShape
	}

	if opts.Schema == nil {
		record := make(Fields, len(raw))
		for i, cell := range raw {
			record[i] = Field{Name: header[i], Value: cellValue(cell)}
		}
		return record, nil
	}

	// Reject every unrecognized column in one error before converting anything.
	known := make(map[string]Property, len(header))
	for _, name := range opts.Schema.Columns() {
		if p, ok := opts.Schema.Property(name); ok {
			known[name] = p
		}
	}
	var unknown []string
	for i := range raw {
		if _, ok := known[header[i]]; !ok {
			unknown = append(unknown, header[i])
		}
	}
	if len(unknown) > 0 {
		return nil, &SchemaMismatchError{Columns: unknown}
	}

	record := make(Fields, len(raw))
	for i, cell := range raw {
		name := header[i]
		if !cell.Valid {
			// Absent cells stay absent; the converter never sees them.
			record[i] = Field{Name: name}
			continue
		}
		conv := ConverterFor(known[name].Type, opts.Converters)
		value, err := conv(cell.Text)
		if err != nil {
			return nil, err
		}
		record[i] = Field{Name: name, Value: value}
	}
	return record, nil
}

func cellValue(cell RawField) any {
	if !cell.Valid {
		return nil
	}
	return cell.Text
}
