package rowcodec

import "strings"

const defaultLineBreak = "\r\n"

// RawField is a single tokenized cell. Valid is false when the source cell was
// empty; an empty field always normalizes to absent, never to empty text.
type RawField struct {
	Text  string
	Valid bool
}

// delimiter identifies what terminated the field just scanned.
type delimiter int

const (
	delimComma delimiter = iota
	delimRow
	delimEOF
)

// Tokenizer splits a fully materialized CSV document into rows of raw fields.
// The field separator is always a comma; only the line break is configurable.
type Tokenizer struct {
	input     string
	lineBreak string
	pos       int
}

// NewTokenizer returns a Tokenizer over input. An empty lineBreak selects CRLF.
func NewTokenizer(input, lineBreak string) *Tokenizer {
	if lineBreak == "" {
		lineBreak = defaultLineBreak
	}
	return &Tokenizer{input: input, lineBreak: lineBreak}
}

// Rows consumes the entire input and returns every row in order. A malformed
// quoted field aborts the whole scan with a *ParseError; there are no partial
// results.
func (t *Tokenizer) Rows() ([][]RawField, error) {
	if t.input == "" {
		return nil, nil
	}

	var rows [][]RawField
	var current []RawField
	for {
		field, delim, err := t.next()
		if err != nil {
			return nil, err
		}
		current = append(current, field)

		switch delim {
		case delimComma:
			// A comma as the very last character implies one more absent cell.
			if t.pos >= len(t.input) {
				current = append(current, RawField{})
				rows = append(rows, current)
				return rows, nil
			}
		case delimRow:
			rows = append(rows, current)
			current = nil
			if t.pos >= len(t.input) {
				return rows, nil
			}
		case delimEOF:
			rows = append(rows, current)
			return rows, nil
		}
	}
}

// next scans the field starting at the current position and consumes the
// delimiter that terminates it.
func (t *Tokenizer) next() (RawField, delimiter, error) {
	in := t.input

	if t.pos < len(in) && in[t.pos] == '"' {
		fieldStart := t.pos
		start := t.pos + 1
		i := start
		escaped := false
		for {
			if i >= len(in) {
				return RawField{}, 0, &ParseError{Offset: fieldStart, Err: ErrUnterminatedQuote}
			}
			if in[i] != '"' {
				i++
				continue
			}
			if i+1 < len(in) && in[i+1] == '"' {
				escaped = true
				i += 2
				continue
			}
			break
		}
		raw := in[start:i]
		if escaped {
			raw = strings.ReplaceAll(raw, `""`, `"`)
		}
		t.pos = i + 1
		delim, ok := t.consumeDelimiter()
		if !ok {
			return RawField{}, 0, &ParseError{Offset: t.pos, Err: ErrMalformedQuote}
		}
		return makeRawField(raw), delim, nil
	}

	// Unquoted: the field extends to the first comma, line break, or end of
	// input. Quote characters inside an unquoted field are plain data.
	rest := in[t.pos:]
	end := len(rest)
	if i := strings.IndexByte(rest, ','); i >= 0 && i < end {
		end = i
	}
	if i := strings.Index(rest, t.lineBreak); i >= 0 && i < end {
		end = i
	}
	raw := rest[:end]
	t.pos += end
	delim, _ := t.consumeDelimiter()
	return makeRawField(raw), delim, nil
}

// consumeDelimiter inspects the character(s) at the current position and
// advances past them. It reports false when the position holds neither a
// comma, the line break, nor end of input.
func (t *Tokenizer) consumeDelimiter() (delimiter, bool) {
	if t.pos >= len(t.input) {
		return delimEOF, true
	}
	if t.input[t.pos] == ',' {
		t.pos++
		return delimComma, true
	}
	if strings.HasPrefix(t.input[t.pos:], t.lineBreak) {
		t.pos += len(t.lineBreak)
		return delimRow, true
	}
	return 0, false
}

func makeRawField(raw string) RawField {
	if raw == "" {
		return RawField{}
	}
	return RawField{Text: raw, Valid: true}
}
