package rowcodec

import "testing"

// FuzzFieldRoundTrip renders a single text field and parses it back, checking
// that quoting and escaping are lossless and that only the empty string
// collapses to an absent cell.
func FuzzFieldRoundTrip(f *testing.F) {
	seeds := []string{
		"",
		"plain",
		"comma,inside",
		"quote\"inside",
		"He said \"hi\"",
		"multi\r\nline",
		"\"fully quoted\"",
		"trailing,",
		"\r\n",
		"\"\"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 1<<12 {
			t.Skip()
		}

		text, err := Render([]any{input}, RenderOptions{})
		if err != nil {
			t.Fatalf("Render() error = %v for input %q", err, input)
		}

		records, err := Parse(text, ParseOptions{})
		if err != nil {
			t.Fatalf("Parse() error = %v for rendered %q (input %q)", err, text, input)
		}
		if len(records) != 1 || len(records[0]) != 1 {
			t.Fatalf("round trip produced %d records of %v fields for input %q", len(records), records, input)
		}

		got := records[0][0].Value
		if input == "" {
			if got != nil {
				t.Fatalf("empty field parsed as %#v, want absent", got)
			}
			return
		}
		if got != input {
			t.Fatalf("round trip mismatch: got %q, want %q (rendered %q)", got, input, text)
		}
	})
}
