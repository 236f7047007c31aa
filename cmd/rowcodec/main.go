// rowcodec reads CSV from a file or standard input, optionally applies a
// declarative schema descriptor, and re-emits the rows as CSV or as JSON
// lines. It is a thin command-line surface over the rowcodec library.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/rowcodec/rowcodec"
	"github.com/rowcodec/rowcodec/schemafile"
)

const version = "0.1.0"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		schemaPath string
		rowName    string
		header     bool
		lineBreak  string
		unify      string
		output     string
	)

	flagSet := pflag.NewFlagSet("rowcodec", pflag.ContinueOnError)
	flagSet.StringVar(&schemaPath, "schema", "", "schema descriptor file (.yaml, .yml, .json, or .jsonc)")
	flagSet.StringVar(&rowName, "row", "", "schema name within the descriptor (defaults to the only schema)")
	flagSet.BoolVar(&header, "header", false, "treat the first input row as column names")
	flagSet.StringVar(&lineBreak, "line-break", "crlf", "row separator: crlf or lf")
	flagSet.StringVar(&unify, "unify", "error", "header unification for CSV output: error, drop, or pad")
	flagSet.StringVar(&output, "output", "csv", "output format: csv or json")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("rowcodec %s\n", version)
		return 0
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return 0
	}

	args := flagSet.Args()
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "error: unexpected argument: %s\n", args[1])
		return 2
	}

	breakValue, ok := map[string]string{"crlf": "\r\n", "lf": "\n"}[lineBreak]
	if !ok {
		fmt.Fprintf(os.Stderr, "error: invalid --line-break %q (want crlf or lf)\n", lineBreak)
		return 2
	}
	policy, ok := map[string]rowcodec.Unification{
		"error": rowcodec.UnifyError,
		"drop":  rowcodec.UnifyDrop,
		"pad":   rowcodec.UnifyPad,
	}[unify]
	if !ok {
		fmt.Fprintf(os.Stderr, "error: invalid --unify %q (want error, drop, or pad)\n", unify)
		return 2
	}
	if output != "csv" && output != "json" {
		fmt.Fprintf(os.Stderr, "error: invalid --output %q (want csv or json)\n", output)
		return 2
	}
	if rowName != "" && schemaPath == "" {
		fmt.Fprintf(os.Stderr, "error: --row requires --schema\n")
		return 2
	}

	input, err := readInput(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	opts := rowcodec.ParseOptions{Header: header, LineBreak: breakValue}
	if schemaPath != "" {
		schema, err := loadSchema(schemaPath, rowName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		opts.Schema = schema
	}

	records, err := rowcodec.Parse(input, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if output == "json" {
		if err := writeJSON(os.Stdout, records); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	// Positional records carry no column names and must render positionally.
	named := header || opts.Schema != nil
	rows := make([]any, len(records))
	for i, r := range records {
		if named {
			rows[i] = r
			continue
		}
		values := make([]any, len(r))
		for j, f := range r {
			values[j] = f.Value
		}
		rows[i] = values
	}
	text, err := rowcodec.Render(rows, rowcodec.RenderOptions{
		LineBreak:   breakValue,
		Unification: policy,
		OmitHeader:  !header && opts.Schema == nil,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Println(text)
	return 0
}

func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

func loadSchema(path, rowName string) (*rowcodec.Schema, error) {
	schemas, err := schemafile.Load(path)
	if err != nil {
		return nil, err
	}
	if rowName != "" {
		schema, ok := schemas[rowName]
		if !ok {
			return nil, fmt.Errorf("%s: no schema named %q", path, rowName)
		}
		return schema, nil
	}
	if len(schemas) != 1 {
		return nil, fmt.Errorf("%s: declares %d schemas, use --row to pick one", path, len(schemas))
	}
	for _, schema := range schemas {
		return schema, nil
	}
	return nil, fmt.Errorf("%s: no schemas declared", path)
}

// writeJSON emits one JSON value per record: an object for named records, an
// array for positional ones.
func writeJSON(w io.Writer, records []rowcodec.Fields) error {
	enc := json.NewEncoder(w)
	for _, record := range records {
		named := false
		for _, f := range record {
			if f.Name != "" {
				named = true
				break
			}
		}
		if named {
			if err := enc.Encode(record.Map()); err != nil {
				return err
			}
			continue
		}
		values := make([]any, len(record))
		for i, f := range record {
			values[i] = f.Value
		}
		if err := enc.Encode(values); err != nil {
			return err
		}
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `rowcodec — convert CSV between raw, schema-typed, and JSON-lines forms.

Reads CSV from FILE (or standard input when FILE is omitted or "-"),
optionally coerces fields through a schema descriptor, and writes the
rows back out as CSV or as one JSON value per row.

Usage:
  rowcodec [flags] [FILE]

Flags:
%s
Exit codes: 0 success, 1 codec or I/O failure, 2 usage error.
`, flagSet.FlagUsages())
}
