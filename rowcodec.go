// # RowCodec: RFC 4180 CSV Rendering and Schema-Directed Parsing for Go
//
// RowCodec serializes in-memory tables to RFC 4180 CSV text and parses CSV text back into
// named or schema-typed records. The whole input is materialized in memory; processing is
// synchronous, single-pass, and holds no state between calls.
//
// # Features
//
// - Tokenizer with configurable line break, `""` unescaping, and empty-cell-to-absent normalization.
// - Schema-directed parsing: caller-supplied schema descriptors drive per-property type conversion, including aliases and unions.
// - Renderer with three header unification policies (`UnifyError`, `UnifyDrop`, `UnifyPad`) and pluggable value formatters.
// - Structured error reporting via `ParseError`, `RowError`, `SchemaMismatchError`, and `UnsupportedValueError`.
// - Declarative schema documents (YAML or JSONC) via the `schemafile` subpackage, and a `rowcodec` CLI under cmd/.
//
// # Getting Started
//
// The module path is `github.com/rowcodec/rowcodec`. Parse and Render are the two entry
// points; both are parameterized purely by their inputs and an options struct whose zero
// value gives the documented defaults.
package rowcodec
