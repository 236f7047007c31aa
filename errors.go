package rowcodec

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnterminatedQuote is returned when a quoted field is not closed before end of input.
	ErrUnterminatedQuote = errors.New("rowcodec: unterminated quoted field")
	// ErrMalformedQuote is returned when data follows the closing quote of a quoted field.
	ErrMalformedQuote = errors.New("rowcodec: data after closing quote")
	// ErrRowShape is returned when a row's shape does not match the table's dominant shape
	// or its key set cannot be reconciled with the header.
	ErrRowShape = errors.New("rowcodec: row shape mismatch")
	// ErrUnknownColumn is returned when a parsed row carries a column the target schema does not declare.
	ErrUnknownColumn = errors.New("rowcodec: unknown column")
	// ErrUnsupportedValue is returned when a value outside {absent, number, text, boolean}
	// reaches the field formatter with no applicable converter.
	ErrUnsupportedValue = errors.New("rowcodec: unsupported value")
	// ErrConversion is returned when a type converter rejects a raw cell value.
	ErrConversion = errors.New("rowcodec: conversion failed")
)

// ParseError contains location information for tokenizer failures.
type ParseError struct {
	Offset int
	Err    error
}

// Error formats the parse error message with the stored byte offset and Err value.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("rowcodec: parse error at offset %d: %v", e.Offset, e.Err)
}

// Unwrap returns the underlying Err so ParseError participates in errors.Unwrap.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RowError attaches the zero-based index of the offending row to an error.
// On the parse path the index counts data rows only, excluding any header row.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("rowcodec: row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// SchemaMismatchError enumerates every column of a parsed row that the target
// schema does not declare as a visible property.
type SchemaMismatchError struct {
	Columns []string
}

func (e *SchemaMismatchError) Error() string {
	if e == nil || len(e.Columns) == 0 {
		return ErrUnknownColumn.Error()
	}
	quoted := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return fmt.Sprintf("rowcodec: unknown columns: %s", strings.Join(quoted, ", "))
}

func (e *SchemaMismatchError) Unwrap() error {
	return ErrUnknownColumn
}

// UnsupportedValueError names the dynamic type of a value the field formatter cannot handle.
type UnsupportedValueError struct {
	Value any
}

func (e *UnsupportedValueError) Error() string {
	if e == nil {
		return ErrUnsupportedValue.Error()
	}
	return fmt.Sprintf("rowcodec: unsupported value of type %T", e.Value)
}

func (e *UnsupportedValueError) Unwrap() error {
	return ErrUnsupportedValue
}
