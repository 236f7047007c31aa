package rowcodec

import (
	"fmt"
	"strconv"
)

// TypeKind discriminates the three shapes a declared type descriptor can take.
type TypeKind int

const (
	// KindConcrete is a named type looked up directly in the converter registry.
	KindConcrete TypeKind = iota
	// KindAlias is an indirection that resolves to its referent before lookup.
	KindAlias
	// KindUnion is an ordered list of member types.
	KindUnion
)

// Type describes the declared type of a schema property.
type Type struct {
	Kind TypeKind

	// Name is the concrete type name, e.g. "int", "float", "bool", "string".
	// Only meaningful for KindConcrete.
	Name string

	// Ref is the alias referent. Only meaningful for KindAlias.
	Ref *Type

	// Members are the union member types in declaration order.
	// Only meaningful for KindUnion.
	Members []Type
}

// Concrete returns a concrete type descriptor for name.
func Concrete(name string) Type {
	return Type{Kind: KindConcrete, Name: name}
}

// Alias returns an alias descriptor resolving to ref.
func Alias(ref Type) Type {
	return Type{Kind: KindAlias, Ref: &ref}
}

// Union returns a union descriptor over members in declaration order.
func Union(members ...Type) Type {
	return Type{Kind: KindUnion, Members: members}
}

// Converter maps the raw text of a cell to a typed value.
type Converter func(string) (any, error)

var builtinConverters = map[string]Converter{
	"int":   convertInt,
	"float": convertFloat,
	"bool":  convertBool,
}

func convertInt(s string) (any, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not an integer", ErrConversion, s)
	}
	return n, nil
}

func convertFloat(s string) (any, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", ErrConversion, s)
	}
	return f, nil
}

func convertBool(s string) (any, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a boolean", ErrConversion, s)
	}
	return b, nil
}

// ConverterFor resolves t to a conversion function. Aliases resolve
// recursively to their referent. A union uses the first member, in declaration
// order, that has a registered converter; this picks by registry membership,
// not by inspecting the actual value. Types with no registered converter
// convert via identity: the text passes through unchanged.
//
// Entries in overrides shadow the built-in converters (int, float, bool).
func ConverterFor(t Type, overrides map[string]Converter) Converter {
	switch t.Kind {
	case KindAlias:
		if t.Ref == nil {
			return identityConverter
		}
		return ConverterFor(*t.Ref, overrides)
	case KindUnion:
		for _, m := range t.Members {
			if hasConverter(m, overrides) {
				return ConverterFor(m, overrides)
			}
		}
		return identityConverter
	default:
		if c, ok := overrides[t.Name]; ok {
			return c
		}
		if c, ok := builtinConverters[t.Name]; ok {
			return c
		}
		return identityConverter
	}
}

func hasConverter(t Type, overrides map[string]Converter) bool {
	switch t.Kind {
	case KindAlias:
		if t.Ref == nil {
			return false
		}
		return hasConverter(*t.Ref, overrides)
	case KindUnion:
		for _, m := range t.Members {
			if hasConverter(m, overrides) {
				return true
			}
		}
		return false
	default:
		if _, ok := overrides[t.Name]; ok {
			return true
		}
		_, ok := builtinConverters[t.Name]
		return ok
	}
}

func identityConverter(s string) (any, error) {
	return s, nil
}
