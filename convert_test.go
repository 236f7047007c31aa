package rowcodec

import (
	"errors"
	"reflect"
	"testing"
)

func TestConverterFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		typ       Type
		overrides map[string]Converter
		input     string
		want      any
	}{
		{
			name:  "concreteInt",
			typ:   Concrete("int"),
			input: "42",
			want:  int64(42),
		},
		{
			name:  "concreteFloat",
			typ:   Concrete("float"),
			input: "2.5",
			want:  2.5,
		},
		{
			name:  "concreteBool",
			typ:   Concrete("bool"),
			input: "true",
			want:  true,
		},
		{
			name:  "unregisteredIsIdentity",
			typ:   Concrete("string"),
			input: "plain",
			want:  "plain",
		},
		{
			name:  "aliasResolvesToReferent",
			typ:   Alias(Concrete("int")),
			input: "7",
			want:  int64(7),
		},
		{
			name:  "nestedAlias",
			typ:   Alias(Alias(Concrete("bool"))),
			input: "false",
			want:  false,
		},
		{
			name: "unionPicksFirstRegisteredMember",
			// "string" has no registered converter, so the union resolves to
			// "int" even though the declaration lists "string" first.
			typ:   Union(Concrete("string"), Concrete("int")),
			input: "9",
			want:  int64(9),
		},
		{
			name:  "unionOfAliases",
			typ:   Union(Alias(Concrete("custom")), Alias(Concrete("float"))),
			input: "1.25",
			want:  1.25,
		},
		{
			name:  "unionWithoutRegisteredMembersIsIdentity",
			typ:   Union(Concrete("a"), Concrete("b")),
			input: "raw",
			want:  "raw",
		},
		{
			name: "overrideShadowsBuiltin",
			typ:  Concrete("int"),
			overrides: map[string]Converter{
				"int": func(s string) (any, error) { return "override:" + s, nil },
			},
			input: "5",
			want:  "override:5",
		},
		{
			name: "overrideRegistersNewName",
			typ:  Union(Concrete("upper"), Concrete("int")),
			overrides: map[string]Converter{
				"upper": func(s string) (any, error) { return s + "!", nil },
			},
			input: "hey",
			want:  "hey!",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			conv := ConverterFor(tc.typ, tc.overrides)
			got, err := conv(tc.input)
			if err != nil {
				t.Fatalf("converter returned unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("converter(%q) = %#v, want %#v", tc.input, got, tc.want)
			}
		})
	}
}

func TestConverterFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		typ   Type
		input string
	}{
		{name: "nonNumericInt", typ: Concrete("int"), input: "abc"},
		{name: "nonNumericFloat", typ: Concrete("float"), input: "1.2.3"},
		{name: "nonBoolean", typ: Concrete("bool"), input: "maybe"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			conv := ConverterFor(tc.typ, nil)
			if _, err := conv(tc.input); !errors.Is(err, ErrConversion) {
				t.Fatalf("converter(%q) error = %v, want ErrConversion", tc.input, err)
			}
		})
	}
}

func TestAliasWithoutReferentIsIdentity(t *testing.T) {
	t.Parallel()

	conv := ConverterFor(Type{Kind: KindAlias}, nil)
	got, err := conv("x")
	if err != nil {
		t.Fatalf("converter returned unexpected error: %v", err)
	}
	if got != "x" {
		t.Fatalf("converter = %#v, want identity passthrough", got)
	}
}
