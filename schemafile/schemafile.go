// Package schemafile loads declarative row-schema descriptors and compiles
// them into rowcodec schemas. Descriptors are authored as YAML or as JSONC
// (JSON extended with comments and trailing commas); both formats share one
// document shape:
//
//	types:
//	  quantity: int
//	  flexible: [int, string]
//	schemas:
//	  - name: instrument
//	    properties:
//	      - name: id
//	        type: int
//	  - name: trade
//	    base: instrument
//	    properties:
//	      - name: qty
//	        type: quantity
//
// Entries under "types" become named aliases; a list-valued type is a union
// over its members in order; "base" references another schema in the same
// document. A property with no type is plain text.
package schemafile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/rowcodec/rowcodec"
)

// Document is the on-disk shape of a schema descriptor file.
type Document struct {
	Types   map[string]TypeExpr `yaml:"types" json:"types"`
	Schemas []SchemaDef         `yaml:"schemas" json:"schemas"`
}

// SchemaDef declares one schema, optionally extending another in the same document.
type SchemaDef struct {
	Name       string        `yaml:"name" json:"name"`
	Base       string        `yaml:"base" json:"base"`
	Properties []PropertyDef `yaml:"properties" json:"properties"`
}

// PropertyDef declares one column of a schema.
type PropertyDef struct {
	Name   string   `yaml:"name" json:"name"`
	Type   TypeExpr `yaml:"type" json:"type"`
	Hidden bool     `yaml:"hidden" json:"hidden"`
}

// TypeExpr is either a single type name or a list of names forming a union.
type TypeExpr struct {
	Names []string
	List  bool
}

func (t *TypeExpr) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}
		*t = TypeExpr{Names: []string{name}}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}
		*t = TypeExpr{Names: names, List: true}
		return nil
	default:
		return fmt.Errorf("schemafile: type must be a name or a list of names")
	}
}

func (t *TypeExpr) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if strings.HasPrefix(trimmed, "[") {
		var names []string
		if err := json.Unmarshal(b, &names); err != nil {
			return err
		}
		*t = TypeExpr{Names: names, List: true}
		return nil
	}
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return fmt.Errorf("schemafile: type must be a name or a list of names")
	}
	*t = TypeExpr{Names: []string{name}}
	return nil
}

// Parse unmarshals a YAML descriptor document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schemafile: parsing YAML: %w", err)
	}
	return &doc, nil
}

// ParseJSONC strips JSONC comments and trailing commas from data, then
// unmarshals the result into a Document.
func ParseJSONC(data []byte) (*Document, error) {
	stripped := jsonc.ToJSON(data)

	var doc Document
	if err := json.Unmarshal(stripped, &doc); err != nil {
		return nil, fmt.Errorf("schemafile: parsing JSONC: %w", err)
	}
	return &doc, nil
}

// Load reads a descriptor file, dispatching on extension (.yaml/.yml vs
// .json/.jsonc), and compiles it into schemas keyed by name.
func Load(path string) (map[string]*rowcodec.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: reading %s: %w", path, err)
	}

	var doc *Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err = Parse(data)
	case ".json", ".jsonc":
		doc, err = ParseJSONC(data)
	default:
		return nil, fmt.Errorf("schemafile: %s: unsupported extension (want .yaml, .yml, .json, or .jsonc)", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	schemas, err := Compile(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schemas, nil
}

// Compile resolves a parsed document into rowcodec schemas keyed by name.
// Base references are order-independent within the document.
func Compile(doc *Document) (map[string]*rowcodec.Schema, error) {
	c := &compiler{
		doc:      doc,
		defs:     make(map[string]*SchemaDef, len(doc.Schemas)),
		schemas:  make(map[string]*rowcodec.Schema, len(doc.Schemas)),
		aliases:  make(map[string]rowcodec.Type),
		building: make(map[string]bool),
	}

	for i := range doc.Schemas {
		def := &doc.Schemas[i]
		if def.Name == "" {
			return nil, fmt.Errorf("schemafile: schemas[%d]: name is required", i)
		}
		if _, ok := c.defs[def.Name]; ok {
			return nil, fmt.Errorf("schemafile: duplicate schema %q", def.Name)
		}
		c.defs[def.Name] = def
	}

	for _, def := range doc.Schemas {
		if _, err := c.schema(def.Name); err != nil {
			return nil, err
		}
	}
	return c.schemas, nil
}

type compiler struct {
	doc      *Document
	defs     map[string]*SchemaDef
	schemas  map[string]*rowcodec.Schema
	aliases  map[string]rowcodec.Type
	building map[string]bool
}

func (c *compiler) schema(name string) (*rowcodec.Schema, error) {
	if s, ok := c.schemas[name]; ok {
		return s, nil
	}
	if c.building[name] {
		return nil, fmt.Errorf("schemafile: schema %q: base cycle", name)
	}
	def, ok := c.defs[name]
	if !ok {
		return nil, fmt.Errorf("schemafile: unknown schema %q", name)
	}

	c.building[name] = true
	defer delete(c.building, name)

	var base *rowcodec.Schema
	if def.Base != "" {
		b, err := c.schema(def.Base)
		if err != nil {
			return nil, fmt.Errorf("schemafile: schema %q: %w", name, err)
		}
		base = b
	}

	seen := make(map[string]bool, len(def.Properties))
	properties := make([]rowcodec.Property, 0, len(def.Properties))
	for i, p := range def.Properties {
		if p.Name == "" {
			return nil, fmt.Errorf("schemafile: schema %q: properties[%d]: name is required", name, i)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("schemafile: schema %q: duplicate property %q", name, p.Name)
		}
		seen[p.Name] = true

		t, err := c.resolveExpr(p.Type)
		if err != nil {
			return nil, fmt.Errorf("schemafile: schema %q: property %q: %w", name, p.Name, err)
		}
		properties = append(properties, rowcodec.Property{Name: p.Name, Type: t, Hidden: p.Hidden})
	}

	s := &rowcodec.Schema{Name: name, Base: base, Properties: properties}
	c.schemas[name] = s
	return s, nil
}

func (c *compiler) resolveExpr(expr TypeExpr) (rowcodec.Type, error) {
	if len(expr.Names) == 0 {
		// No declared type: plain text.
		return rowcodec.Concrete("string"), nil
	}
	if expr.List {
		members := make([]rowcodec.Type, 0, len(expr.Names))
		for _, n := range expr.Names {
			m, err := c.resolveName(n)
			if err != nil {
				return rowcodec.Type{}, err
			}
			members = append(members, m)
		}
		return rowcodec.Union(members...), nil
	}
	return c.resolveName(expr.Names[0])
}

// resolveName maps a type name to a descriptor. Names declared under "types"
// become aliases to their referent; anything else is a concrete name, which
// rowcodec converts via identity when no converter is registered for it.
func (c *compiler) resolveName(name string) (rowcodec.Type, error) {
	if t, ok := c.aliases[name]; ok {
		return t, nil
	}
	expr, ok := c.doc.Types[name]
	if !ok {
		return rowcodec.Concrete(name), nil
	}
	if c.building["type:"+name] {
		return rowcodec.Type{}, fmt.Errorf("type %q: alias cycle", name)
	}
	c.building["type:"+name] = true
	defer delete(c.building, "type:"+name)

	referent, err := c.resolveExpr(expr)
	if err != nil {
		return rowcodec.Type{}, err
	}
	alias := rowcodec.Alias(referent)
	c.aliases[name] = alias
	return alias, nil
}
