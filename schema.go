package rowcodec

// Schema describes the target row shape for schema-directed parsing. It is an
// explicit descriptor supplied by the caller; the codec never reflects over Go
// types. A schema may extend a base schema, whose properties come first.
type Schema struct {
	Name       string
	Base       *Schema
	Properties []Property
}

// Property is a single declared column of a schema.
type Property struct {
	Name   string
	Type   Type
	Hidden bool
}

// Columns returns the names of the visible properties, walking base schemas
// least-derived first, in declaration order. Hidden properties are excluded
// and cannot be addressed from CSV input.
func (s *Schema) Columns() []string {
	if s == nil {
		return nil
	}
	cols := s.Base.Columns()
	for _, p := range s.Properties {
		if p.Hidden {
			continue
		}
		cols = append(cols, p.Name)
	}
	return cols
}

// Property resolves name through the schema chain, most-derived first.
func (s *Schema) Property(name string) (Property, bool) {
	if s == nil {
		return Property{}, false
	}
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return s.Base.Property(name)
}
