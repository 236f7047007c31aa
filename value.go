package rowcodec

// Field is a single named cell of a row. A nil Value is an absent cell. On the
// render path Value must be a primitive (nil, text, number, or boolean) or a
// value some configured formatter maps to one.
type Field struct {
	Name  string
	Value any
}

// Fields is an ordered named row. Order follows the source: input column order
// on the parse path, insertion order on the render path. Records parsed
// without any header source carry empty names and are purely positional.
type Fields []Field

// Get returns the value of the first field named name.
func (f Fields) Get(name string) (any, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return nil, false
}

// Names returns the field names in order.
func (f Fields) Names() []string {
	if f == nil {
		return nil
	}
	names := make([]string, len(f))
	for i, field := range f {
		names[i] = field.Name
	}
	return names
}

// Map returns the row as a name-to-value map, losing field order.
func (f Fields) Map() map[string]any {
	if f == nil {
		return nil
	}
	m := make(map[string]any, len(f))
	for _, field := range f {
		m[field.Name] = field.Value
	}
	return m
}
