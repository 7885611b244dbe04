package schema

import "iter"

// Field pairs a field name with its expected type.
type Field struct {
	Name string
	Type Type
}

// F is shorthand for Field{Name: name, Type: typ}.
func F(name string, typ Type) Field {
	return Field{Name: name, Type: typ}
}

// Schema is an ordered map of field names to their expected types.
// Example: schema.New(schema.F("username", schema.String()), schema.F("contact", schema.Class[Contact]()))
//
// A Schema is immutable once built and safe for concurrent use.
// A nil *Schema declares no fields.
type Schema struct {
	names []string
	types map[string]Type
}

// New builds a Schema from fields in declaration order.
// A repeated name replaces the earlier type but keeps its first position.
func New(fields ...Field) *Schema {
	s := &Schema{
		names: make([]string, 0, len(fields)),
		types: make(map[string]Type, len(fields)),
	}
	for _, f := range fields {
		if _, exists := s.types[f.Name]; !exists {
			s.names = append(s.names, f.Name)
		}
		s.types[f.Name] = f.Type
	}
	return s
}

// Len returns the number of declared fields.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns the declared field names in declaration order.
func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Lookup returns the type declared for name.
func (s *Schema) Lookup(name string) (Type, bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.types[name]
	return t, ok
}

// All iterates over the declared fields in declaration order.
func (s *Schema) All() iter.Seq2[string, Type] {
	return func(yield func(string, Type) bool) {
		if s == nil {
			return
		}
		for _, name := range s.names {
			if !yield(name, s.types[name]) {
				return
			}
		}
	}
}
