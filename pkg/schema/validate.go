package schema

// Presence controls whether Conform accepts Undefined values.
type Presence int

const (
	// Required fields must match their type even when Undefined.
	Required Presence = iota
	// Optional fields may be Undefined.
	Optional
)

// Match reports whether value satisfies typ.
// Primitive descriptors only compare runtime type names, class descriptors
// only test instance-of. A nil typ matches nothing.
func Match(typ Type, value any) bool {
	switch t := typ.(type) {
	case *PrimitiveType:
		return TypeOf(value) == t.tag
	case *ClassType:
		return t.IsInstance(value)
	default:
		return false
	}
}

// RequireFields checks that every field declared in s is one of the
// payload's keys. It stops at the first missing field, in declaration order.
func RequireFields(s *Schema, payload Payload) error {
	for name := range s.All() {
		if !payload.Has(name) {
			return &Error{Code: CodeMissingMandatoryField, Field: name}
		}
	}
	return nil
}

// Conform checks the type of every field declared in s. It stops at the first
// mismatch, in declaration order. Fields absent from the payload read as
// Undefined and are only accepted when presence is Optional.
func Conform(s *Schema, payload Payload, presence Presence) error {
	for name, typ := range s.All() {
		value := payload.Get(name)
		if Match(typ, value) {
			continue
		}
		if presence == Optional && IsUndefined(value) {
			continue
		}
		return &Error{
			Code:     CodeTypeMismatch,
			Field:    name,
			Expected: typeName(typ),
			Got:      TypeOf(value),
		}
	}
	return nil
}

func typeName(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}
