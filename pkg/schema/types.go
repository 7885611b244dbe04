package schema

import (
	"fmt"
	"reflect"
)

// Kind tells the descriptor variants apart.
type Kind int

const (
	// KindPrimitive descriptors match on the runtime type name of a value.
	KindPrimitive Kind = iota + 1
	// KindClass descriptors match on an instance-of relationship.
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindClass:
		return "class"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Type describes the expected type of a single field.
// It is a closed variant: either a *PrimitiveType or a *ClassType.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "ContactPerson").
	Name() string
	// Kind reports which variant the descriptor is.
	Kind() Kind

	sealed()
}

// --- Primitive descriptors ---

// Tag is a runtime type name.
type Tag string

const (
	TagString    Tag = "string"
	TagNumber    Tag = "number"
	TagBoolean   Tag = "boolean"
	TagObject    Tag = "object"
	TagFunction  Tag = "function"
	TagUndefined Tag = "undefined"
	TagSymbol    Tag = "symbol"
	TagBigInt    Tag = "bigint"
)

var tags = []Tag{TagString, TagNumber, TagBoolean, TagObject, TagFunction, TagUndefined, TagSymbol, TagBigInt}

// Tags returns every primitive tag in a stable order.
func Tags() []Tag {
	out := make([]Tag, len(tags))
	copy(out, tags)
	return out
}

// ParseTag reports whether name is one of the primitive tags.
func ParseTag(name string) (Tag, bool) {
	for _, t := range tags {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

// PrimitiveType matches values whose runtime type name equals its tag.
type PrimitiveType struct {
	tag Tag
}

func (t *PrimitiveType) Name() string { return string(t.tag) }

func (t *PrimitiveType) Kind() Kind { return KindPrimitive }

// Tag returns the runtime type name the descriptor expects.
func (t *PrimitiveType) Tag() Tag { return t.tag }

func (t *PrimitiveType) sealed() {}

// --- Class descriptors ---

// ClassType matches values that are instances of a class.
type ClassType struct {
	name     string
	instance func(any) bool
}

func (t *ClassType) Name() string { return t.name }

func (t *ClassType) Kind() Kind { return KindClass }

func (t *ClassType) sealed() {}

// IsInstance reports whether value is an instance of the class.
// nil, Undefined and nil pointers are never instances.
func (t *ClassType) IsInstance(value any) bool {
	if t.instance == nil || value == nil || IsUndefined(value) {
		return false
	}
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return false
	}
	return t.instance(value)
}

// --- Factory Functions ---

// Primitive creates a descriptor for the given tag.
// It panics if tag is not one of the primitive tags.
func Primitive(tag Tag) Type {
	if _, ok := ParseTag(string(tag)); !ok {
		panic(fmt.Sprintf("schema: unknown primitive tag %q", tag))
	}
	return &PrimitiveType{tag: tag}
}

// String creates a "string" descriptor.
func String() Type { return &PrimitiveType{tag: TagString} }

// Number creates a "number" descriptor.
func Number() Type { return &PrimitiveType{tag: TagNumber} }

// Boolean creates a "boolean" descriptor.
func Boolean() Type { return &PrimitiveType{tag: TagBoolean} }

// Object creates an "object" descriptor.
func Object() Type { return &PrimitiveType{tag: TagObject} }

// Function creates a "function" descriptor.
func Function() Type { return &PrimitiveType{tag: TagFunction} }

// BigInt creates a "bigint" descriptor.
func BigInt() Type { return &PrimitiveType{tag: TagBigInt} }

// UndefinedType creates an "undefined" descriptor. It only matches Undefined,
// so a mandatory field of this type must be present and hold Undefined.
func UndefinedType() Type { return &PrimitiveType{tag: TagUndefined} }

// SymbolType creates a "symbol" descriptor matching *Symbol values.
func SymbolType() Type { return &PrimitiveType{tag: TagSymbol} }

// Class creates a descriptor matching instances of T.
//
// A value is an instance of T when its type is T or *T, when T is an
// interface the value implements, or when its struct type embeds T
// (directly or through other embedded structs).
func Class[T any]() Type {
	target := reflect.TypeFor[T]()
	name := target.Name()
	if name == "" {
		name = target.String()
	}
	if target.Kind() == reflect.Pointer && target.Elem().Name() != "" {
		name = target.Elem().Name()
	}
	return &ClassType{
		name: name,
		instance: func(value any) bool {
			return instanceOf(reflect.TypeOf(value), target)
		},
	}
}

// ClassFunc creates a class descriptor backed by an explicit predicate.
// Use it for classes whose instances cannot be recognised by their Go type.
func ClassFunc(name string, isInstance func(value any) bool) Type {
	return &ClassType{name: name, instance: isInstance}
}

func instanceOf(rt, target reflect.Type) bool {
	if rt == nil {
		return false
	}
	if target.Kind() == reflect.Interface {
		return rt.Implements(target)
	}
	return derives(rt, indirect(target), make(map[reflect.Type]bool))
}

// derives walks pointer indirections and embedded fields of rt looking for base.
func derives(rt, base reflect.Type, seen map[reflect.Type]bool) bool {
	rt = indirect(rt)
	if rt == base {
		return true
	}
	if rt.Kind() != reflect.Struct || seen[rt] {
		return false
	}
	seen[rt] = true

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.Anonymous && derives(f.Type, base, seen) {
			return true
		}
	}
	return false
}

func indirect(rt reflect.Type) reflect.Type {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt
}
