package schema

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
)

type undefined struct{}

func (undefined) String() string { return "undefined" }

// MarshalJSON encodes Undefined as null.
func (undefined) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Undefined is the value of a field that holds nothing.
// Reading an absent key from a Payload yields Undefined; a key explicitly
// set to Undefined still counts as present.
var Undefined any = undefined{}

// IsUndefined reports whether v is Undefined.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// Symbol is a unique value identified by its address.
type Symbol struct {
	description string
}

// NewSymbol returns a new Symbol. Two symbols are never equal, even with the same description.
func NewSymbol(description string) *Symbol {
	return &Symbol{description: description}
}

func (s *Symbol) String() string { return "Symbol(" + s.description + ")" }

// Payload is the untrusted input being checked.
type Payload map[string]any

// Has reports whether key is one of the payload's own keys.
func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Get returns the value stored under key, or Undefined when the key is absent.
func (p Payload) Get(key string) any {
	v, ok := p[key]
	if !ok {
		return Undefined
	}
	return v
}

// TypeOf returns the runtime type name of v.
//
// A nil value is an "object". Every Go integer and float kind, as well as
// json.Number, is a "number".
func TypeOf(v any) Tag {
	switch v.(type) {
	case nil:
		return TagObject
	case undefined:
		return TagUndefined
	case *Symbol:
		return TagSymbol
	case *big.Int, big.Int:
		return TagBigInt
	case json.Number:
		return TagNumber
	}

	switch reflect.TypeOf(v).Kind() {
	case reflect.String:
		return TagString
	case reflect.Bool:
		return TagBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return TagNumber
	case reflect.Func:
		return TagFunction
	default:
		return TagObject
	}
}

// IsFalsy reports whether v counts as "no value": nil, Undefined, "", false,
// any numeric zero, NaN, a zero big.Int, or a nil pointer, map, slice, func,
// or chan. Empty but non-nil maps and slices are not falsy.
func IsFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case undefined:
		return true
	case json.Number:
		if x == "" {
			return true
		}
		f, err := x.Float64()
		return err == nil && f == 0
	case *big.Int:
		return x == nil || x.Sign() == 0
	case big.Int:
		return x.Sign() == 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() == 0
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
