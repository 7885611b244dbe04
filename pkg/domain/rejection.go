package domain

import (
	"time"

	"github.com/bpkcongli/schema-checker/pkg/schema"
	"github.com/google/uuid"
)

// Rejection records a payload refused by a named checker.
type Rejection struct {
	ID      string         `json:"id"`
	Schema  string         `json:"schema"`
	Code    schema.Code    `json:"code"`
	Field   string         `json:"field,omitempty"`
	Message string         `json:"message"`
	Payload map[string]any `json:"payload,omitempty"`
	At      time.Time      `json:"at"`
}

// NewRejection builds a Rejection for err, which should come from a check.
// The payload is deep-copied with CopyPayload.
func NewRejection(schemaName string, payload map[string]any, err error) *Rejection {
	r := &Rejection{
		ID:      uuid.NewString(),
		Schema:  schemaName,
		Code:    schema.CodeOf(err),
		Field:   schema.FieldOf(err),
		Message: err.Error(),
		At:      time.Now().UTC(),
	}
	r.Payload = CopyPayload(payload)
	return r
}

// Clone returns a copy of r that shares no maps or slices with it.
func (r *Rejection) Clone() *Rejection {
	c := *r
	c.Payload = CopyPayload(r.Payload)
	return &c
}

// CopyPayload copies m, recursing into nested objects and arrays.
// Other values are copied shallowly. A nil map stays nil.
func CopyPayload(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CopyPayload(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
