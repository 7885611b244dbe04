package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/bpkcongli/schema-checker/pkg/domain"
	"github.com/bpkcongli/schema-checker/pkg/ports"
)

// Mask replaces the value of every masked payload key.
const Mask = "***"

type piiMiddleware struct {
	next     ports.RejectionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks payload values whose key
// matches one of the patterns before the rejection is stored. Nested objects
// and arrays of objects are masked too.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid mask pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.RejectionStore) ports.RejectionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, rejection *domain.Rejection) error {
	// Work on a copy; the caller keeps the unmasked rejection.
	cloned := *rejection
	if rejection.Payload != nil {
		cloned.Payload = domain.CopyPayload(rejection.Payload)
		maskMap(cloned.Payload, m.patterns)
	}
	return m.next.Save(ctx, &cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, id string) (*domain.Rejection, error) {
	return m.next.Load(ctx, id)
}

func (m *piiMiddleware) List(ctx context.Context, limit int) ([]*domain.Rejection, error) {
	return m.next.List(ctx, limit)
}

func (m *piiMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

// Helpers

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		masked := false
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				masked = true
				break
			}
		}
		if !masked {
			maskValue(v, patterns)
		}
	}
}

func maskValue(v any, patterns []*regexp.Regexp) {
	switch t := v.(type) {
	case map[string]any:
		maskMap(t, patterns)
	case []any:
		for _, item := range t {
			maskValue(item, patterns)
		}
	}
}
