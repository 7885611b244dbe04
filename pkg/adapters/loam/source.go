package loam

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/bpkcongli/schema-checker/pkg/schema"
)

// Source reads payloads from a Loam document repository.
// A document's metadata (JSON/YAML body or Markdown frontmatter) is the payload.
type Source struct {
	Repo core.Repository
}

// New wraps an existing repository.
func New(repo core.Repository) *Source {
	return &Source{Repo: repo}
}

// Open initializes a read-only repository rooted at dir.
//
// Strict mode keeps integers as json.Number/int64 instead of float64; both
// are "number" to the checker.
func Open(dir string) (*Source, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(repo), nil
}

// Payload loads the document id and returns its metadata as a payload.
// The returned map is a copy.
func (s *Source) Payload(ctx context.Context, id string) (schema.Payload, error) {
	doc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}

	payload := make(schema.Payload, len(doc.Metadata))
	for k, v := range doc.Metadata {
		payload[k] = v
	}
	return payload, nil
}
