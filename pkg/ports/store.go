package ports

import (
	"context"

	"github.com/bpkcongli/schema-checker/pkg/domain"
)

// RejectionStore persists rejected payloads so they can be inspected later.
type RejectionStore interface {
	// Save persists a rejection under its ID.
	Save(ctx context.Context, rejection *domain.Rejection) error

	// Load retrieves a rejection by ID.
	// Returns domain.ErrRejectionNotFound if the rejection does not exist.
	Load(ctx context.Context, id string) (*domain.Rejection, error)

	// List returns up to limit rejections, newest first. A limit <= 0 returns all of them.
	List(ctx context.Context, limit int) ([]*domain.Rejection, error)

	// Delete removes a rejection. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
}
