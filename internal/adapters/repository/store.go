// Package repository persists evaluation records produced by the scoring workers.
package repository

import (
	"context"

	"github.com/okian/fitscore/internal/domain/model"
)

// Store provides read/write access to evaluation records.
type Store interface {
	// Save inserts or replaces the record with the same ID.
	Save(ctx context.Context, rec model.EvaluationRecord) error

	// Get returns the record for id, or ErrNotFound.
	Get(ctx context.Context, id string) (model.EvaluationRecord, error)

	// Delete removes a record. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	Close() error
}
