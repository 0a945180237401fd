// Package store abstracts the document store the service persists into:
// collections of documents keyed by id, with merge writes, equality-filtered
// queries, and bounded atomic batches. Production uses Firestore; tests use
// the in-memory implementation.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get for a missing document.
var ErrNotFound = errors.New("document not found")

// MaxBatchWrites is the backend's per-batch write ceiling.
const MaxBatchWrites = 400

// Filter is an equality condition on a document field.
type Filter struct {
	Field string
	Value interface{}
}

// Doc is a queried document plus its id.
type Doc struct {
	ID   string
	Data map[string]interface{}
}

type Store interface {
	Get(ctx context.Context, collection, id string) (map[string]interface{}, error)
	// Set writes data; with merge, existing fields not present in data are
	// kept and the document is created if absent.
	Set(ctx context.Context, collection, id string, data map[string]interface{}, merge bool) error
	Delete(ctx context.Context, collection, id string) error
	// Query returns documents matching every filter, at most limit when
	// limit > 0. Result order is backend-defined.
	Query(ctx context.Context, collection string, filters []Filter, limit int) ([]Doc, error)
	// Batch starts an atomic write batch. Callers must keep the write count
	// at or under MaxBatchWrites.
	Batch() Batch
}

// Batch accumulates writes that commit as one atomic unit.
type Batch interface {
	Set(collection, id string, data map[string]interface{}, merge bool)
	Delete(collection, id string)
	Len() int
	Commit(ctx context.Context) error
}

// NewID generates a document id.
func NewID() string {
	return uuid.NewString()
}
