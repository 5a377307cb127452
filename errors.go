package img2uni

import "errors"

var (
	// ErrCatalog reports a malformed catalog: bad descriptor, unreadable
	// embedding blob or misaligned tables.
	ErrCatalog = errors.New("catalog error")

	// ErrEmptyCatalog is returned when matching against a catalog with no
	// entries.
	ErrEmptyCatalog = errors.New("catalog is empty")

	// ErrDimensionMismatch is returned when an embedding does not have the
	// catalog's dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbedding wraps failures of the embedding engine.
	ErrEmbedding = errors.New("embedding failed")
)
