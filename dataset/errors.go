package dataset

import "errors"

var (
	// ErrCatalogWriterRequired is returned when a loader is built without storage.
	ErrCatalogWriterRequired = errors.New("catalog writer required")
)
