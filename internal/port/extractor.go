package port

import "docrag/internal/domain"

// Extractor pulls content blocks out of a document file.
type Extractor interface {
	// Extract returns the document's content blocks in reading order.
	Extract(path string) ([]domain.ContentBlock, error)

	// Supports reports whether the extractor can handle the given path.
	Supports(path string) bool
}
