// Package keyword provides full-text retrieval over the processed corpus.
package keyword

import (
	"context"

	"github.com/hyperjump/seiri/internal/models"
)

// Result is one search hit.
type Result struct {
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
}

// Index defines full-text indexing and search over processed documents.
type Index interface {
	Index(ctx context.Context, doc *models.ProcessedDocument) error
	IndexBatch(ctx context.Context, docs []*models.ProcessedDocument) error
	Search(ctx context.Context, query string, category string, limit int) ([]*Result, error)
	Delete(ctx context.Context, filename string) error
	DocCount() (uint64, error)
	Close() error
}
