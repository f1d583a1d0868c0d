// Package storage defines the persistence interface for the processed corpus.
package storage

import (
	"context"

	"github.com/hyperjump/seiri/internal/models"
)

// Storage defines corpus persistence operations. A batch run replaces the
// stored corpus wholesale; reads serve the retrieval API and CLI.
type Storage interface {
	// Document operations
	ReplaceDocuments(ctx context.Context, docs []*models.ProcessedDocument) error
	GetDocument(ctx context.Context, filename string) (*models.ProcessedDocument, error)
	ListDocuments(ctx context.Context, category string, offset, limit int) ([]*models.ProcessedDocument, error)

	// Relationship operations
	ReplaceRelationships(ctx context.Context, rels map[string][]models.Relationship) error
	GetRelationships(ctx context.Context, filename string) ([]models.Relationship, error)

	// Run history
	SaveRunMetrics(ctx context.Context, m *models.RunMetrics) error
	LastRunMetrics(ctx context.Context) (*models.RunMetrics, error)

	// Stats
	CountDocuments(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context) (map[string]int64, error)

	Close() error
}
