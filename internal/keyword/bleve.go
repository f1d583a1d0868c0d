// Package keyword provides Bleve implementation of Index.
package keyword

import (
	"context"
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/seiri/internal/models"
)

// indexedDocument is the flat shape Bleve indexes per processed document.
type indexedDocument struct {
	Filename string `json:"filename"`
	Category string `json:"category"`
	Content  string `json:"content"`
	Topics   string `json:"topics"`
}

// BleveIndex implements Index using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex creates or opens a Bleve index at path. An existing index is
// opened and reused; remove the directory to force a full rebuild after a
// mapping change.
func NewBleveIndex(path string) (*BleveIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so queries like
	// "spreads" match the exact word rather than a stemmed form.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	docMapping.AddFieldMappingsAt("topics", textFieldMapping)
	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	docMapping.AddFieldMappingsAt("filename", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("category", keywordFieldMapping)
	im.AddDocumentMapping("document", docMapping)
	im.DefaultType = "document"
	im.DefaultMapping = docMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

func toIndexed(doc *models.ProcessedDocument) *indexedDocument {
	topics := ""
	for i, t := range doc.Metadata.Topics {
		if i > 0 {
			topics += " "
		}
		topics += t
	}
	return &indexedDocument{
		Filename: doc.Filename,
		Category: string(doc.Category),
		Content:  doc.StructuredContent,
		Topics:   topics,
	}
}

// Index indexes one document keyed by filename.
func (b *BleveIndex) Index(ctx context.Context, doc *models.ProcessedDocument) error {
	return b.index.Index(doc.Filename, toIndexed(doc))
}

// IndexBatch indexes documents in one Bleve batch.
func (b *BleveIndex) IndexBatch(ctx context.Context, docs []*models.ProcessedDocument) error {
	batch := b.index.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.Filename, toIndexed(doc)); err != nil {
			return fmt.Errorf("failed to add %s to batch: %w", doc.Filename, err)
		}
	}
	return b.index.Batch(batch)
}

// Search runs a match query over content and topics, optionally restricted to
// one category, and returns up to limit hits.
func (b *BleveIndex) Search(ctx context.Context, query string, category string, limit int) ([]*Result, error) {
	mq := bleve.NewMatchQuery(query)

	var q blevequery.Query = mq
	if category != "" {
		tq := bleve.NewTermQuery(category)
		tq.SetField("category")
		q = bleve.NewConjunctionQuery(mq, tq)
	}

	search := bleve.NewSearchRequest(q)
	search.Size = limit
	results, err := b.index.Search(search)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*Result, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &Result{Filename: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// Delete removes a document from the index.
func (b *BleveIndex) Delete(ctx context.Context, filename string) error {
	return b.index.Delete(filename)
}

// DocCount returns the total number of indexed documents.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
