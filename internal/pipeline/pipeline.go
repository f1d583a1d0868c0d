// Package pipeline drives one batch run: clean, extract, categorize, and
// structure every input document, then link relationships over the complete
// processed set and aggregate run metrics.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/seiri/internal/classify"
	"github.com/hyperjump/seiri/internal/cleaner"
	"github.com/hyperjump/seiri/internal/config"
	"github.com/hyperjump/seiri/internal/extract"
	"github.com/hyperjump/seiri/internal/linker"
	"github.com/hyperjump/seiri/internal/models"
	"go.uber.org/zap"
)

// ErrEmptyBatch is returned when no input documents exist or none survive
// cleaning. No output artifacts are written in that case.
var ErrEmptyBatch = errors.New("no documents processed")

// Result is everything one batch run produced, handed to persistence as a whole.
type Result struct {
	Documents     []*models.ProcessedDocument
	ByCategory    map[models.Category][]*models.ProcessedDocument
	Relationships map[string][]models.Relationship
	Consolidated  models.Facts
	Metrics       models.RunMetrics
}

// Pipeline runs batches over an input directory.
type Pipeline struct {
	cfg    *config.PipelineConfig
	logger *zap.Logger // optional; when set, logs per-document progress
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a logger for progress output (document processed, document
// skipped, run summary).
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a pipeline with the given thresholds.
func New(cfg *config.PipelineConfig, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes every matching file under inputDir as one batch. Individual
// failures (unreadable files, documents too short after cleaning) are counted
// and skipped, never fatal. Returns ErrEmptyBatch when nothing was processed.
// Relationship linking requires the complete processed set, so it runs only
// after the per-document loop finishes.
func (p *Pipeline) Run(ctx context.Context, inputDir string, extensions []string) (*Result, error) {
	paths, err := listInputs(inputDir, extensions)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no input files in %s", ErrEmptyBatch, inputDir)
	}

	metrics := models.RunMetrics{
		RunID:      uuid.New().String(),
		FilesFound: len(paths),
		StartedAt:  time.Now(),
	}

	var docs []*models.ProcessedDocument
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := p.processFile(path, &metrics)
		if err != nil {
			metrics.Failed++
			if p.logger != nil {
				p.logger.Warn("document failed",
					zap.String("file", filepath.Base(path)),
					zap.Int("index", i+1),
					zap.Int("total", len(paths)),
					zap.Error(err),
				)
			}
			continue
		}
		metrics.Processed++
		docs = append(docs, doc)
		if p.logger != nil {
			p.logger.Info("document processed",
				zap.String("file", doc.Filename),
				zap.String("category", string(doc.Category)),
				zap.Int("words", doc.Metadata.WordCount),
				zap.Float64("retention_pct", doc.RetentionRatio),
			)
		}
	}

	if len(docs) == 0 {
		return nil, ErrEmptyBatch
	}

	// Batch barrier: the linker needs the full processed set.
	relationships := make(map[string][]models.Relationship, len(docs))
	for _, doc := range docs {
		relationships[doc.Filename] = linker.Link(doc, docs, p.cfg.RelatedLimit)
	}

	metrics.FinishedAt = time.Now()

	result := &Result{
		Documents:     docs,
		ByCategory:    groupByCategory(docs),
		Relationships: relationships,
		Consolidated:  consolidateFacts(docs),
		Metrics:       metrics,
	}

	if p.logger != nil {
		p.logger.Info("run complete",
			zap.String("run_id", metrics.RunID),
			zap.Int("found", metrics.FilesFound),
			zap.Int("processed", metrics.Processed),
			zap.Int("failed", metrics.Failed),
			zap.Float64("coverage_pct", metrics.Coverage()),
			zap.Int("categories", len(result.ByCategory)),
		)
	}
	return result, nil
}

// processFile runs one document through clean -> metadata/facts -> categorize
// -> structure. The raw text is discarded once cleaning is done.
func (p *Pipeline) processFile(path string, metrics *models.RunMetrics) (*models.ProcessedDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return p.Process(&models.RawDocument{
		Filename: filepath.Base(path),
		RawText:  string(raw),
	}, metrics)
}

// Process transforms one raw document into a processed document, accumulating
// character counts into metrics. Exposed so the watcher and tests can feed
// documents without touching the filesystem.
func (p *Pipeline) Process(raw *models.RawDocument, metrics *models.RunMetrics) (*models.ProcessedDocument, error) {
	metrics.TotalInputChars += len(raw.RawText)

	sourceURL := cleaner.SourceURL(raw.RawText)
	text, retention := cleaner.Clean(raw.RawText)
	if len(text) < p.cfg.MinContentLength {
		return nil, fmt.Errorf("cleaned text too short: %d chars", len(text))
	}
	metrics.TotalOutputChars += len(text)

	md := extract.Metadata(text, raw.Filename)
	facts := extract.Facts(text)
	category := classify.Categorize(raw.Filename, text, md)
	structured := Structure(text, md, facts, sourceURL)

	return &models.ProcessedDocument{
		Filename:          raw.Filename,
		Category:          category,
		StructuredContent: structured,
		Metadata:          md,
		Facts:             facts,
		SourceURL:         sourceURL,
		RetentionRatio:    retention,
	}, nil
}

func groupByCategory(docs []*models.ProcessedDocument) map[models.Category][]*models.ProcessedDocument {
	grouped := make(map[models.Category][]*models.ProcessedDocument)
	for _, doc := range docs {
		grouped[doc.Category] = append(grouped[doc.Category], doc)
	}
	return grouped
}

// consolidateFacts unions every fact field across the corpus, sorted for
// stable output.
func consolidateFacts(docs []*models.ProcessedDocument) models.Facts {
	var out models.Facts
	for _, field := range models.FactFieldOrder {
		seen := make(map[string]struct{})
		for _, doc := range docs {
			for _, v := range doc.Facts.Field(field) {
				seen[v] = struct{}{}
			}
		}
		if len(seen) == 0 {
			continue
		}
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Strings(values)
		out.SetField(field, values)
	}
	return out
}

// listInputs returns the matching files directly under dir, sorted by name so
// runs are deterministic.
func listInputs(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if matchExtension(e.Name(), extensions) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func matchExtension(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if strings.ToLower(strings.TrimPrefix(e, ".")) == strings.TrimPrefix(ext, ".") {
			return true
		}
	}
	return false
}
