// Package output writes the run artifacts: per-category bundles, the master
// index, the consolidated facts index, the relationship map, the quality
// report, and the brand-guidelines document.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hyperjump/seiri/internal/config"
	"github.com/hyperjump/seiri/internal/models"
	"github.com/hyperjump/seiri/internal/pipeline"
	"github.com/hyperjump/seiri/pkg/utils"
	"go.uber.org/zap"
)

const divider = "================================================================================"

// Writer persists run artifacts into one output directory.
type Writer struct {
	dir    string
	brand  *config.BrandConfig
	logger *zap.Logger // optional
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets a logger for per-artifact progress output.
func WithLogger(l *zap.Logger) Option {
	return func(w *Writer) { w.logger = l }
}

// NewWriter creates a writer targeting dir.
func NewWriter(dir string, brand *config.BrandConfig, opts ...Option) *Writer {
	w := &Writer{dir: dir, brand: brand}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteAll writes every artifact for one run.
func (w *Writer) WriteAll(result *pipeline.Result) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := w.writeCategoryBundles(result); err != nil {
		return err
	}
	if err := w.writeMasterIndex(result); err != nil {
		return err
	}
	if err := w.writeQuickFacts(result); err != nil {
		return err
	}
	if err := w.writeRelationships(result); err != nil {
		return err
	}
	if err := w.writeQualityMetrics(result); err != nil {
		return err
	}
	return w.writeBrandGuidelines()
}

// writeCategoryBundles writes one <category>.txt per non-empty category:
// a header with document count, total words, and average retention, then each
// structured document wrapped in a DOCUMENT divider.
func (w *Writer) writeCategoryBundles(result *pipeline.Result) error {
	for _, category := range sortedCategories(result.ByCategory) {
		docs := result.ByCategory[category]
		totalWords := 0
		totalRetention := 0.0
		for _, doc := range docs {
			totalWords += doc.Metadata.WordCount
			totalRetention += doc.RetentionRatio
		}

		var b strings.Builder
		fmt.Fprintf(&b, "# %s - %s\n", strings.ToUpper(string(category)), strings.ToUpper(w.brand.CompanyName))
		fmt.Fprintf(&b, "# Total Documents: %d\n", len(docs))
		fmt.Fprintf(&b, "# Total Words: %d\n", totalWords)
		fmt.Fprintf(&b, "# Average Retention: %.1f%%\n", totalRetention/float64(len(docs)))
		b.WriteString(divider + "\n\n")
		for _, doc := range docs {
			fmt.Fprintf(&b, "\n%s\nDOCUMENT: %s\n%s\n\n", divider, doc.Filename, divider)
			b.WriteString(doc.StructuredContent)
			b.WriteString("\n\n")
		}

		path := filepath.Join(w.dir, string(category)+".txt")
		if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
			return fmt.Errorf("write category bundle %s: %w", category, err)
		}
		if w.logger != nil {
			w.logger.Info("category bundle written", zap.String("category", string(category)), zap.Int("documents", len(docs)))
		}
	}
	return nil
}

// writeMasterIndex writes _master_index.txt: run totals, a table of contents
// by category, then per-document entries with source, counts, topics,
// complexity, and a key-fact summary.
func (w *Writer) writeMasterIndex(result *pipeline.Result) error {
	totalWords := 0
	for _, doc := range result.Documents {
		totalWords += doc.Metadata.WordCount
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s - MASTER INDEX\n", strings.ToUpper(w.brand.CompanyName))
	fmt.Fprintf(&b, "# Total Documents: %d\n", result.Metrics.Processed)
	fmt.Fprintf(&b, "# Total Words: %d\n", totalWords)
	fmt.Fprintf(&b, "# Categories: %d\n", len(result.ByCategory))
	fmt.Fprintf(&b, "# Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString(divider + "\n\n")

	b.WriteString("## TABLE OF CONTENTS\n\n")
	for _, category := range sortedCategories(result.ByCategory) {
		fmt.Fprintf(&b, "- %s (%d documents)\n", strings.ToUpper(string(category)), len(result.ByCategory[category]))
	}
	b.WriteString("\n" + divider + "\n")

	for _, category := range sortedCategories(result.ByCategory) {
		docs := result.ByCategory[category]
		fmt.Fprintf(&b, "\n## %s (%d documents)\n", strings.ToUpper(string(category)), len(docs))
		b.WriteString(strings.Repeat("-", 80) + "\n")
		for _, doc := range docs {
			fmt.Fprintf(&b, "\n### %s\n", doc.Filename)
			fmt.Fprintf(&b, "**Source:** %s\n", doc.SourceURL)
			fmt.Fprintf(&b, "**Words:** %d\n", doc.Metadata.WordCount)
			fmt.Fprintf(&b, "**Topics:** %s\n", strings.Join(doc.Metadata.Topics, ", "))
			fmt.Fprintf(&b, "**Complexity:** %d/4\n", doc.Metadata.ComplexityScore)
			if summary := keyInfoSummary(&doc.Facts); summary != "" {
				fmt.Fprintf(&b, "**Key Info:** %s\n", summary)
			}
			b.WriteString("\n")
		}
	}

	path := filepath.Join(w.dir, "_master_index.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write master index: %w", err)
	}
	if w.logger != nil {
		w.logger.Info("master index written")
	}
	return nil
}

func keyInfoSummary(facts *models.Facts) string {
	var parts []string
	if len(facts.Leverage) > 0 {
		parts = append(parts, "Leverage: "+strings.Join(facts.Leverage, ", "))
	}
	if len(facts.Regulations) > 0 {
		parts = append(parts, "Regulations: "+strings.Join(facts.Regulations, ", "))
	}
	if len(facts.Platforms) > 0 {
		parts = append(parts, "Platforms: "+strings.Join(facts.Platforms, ", "))
	}
	// Index entries stay on one line.
	return utils.Truncate(strings.Join(parts, ", "), 160)
}

// quickFactsDocument is the JSON shape of _quick_facts.json.
type quickFactsDocument struct {
	Leverage        []string           `json:"leverage_options"`
	Spreads         []string           `json:"spreads"`
	Commissions     []string           `json:"commissions"`
	MinimumDeposits []string           `json:"minimum_deposits"`
	Regulations     []string           `json:"regulations"`
	AccountTypes    []string           `json:"account_types"`
	Platforms       []string           `json:"platforms"`
	Instruments     []string           `json:"instruments"`
	ContactInfo     []string           `json:"contact_info"`
	ProcessingTimes []string           `json:"processing_times"`
	Metadata        quickFactsMetadata `json:"_metadata"`
}

type quickFactsMetadata struct {
	Generated      string   `json:"generated"`
	TotalDocuments int      `json:"total_documents"`
	Categories     []string `json:"categories"`
}

// writeQuickFacts writes _quick_facts.json: the consolidated union of every
// fact field across the corpus, plus run metadata.
func (w *Writer) writeQuickFacts(result *pipeline.Result) error {
	categories := make([]string, 0, len(result.ByCategory))
	for _, c := range sortedCategories(result.ByCategory) {
		categories = append(categories, string(c))
	}
	doc := quickFactsDocument{
		Leverage:        emptyIfNil(result.Consolidated.Leverage),
		Spreads:         emptyIfNil(result.Consolidated.Spreads),
		Commissions:     emptyIfNil(result.Consolidated.Commissions),
		MinimumDeposits: emptyIfNil(result.Consolidated.MinimumDeposits),
		Regulations:     emptyIfNil(result.Consolidated.Regulations),
		AccountTypes:    emptyIfNil(result.Consolidated.AccountTypes),
		Platforms:       emptyIfNil(result.Consolidated.Platforms),
		Instruments:     emptyIfNil(result.Consolidated.Instruments),
		ContactInfo:     emptyIfNil(result.Consolidated.ContactInfo),
		ProcessingTimes: emptyIfNil(result.Consolidated.ProcessingTimes),
		Metadata: quickFactsMetadata{
			Generated:      time.Now().Format(time.RFC3339),
			TotalDocuments: result.Metrics.Processed,
			Categories:     categories,
		},
	}
	return w.writeJSON("_quick_facts.json", doc)
}

// writeRelationships writes _document_relationships.json: the adjacency list
// from filename to its ordered related documents.
func (w *Writer) writeRelationships(result *pipeline.Result) error {
	return w.writeJSON("_document_relationships.json", result.Relationships)
}

// qualityReport is the JSON shape of _quality_metrics.json.
type qualityReport struct {
	ProcessingSummary struct {
		TotalFilesFound       int    `json:"total_files_found"`
		SuccessfullyProcessed int    `json:"successfully_processed"`
		FailedFiles           int    `json:"failed_files"`
		SuccessRate           string `json:"success_rate"`
	} `json:"processing_summary"`
	ContentMetrics struct {
		TotalInputCharacters  int    `json:"total_input_characters"`
		TotalOutputCharacters int    `json:"total_output_characters"`
		InformationCoverage   string `json:"information_coverage"`
		AverageDocumentSize   string `json:"average_document_size"`
	} `json:"content_metrics"`
	Organization struct {
		CategoriesCreated int      `json:"categories_created"`
		Categories        []string `json:"categories"`
	} `json:"organization"`
	Timestamp string `json:"timestamp"`
}

func (w *Writer) writeQualityMetrics(result *pipeline.Result) error {
	m := result.Metrics
	var report qualityReport
	report.ProcessingSummary.TotalFilesFound = m.FilesFound
	report.ProcessingSummary.SuccessfullyProcessed = m.Processed
	report.ProcessingSummary.FailedFiles = m.Failed
	report.ProcessingSummary.SuccessRate = fmt.Sprintf("%.1f%%", m.SuccessRate())
	report.ContentMetrics.TotalInputCharacters = m.TotalInputChars
	report.ContentMetrics.TotalOutputCharacters = m.TotalOutputChars
	report.ContentMetrics.InformationCoverage = fmt.Sprintf("%.1f%%", m.Coverage())
	report.ContentMetrics.AverageDocumentSize = fmt.Sprintf("%d chars", m.AverageDocumentSize())
	report.Organization.CategoriesCreated = len(result.ByCategory)
	for _, c := range sortedCategories(result.ByCategory) {
		report.Organization.Categories = append(report.Organization.Categories, string(c))
	}
	report.Timestamp = time.Now().Format(time.RFC3339)
	return w.writeJSON("_quality_metrics.json", report)
}

func (w *Writer) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if w.logger != nil {
		w.logger.Info("artifact written", zap.String("file", name))
	}
	return nil
}

func sortedCategories(grouped map[models.Category][]*models.ProcessedDocument) []models.Category {
	out := make([]models.Category, 0, len(grouped))
	for c := range grouped {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
