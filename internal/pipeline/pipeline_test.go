package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/seiri/internal/config"
	"github.com/hyperjump/seiri/internal/models"
)

const docA = `SOURCE: https://hantecmarkets.com/accounts/global
==========

Leverage up to 500:1 is available on the Hantec Global account.
Spreads from 0.1 pips apply on major currency pairs.
Regulated by the FCA in the United Kingdom.
Deposit and withdraw funds easily by bank transfer whenever you like.
`

const docB = `SOURCE: https://hantecmarkets.com/trading/forex
==========

Open a Hantec Global account to trade forex and gold with leverage up to 500:1.
Minimum deposit of $100 gets you started on live markets.
The FCA regulates our United Kingdom business operations.
`

func testConfig() *config.PipelineConfig {
	return &config.PipelineConfig{MinContentLength: 100, RelatedLimit: 5}
}

func writeInputs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRun_ProcessesBatch(t *testing.T) {
	dir := writeInputs(t, map[string]string{
		"a.txt":    docA,
		"b.txt":    docB,
		"tiny.txt": "too short",
		"skip.md":  docA,
	})

	p := New(testConfig())
	result, err := p.Run(context.Background(), dir, []string{".txt"})
	if err != nil {
		t.Fatal(err)
	}

	if result.Metrics.FilesFound != 3 {
		t.Errorf("files found: got %d, want 3", result.Metrics.FilesFound)
	}
	if result.Metrics.Processed != 2 {
		t.Errorf("processed: got %d, want 2", result.Metrics.Processed)
	}
	if result.Metrics.Failed != 1 {
		t.Errorf("failed: got %d, want 1", result.Metrics.Failed)
	}
	if result.Metrics.RunID == "" {
		t.Error("run id should be set")
	}
	if len(result.Documents) != 2 {
		t.Fatalf("documents: got %d", len(result.Documents))
	}

	total := 0
	for _, docs := range result.ByCategory {
		total += len(docs)
	}
	if total != len(result.Documents) {
		t.Errorf("grouping should cover all documents: got %d of %d", total, len(result.Documents))
	}
}

func TestRun_LinksAfterBatchBarrier(t *testing.T) {
	dir := writeInputs(t, map[string]string{"a.txt": docA, "b.txt": docB})

	p := New(testConfig())
	result, err := p.Run(context.Background(), dir, []string{".txt"})
	if err != nil {
		t.Fatal(err)
	}

	// Both documents share leverage, regulator, and account-type facts.
	relsA, ok := result.Relationships["a.txt"]
	if !ok || len(relsA) == 0 {
		t.Fatalf("a.txt should have relationships: %v", result.Relationships)
	}
	if relsA[0].RelatedDoc != "b.txt" {
		t.Errorf("a.txt related: got %s", relsA[0].RelatedDoc)
	}
	if relsA[0].Strength < 3 {
		t.Errorf("strength: got %d, want >= 3", relsA[0].Strength)
	}
	if _, ok := result.Relationships["b.txt"]; !ok {
		t.Error("every processed document should have a relationship entry")
	}
}

func TestRun_ConsolidatesFacts(t *testing.T) {
	dir := writeInputs(t, map[string]string{"a.txt": docA, "b.txt": docB})

	p := New(testConfig())
	result, err := p.Run(context.Background(), dir, []string{".txt"})
	if err != nil {
		t.Fatal(err)
	}

	hasValue := func(values []string, want string) bool {
		for _, v := range values {
			if v == want {
				return true
			}
		}
		return false
	}
	if !hasValue(result.Consolidated.Leverage, "500:1") {
		t.Errorf("consolidated leverage: got %v", result.Consolidated.Leverage)
	}
	if !hasValue(result.Consolidated.Regulations, "FCA") {
		t.Errorf("consolidated regulations: got %v", result.Consolidated.Regulations)
	}
	if !hasValue(result.Consolidated.MinimumDeposits, "$100") {
		t.Errorf("consolidated deposits: got %v", result.Consolidated.MinimumDeposits)
	}
}

func TestRun_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	p := New(testConfig())
	_, err := p.Run(context.Background(), dir, []string{".txt"})
	if !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("err: got %v, want ErrEmptyBatch", err)
	}
}

func TestRun_AllDocumentsTooShort(t *testing.T) {
	dir := writeInputs(t, map[string]string{"a.txt": "too short", "b.txt": "also short"})
	p := New(testConfig())
	_, err := p.Run(context.Background(), dir, []string{".txt"})
	if !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("err: got %v, want ErrEmptyBatch", err)
	}
}

func TestRun_MissingDirectory(t *testing.T) {
	p := New(testConfig())
	_, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "nope"), []string{".txt"})
	if err == nil {
		t.Error("missing input directory should error")
	}
}

func TestProcess_CapturesSourceURL(t *testing.T) {
	p := New(testConfig())
	var metrics models.RunMetrics
	doc, err := p.Process(&models.RawDocument{Filename: "a.txt", RawText: docA}, &metrics)
	if err != nil {
		t.Fatal(err)
	}
	if doc.SourceURL != "https://hantecmarkets.com/accounts/global" {
		t.Errorf("source url: got %s", doc.SourceURL)
	}
	if doc.Category == "" {
		t.Error("category should be assigned")
	}
	if doc.RetentionRatio <= 0 {
		t.Errorf("retention: got %f", doc.RetentionRatio)
	}
	if metrics.TotalInputChars != len(docA) {
		t.Errorf("input chars: got %d", metrics.TotalInputChars)
	}
	if metrics.TotalOutputChars == 0 {
		t.Error("output chars should accumulate")
	}
}

func TestProcess_NoiseAndFactsScenario(t *testing.T) {
	raw := "SOURCE: https://x.com/a\n====\n\nOPEN AN ACCOUNT\nLeverage up to 500:1 with FCA regulation.\nContact: support@x.com"
	p := New(&config.PipelineConfig{MinContentLength: 10, RelatedLimit: 5})
	var metrics models.RunMetrics
	doc, err := p.Process(&models.RawDocument{Filename: "a.txt", RawText: raw}, &metrics)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Leverage up to 500:1", "FCA", "support@x.com"} {
		if !strings.Contains(doc.StructuredContent, want) {
			t.Errorf("structured content missing %q", want)
		}
	}
	if strings.Contains(doc.StructuredContent, "OPEN AN ACCOUNT") {
		t.Error("noise should be removed")
	}
	if len(doc.Facts.Regulations) != 1 || doc.Facts.Regulations[0] != "FCA" {
		t.Errorf("regulations: got %v", doc.Facts.Regulations)
	}
	found := false
	for _, c := range doc.Facts.ContactInfo {
		if c == "support@x.com" {
			found = true
		}
	}
	if !found {
		t.Errorf("contact info: got %v", doc.Facts.ContactInfo)
	}
	// "regulation" in content plus the regulation topic outweigh the single
	// "contact" hit, so the legal bucket wins.
	if doc.Category != models.CategoryLegal {
		t.Errorf("category: got %s, want %s", doc.Category, models.CategoryLegal)
	}
}

func TestProcess_ShortDocumentFails(t *testing.T) {
	p := New(testConfig())
	var metrics models.RunMetrics
	_, err := p.Process(&models.RawDocument{Filename: "tiny.txt", RawText: "too short"}, &metrics)
	if err == nil {
		t.Error("short document should fail")
	}
	if metrics.TotalOutputChars != 0 {
		t.Errorf("failed documents should not count output chars: got %d", metrics.TotalOutputChars)
	}
}
