package pipeline

import (
	"strings"
	"testing"

	"github.com/hyperjump/seiri/internal/models"
)

func TestStructure_Sections(t *testing.T) {
	md := models.Metadata{
		WordCount:       42,
		CharCount:       256,
		ComplexityScore: 2,
		Topics:          []string{"trading", "regulation"},
		HasPricing:      true,
		HasRegulatory:   true,
	}
	facts := models.Facts{
		Leverage:    []string{"500:1"},
		Spreads:     []string{"1.2", "0.1"},
		Regulations: []string{"FCA"},
	}

	got := Structure("The cleaned body text.", md, facts, "https://hantecmarkets.com/page")

	if !strings.HasPrefix(got, "SOURCE: https://hantecmarkets.com/page\n") {
		t.Errorf("source line should lead the record, got %q", got[:60])
	}
	for _, want := range []string{
		"# METADATA",
		"Word Count: 42",
		"Character Count: 256",
		"Complexity Score: 2/4",
		"Topics: trading, regulation",
		"Has Pricing: Yes",
		"Has Contact: No",
		"Has Regulatory: Yes",
		"Has Tutorial: No",
		"# KEY FACTS",
		"Leverage Options: 500:1",
		"Spreads: From 0.1 pips",
		"Regulations: FCA",
		"# CONTENT",
		"The cleaned body text.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("structured record missing %q", want)
		}
	}
}

func TestStructure_NoFactsOmitsKeyFacts(t *testing.T) {
	got := Structure("Body.", models.Metadata{}, models.Facts{}, "")
	if strings.Contains(got, "# KEY FACTS") {
		t.Error("empty facts should omit the key-facts block")
	}
	if strings.Contains(got, "SOURCE:") {
		t.Error("missing source url should omit the source line")
	}
	if !strings.Contains(got, "# METADATA") || !strings.Contains(got, "# CONTENT") {
		t.Errorf("metadata and content blocks are mandatory, got %q", got)
	}
}

func TestStructure_ContactLimitedToTwo(t *testing.T) {
	facts := models.Facts{
		ContactInfo: []string{"a@hantec.com", "b@hantec.com", "c@hantec.com"},
	}
	got := Structure("Body.", models.Metadata{}, facts, "")
	if !strings.Contains(got, "Contact: a@hantec.com, b@hantec.com") {
		t.Errorf("contact block: got %q", got)
	}
	if strings.Contains(got, "c@hantec.com") {
		t.Error("contact block should be limited to two identifiers")
	}
}
