package benchmark

import (
	"strings"
	"testing"

	"github.com/hyperjump/seiri/internal/classify"
	"github.com/hyperjump/seiri/internal/cleaner"
	"github.com/hyperjump/seiri/internal/extract"
	"github.com/hyperjump/seiri/internal/linker"
	"github.com/hyperjump/seiri/internal/models"
)

var benchPage = "SOURCE: https://hantecmarkets.com/trading-accounts\n==========\n\n" +
	strings.Repeat(
		"OPEN AN ACCOUNT\n"+
			"Hantec Markets offers leverage up to 500:1 with spreads from 0.1 pips.\n"+
			"The minimum deposit is $100 on the Hantec Global account, regulated by the FCA.\n"+
			"Deposits by bank transfer arrive within 1-3 business days.\n"+
			"LEARN MORE\n\n", 20)

func BenchmarkClean(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = cleaner.Clean(benchPage)
	}
}

func BenchmarkFacts(b *testing.B) {
	text, _ := cleaner.Clean(benchPage)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = extract.Facts(text)
	}
}

func BenchmarkCategorize(b *testing.B) {
	text, _ := cleaner.Clean(benchPage)
	md := extract.Metadata(text, "trading-accounts.txt")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = classify.Categorize("trading-accounts.txt", text, md)
	}
}

func BenchmarkLink(b *testing.B) {
	docs := make([]*models.ProcessedDocument, 100)
	for i := 0; i < 100; i++ {
		docs[i] = &models.ProcessedDocument{
			Filename: "doc" + string(rune('a'+i%26)) + ".txt",
			Metadata: models.Metadata{Topics: []string{"account", "trading", "payment"}[:1+i%3]},
			Facts:    models.Facts{Leverage: []string{"500:1"}, Regulations: []string{"FCA"}},
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = linker.Link(docs[0], docs, 5)
	}
}
