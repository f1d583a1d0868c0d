// Package classify assigns one category label per document using filename,
// content, and metadata signals against a data-driven keyword table.
package classify

import (
	"strings"

	"github.com/hyperjump/seiri/internal/models"
)

// rule holds the keyword list and weight for one candidate category.
type rule struct {
	category models.Category
	keywords []string
	weight   float64
}

// rules is the fixed candidate enumeration. Order matters: ties between equal
// scores resolve to the earlier entry, so this order is the documented
// priority list.
var rules = []rule{
	{models.CategoryPlatforms, []string{"mt4", "mt5", "metatrader", "webtrader", "platform", "app", "mobile", "client portal", "trading terminal"}, 1.0},
	{models.CategoryProducts, []string{"forex", "cfd", "commodit", "indices", "stock", "crypto", "bullion", "metal", "currency", "etf", "pairs", "instrument"}, 1.0},
	{models.CategoryEducation, []string{"learn", "education", "guide", "tutorial", "hub", "glossary", "macro", "risk management", "strategy", "indicator", "analysis"}, 1.0},
	{models.CategoryAccounts, []string{"account", "global", "pro", "cent", "demo", "registration", "signup", "live account"}, 1.0},
	{models.CategoryTools, []string{"calculator", "tool", "calendar", "economic", "signal", "analysis", "terminal", "widget"}, 0.8},
	{models.CategoryAbout, []string{"about", "company", "contact", "sponsor", "atletico", "fortaleza", "team", "office"}, 0.7},
	{models.CategorySupport, []string{"help", "faq", "support", "question", "how to", "how-to"}, 0.9},
	{models.CategoryLegal, []string{"legal", "terms", "condition", "policy", "privacy", "compliance", "regulation", "bonus", "offer"}, 0.8},
	{models.CategoryFunding, []string{"deposit", "withdraw", "funding", "payment", "bank", "transfer", "method"}, 1.0},
	{models.CategoryPartners, []string{"partner", "ib", "affiliate", "pamm", "introducing broker", "commission"}, 0.8},
	{models.CategoryBlog, []string{"blog/", "article", "news", "insight"}, 0.5},
}

// CategoryOrder is the candidate priority order, exposed for output grouping.
func CategoryOrder() []models.Category {
	out := make([]models.Category, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.category)
	}
	return append(out, models.CategoryGeneral)
}

// Categorize scores every candidate category and returns the strict maximum,
// or general when no score is above zero. Pure and one-shot: identical input
// always yields the same category.
func Categorize(filename, text string, md models.Metadata) models.Category {
	filenameLower := strings.ToLower(filename)
	textLower := strings.ToLower(text)

	best := models.CategoryGeneral
	bestScore := 0.0

	for _, r := range rules {
		var filenameHits, contentHits, topicHits int
		for _, kw := range r.keywords {
			if strings.Contains(filenameLower, kw) {
				filenameHits++
			}
			if strings.Contains(textLower, kw) {
				contentHits++
			}
		}
		for _, topic := range md.Topics {
			if containsKeyword(r.keywords, topic) || strings.Contains(string(r.category), topic) {
				topicHits++
			}
		}

		// Filename hits count double and carry a 3x multiplier: the page path
		// is the strongest signal the scraper gives us.
		score := float64(2*filenameHits*3+contentHits+topicHits) * r.weight
		if score > bestScore {
			bestScore = score
			best = r.category
		}
	}

	return best
}

func containsKeyword(keywords []string, s string) bool {
	for _, kw := range keywords {
		if kw == s {
			return true
		}
	}
	return false
}
