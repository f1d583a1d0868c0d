// Package extract computes metadata signals and structured facts from cleaned
// document text. All extraction is pure pattern matching: no field influences
// another, and absence of a match is never an error.
package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/hyperjump/seiri/internal/models"
)

var (
	numbersRe    = regexp.MustCompile(`\d+`)
	pricingRe    = regexp.MustCompile(`(?i)(\$|commission|spread|fee|cost|charge)`)
	contactRe    = regexp.MustCompile(`(?i)(email|phone|contact|@|\+\d+)`)
	regulatoryRe = regexp.MustCompile(`(?i)(FCA|FSC|ASIC|VFSC|regulat|licens|complian)`)
	tutorialRe   = regexp.MustCompile(`(?i)(how to|step|guide|tutorial|learn)`)

	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d{1,3}[-\s]?\d{2,3}[-\s]?\d{3,4}[-\s]?\d{3,4}`)
	urlRe   = regexp.MustCompile(`https?://[^\s]+`)
)

// topicEntry associates a topic name with the keyword stems that signal it.
// Order is fixed so the extracted topic list is deterministic.
type topicEntry struct {
	name     string
	keywords []string
}

// TopicVocabulary is the fixed topic set documents are tagged with.
var TopicVocabulary = []topicEntry{
	{"trading", []string{"trade", "trading", "trader", "market"}},
	{"platform", []string{"mt4", "mt5", "metatrader", "platform", "app"}},
	{"account", []string{"account", "registration", "signup", "demo", "live"}},
	{"product", []string{"forex", "cfd", "stock", "crypto", "commodity", "index"}},
	{"education", []string{"learn", "guide", "tutorial", "education", "course"}},
	{"regulation", []string{"fca", "fsc", "regulated", "license", "compliant"}},
	{"payment", []string{"deposit", "withdraw", "payment", "fund", "transfer"}},
}

// Metadata derives structural and topical signals from cleaned text. Pure
// apart from reading the wall clock for the processing timestamp.
func Metadata(text, filename string) models.Metadata {
	words := strings.Fields(text)
	textLower := strings.ToLower(text)

	md := models.Metadata{
		Filename:      filename,
		WordCount:     len(words),
		CharCount:     len(text),
		HasNumbers:    numbersRe.MatchString(text),
		HasPricing:    pricingRe.MatchString(text),
		HasContact:    contactRe.MatchString(text),
		HasRegulatory: regulatoryRe.MatchString(text),
		HasTutorial:   tutorialRe.MatchString(text),
		Emails:        dedupe(emailRe.FindAllString(text, -1)),
		Phones:        dedupe(phoneRe.FindAllString(text, -1)),
		URLs:          dedupe(urlRe.FindAllString(text, -1)),
		ProcessedAt:   time.Now(),
	}

	// Complexity score: one point per multi-document-query-worthy signal.
	if md.WordCount > 500 {
		md.ComplexityScore++
	}
	if md.HasPricing && md.HasRegulatory {
		md.ComplexityScore++
	}
	if len(md.Emails) > 0 || len(md.Phones) > 0 {
		md.ComplexityScore++
	}
	if md.HasTutorial {
		md.ComplexityScore++
	}

	for _, topic := range TopicVocabulary {
		for _, kw := range topic.keywords {
			if strings.Contains(textLower, kw) {
				md.Topics = append(md.Topics, topic.name)
				break
			}
		}
	}

	return md
}

// dedupe removes duplicates, preserving first-seen order.
func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
