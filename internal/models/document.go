// Package models defines core data structures for documents, facts, and relationships.
package models

import "time"

// Category is the single best-fit topical bucket a document is filed under.
type Category string

// Known categories. CategoryGeneral is the fallback when no category scores
// above zero.
const (
	CategoryPlatforms Category = "platforms"
	CategoryProducts  Category = "products"
	CategoryEducation Category = "education"
	CategoryAccounts  Category = "accounts"
	CategoryTools     Category = "tools"
	CategoryAbout     Category = "about"
	CategorySupport   Category = "support"
	CategoryLegal     Category = "legal"
	CategoryFunding   Category = "funding"
	CategoryPartners  Category = "partners"
	CategoryBlog      Category = "blog"
	CategoryGeneral   Category = "general"
)

// RawDocument is one scraped input file before cleaning. It is read once and
// discarded after the cleaner has produced a CleanedDocument.
type RawDocument struct {
	Filename string
	RawText  string
}

// CleanedDocument is the cleaner's output for one input file. Immutable once
// produced. Documents whose CleanedText is below the configured minimum length
// are discarded from the pipeline and counted as failed.
type CleanedDocument struct {
	Filename       string
	CleanedText    string
	RetentionRatio float64
	SourceURL      string
}

// Metadata holds structural and topical signals derived from cleaned text.
// Never mutated after creation.
type Metadata struct {
	Filename        string    `json:"filename"`
	WordCount       int       `json:"word_count"`
	CharCount       int       `json:"char_count"`
	HasNumbers      bool      `json:"has_numbers"`
	HasPricing      bool      `json:"has_pricing"`
	HasContact      bool      `json:"has_contact"`
	HasRegulatory   bool      `json:"has_regulatory"`
	HasTutorial     bool      `json:"has_tutorial"`
	Emails          []string  `json:"emails"`
	Phones          []string  `json:"phones"`
	URLs            []string  `json:"urls"`
	ComplexityScore int       `json:"complexity_score"`
	Topics          []string  `json:"topics"`
	ProcessedAt     time.Time `json:"processed_at"`
}

// ProcessedDocument is the long-lived unit persisted per input file and the
// unit relationships are computed over.
type ProcessedDocument struct {
	Filename          string   `json:"filename"`
	Category          Category `json:"category"`
	StructuredContent string   `json:"content"`
	Metadata          Metadata `json:"metadata"`
	Facts             Facts    `json:"facts"`
	SourceURL         string   `json:"source_url"`
	RetentionRatio    float64  `json:"retention"`
}

// RelationshipKind says which overlap dominated: shared topics or shared facts.
type RelationshipKind string

const (
	RelationshipTopic RelationshipKind = "topic"
	RelationshipFact  RelationshipKind = "fact"
)

// Relationship is one directed cross-reference from a document to a related
// document. Relationships are asymmetric: A's top list need not mirror B's.
type Relationship struct {
	RelatedDoc string           `json:"related_doc"`
	Kind       RelationshipKind `json:"relationship_type"`
	Strength   int              `json:"strength"`
}
