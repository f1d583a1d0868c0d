// Package linker infers cross-document relationships from topic and fact-set
// overlap. The scan is pairwise over the full processed set, O(n²) in the
// corpus size: a deliberate simplicity tradeoff for corpora of hundreds of
// documents. If the corpus grows by orders of magnitude, replace the scan
// with inverted indices (topic -> documents, fact value -> documents).
package linker

import (
	"sort"

	"github.com/hyperjump/seiri/internal/models"
)

// DefaultLimit is the maximum number of related documents reported per document.
const DefaultLimit = 5

// minTopicOverlap and minFactOverlap gate relationship creation: two documents
// are related when they share at least two topics or at least one fact value.
const (
	minTopicOverlap = 2
	minFactOverlap  = 1
)

// Link ranks documents related to target within all, strongest first, truncated
// to limit (DefaultLimit when limit <= 0). The target itself is excluded.
// Equal strengths keep processed-set order, so results are deterministic for a
// given input ordering.
func Link(target *models.ProcessedDocument, all []*models.ProcessedDocument, limit int) []models.Relationship {
	if limit <= 0 {
		limit = DefaultLimit
	}

	targetTopics := toSet(target.Metadata.Topics)

	var rels []models.Relationship
	for _, other := range all {
		if other.Filename == target.Filename {
			continue
		}

		topicOverlap := intersectionSize(targetTopics, other.Metadata.Topics)
		factOverlap := FactOverlap(&target.Facts, &other.Facts)

		if topicOverlap < minTopicOverlap && factOverlap < minFactOverlap {
			continue
		}

		kind := models.RelationshipFact
		if topicOverlap > factOverlap {
			kind = models.RelationshipTopic
		}
		rels = append(rels, models.Relationship{
			RelatedDoc: other.Filename,
			Kind:       kind,
			Strength:   topicOverlap + factOverlap,
		})
	}

	sort.SliceStable(rels, func(i, j int) bool { return rels[i].Strength > rels[j].Strength })
	if len(rels) > limit {
		rels = rels[:limit]
	}
	return rels
}

// FactOverlap sums, over every fact field, the intersection size between the
// two documents' values for that field. Symmetric by construction.
func FactOverlap(a, b *models.Facts) int {
	total := 0
	for _, field := range models.FactFieldOrder {
		av := a.Field(field)
		bv := b.Field(field)
		if len(av) == 0 || len(bv) == 0 {
			continue
		}
		total += intersectionSize(toSet(av), bv)
	}
	return total
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func intersectionSize(set map[string]struct{}, values []string) int {
	n := 0
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if _, ok := set[v]; ok {
			n++
		}
	}
	return n
}
