package linker

import (
	"testing"

	"github.com/hyperjump/seiri/internal/models"
)

func doc(filename string, topics []string, facts models.Facts) *models.ProcessedDocument {
	return &models.ProcessedDocument{
		Filename: filename,
		Metadata: models.Metadata{Topics: topics},
		Facts:    facts,
	}
}

func TestLink_TopicRelationship(t *testing.T) {
	a := doc("a.txt", []string{"trading", "platform"}, models.Facts{})
	b := doc("b.txt", []string{"trading", "platform", "payment"}, models.Facts{})
	all := []*models.ProcessedDocument{a, b}

	rels := Link(a, all, 5)
	if len(rels) != 1 {
		t.Fatalf("relationships: got %d, want 1", len(rels))
	}
	if rels[0].RelatedDoc != "b.txt" {
		t.Errorf("related doc: got %s", rels[0].RelatedDoc)
	}
	if rels[0].Kind != models.RelationshipTopic {
		t.Errorf("kind: got %s, want topic", rels[0].Kind)
	}
	if rels[0].Strength != 2 {
		t.Errorf("strength: got %d, want 2", rels[0].Strength)
	}
}

func TestLink_FactRelationship(t *testing.T) {
	a := doc("a.txt", []string{"trading"}, models.Facts{Leverage: []string{"500:1"}})
	b := doc("b.txt", []string{"education"}, models.Facts{Leverage: []string{"500:1"}})
	all := []*models.ProcessedDocument{a, b}

	rels := Link(a, all, 5)
	if len(rels) != 1 {
		t.Fatalf("relationships: got %d, want 1", len(rels))
	}
	if rels[0].Kind != models.RelationshipFact {
		t.Errorf("kind: got %s, want fact", rels[0].Kind)
	}
	if rels[0].Strength != 1 {
		t.Errorf("strength: got %d, want 1", rels[0].Strength)
	}
}

func TestLink_SingleSharedTopicIsNotEnough(t *testing.T) {
	a := doc("a.txt", []string{"trading", "platform"}, models.Facts{})
	b := doc("b.txt", []string{"trading", "payment"}, models.Facts{})
	all := []*models.ProcessedDocument{a, b}

	if rels := Link(a, all, 5); len(rels) != 0 {
		t.Errorf("one shared topic should not link: got %v", rels)
	}
}

func TestLink_ExcludesSelf(t *testing.T) {
	a := doc("a.txt", []string{"trading", "platform"}, models.Facts{})
	all := []*models.ProcessedDocument{a}

	if rels := Link(a, all, 5); len(rels) != 0 {
		t.Errorf("document should not relate to itself: got %v", rels)
	}
}

func TestLink_TieBetweenKindsIsFact(t *testing.T) {
	// One shared topic below the topic gate plus one shared fact: topicOverlap
	// equals factOverlap, so the relationship is reported as fact-based.
	a := doc("a.txt", []string{"trading", "platform"}, models.Facts{Regulations: []string{"FCA"}})
	b := doc("b.txt", []string{"trading", "payment"}, models.Facts{Regulations: []string{"FCA"}})
	all := []*models.ProcessedDocument{a, b}

	rels := Link(a, all, 5)
	if len(rels) != 1 {
		t.Fatalf("relationships: got %d, want 1", len(rels))
	}
	if rels[0].Kind != models.RelationshipFact {
		t.Errorf("kind on tie: got %s, want fact", rels[0].Kind)
	}
	if rels[0].Strength != 2 {
		t.Errorf("strength: got %d, want 2", rels[0].Strength)
	}
}

func TestLink_SortsByStrengthAndTruncates(t *testing.T) {
	target := doc("target.txt", []string{"trading", "platform", "payment"},
		models.Facts{Leverage: []string{"500:1"}, Regulations: []string{"FCA"}})

	weak := doc("weak.txt", []string{"trading", "platform"}, models.Facts{})
	strong := doc("strong.txt", []string{"trading", "platform", "payment"},
		models.Facts{Leverage: []string{"500:1"}, Regulations: []string{"FCA"}})
	medium := doc("medium.txt", []string{"trading", "platform"}, models.Facts{Leverage: []string{"500:1"}})
	all := []*models.ProcessedDocument{weak, strong, medium, target}

	rels := Link(target, all, 5)
	if len(rels) != 3 {
		t.Fatalf("relationships: got %d, want 3", len(rels))
	}
	if rels[0].RelatedDoc != "strong.txt" || rels[1].RelatedDoc != "medium.txt" || rels[2].RelatedDoc != "weak.txt" {
		t.Errorf("order: got %s, %s, %s", rels[0].RelatedDoc, rels[1].RelatedDoc, rels[2].RelatedDoc)
	}

	rels = Link(target, all, 2)
	if len(rels) != 2 {
		t.Errorf("truncation: got %d, want 2", len(rels))
	}
}

func TestLink_EqualStrengthKeepsInputOrder(t *testing.T) {
	target := doc("target.txt", []string{"trading", "platform"}, models.Facts{})
	first := doc("first.txt", []string{"trading", "platform"}, models.Facts{})
	second := doc("second.txt", []string{"trading", "platform"}, models.Facts{})
	all := []*models.ProcessedDocument{first, second, target}

	rels := Link(target, all, 5)
	if len(rels) != 2 {
		t.Fatalf("relationships: got %d", len(rels))
	}
	if rels[0].RelatedDoc != "first.txt" || rels[1].RelatedDoc != "second.txt" {
		t.Errorf("stable order: got %s, %s", rels[0].RelatedDoc, rels[1].RelatedDoc)
	}
}

func TestFactOverlap_SymmetricAndDeduplicated(t *testing.T) {
	a := &models.Facts{
		Leverage:    []string{"500:1", "100:1"},
		Regulations: []string{"FCA", "ASIC"},
	}
	b := &models.Facts{
		Leverage:    []string{"500:1"},
		Regulations: []string{"FCA", "FCA"},
	}
	if got := FactOverlap(a, b); got != 2 {
		t.Errorf("overlap: got %d, want 2", got)
	}
	if FactOverlap(a, b) != FactOverlap(b, a) {
		t.Error("overlap should be symmetric")
	}
}

func TestLink_DefaultLimit(t *testing.T) {
	target := doc("target.txt", []string{"trading", "platform"}, models.Facts{})
	var all []*models.ProcessedDocument
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		all = append(all, doc(name+".txt", []string{"trading", "platform"}, models.Facts{}))
	}
	all = append(all, target)

	rels := Link(target, all, 0)
	if len(rels) != DefaultLimit {
		t.Errorf("default limit: got %d, want %d", len(rels), DefaultLimit)
	}
}
