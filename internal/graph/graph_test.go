package graph

import (
	"reflect"
	"testing"

	"biovalid/pkg/domain"
)

func TestBuildExtractsProjections(t *testing.T) {
	batch := map[string][]domain.SampleRecord{
		"organism": {
			{"Sample Name": "O1", "Material": "organism", "Organism": "Equus caballus"},
		},
		"specimen_from_organism": {
			{"Sample Name": "S1", "Material": "specimen from organism", "Derived From": "O1"},
		},
	}

	g := Build(batch)
	if g.Len() != 2 {
		t.Fatalf("expected 2 nodes, got %d", g.Len())
	}

	node, ok := g.Node("S1")
	if !ok {
		t.Fatalf("S1 missing from graph")
	}
	if node.MaterialKind != "specimen from organism" {
		t.Errorf("material kind = %q", node.MaterialKind)
	}
	if !reflect.DeepEqual(node.References, []string{"O1"}) {
		t.Errorf("references = %v", node.References)
	}

	org, _ := g.Node("O1")
	if org.Organism != "Equus caballus" {
		t.Errorf("organism = %q", org.Organism)
	}
	if len(org.References) != 0 {
		t.Errorf("expected no references, got %v", org.References)
	}
}

func TestBuildMaterialFallsBackToSampleType(t *testing.T) {
	batch := map[string][]domain.SampleRecord{
		"organoid": {{"Sample Name": "ORG1"}},
	}
	g := Build(batch)
	node, _ := g.Node("ORG1")
	if node.MaterialKind != "organoid" {
		t.Fatalf("expected fallback to sample type, got %q", node.MaterialKind)
	}
}

func TestBuildCollectsBothReferenceFields(t *testing.T) {
	batch := map[string][]domain.SampleRecord{
		"organism": {
			{
				"Sample Name":  "child",
				"Derived From": "S1",
				"Child Of":     []any{"P1", " P2 ", ""},
			},
		},
	}
	g := Build(batch)
	node, _ := g.Node("child")
	want := []string{"S1", "P1", "P2"}
	if !reflect.DeepEqual(node.References, want) {
		t.Fatalf("references = %v, want %v", node.References, want)
	}
}

func TestBuildKeepsDuplicateReferences(t *testing.T) {
	batch := map[string][]domain.SampleRecord{
		"organism": {
			{"Sample Name": "child", "Child Of": []string{"P1", "P1"}},
		},
	}
	g := Build(batch)
	node, _ := g.Node("child")
	if len(node.References) != 2 {
		t.Fatalf("duplicates must be preserved, got %v", node.References)
	}
}

func TestBuildExcludesRecordsWithoutIdentifier(t *testing.T) {
	batch := map[string][]domain.SampleRecord{
		"organism": {
			{"Material": "organism"},
			{"Sample Name": "   "},
			{"Sample Name": "kept"},
		},
	}
	g := Build(batch)
	if g.Len() != 1 {
		t.Fatalf("expected 1 node, got %d", g.Len())
	}
	if !g.Contains("kept") {
		t.Fatalf("named record should be present")
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	batch := map[string][]domain.SampleRecord{
		"specimen_from_organism": {{"Sample Name": "S1"}, {"Sample Name": "S2"}},
		"organism":               {{"Sample Name": "O1"}},
	}
	first := Build(batch).Order()
	for i := 0; i < 5; i++ {
		if got := Build(batch).Order(); !reflect.DeepEqual(got, first) {
			t.Fatalf("order changed between builds: %v vs %v", got, first)
		}
	}
	// organism sorts before specimen_from_organism
	if first[0] != "O1" {
		t.Fatalf("expected O1 first, got %v", first)
	}
}
