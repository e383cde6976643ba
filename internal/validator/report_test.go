package validator

import (
	"strings"
	"testing"

	"biovalid/pkg/domain"
)

func sampleTypeResult() *domain.TypeResult {
	return &domain.TypeResult{
		SampleType: "specimen_from_organism",
		Records: []domain.RecordResult{
			{Index: 0, SampleID: "S1", Valid: true},
			{
				Index:    1,
				SampleID: "S2",
				Valid:    false,
				Errors:   []string{"Geographic Location: field required"},
			},
			{
				Index:    2,
				SampleID: "S3",
				Valid:    true,
				Warnings: []string{"Field 'Health Status At Collection' is recommended but was not provided"},
				OntologyFindings: []domain.Finding{{
					SampleID: "S3",
					Severity: domain.SeverityWarning,
					Category: domain.CategoryOntologyText,
					Message:  "Provided value 'juvenile' doesn't precisely match 'adult' for term 'EFO:0001272' in field 'Developmental Stage'",
				}},
			},
		},
		Summary: domain.Summary{Total: 3, Valid: 2, Invalid: 1, Warnings: 1},
	}
}

func TestTypeReportSections(t *testing.T) {
	report := RenderTypeReport(sampleTypeResult())

	for _, want := range []string{
		"Specimen From Organism Validation Report",
		"Total samples processed: 3",
		"Valid samples: 2",
		"Invalid samples: 1",
		"Validation Errors:",
		"S2 (index: 1)",
		"ERROR: Geographic Location: field required",
		"Warnings and Non-Critical Issues:",
		"S3 (index: 2)",
		"WARNING: Field 'Health Status At Collection'",
		"ONTOLOGY: Provided value 'juvenile'",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
	if strings.Contains(report, "S1 (index: 0)") {
		t.Errorf("clean sample must not appear in report:\n%s", report)
	}
}

func TestBatchReportAppendsSummary(t *testing.T) {
	tr := sampleTypeResult()
	br := &domain.BatchResult{
		Processed: []string{"specimen_from_organism"},
		Types:     map[string]*domain.TypeResult{"specimen_from_organism": tr},
		Summary:   tr.Summary,
	}

	report := RenderBatchReport(br)
	if !strings.Contains(report, "Batch Summary") || !strings.Contains(report, "Total: 3") {
		t.Fatalf("report missing batch summary:\n%s", report)
	}
	if !strings.Contains(report, "Specimen From Organism Validation Report") {
		t.Fatalf("report missing type section:\n%s", report)
	}
}
