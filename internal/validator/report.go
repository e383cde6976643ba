package validator

import (
	"fmt"
	"strings"

	"biovalid/pkg/domain"
)

// RenderTypeReport renders the human-readable report for one sample type:
// totals first, then per-sample error blocks, then warnings and other
// non-critical issues.
func RenderTypeReport(tr *domain.TypeResult) string {
	title := titleCase(tr.SampleType)

	var b strings.Builder
	fmt.Fprintf(&b, "%s Validation Report\n", title)
	b.WriteString(strings.Repeat("=", len(title)+18))
	fmt.Fprintf(&b, "\n\nTotal samples processed: %d\n", tr.Summary.Total)
	fmt.Fprintf(&b, "Valid samples: %d\n", tr.Summary.Valid)
	fmt.Fprintf(&b, "Invalid samples: %d\n", tr.Summary.Invalid)
	fmt.Fprintf(&b, "Samples with warnings: %d\n", tr.Summary.Warnings)

	var invalid, flagged []domain.RecordResult
	for _, rr := range tr.Records {
		if len(rr.Errors) > 0 {
			invalid = append(invalid, rr)
		}
		if len(rr.Warnings) > 0 || len(rr.RelationshipFindings) > 0 || len(rr.OntologyFindings) > 0 {
			flagged = append(flagged, rr)
		}
	}

	if len(invalid) > 0 {
		b.WriteString("\n\nValidation Errors:\n")
		b.WriteString(strings.Repeat("-", 20))
		for _, rr := range invalid {
			fmt.Fprintf(&b, "\n\n%s: %s (index: %d)\n", title, rr.SampleID, rr.Index)
			for _, err := range rr.Errors {
				fmt.Fprintf(&b, "  ERROR: %s\n", err)
			}
		}
	}

	if len(flagged) > 0 {
		b.WriteString("\n\nWarnings and Non-Critical Issues:\n")
		b.WriteString(strings.Repeat("-", 30))
		for _, rr := range flagged {
			fmt.Fprintf(&b, "\n\n%s: %s (index: %d)\n", title, rr.SampleID, rr.Index)
			for _, w := range rr.Warnings {
				fmt.Fprintf(&b, "  WARNING: %s\n", w)
			}
			for _, f := range rr.RelationshipFindings {
				fmt.Fprintf(&b, "  RELATIONSHIP: %s\n", f.Message)
			}
			for _, f := range rr.OntologyFindings {
				fmt.Fprintf(&b, "  ONTOLOGY: %s\n", f.Message)
			}
		}
	}
	return b.String()
}

// RenderBatchReport joins the per-type reports into one document with a
// trailing batch summary.
func RenderBatchReport(br *domain.BatchResult) string {
	var parts []string
	for _, sampleType := range br.Processed {
		parts = append(parts, RenderTypeReport(br.Types[sampleType]))
	}
	summary := fmt.Sprintf(
		"Batch Summary\n=============\nTotal: %d\nValid: %d\nInvalid: %d\nWith warnings: %d\nRelationship errors: %d",
		br.Summary.Total, br.Summary.Valid, br.Summary.Invalid,
		br.Summary.Warnings, br.Summary.RelationshipErrors)
	parts = append(parts, summary)
	return strings.Join(parts, "\n\n"+strings.Repeat("-", 60)+"\n\n")
}

func titleCase(sampleType string) string {
	words := strings.FieldsFunc(sampleType, func(r rune) bool { return r == '_' || r == ' ' })
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
