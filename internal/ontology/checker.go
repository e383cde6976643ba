// Package ontology checks that free-text field values agree with the
// canonical labels of their declared controlled terms. All findings are
// warnings: a label mismatch flags a record for curator review but never
// invalidates it.
package ontology

import (
	"context"
	"fmt"
	"strings"

	"biovalid/pkg/domain"
)

// Check resolves every (text, term) pair declared across the batch and
// reports mismatches keyed by sample identifier. Term identifiers are
// resolved once through the cache regardless of how many records share
// them.
func Check(ctx context.Context, batch map[string][]domain.SampleRecord, resolver domain.TermResolver) domain.FindingMap {
	findings := make(domain.FindingMap)
	if resolver == nil {
		return findings
	}

	var ids []string
	seen := make(map[string]struct{})
	for _, records := range batch {
		for _, rec := range records {
			for _, pair := range rec.TermPairs() {
				if domain.IsSentinel(pair.TermID) {
					continue
				}
				if _, dup := seen[pair.TermID]; dup {
					continue
				}
				seen[pair.TermID] = struct{}{}
				ids = append(ids, pair.TermID)
			}
		}
	}
	resolved := resolver.ResolveTerms(ctx, ids)

	for _, records := range batch {
		for _, rec := range records {
			id := rec.Identifier()
			if id == "" {
				continue
			}
			for _, pair := range rec.TermPairs() {
				if domain.IsSentinel(pair.TermID) {
					continue
				}
				if f := checkPair(id, pair, resolved[pair.TermID]); f != nil {
					findings.Add(*f)
				}
			}
		}
	}
	return findings
}

func checkPair(sampleID string, pair domain.TermPair, res domain.TermResult) *domain.Finding {
	switch res.Status {
	case domain.StatusSkipped:
		return nil
	case domain.StatusNotFound:
		return warn(sampleID, fmt.Sprintf("Couldn't find term '%s' in OLS", pair.TermID))
	}

	labels := filterLabels(res.Labels, sourcesFor(pair.Field, pair.TermID))
	if len(labels) == 0 {
		// No label from the expected source; compare against everything
		// rather than rejecting outright.
		labels = res.Labels
	}
	if len(labels) == 0 {
		return warn(sampleID, fmt.Sprintf("Couldn't find term '%s' in OLS", pair.TermID))
	}

	want := strings.ToLower(pair.Text)
	for _, label := range labels {
		if strings.ToLower(label.Label) == want {
			return nil
		}
	}
	return warn(sampleID, fmt.Sprintf(
		"Provided value '%s' doesn't precisely match '%s' for term '%s' in field '%s'",
		pair.Text, strings.ToLower(labels[0].Label), pair.TermID, pair.Field))
}

func filterLabels(labels []domain.TermLabel, sources []string) []domain.TermLabel {
	if len(sources) == 0 {
		return nil
	}
	var out []domain.TermLabel
	for _, label := range labels {
		for _, source := range sources {
			if strings.EqualFold(label.Ontology, source) {
				out = append(out, label)
				break
			}
		}
	}
	return out
}

func warn(sampleID, msg string) *domain.Finding {
	return &domain.Finding{
		SampleID: sampleID,
		Severity: domain.SeverityWarning,
		Category: domain.CategoryOntologyText,
		Message:  msg,
	}
}
