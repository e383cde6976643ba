// Package domain defines the value types, configuration, and resolver
// interfaces shared by the biovalid validation engine.
package domain

// Severity classifies a validation finding.
type Severity string

const (
	// SeverityError marks a finding that invalidates the sample.
	SeverityError Severity = "error"
	// SeverityWarning marks a finding surfaced for curator review only.
	SeverityWarning Severity = "warning"
)

// Category identifies the check that produced a finding.
type Category string

// Finding categories, one per relationship or ontology check.
const (
	// CategoryExistence reports a reference that resolved neither locally
	// nor in the external repository.
	CategoryExistence Category = "existence"
	// CategoryMaterial reports an incompatible material lineage.
	CategoryMaterial Category = "material"
	// CategorySpecies reports an organism mismatch between child and parent.
	CategorySpecies Category = "species"
	// CategoryCycle reports a circular derivation chain.
	CategoryCycle Category = "cycle"
	// CategoryDepthExceeded reports a derivation chain longer than the
	// configured maximum without closing a cycle.
	CategoryDepthExceeded Category = "depth-exceeded"
	// CategoryOntologyText reports a free-text value that does not match
	// the canonical label of its controlled term.
	CategoryOntologyText Category = "ontology-text"
	// CategoryLookupFailure is a diagnostic category for failed external
	// calls. It is logged and counted, never attached to a sample result.
	CategoryLookupFailure Category = "lookup-failure"
)

// Finding reports a single relationship or ontology problem for one sample.
type Finding struct {
	SampleID string   `json:"sample_id"`
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// FindingMap collects findings keyed by sample identifier.
type FindingMap map[string][]Finding

// Add appends a finding under its sample identifier.
func (m FindingMap) Add(f Finding) {
	m[f.SampleID] = append(m[f.SampleID], f)
}

// Merge appends all findings from other, preserving per-sample order.
func (m FindingMap) Merge(other FindingMap) {
	for id, findings := range other {
		m[id] = append(m[id], findings...)
	}
}
