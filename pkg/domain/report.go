package domain

// RecordResult is the per-sample outcome assembled by the orchestrator:
// field validation output merged with relationship and ontology findings.
type RecordResult struct {
	Index    int    `json:"index"`
	SampleID string `json:"sample_id"`
	Valid    bool   `json:"valid"`
	// FieldErrors groups field-validation messages by field path.
	FieldErrors map[string][]string `json:"field_errors,omitempty"`
	// Errors lists field-validation errors in emission order.
	Errors []string `json:"errors,omitempty"`
	// Warnings lists field-validation warnings (recommended fields etc.).
	Warnings []string `json:"warnings,omitempty"`
	// RelationshipFindings holds existence/material/species/cycle findings.
	RelationshipFindings []Finding `json:"relationship_findings,omitempty"`
	// OntologyFindings holds text/term consistency warnings.
	OntologyFindings []Finding `json:"ontology_findings,omitempty"`
}

// HasIssues reports whether the record carries any error, warning, or
// finding worth surfacing in a report.
func (r RecordResult) HasIssues() bool {
	return len(r.Errors) > 0 || len(r.Warnings) > 0 ||
		len(r.RelationshipFindings) > 0 || len(r.OntologyFindings) > 0
}

// Summary counts outcomes for one sample type or a whole batch.
type Summary struct {
	Total              int `json:"total"`
	Valid              int `json:"valid"`
	Invalid            int `json:"invalid"`
	Warnings           int `json:"warnings"`
	RelationshipErrors int `json:"relationship_errors"`
}

// Merge accumulates counts from another summary.
func (s *Summary) Merge(other Summary) {
	s.Total += other.Total
	s.Valid += other.Valid
	s.Invalid += other.Invalid
	s.Warnings += other.Warnings
	s.RelationshipErrors += other.RelationshipErrors
}

// TypeResult is the validation outcome for every record of one sample type.
type TypeResult struct {
	SampleType string         `json:"sample_type"`
	Records    []RecordResult `json:"records"`
	Summary    Summary        `json:"summary"`
}

// BatchResult is the unified outcome of one validation run.
type BatchResult struct {
	// Processed lists the sample types validated, in input order.
	Processed []string               `json:"sample_types_processed"`
	Types     map[string]*TypeResult `json:"results_by_type"`
	Summary   Summary                `json:"total_summary"`
}
