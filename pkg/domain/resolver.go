package domain

import "context"

// Status is the outcome of a cache resolution. Lookups return explicit
// statuses instead of errors: an unresolvable key is a normal, handled
// outcome.
type Status int

const (
	// StatusFound means the key resolved to a payload.
	StatusFound Status = iota
	// StatusNotFound means the key did not resolve, including after an
	// isolated network failure.
	StatusNotFound
	// StatusSkipped means the key was a sentinel and no lookup was made.
	StatusSkipped
)

// TermLabel is one candidate label for an ontology term, tagged with the
// ontology source it came from.
type TermLabel struct {
	Label    string `json:"label"`
	Ontology string `json:"ontology"`
}

// TermResult is the resolved payload for an ontology term identifier.
type TermResult struct {
	Status Status      `json:"status"`
	Labels []TermLabel `json:"labels,omitempty"`
}

// ExternalSample is the resolved payload for a repository accession.
type ExternalSample struct {
	Status       Status   `json:"status"`
	MaterialKind string   `json:"material_kind,omitempty"`
	Organism     string   `json:"organism,omitempty"`
	References   []string `json:"references,omitempty"`
}

// TermResolver resolves ontology term identifiers to candidate labels.
type TermResolver interface {
	ResolveTerm(ctx context.Context, id string) TermResult
	ResolveTerms(ctx context.Context, ids []string) map[string]TermResult
}

// SampleResolver resolves external repository accessions.
type SampleResolver interface {
	ResolveExternalSample(ctx context.Context, id string) ExternalSample
	ResolveExternalSamples(ctx context.Context, ids []string) map[string]ExternalSample
}
