package validator

import (
	"sort"
	"strings"

	"biovalid/pkg/domain"
)

// Attribute is one characteristic value in the repository wire format.
type Attribute struct {
	Text          string   `json:"text"`
	OntologyTerms []string `json:"ontologyTerms,omitempty"`
	Unit          string   `json:"unit,omitempty"`
}

// Relationship is one outbound derivation edge in the wire format.
type Relationship struct {
	Type   string `json:"type"`
	Target string `json:"target"`
}

// BioSample is the repository submission payload for one valid sample.
type BioSample struct {
	Name            string                 `json:"name"`
	Characteristics map[string][]Attribute `json:"characteristics"`
	Relationships   []Relationship         `json:"relationships,omitempty"`
}

const purlBase = "http://purl.obolibrary.org/obo/"

// TermToURL converts a controlled-term identifier to its purl URL, or ""
// for sentinels and empty values.
func TermToURL(termID string) string {
	termID = strings.TrimSpace(termID)
	if termID == "" || domain.IsSentinel(termID) {
		return ""
	}
	norm := domain.NormalizeTermID(termID)
	return purlBase + strings.Replace(norm, ":", "_", 1)
}

// ExportBatch converts every valid record of a validated batch to the
// repository wire format, keyed by sample type.
func ExportBatch(batch map[string][]domain.SampleRecord, result *domain.BatchResult) map[string][]BioSample {
	out := make(map[string][]BioSample)
	for _, sampleType := range result.Processed {
		typeResult := result.Types[sampleType]
		records := batch[sampleType]
		for _, rr := range typeResult.Records {
			if !rr.Valid || rr.Index >= len(records) {
				continue
			}
			out[sampleType] = append(out[sampleType], ExportRecord(records[rr.Index]))
		}
	}
	return out
}

// ExportRecord converts one record. Term and unit columns fold into the
// characteristic of the field they annotate; derivation columns become
// relationships.
func ExportRecord(rec domain.SampleRecord) BioSample {
	sample := BioSample{
		Name:            rec.Identifier(),
		Characteristics: make(map[string][]Attribute),
	}

	fields := make([]string, 0, len(rec))
	for field := range rec {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		if skipCharacteristic(field) {
			continue
		}
		text := stringValue(rec[field])
		if text == "" {
			continue
		}
		attr := Attribute{Text: text}
		termField := field + domain.TermFieldSuffix
		if field == domain.FieldMaterial {
			// The material term lives in the bare core column.
			termField = "Term Source ID"
		}
		if url := TermToURL(stringValue(rec[termField])); url != "" {
			attr.OntologyTerms = []string{url}
		}
		attr.Unit = stringValue(rec[field+" Unit"])
		sample.Characteristics[strings.ToLower(field)] = []Attribute{attr}
	}

	for _, ref := range refValues(rec[domain.FieldDerivedFrom]) {
		sample.Relationships = append(sample.Relationships, Relationship{Type: "derived from", Target: ref})
	}
	for _, ref := range refValues(rec[domain.FieldChildOf]) {
		sample.Relationships = append(sample.Relationships, Relationship{Type: "child of", Target: ref})
	}
	return sample
}

func skipCharacteristic(field string) bool {
	switch field {
	case domain.FieldSampleName, domain.FieldDerivedFrom, domain.FieldChildOf, "Term Source ID":
		return true
	}
	return strings.HasSuffix(field, domain.TermFieldSuffix) || strings.HasSuffix(field, " Unit")
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func refValues(v any) []string {
	var refs []string
	switch val := v.(type) {
	case string:
		if s := strings.TrimSpace(val); s != "" && !domain.IsSentinel(s) {
			refs = append(refs, s)
		}
	case []string:
		for _, item := range val {
			if s := strings.TrimSpace(item); s != "" && !domain.IsSentinel(s) {
				refs = append(refs, s)
			}
		}
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" && !domain.IsSentinel(s) {
					refs = append(refs, s)
				}
			}
		}
	}
	return refs
}
