package domain

import "strings"

// Canonical field names used across all sample-type sheets.
const (
	FieldSampleName  = "Sample Name"
	FieldMaterial    = "Material"
	FieldOrganism    = "Organism"
	FieldDerivedFrom = "Derived From"
	FieldChildOf     = "Child Of"

	// TermFieldSuffix turns a free-text field name into its paired
	// controlled-term field name.
	TermFieldSuffix = " Term Source ID"
)

// RestrictedAccess is the sentinel marking data withheld on purpose.
const RestrictedAccess = "restricted access"

var sentinelValues = map[string]struct{}{
	RestrictedAccess: {},
	"not applicable": {},
	"not collected":  {},
	"not provided":   {},
}

// IsSentinel reports whether v marks intentionally absent data. Sentinel
// values short-circuit lookups and checks without producing findings.
func IsSentinel(v string) bool {
	_, ok := sentinelValues[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

// ExternalReferencePrefix identifies repository accessions (SAMEA, SAMN,
// SAMD) that resolve against the external sample repository instead of the
// local batch.
const ExternalReferencePrefix = "SAM"

// IsExternalReference reports whether id names an external repository
// accession rather than a batch-local sample.
func IsExternalReference(id string) bool {
	return strings.HasPrefix(id, ExternalReferencePrefix)
}

// NormalizeTermID maps the mixed separator conventions found in submitted
// data (UBERON_0002107 vs UBERON:0002107) onto the colon form used as the
// cache key and lookup query.
func NormalizeTermID(id string) string {
	id = strings.TrimSpace(id)
	if strings.Contains(id, ":") {
		return id
	}
	return strings.Replace(id, "_", ":", 1)
}

// SampleRecord is a raw submitted record: an opaque key-value mapping with
// accessors for the projections the engine depends on. Values may be
// strings or lists of strings depending on the upload path; the accessors
// absorb both shapes.
type SampleRecord map[string]any

// Identifier returns the trimmed sample name, or "" when absent. Records
// without an identifier cannot participate in relationship checks.
func (r SampleRecord) Identifier() string {
	return r.stringField(FieldSampleName)
}

// MaterialKind returns the declared material taxonomy label, falling back
// to the sample-type name when the field is missing.
func (r SampleRecord) MaterialKind(sampleType string) string {
	if m := r.stringField(FieldMaterial); m != "" {
		return m
	}
	return sampleType
}

// Organism returns the declared species text, if any.
func (r SampleRecord) Organism() string {
	return r.stringField(FieldOrganism)
}

// References collects the derivation references this record declares, in
// source order: "Derived From" values first, then "Child Of" values. Both
// fields accept a single string or a list; blanks are dropped, duplicates
// kept.
func (r SampleRecord) References() []string {
	var refs []string
	refs = appendRefValues(refs, r[FieldDerivedFrom])
	refs = appendRefValues(refs, r[FieldChildOf])
	return refs
}

func appendRefValues(refs []string, v any) []string {
	switch val := v.(type) {
	case string:
		if s := strings.TrimSpace(val); s != "" {
			refs = append(refs, s)
		}
	case []string:
		for _, item := range val {
			if s := strings.TrimSpace(item); s != "" {
				refs = append(refs, s)
			}
		}
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					refs = append(refs, s)
				}
			}
		}
	}
	return refs
}

func (r SampleRecord) stringField(key string) string {
	if s, ok := r[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// TermPair couples a free-text field value with its controlled-term
// identifier for ontology consistency checking.
type TermPair struct {
	Field  string
	Text   string
	TermID string
}

// Free-text fields that carry a paired "<Field> Term Source ID" column.
var termPairFields = []string{
	FieldMaterial,
	FieldOrganism,
	"Sex",
	"Breed",
	"Health Status",
	"Developmental Stage",
	"Organism Part",
	"Cell Type",
	"Organ Model",
	"Organ Part Model",
}

// TermPairs extracts the (text, term) pairs declared on the record, in the
// canonical field order. Material's term lives in the core "Term Source ID"
// column; every other field pairs with "<Field> Term Source ID". Pairs with
// an empty side are omitted; sentinel handling is the consumer's concern.
func (r SampleRecord) TermPairs() []TermPair {
	var pairs []TermPair
	for _, field := range termPairFields {
		termField := field + TermFieldSuffix
		if field == FieldMaterial {
			termField = "Term Source ID"
		}
		text := r.stringField(field)
		term := r.stringField(termField)
		if text == "" || term == "" {
			continue
		}
		pairs = append(pairs, TermPair{Field: field, Text: text, TermID: term})
	}
	return pairs
}
