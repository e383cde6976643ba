package ontology

import (
	"strings"

	"biovalid/pkg/domain"
)

// expectedSources maps a free-text field to the ontology sources its
// controlled term is expected to come from. Fields absent from the table
// fall back to inferring the source from the term's own prefix.
var expectedSources = map[string][]string{
	domain.FieldMaterial:  {"OBI"},
	domain.FieldOrganism:  {"NCBITaxon"},
	"Sex":                 {"PATO"},
	"Breed":               {"LBO"},
	"Health Status":       {"PATO", "EFO"},
	"Developmental Stage": {"EFO", "UBERON"},
	"Organism Part":       {"UBERON"},
	"Cell Type":           {"CL"},
	"Organ Model":         {"UBERON", "BTO"},
	"Organ Part Model":    {"UBERON", "BTO"},
}

// sourcesFor returns the expected ontology sources for a field, inferring
// from the term prefix (the part before the colon) when the field has no
// static entry.
func sourcesFor(field, termID string) []string {
	if sources, ok := expectedSources[field]; ok {
		return sources
	}
	norm := domain.NormalizeTermID(termID)
	if i := strings.Index(norm, ":"); i > 0 {
		return []string{norm[:i]}
	}
	return nil
}
