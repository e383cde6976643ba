package fieldcheck

import (
	"sort"
	"strings"

	"biovalid/pkg/domain"
)

// Schema is the declarative field ruleset for one sample type. Checks are
// table-driven; anything a table cannot express goes through Extra.
type Schema struct {
	SampleType string

	// Material is the value the Material column must carry.
	Material string

	Required    []string
	Recommended []string

	// OneOf restricts a field to an enumerated value set. Sentinels always
	// pass.
	OneOf map[string][]string

	// TermPrefixes restricts a controlled-term field to identifiers from
	// the named ontologies.
	TermPrefixes map[string][]string

	// MaxParents caps the number of Child Of entries; zero means no cap.
	MaxParents int

	// Extra runs schema-specific checks the tables cannot express.
	Extra func(rec domain.SampleRecord, res *Result)
}

// materialTerms pins the core Term Source ID to the declared material.
var materialTerms = map[string]string{
	"organism":               "OBI_0100026",
	"specimen from organism": "OBI_0001479",
	"cell specimen":          "OBI_0001468",
	"single cell specimen":   "OBI_0002127",
	"pool of specimens":      "OBI_0302716",
	"cell culture":           "OBI_0001876",
	"cell line":              "CLO_0000031",
	"organoid":               "NCIT_C172259",
}

var coreRequired = []string{
	domain.FieldSampleName,
	domain.FieldMaterial,
	"Term Source ID",
	"Project",
}

func withCore(fields ...string) []string {
	return append(append([]string{}, coreRequired...), fields...)
}

var schemas = map[string]Schema{
	"organism": {
		SampleType: "organism",
		Material:   "organism",
		Required: withCore(
			domain.FieldOrganism,
			domain.FieldOrganism+domain.TermFieldSuffix,
			"Sex",
			"Sex"+domain.TermFieldSuffix,
		),
		Recommended: []string{
			"Birth Date",
			"Breed",
			"Breed" + domain.TermFieldSuffix,
			"Health Status",
		},
		TermPrefixes: map[string][]string{
			domain.FieldOrganism + domain.TermFieldSuffix: {"NCBITaxon"},
			"Sex" + domain.TermFieldSuffix:                {"PATO"},
			"Breed" + domain.TermFieldSuffix:              {"LBO"},
			"Health Status" + domain.TermFieldSuffix:      {"PATO", "EFO"},
		},
		MaxParents: 2,
	},
	"specimen_from_organism": {
		SampleType: "specimen_from_organism",
		Material:   "specimen from organism",
		Required: withCore(
			"Specimen Collection Date",
			"Geographic Location",
			"Animal Age At Collection",
			"Developmental Stage",
			"Developmental Stage"+domain.TermFieldSuffix,
			"Organism Part",
			"Organism Part"+domain.TermFieldSuffix,
			"Specimen Collection Protocol",
			domain.FieldDerivedFrom,
		),
		Recommended: []string{"Health Status At Collection"},
		TermPrefixes: map[string][]string{
			"Developmental Stage" + domain.TermFieldSuffix: {"EFO", "UBERON"},
			"Organism Part" + domain.TermFieldSuffix:       {"UBERON", "BTO"},
		},
	},
	"organoid": {
		SampleType: "organoid",
		Material:   "organoid",
		Required: withCore(
			"Organ Model",
			"Organ Model"+domain.TermFieldSuffix,
			"Freezing Method",
			"Organoid Passage",
			"Organoid Passage Protocol",
			"Type Of Organoid Culture",
			"Growth Environment",
			domain.FieldDerivedFrom,
		),
		Recommended: []string{
			"Organ Part Model",
			"Organ Part Model" + domain.TermFieldSuffix,
		},
		OneOf: map[string][]string{
			"Type Of Organoid Culture": {"2D", "3D"},
		},
		TermPrefixes: map[string][]string{
			"Organ Model" + domain.TermFieldSuffix:      {"UBERON", "BTO"},
			"Organ Part Model" + domain.TermFieldSuffix: {"UBERON", "BTO"},
		},
		Extra: organoidFreezing,
	},
	"teleostei_embryo": {
		SampleType: "teleostei_embryo",
		Material:   "teleostei embryo",
		Required: withCore(
			"Origin",
			"Reproductive Strategy",
			"Hatching",
			"Time Post Fertilisation",
			"Time Post Fertilisation Unit",
			"Degree Days",
			"Growth Media",
			"Average Water Salinity",
			"Photoperiod",
			domain.FieldDerivedFrom,
		),
		Recommended: []string{
			"Generations From Wild",
			"Generations From Wild Unit",
		},
		OneOf: map[string][]string{
			"Origin": {
				"Domesticated diploid",
				"Domesticated Double-haploid",
				"Domesticated Isogenic",
				"Wild",
			},
			"Reproductive Strategy": {
				"gonochoric",
				"simultaneous hermaphrodite",
				"successive hermaphrodite",
			},
			"Hatching":                     {"pre", "post"},
			"Time Post Fertilisation Unit": {"hours", "days", "months", "years"},
			"Growth Media":                 {"Water", "Growing medium"},
		},
	},
	"teleostei_post_hatching": {
		SampleType: "teleostei_post_hatching",
		Material:   "teleostei post-hatching",
		Required: withCore(
			"Origin",
			"Reproductive Strategy",
			"Average Water Salinity",
			"Photoperiod",
			domain.FieldDerivedFrom,
		),
		Recommended: []string{
			"Generations From Wild",
			"Generations From Wild Unit",
		},
		OneOf: map[string][]string{
			"Origin": {
				"Domesticated diploid",
				"Domesticated Double-haploid",
				"Domesticated Isogenic",
				"Wild",
			},
			"Reproductive Strategy": {
				"gonochoric",
				"simultaneous hermaphrodite",
				"successive hermaphrodite",
			},
		},
	},
}

// organoidFreezing requires a freezing date and protocol for any freezing
// method other than fresh.
func organoidFreezing(rec domain.SampleRecord, res *Result) {
	method := stringField(rec, "Freezing Method")
	if method == "" || strings.EqualFold(method, "fresh") || domain.IsSentinel(method) {
		return
	}
	if stringField(rec, "Freezing Date") == "" {
		res.addError("Freezing Date", "required when freezing method is not 'fresh'")
	}
	if stringField(rec, "Freezing Protocol") == "" {
		res.addError("Freezing Protocol", "required when freezing method is not 'fresh'")
	}
}

// SchemaFor returns the schema for a sample type.
func SchemaFor(sampleType string) (Schema, bool) {
	s, ok := schemas[sampleType]
	return s, ok
}

// SupportedTypes lists the sample types with a schema, sorted.
func SupportedTypes() []string {
	types := make([]string, 0, len(schemas))
	for t := range schemas {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
