// Package fieldcheck validates raw sample records against per-sample-type
// field schemas before any relationship or ontology checking runs. It is
// the local stand-in for the submission portal's full ruleset: presence,
// constants, enumerations, and controlled-term prefixes.
package fieldcheck

import (
	"fmt"
	"strings"

	"biovalid/pkg/domain"
)

// Result is the outcome of validating one record. A record is valid when
// it produced no errors; warnings never invalidate it.
type Result struct {
	Errors      []string            `json:"errors"`
	FieldErrors map[string][]string `json:"field_errors"`
	Warnings    []string            `json:"warnings"`
}

// Valid reports whether the record passed all error-level checks.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) addError(field, msg string) {
	if r.FieldErrors == nil {
		r.FieldErrors = make(map[string][]string)
	}
	r.FieldErrors[field] = append(r.FieldErrors[field], msg)
	r.Errors = append(r.Errors, field+": "+msg)
}

func (r *Result) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Validate checks one record against a schema. The record itself is not
// mutated; downstream components read it through its projection accessors.
func Validate(schema Schema, rec domain.SampleRecord) Result {
	var res Result

	for _, field := range schema.Required {
		if !present(rec, field) {
			res.addError(field, "field required")
		}
	}
	for _, field := range schema.Recommended {
		if !present(rec, field) {
			res.addWarning(fmt.Sprintf("Field '%s' is recommended but was not provided", field))
		}
	}

	checkConstants(schema, rec, &res)
	checkEnums(schema, rec, &res)
	checkTermPrefixes(schema, rec, &res)
	checkParentCap(schema, rec, &res)

	if schema.Extra != nil {
		schema.Extra(rec, &res)
	}
	return res
}

func checkConstants(schema Schema, rec domain.SampleRecord, res *Result) {
	if project := stringField(rec, "Project"); project != "" && project != "FAANG" {
		res.addError("Project", "must be 'FAANG'")
	}

	material := stringField(rec, domain.FieldMaterial)
	if material != "" && !domain.IsSentinel(material) && !strings.EqualFold(material, schema.Material) {
		res.addError(domain.FieldMaterial, fmt.Sprintf("must be '%s'", schema.Material))
	}

	term := stringField(rec, "Term Source ID")
	if term == "" || domain.IsSentinel(term) || material == "" || domain.IsSentinel(material) {
		return
	}
	if expected, ok := materialTerms[strings.ToLower(material)]; ok && term != expected {
		res.addError("Term Source ID", fmt.Sprintf(
			"Term '%s' does not match material '%s'. Expected: '%s'", term, material, expected))
	}
}

func checkEnums(schema Schema, rec domain.SampleRecord, res *Result) {
	for field, allowed := range schema.OneOf {
		value := stringField(rec, field)
		if value == "" || domain.IsSentinel(value) {
			continue
		}
		ok := false
		for _, candidate := range allowed {
			if value == candidate {
				ok = true
				break
			}
		}
		if !ok {
			res.addError(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
		}
	}
}

func checkTermPrefixes(schema Schema, rec domain.SampleRecord, res *Result) {
	for field, prefixes := range schema.TermPrefixes {
		value := stringField(rec, field)
		if value == "" || domain.IsSentinel(value) {
			continue
		}
		norm := domain.NormalizeTermID(value)
		ok := false
		for _, prefix := range prefixes {
			if strings.HasPrefix(norm, prefix+":") {
				ok = true
				break
			}
		}
		if !ok {
			res.addError(field, fmt.Sprintf(
				"term '%s' should be from %s ontology", value, strings.Join(prefixes, " or ")))
		}
	}
}

func checkParentCap(schema Schema, rec domain.SampleRecord, res *Result) {
	if schema.MaxParents <= 0 {
		return
	}
	count := 0
	for _, ref := range rec.References() {
		if !domain.IsSentinel(ref) {
			count++
		}
	}
	if count > schema.MaxParents {
		res.addError(domain.FieldChildOf, fmt.Sprintf(
			"can have at most %d parents", schema.MaxParents))
	}
}

// present reports whether a field carries a usable value: a non-blank
// string or a list with at least one non-blank element.
func present(rec domain.SampleRecord, field string) bool {
	switch v := rec[field].(type) {
	case string:
		return strings.TrimSpace(v) != ""
	case []string:
		for _, item := range v {
			if strings.TrimSpace(item) != "" {
				return true
			}
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				if strings.TrimSpace(s) != "" {
					return true
				}
				continue
			}
			if item != nil {
				return true
			}
		}
	case nil:
		return false
	default:
		return true
	}
	return false
}

func stringField(rec domain.SampleRecord, field string) string {
	if s, ok := rec[field].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
