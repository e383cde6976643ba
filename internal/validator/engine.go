// Package validator orchestrates one validation run: field validation per
// record, one relationship graph over the whole batch, rule and ontology
// checks, and the merge of all findings into per-type results.
package validator

import (
	"context"
	"fmt"

	"biovalid/internal/fieldcheck"
	"biovalid/internal/graph"
	"biovalid/internal/ontology"
	"biovalid/internal/rules"
	"biovalid/pkg/domain"
)

// Resolver bundles the two cache views the engine consumes. The lookup
// cache satisfies it; tests inject fakes.
type Resolver interface {
	domain.TermResolver
	domain.SampleResolver
}

// Options toggles the optional check phases of a run.
type Options struct {
	CheckRelationships bool
	CheckOntologyText  bool
}

// DefaultOptions enables every check phase.
func DefaultOptions() Options {
	return Options{CheckRelationships: true, CheckOntologyText: true}
}

// Engine runs validations against a shared resolver. It is safe for
// concurrent use; all per-run state lives on the stack.
type Engine struct {
	resolver Resolver
	cfg      domain.Config
	logger   domain.Logger
}

// New constructs an engine. The resolver may be nil, in which case
// external references and ontology terms resolve as not found.
func New(resolver Resolver, cfg domain.Config, logger domain.Logger) *Engine {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Engine{resolver: resolver, cfg: cfg.Normalized(), logger: logger}
}

// SupportedTypes lists the sample types the engine can validate.
func (e *Engine) SupportedTypes() []string {
	return fieldcheck.SupportedTypes()
}

// ValidateBatch validates a full batch keyed by sample type. Unsupported
// sample types are skipped with a log line, matching the permissive intake
// contract; a nil or empty batch is the caller's error.
func (e *Engine) ValidateBatch(ctx context.Context, batch map[string][]domain.SampleRecord, opts Options) (*domain.BatchResult, error) {
	if len(batch) == 0 {
		return nil, fmt.Errorf("batch is empty or not a mapping of sample type to records")
	}

	result := &domain.BatchResult{Types: make(map[string]*domain.TypeResult)}

	supported := make(map[string][]domain.SampleRecord)
	for _, sampleType := range fieldcheck.SupportedTypes() {
		records, ok := batch[sampleType]
		if !ok {
			continue
		}
		if len(records) == 0 {
			e.logger.Info("no records for sample type, skipping", "sample_type", sampleType)
			continue
		}
		supported[sampleType] = records
	}
	for sampleType := range batch {
		if _, ok := fieldcheck.SchemaFor(sampleType); !ok {
			e.logger.Warn("unsupported sample type, skipping", "sample_type", sampleType)
		}
	}
	if len(supported) == 0 {
		return nil, fmt.Errorf("batch contains no supported sample types")
	}

	var relationship, ontologyFindings domain.FindingMap
	if opts.CheckRelationships {
		// The graph spans the whole batch, unsupported types included:
		// a reference into a group that is not validated still resolves
		// locally instead of surfacing as a dangling entity.
		g := graph.Build(batch)
		relationship = rules.Check(ctx, g, e.sampleResolver(), e.cfg)
	}
	if opts.CheckOntologyText {
		ontologyFindings = ontology.Check(ctx, supported, e.termResolver())
	}

	for _, sampleType := range fieldcheck.SupportedTypes() {
		records, ok := supported[sampleType]
		if !ok {
			continue
		}
		typeResult := e.validateType(sampleType, records, relationship, ontologyFindings)
		result.Processed = append(result.Processed, sampleType)
		result.Types[sampleType] = typeResult
		result.Summary.Merge(typeResult.Summary)
	}
	return result, nil
}

func (e *Engine) validateType(sampleType string, records []domain.SampleRecord, relationship, ontologyFindings domain.FindingMap) *domain.TypeResult {
	schema, _ := fieldcheck.SchemaFor(sampleType)
	typeResult := &domain.TypeResult{
		SampleType: sampleType,
		Summary:    domain.Summary{Total: len(records)},
	}

	for i, rec := range records {
		id := rec.Identifier()
		if id == "" {
			id = fmt.Sprintf("%s_%d", sampleType, i)
		}
		fieldRes := fieldcheck.Validate(schema, rec)

		rr := domain.RecordResult{
			Index:       i,
			SampleID:    id,
			Valid:       fieldRes.Valid(),
			FieldErrors: fieldRes.FieldErrors,
			Errors:      fieldRes.Errors,
			Warnings:    fieldRes.Warnings,
		}
		// Findings attach even to field-invalid samples so one report
		// surfaces every problem at once.
		rr.RelationshipFindings = relationship[rr.SampleID]
		rr.OntologyFindings = ontologyFindings[rr.SampleID]

		for _, f := range rr.RelationshipFindings {
			if f.Severity == domain.SeverityError {
				rr.Valid = false
				typeResult.Summary.RelationshipErrors++
			}
		}

		if rr.Valid {
			typeResult.Summary.Valid++
		} else {
			typeResult.Summary.Invalid++
		}
		if len(rr.Warnings) > 0 || len(rr.OntologyFindings) > 0 {
			typeResult.Summary.Warnings++
		}
		typeResult.Records = append(typeResult.Records, rr)
	}
	return typeResult
}

func (e *Engine) sampleResolver() domain.SampleResolver {
	if e.resolver == nil {
		return nil
	}
	return e.resolver
}

func (e *Engine) termResolver() domain.TermResolver {
	if e.resolver == nil {
		return nil
	}
	return e.resolver
}
