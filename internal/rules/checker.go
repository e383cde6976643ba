// Package rules walks the relationship graph applying existence, material
// compatibility, species consistency, and cycle detection checks.
//
// Findings for a node are emitted in the order existence, material,
// species, cycle; within a pass, in reference-list order. The report
// layer and tests rely on that ordering.
package rules

import (
	"context"
	"fmt"
	"strings"

	"biovalid/internal/graph"
	"biovalid/pkg/domain"
)

const organismKind = "organism"

// Check evaluates every node of the graph and returns findings keyed by
// sample identifier. External references are batch-resolved through the
// resolver up front; one reference's resolution failure never aborts
// checking of other nodes, and the returned map is never nil.
func Check(ctx context.Context, g *graph.Graph, resolver domain.SampleResolver, cfg domain.Config) domain.FindingMap {
	cfg = cfg.Normalized()
	findings := make(domain.FindingMap)

	external := resolveExternalRefs(ctx, g, resolver, cfg)

	for _, id := range g.Order() {
		node, _ := g.Node(id)
		if len(node.References) == 0 {
			continue
		}
		// A restricted-access reference anywhere in the list marks the
		// whole relationship set as intentionally withheld.
		if hasRestrictedRef(node.References) {
			continue
		}
		checkExistence(findings, g, node, external, cfg)
		checkMaterial(findings, g, node, external)
		checkSpecies(findings, g, node)
		checkCycle(findings, g, node, cfg.MaxRelationshipDepth)
	}
	return findings
}

// resolveExternalRefs batch-resolves every repository accession referenced
// by a non-skipped node. Keys in the returned map are the raw reference
// strings as declared.
func resolveExternalRefs(ctx context.Context, g *graph.Graph, resolver domain.SampleResolver, cfg domain.Config) map[string]domain.ExternalSample {
	if !cfg.EnableExternalLookup || resolver == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var ids []string
	for _, id := range g.Order() {
		node, _ := g.Node(id)
		if hasRestrictedRef(node.References) {
			continue
		}
		for _, ref := range node.References {
			if g.Contains(ref) || !domain.IsExternalReference(ref) {
				continue
			}
			if _, dup := seen[ref]; dup {
				continue
			}
			seen[ref] = struct{}{}
			ids = append(ids, ref)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return resolver.ResolveExternalSamples(ctx, ids)
}

func hasRestrictedRef(refs []string) bool {
	for _, ref := range refs {
		if strings.EqualFold(ref, domain.RestrictedAccess) {
			return true
		}
	}
	return false
}

func checkExistence(findings domain.FindingMap, g *graph.Graph, node graph.Node, external map[string]domain.ExternalSample, cfg domain.Config) {
	for _, ref := range node.References {
		if g.Contains(ref) {
			continue
		}
		if domain.IsExternalReference(ref) {
			if ext, ok := external[ref]; ok && ext.Status == domain.StatusFound {
				continue
			}
			if !cfg.TreatMissingExternalAsError {
				continue
			}
		}
		findings.Add(domain.Finding{
			SampleID: node.ID,
			Severity: domain.SeverityError,
			Category: domain.CategoryExistence,
			Message:  fmt.Sprintf("relationships: no entity '%s' found", ref),
		})
	}
}

func checkMaterial(findings domain.FindingMap, g *graph.Graph, node graph.Node, external map[string]domain.ExternalSample) {
	allowed, constrained := AllowedParentKinds(node.MaterialKind)
	if !constrained {
		return
	}
	for _, ref := range node.References {
		parentKind := ""
		if parent, ok := g.Node(ref); ok {
			parentKind = parent.MaterialKind
		} else if ext, ok := external[ref]; ok && ext.Status == domain.StatusFound {
			parentKind = ext.MaterialKind
		}
		if parentKind == "" {
			continue
		}
		if kindAllowed(allowed, parentKind) {
			continue
		}
		findings.Add(domain.Finding{
			SampleID: node.ID,
			Severity: domain.SeverityError,
			Category: domain.CategoryMaterial,
			Message: fmt.Sprintf("relationships: referenced entity '%s' does not match condition 'should be %s'",
				ref, strings.Join(allowed, " or ")),
		})
	}
}

// checkSpecies compares organism values between local organism-kind nodes
// only; external parents contribute material kind but their organism value
// is not compared.
func checkSpecies(findings domain.FindingMap, g *graph.Graph, node graph.Node) {
	if !strings.EqualFold(strings.TrimSpace(node.MaterialKind), organismKind) || node.Organism == "" {
		return
	}
	for _, ref := range node.References {
		parent, ok := g.Node(ref)
		if !ok || !strings.EqualFold(strings.TrimSpace(parent.MaterialKind), organismKind) {
			continue
		}
		if parent.Organism == "" || parent.Organism == node.Organism {
			continue
		}
		findings.Add(domain.Finding{
			SampleID: node.ID,
			Severity: domain.SeverityError,
			Category: domain.CategorySpecies,
			Message: fmt.Sprintf("relationships: species of the child '%s' doesn't match species of the parent '%s'",
				node.Organism, parent.Organism),
		})
	}
}
