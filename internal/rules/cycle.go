package rules

import (
	"fmt"
	"strings"

	"biovalid/internal/graph"
	"biovalid/pkg/domain"
)

// checkCycle runs a bounded depth-first walk from the node following local
// references. The walk is iterative with an explicit stack and an on-path
// set, so pathological graphs cannot exhaust goroutine stacks. At most one
// finding is emitted per start node: the first cycle encountered in
// reference order, or depth-exceeded when the chain outruns maxDepth
// without closing.
func checkCycle(findings domain.FindingMap, g *graph.Graph, start graph.Node, maxDepth int) {
	type frame struct {
		id   string
		next int
	}

	stack := []frame{{id: start.ID}}
	onPath := map[string]bool{start.ID: true}
	path := []string{start.ID}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		node, _ := g.Node(top.id)

		if top.next >= len(node.References) {
			stack = stack[:len(stack)-1]
			onPath[top.id] = false
			path = path[:len(path)-1]
			continue
		}

		ref := node.References[top.next]
		top.next++

		if !g.Contains(ref) {
			continue
		}
		if onPath[ref] {
			cycle := append(append([]string{}, path...), ref)
			findings.Add(domain.Finding{
				SampleID: start.ID,
				Severity: domain.SeverityError,
				Category: domain.CategoryCycle,
				Message:  fmt.Sprintf("relationships: circular relationship detected: %s", strings.Join(cycle, " -> ")),
			})
			return
		}
		// Pushing ref would make the chain len(path) hops long.
		if len(path) > maxDepth {
			findings.Add(domain.Finding{
				SampleID: start.ID,
				Severity: domain.SeverityError,
				Category: domain.CategoryDepthExceeded,
				Message:  fmt.Sprintf("relationships: chain starting at '%s' exceeds maximum depth %d", start.ID, maxDepth),
			})
			return
		}

		stack = append(stack, frame{id: ref})
		onPath[ref] = true
		path = append(path, ref)
	}
}
