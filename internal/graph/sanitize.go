package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/ragfw/ragfw/internal/types"
)

// Evaluator annotates a batch of artifacts with verdicts, preserving order.
// *firewall.Firewall satisfies it.
type Evaluator interface {
	Evaluate(ctx context.Context, arts []types.Artifact, baseScore float64, caller map[string]any) ([]types.Artifact, error)
}

// Sanitizer prunes subgraphs through an Evaluator.
type Sanitizer struct {
	eval   Evaluator
	schema Schema
	// Context is passed as caller context to every decision.
	Context map[string]any
}

func NewSanitizer(eval Evaluator, schema Schema) *Sanitizer {
	return &Sanitizer{eval: eval, schema: schema}
}

// Sanitize returns a new Subgraph holding the surviving elements. A node
// survives unless denied. An edge survives unless denied or missing an
// endpoint. A path survives only if all of its nodes and edges do.
func (s *Sanitizer) Sanitize(ctx context.Context, g Subgraph) (Subgraph, error) {
	nodeIDs := sortedKeys(g.Nodes)
	edgeIDs := sortedKeys(g.Edges)

	arts := make([]types.Artifact, 0, len(nodeIDs)+len(edgeIDs))
	for _, id := range nodeIDs {
		n := g.Nodes[id]
		n.ID = id
		arts = append(arts, s.schema.FlattenNode(n))
	}
	for _, id := range edgeIDs {
		e := g.Edges[id]
		e.ID = id
		arts = append(arts, s.schema.FlattenEdge(e))
	}

	evaluated, err := s.eval.Evaluate(ctx, arts, 1.0, s.Context)
	if err != nil {
		return Subgraph{}, fmt.Errorf("evaluate subgraph: %w", err)
	}
	if len(evaluated) != len(arts) {
		return Subgraph{}, fmt.Errorf("evaluate subgraph: got %d verdicts for %d artifacts", len(evaluated), len(arts))
	}

	out := Subgraph{
		Nodes: make(map[string]Node, len(nodeIDs)),
		Edges: make(map[string]Edge, len(edgeIDs)),
		Paths: []Path{},
		Meta:  cloneMeta(g.Meta),
	}
	for i, id := range nodeIDs {
		if !denied(evaluated[i]) {
			out.Nodes[id] = g.Nodes[id]
		}
	}
	for j, id := range edgeIDs {
		if denied(evaluated[len(nodeIDs)+j]) {
			continue
		}
		e := g.Edges[id]
		_, srcOK := out.Nodes[e.Src]
		_, dstOK := out.Nodes[e.Dst]
		if srcOK && dstOK {
			out.Edges[id] = e
		}
	}
	for _, p := range g.Paths {
		if pathIn(p, out.Nodes, out.Edges) {
			out.Paths = append(out.Paths, p)
		}
	}
	return out, nil
}

// denied treats a missing verdict as a deny.
func cloneMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return types.CloneMetadata(m)
}

func denied(a types.Artifact) bool {
	v, ok := types.VerdictOf(a)
	return !ok || v.Decision == types.ActionDeny
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
