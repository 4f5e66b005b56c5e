package graph

import (
	"fmt"

	"github.com/ragfw/ragfw/internal/types"
)

// Serializer formats a sanitized Subgraph as flat text artifacts for prompt
// assembly.
type Serializer interface {
	Serialize(g Subgraph) []types.Artifact
}

// TextSerializer emits one artifact per node then one per edge, each in id
// order.
type TextSerializer struct {
	Schema Schema
}

func (s TextSerializer) Serialize(g Subgraph) []types.Artifact {
	out := make([]types.Artifact, 0, len(g.Nodes)+len(g.Edges))
	for _, id := range sortedKeys(g.Nodes) {
		n := g.Nodes[id]
		meta := types.CloneMetadata(n.Props)
		meta["_type"] = KindNode
		meta["_id"] = id
		meta["_label"] = n.Label
		out = append(out, types.Artifact{
			Text:     fmt.Sprintf("[%s#%s]\n%s", n.Label, id, s.Schema.nodeText(n)),
			Metadata: meta,
		})
	}
	for _, id := range sortedKeys(g.Edges) {
		e := g.Edges[id]
		meta := types.CloneMetadata(e.Props)
		meta["_type"] = KindEdge
		meta["_id"] = id
		meta["_label"] = e.Type
		meta["_src"] = e.Src
		meta["_dst"] = e.Dst
		out = append(out, types.Artifact{
			Text:     fmt.Sprintf("(%s:%s->%s)\n%s", e.Type, e.Src, e.Dst, s.Schema.edgeText(e)),
			Metadata: meta,
		})
	}
	return out
}
