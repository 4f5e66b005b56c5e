package graph

import (
	"fmt"
	"sort"
	"strings"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/ragfw/ragfw/internal/types"
)

// Metadata keys set on flattened artifacts.
const (
	KeyKind = "_artifact_kind"
	KeyID   = "_artifact_id"

	KindNode = "node"
	KindEdge = "edge"
)

func (s Schema) nodeText(n Node) string { return joinProps(n.Props, s.NodeFields[n.Label]) }
func (s Schema) edgeText(e Edge) string { return joinProps(e.Props, s.EdgeFields[e.Type]) }

// joinProps joins the selected properties, or every scalar property in key
// order when fields is empty. Missing and empty values are skipped.
func joinProps(props map[string]any, fields []string) string {
	if len(fields) == 0 {
		fields = make([]string, 0, len(props))
		for k := range props {
			fields = append(fields, k)
		}
		sort.Strings(fields)
	}
	var parts []string
	for _, k := range fields {
		if s, ok := scalarString(props[k]); ok && s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case bool, int, int32, int64, uint, uint32, uint64, float32, float64:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}

// FlattenNode turns a node into an artifact tagged with its kind and id.
func (s Schema) FlattenNode(n Node) types.Artifact {
	text := s.nodeText(n)
	meta := types.CloneMetadata(n.Props)
	meta["label"] = n.Label
	setTimestamp(meta, n.Timestamp)
	meta[KeyKind] = KindNode
	meta[KeyID] = n.ID
	meta["hash"] = fastHash(n.ID + text)
	return types.Artifact{Text: text, Metadata: meta}
}

// FlattenEdge turns an edge into an artifact carrying its type and endpoints.
func (s Schema) FlattenEdge(e Edge) types.Artifact {
	text := s.edgeText(e)
	meta := types.CloneMetadata(e.Props)
	meta["edge_type"] = e.Type
	meta["src"] = e.Src
	meta["dst"] = e.Dst
	setTimestamp(meta, e.Timestamp)
	meta[KeyKind] = KindEdge
	meta[KeyID] = e.ID
	meta["hash"] = fastHash(e.ID + text)
	return types.Artifact{Text: text, Metadata: meta}
}

// setTimestamp exposes the element timestamp as Unix seconds so the staleness
// scanner and recency scoring see it. A timestamp property is kept if the
// element has none.
func setTimestamp(meta map[string]any, ts *Timestamp) {
	if ts != nil && !ts.IsZero() {
		meta["timestamp"] = float64(ts.UnixNano()) / 1e9
	}
}

func fastHash(s string) string {
	sum := xxhash.Sum64String(s)
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}
