// Package graph sanitizes typed subgraphs. Nodes and edges are flattened to
// artifacts, decided in one batch, and pruned so that no surviving edge or
// path references a removed element.
package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ragfw/ragfw/internal/types"
)

type Node struct {
	ID        string         `json:"id"`
	Label     string         `json:"label"`
	Props     map[string]any `json:"props,omitempty"`
	Timestamp *Timestamp      `json:"timestamp,omitempty"`
}

type Edge struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Src       string         `json:"src"`
	Dst       string         `json:"dst"`
	Props     map[string]any `json:"props,omitempty"`
	Timestamp *Timestamp      `json:"timestamp,omitempty"`
}

// Timestamp decodes from Unix seconds or an RFC 3339 string and encodes as
// Unix seconds. Zero and null mean unset.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if ts, ok := types.Timestamp(v); ok {
		t.Time = ts
		return nil
	}
	switch x := v.(type) {
	case float64:
		if x == 0 {
			t.Time = time.Time{}
			return nil
		}
	case string:
		if x == "" {
			t.Time = time.Time{}
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %s", b)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(t.UnixNano()) / 1e9)
}

// Equal reports whether both timestamps denote the same instant.
func (t Timestamp) Equal(u Timestamp) bool { return t.Time.Equal(u.Time) }

type Path struct {
	NodeIDs []string `json:"node_ids"`
	EdgeIDs []string `json:"edge_ids"`
}

// Subgraph is a bounded extract of a larger graph. Every edge endpoint and
// path reference is expected to exist in the same Subgraph; those that do not
// are dropped by Sanitize.
type Subgraph struct {
	Nodes map[string]Node `json:"nodes"`
	Edges map[string]Edge `json:"edges"`
	Paths []Path          `json:"paths"`
	Meta  map[string]any  `json:"meta,omitempty"`
}

// Schema selects which properties become artifact text, keyed by node label
// or edge type. Labels without an entry join every scalar property.
type Schema struct {
	NodeFields map[string][]string `json:"text_fields,omitempty" yaml:"text_fields,omitempty"`
	EdgeFields map[string][]string `json:"edge_text_fields,omitempty" yaml:"edge_text_fields,omitempty"`
}

// Valid reports whether every edge and path in g references present elements.
func (g Subgraph) Valid() bool {
	for _, e := range g.Edges {
		if _, ok := g.Nodes[e.Src]; !ok {
			return false
		}
		if _, ok := g.Nodes[e.Dst]; !ok {
			return false
		}
	}
	for _, p := range g.Paths {
		if !pathIn(p, g.Nodes, g.Edges) {
			return false
		}
	}
	return true
}

func pathIn(p Path, nodes map[string]Node, edges map[string]Edge) bool {
	for _, id := range p.NodeIDs {
		if _, ok := nodes[id]; !ok {
			return false
		}
	}
	for _, id := range p.EdgeIDs {
		if _, ok := edges[id]; !ok {
			return false
		}
	}
	return true
}
