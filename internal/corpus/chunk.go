package corpus

import (
	"fmt"

	"github.com/ragfw/ragfw/internal/types"
	"github.com/tmc/langchaingo/textsplitter"
)

var markdownSeparators = []string{"\n## ", "\n### ", "\n\n", "\n", " ", ""}

// Chunk splits each document into overlapping chunks. Chunks keep the
// document's source and hash so provenance lookups still apply, and carry
// their position under "chunk". A size of zero returns one artifact per
// document.
func Chunk(docs []Document, size, overlap int) ([]types.Artifact, error) {
	if size <= 0 {
		out := make([]types.Artifact, len(docs))
		for i, d := range docs {
			out[i] = d.Artifact()
		}
		return out, nil
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be in [0, %d)", overlap, size)
	}
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(size),
		textsplitter.WithChunkOverlap(overlap),
		textsplitter.WithSeparators(markdownSeparators),
	)
	var out []types.Artifact
	for _, d := range docs {
		parts, err := splitter.SplitText(d.Text)
		if err != nil {
			return nil, fmt.Errorf("split %s: %w", d.Path, err)
		}
		for i, p := range parts {
			a := d.Artifact()
			a.Text = p
			a.Metadata["chunk"] = i
			out = append(out, a)
		}
	}
	return out, nil
}
