package firewall

import (
	"context"
	"fmt"
	"sort"

	"github.com/ragfw/ragfw/internal/types"
)

// Retriever fetches candidate artifacts for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]types.Artifact, error)
}

// RetrieverFunc adapts a function into a Retriever.
type RetrieverFunc func(ctx context.Context, query string) ([]types.Artifact, error)

func (f RetrieverFunc) Retrieve(ctx context.Context, query string) ([]types.Artifact, error) {
	return f(ctx, query)
}

// SafeRetriever filters another retriever's results through a Firewall.
type SafeRetriever struct {
	inner Retriever
	fw    *Firewall
	// BaseScore is the relevance passed to every decision.
	BaseScore float64
}

func Wrap(r Retriever, fw *Firewall) *SafeRetriever {
	return &SafeRetriever{inner: r, fw: fw, BaseScore: 1.0}
}

// Retrieve drops denied artifacts and orders the rest by descending score.
// Ties keep retrieval order.
func (s *SafeRetriever) Retrieve(ctx context.Context, query string) ([]types.Artifact, error) {
	arts, err := s.inner.Retrieve(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	evaluated, err := s.fw.Evaluate(ctx, arts, s.BaseScore, map[string]any{"query": query})
	if err != nil {
		return nil, err
	}
	kept := make([]types.Artifact, 0, len(evaluated))
	for _, a := range evaluated {
		if v, ok := types.VerdictOf(a); ok && v.Decision == types.ActionDeny {
			continue
		}
		kept = append(kept, a)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return score(kept[i]) > score(kept[j])
	})
	return kept, nil
}

func score(a types.Artifact) float64 {
	v, _ := types.VerdictOf(a)
	return v.Score
}
