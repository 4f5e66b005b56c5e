package core

import (
	"context"

	"github.com/ragfw/ragfw/internal/types"
	"github.com/tmc/langchaingo/schema"
)

// ScoreKey holds a source document's retrieval score in artifact metadata.
const ScoreKey = "score"

// FromLangChain adapts a langchaingo retriever into a Retriever.
func FromLangChain(r schema.Retriever) Retriever {
	return RetrieverFunc(func(ctx context.Context, query string) ([]Artifact, error) {
		docs, err := r.GetRelevantDocuments(ctx, query)
		if err != nil {
			return nil, err
		}
		arts := make([]Artifact, len(docs))
		for i, d := range docs {
			meta := types.CloneMetadata(d.Metadata)
			if d.Score != 0 {
				meta[ScoreKey] = float64(d.Score)
			}
			arts[i] = Artifact{Text: d.PageContent, Metadata: meta}
		}
		return arts, nil
	})
}

// LangChainRetriever exposes a SafeRetriever as a langchaingo retriever so it
// can be dropped into existing chains. Document scores are firewall scores.
type LangChainRetriever struct {
	Safe *SafeRetriever
}

var _ schema.Retriever = LangChainRetriever{}

func (l LangChainRetriever) GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error) {
	arts, err := l.Safe.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}
	docs := make([]schema.Document, len(arts))
	for i, a := range arts {
		v, _ := types.VerdictOf(a)
		docs[i] = schema.Document{PageContent: a.Text, Metadata: a.Metadata, Score: float32(v.Score)}
	}
	return docs, nil
}

// SafeLangChain wraps a langchaingo retriever with fw in both directions.
func SafeLangChain(r schema.Retriever, fw *Firewall) LangChainRetriever {
	return LangChainRetriever{Safe: Wrap(FromLangChain(r), fw)}
}
