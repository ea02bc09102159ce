package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/claimstream/internal/model"
	"github.com/ppiankov/claimstream/internal/worker"
)

// sourceCount is how many top hits become sources and evidence text
const sourceCount = 3

// Retriever assembles evidence bundles for claims
type Retriever struct {
	client          *Client
	extractor       *PageExtractor // nil disables full-text extraction
	numResults      int
	extractFullText bool
	workers         int
}

// NewRetriever creates an evidence retriever
func NewRetriever(client *Client, extractor *PageExtractor, numResults int, extractFullText bool, workers int) *Retriever {
	if numResults <= 0 {
		numResults = 5
	}
	if workers <= 0 {
		workers = 1
	}
	return &Retriever{
		client:          client,
		extractor:       extractor,
		numResults:      numResults,
		extractFullText: extractFullText,
		workers:         workers,
	}
}

// RetrieveEvidence searches for a claim and builds its evidence bundle.
// Zero search hits yield an empty bundle, not an error.
func (r *Retriever) RetrieveEvidence(ctx context.Context, claim string) (model.EvidenceBundle, error) {
	results, err := r.client.Search(ctx, claim, r.numResults)
	if err != nil {
		return model.EvidenceBundle{Claim: claim, SearchResults: []model.EvidenceItem{}, Sources: []model.Source{}},
			fmt.Errorf("retrieve evidence: %w", err)
	}

	bundle := model.EvidenceBundle{
		Claim:         claim,
		SearchResults: results,
		Sources:       []model.Source{},
	}
	if len(results) == 0 {
		return bundle, nil
	}

	var evidenceTexts []string
	for _, result := range results {
		if len(bundle.Sources) >= sourceCount {
			break
		}
		bundle.Sources = append(bundle.Sources, model.Source{
			Title:   result.Title,
			URL:     result.URL,
			Snippet: result.Snippet,
			Rank:    result.Rank,
		})

		text := result.Snippet
		if r.extractFullText && r.extractor != nil {
			if fullText, err := r.extractor.ExtractText(ctx, result.URL); err == nil && fullText != "" {
				text = fullText
			}
		}
		evidenceTexts = append(evidenceTexts, fmt.Sprintf("Source: %s\n%s", result.Title, text))
	}

	bundle.EvidenceText = strings.Join(evidenceTexts, "\n\n")
	return bundle, nil
}

// BatchRetrieveEvidence retrieves evidence for every claim with bounded
// parallelism. Output order matches input order and per-claim failures
// are isolated: a failed claim yields an empty bundle carrying the
// error message, never an aborted batch.
func (r *Retriever) BatchRetrieveEvidence(ctx context.Context, claims []string) []model.EvidenceBundle {
	bundles := make([]model.EvidenceBundle, len(claims))

	worker.ForEach(ctx, len(claims), r.workers, func(ctx context.Context, i int) {
		bundle, err := r.RetrieveEvidence(ctx, claims[i])
		if err != nil {
			bundle.Error = err.Error()
		}
		bundles[i] = bundle
	})

	return bundles
}
