// Package rerank orders raw search hits by relevance to a claim using
// a weighted combination of domain trust, lexical overlap and recency.
package rerank

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ppiankov/claimstream/internal/model"
)

type domainScore struct {
	domain string
	score  float64
}

// domainAuthority is the fixed trust table. Exact host matches return
// the table score; a known domain appearing as a substring of the host
// returns 0.9x; unknown hosts get the default. The table is an ordered
// slice so the substring fallback always resolves in the same order.
var domainAuthority = []domainScore{
	{"wikipedia.org", 0.95},
	{"gov.uk", 0.95},
	{"census.gov", 0.95},
	{"bbc.com", 0.90},
	{"bbc.co.uk", 0.90},
	{"reuters.com", 0.90},
	{"apnews.com", 0.90},
	{"nytimes.com", 0.90},
	{"theguardian.com", 0.85},
	{"cnn.com", 0.80},
}

const defaultAuthority = 0.5

// stopWords are excluded from keyword overlap
var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
}

var (
	wordPattern       = regexp.MustCompile(`\b\w+\b`)
	recentYearPattern = regexp.MustCompile(`\b202[0-4]\b`)
	anyYearPattern    = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
)

// Reranker scores and orders evidence for claims
type Reranker struct {
	weights model.Weights
}

// NewReranker creates a reranker. Zero-value weights fall back to the
// defaults (0.4 authority, 0.4 overlap, 0.2 recency).
func NewReranker(weights model.Weights) *Reranker {
	if weights == (model.Weights{}) {
		weights = model.Weights{DomainAuthority: 0.4, KeywordOverlap: 0.4, Recency: 0.2}
	}
	return &Reranker{weights: weights}
}

// extractDomain strips the scheme, leading www. and path from a URL
func extractDomain(rawURL string) string {
	domain := strings.TrimPrefix(rawURL, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	if idx := strings.IndexByte(domain, '/'); idx >= 0 {
		domain = domain[:idx]
	}
	return strings.TrimPrefix(domain, "www.")
}

// DomainAuthorityScore returns the trust score for a URL's host
func (r *Reranker) DomainAuthorityScore(rawURL string) float64 {
	domain := extractDomain(rawURL)

	for _, known := range domainAuthority {
		if domain == known.domain {
			return known.score
		}
	}

	for _, known := range domainAuthority {
		if strings.Contains(domain, known.domain) {
			return known.score * 0.9
		}
	}

	return defaultAuthority
}

// keywords tokenizes text into lowercase words longer than 3 characters,
// excluding stop words
func keywords(text string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range wordPattern.FindAllString(text, -1) {
		if len(w) <= 3 {
			continue
		}
		lower := strings.ToLower(w)
		if stopWords[lower] {
			continue
		}
		words[lower] = true
	}
	return words
}

// KeywordOverlapScore is |claim words ∩ text words| / |claim words|,
// clamped to 1. An empty claim-word set scores 0.
func (r *Reranker) KeywordOverlapScore(claim, text string) float64 {
	claimWords := keywords(claim)
	if len(claimWords) == 0 {
		return 0.0
	}
	textWords := keywords(text)

	overlap := 0
	for w := range claimWords {
		if textWords[w] {
			overlap++
		}
	}

	score := float64(overlap) / float64(len(claimWords))
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// RecencyScore scores a snippet by the years it mentions: a recent
// year (2020-2024) scores 0.9, any other 19xx/20xx year 0.6, no year 0.5.
func (r *Reranker) RecencyScore(snippet string) float64 {
	if recentYearPattern.MatchString(snippet) {
		return 0.9
	}
	if anyYearPattern.MatchString(snippet) {
		return 0.6
	}
	return 0.5
}

// Rerank scores every evidence item against the claim and returns the
// list sorted descending by score. The sort is stable, so ties keep the
// provider order; ranks are reassigned 1..N afterwards. The weighted
// sum is clamped to [0,1] so non-convention weights cannot push scores
// out of range.
func (r *Reranker) Rerank(claim string, evidence []model.EvidenceItem) []model.RankedEvidence {
	ranked := make([]model.RankedEvidence, 0, len(evidence))

	for _, item := range evidence {
		domainScore := r.DomainAuthorityScore(item.URL)
		keywordScore := r.KeywordOverlapScore(claim, item.Snippet)
		recencyScore := r.RecencyScore(item.Snippet)

		total := domainScore*r.weights.DomainAuthority +
			keywordScore*r.weights.KeywordOverlap +
			recencyScore*r.weights.Recency
		if total > 1.0 {
			total = 1.0
		}
		if total < 0.0 {
			total = 0.0
		}

		ranked = append(ranked, model.RankedEvidence{
			Title:          item.Title,
			URL:            item.URL,
			Snippet:        item.Snippet,
			RelevanceScore: total,
			Reasoning: fmt.Sprintf("Domain authority: %.2f, Keyword overlap: %.2f, Recency: %.2f",
				domainScore, keywordScore, recencyScore),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}

// BatchRerank reranks evidence for multiple claims. A failure while
// scoring one claim yields an empty ranked list for that claim; the
// batch never aborts.
func (r *Reranker) BatchRerank(pairs map[string][]model.EvidenceItem) map[string][]model.RankedEvidence {
	results := make(map[string][]model.RankedEvidence, len(pairs))
	for claim, evidence := range pairs {
		results[claim] = r.rerankIsolated(claim, evidence)
	}
	return results
}

// rerankIsolated converts a panic while scoring into an empty list
func (r *Reranker) rerankIsolated(claim string, evidence []model.EvidenceItem) (ranked []model.RankedEvidence) {
	defer func() {
		if recover() != nil {
			ranked = []model.RankedEvidence{}
		}
	}()
	return r.Rerank(claim, evidence)
}

// TopEvidence reranks, drops items below minScore, and truncates to topK
func (r *Reranker) TopEvidence(claim string, evidence []model.EvidenceItem, topK int, minScore float64) []model.RankedEvidence {
	ranked := r.Rerank(claim, evidence)

	filtered := make([]model.RankedEvidence, 0, len(ranked))
	for _, item := range ranked {
		if item.RelevanceScore >= minScore {
			filtered = append(filtered, item)
		}
	}

	if topK > 0 && len(filtered) > topK {
		filtered = filtered[:topK]
	}
	return filtered
}
