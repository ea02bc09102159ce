package model

// EvidenceItem represents a single raw search hit
type EvidenceItem struct {
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	Snippet        string  `json:"snippet"`
	Rank           int     `json:"rank"`            // Result-provider order, 1-based
	RelevanceScore float64 `json:"relevance_score"` // Positional 1/rank until reranked
}

// RankedEvidence is an evidence item after relevance scoring.
// A ranked list is sorted descending by RelevanceScore with ties
// preserving provider order; Rank is reassigned 1..N after sorting.
type RankedEvidence struct {
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	Snippet        string  `json:"snippet"`
	Rank           int     `json:"rank"`
	RelevanceScore float64 `json:"relevance_score"` // Weighted score in [0,1]
	Reasoning      string  `json:"reasoning"`
}

// Source is one of the top hits attached to a verification result
type Source struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Rank    int    `json:"rank"`
}

// EvidenceBundle holds everything retrieved for one claim.
// A claim with zero search hits yields an empty bundle, not an error.
type EvidenceBundle struct {
	Claim         string         `json:"claim"`
	SearchResults []EvidenceItem `json:"search_results"`
	EvidenceText  string         `json:"evidence_text"` // Concatenated text used for verification
	Sources       []Source       `json:"sources"`       // Top-3 hits
	Error         string         `json:"error,omitempty"`
}
