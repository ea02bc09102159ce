package model

// Claim represents a single atomic claim extracted from a transcript.
// Claims are immutable once created and are keyed by Text within a run.
type Claim struct {
	ID         string    `json:"claim_id"`
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"` // Extraction confidence in [0,1]
	Type       ClaimType `json:"claim_type"`
}

// ClaimType categorizes the nature of the claim
type ClaimType string

const (
	ClaimTypeFactual     ClaimType = "factual"
	ClaimTypeStatistical ClaimType = "statistical"
	ClaimTypeOpinion     ClaimType = "opinion"
)

// Label is a verification verdict
type Label string

const (
	LabelTrue      Label = "true"
	LabelFalse     Label = "false"
	LabelUncertain Label = "uncertain"
)

// VerificationResult represents the verdict for one claim
type VerificationResult struct {
	ClaimID     string   `json:"claim_id"`
	ClaimText   string   `json:"claim_text"`
	Label       Label    `json:"label"`
	Confidence  float64  `json:"confidence"` // Verdict confidence in [0,1]
	Explanation string   `json:"explanation"`
	Citations   []string `json:"citations"`
	Sources     []Source `json:"sources,omitempty"`
}

// BaselineVerification is the verdict from the rule-based baseline verifier
type BaselineVerification struct {
	Claim      string  `json:"claim"`
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}
