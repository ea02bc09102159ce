package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ppiankov/claimstream/internal/errs"
	"github.com/ppiankov/claimstream/internal/model"
)

const extractSystemPrompt = `You are an expert fact-checker and claim analyzer. Your task is to extract
atomic, verifiable claims from transcripts. Each claim should be:
1. A single, standalone statement that can be verified independently
2. Specific and measurable
3. Free of hedging language (unless the speaker explicitly hedged)
4. Extractable as a complete thought

Return results as a JSON object with the following structure:
{
    "claims": [
        {
            "claim_id": "claim_001",
            "text": "The claim text",
            "confidence": 0.95,
            "claim_type": "factual/statistical/opinion"
        }
    ]
}`

const verifySystemPrompt = `You are an expert fact-checker. Your task is to verify claims using provided evidence.
For each claim, provide:
1. A verdict (true/false/uncertain)
2. Confidence score (0-1)
3. Clear explanation
4. Citations from the evidence

Return results as JSON with this structure:
{
    "verification": {
        "claim_id": "claim_001",
        "label": "true|false|uncertain",
        "confidence": 0.85,
        "explanation": "Detailed explanation",
        "citations": ["source 1", "source 2"]
    }
}`

// UsageSink receives token accounting for each model call.
// The pipeline plugs the metrics recorder in here.
type UsageSink interface {
	WriteTokenUsage(service string, inputTokens, outputTokens int, cost float64)
}

// ClaimService extracts and verifies claims through a Provider.
// Single calls propagate transport and parse errors to the caller;
// isolation happens only at batch boundaries.
type ClaimService struct {
	provider Provider
	usage    UsageSink // optional
}

// NewClaimService creates a claim service on top of a provider
func NewClaimService(provider Provider, usage UsageSink) *ClaimService {
	return &ClaimService{provider: provider, usage: usage}
}

// ExtractClaims extracts atomic claims from a transcript
func (s *ClaimService) ExtractClaims(ctx context.Context, transcript string) ([]model.Claim, error) {
	user := fmt.Sprintf("Extract atomic claims from the following transcript:\n\nTRANSCRIPT:\n%s\n\nReturn only valid JSON.", transcript)

	completion, err := s.provider.Complete(ctx, extractSystemPrompt, user)
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}
	s.recordUsage(completion)

	raw, err := ExtractJSONObject(completion.Text)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Claims []struct {
			ClaimID    string  `json:"claim_id"`
			Text       string  `json:"text"`
			Confidence float64 `json:"confidence"`
			ClaimType  string  `json:"claim_type"`
		} `json:"claims"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errs.Parse("extraction schema", err)
	}

	claims := make([]model.Claim, 0, len(payload.Claims))
	for i, c := range payload.Claims {
		id := c.ClaimID
		if id == "" {
			id = fmt.Sprintf("claim_%03d", i)
		}
		claimType := model.ClaimType(c.ClaimType)
		switch claimType {
		case model.ClaimTypeFactual, model.ClaimTypeStatistical, model.ClaimTypeOpinion:
		default:
			claimType = model.ClaimTypeFactual
		}
		claims = append(claims, model.Claim{
			ID:         id,
			Text:       c.Text,
			Confidence: c.Confidence,
			Type:       claimType,
		})
	}

	return claims, nil
}

// VerifyClaim verifies one claim against its evidence text
func (s *ClaimService) VerifyClaim(ctx context.Context, claim, evidence string) (model.VerificationResult, error) {
	user := fmt.Sprintf("Verify the following claim using the provided evidence:\n\nCLAIM:\n%s\n\nEVIDENCE:\n%s\n\nProvide your verification result in JSON format.", claim, evidence)

	completion, err := s.provider.Complete(ctx, verifySystemPrompt, user)
	if err != nil {
		return model.VerificationResult{}, fmt.Errorf("verify claim: %w", err)
	}
	s.recordUsage(completion)

	raw, err := ExtractJSONObject(completion.Text)
	if err != nil {
		return model.VerificationResult{}, err
	}

	var payload struct {
		Verification struct {
			ClaimID     string   `json:"claim_id"`
			Label       string   `json:"label"`
			Confidence  float64  `json:"confidence"`
			Explanation string   `json:"explanation"`
			Citations   []string `json:"citations"`
		} `json:"verification"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return model.VerificationResult{}, errs.Parse("verification schema", err)
	}

	v := payload.Verification
	label := model.Label(v.Label)
	switch label {
	case model.LabelTrue, model.LabelFalse, model.LabelUncertain:
	default:
		label = model.LabelUncertain
	}

	return model.VerificationResult{
		ClaimID:     v.ClaimID,
		ClaimText:   claim,
		Label:       label,
		Confidence:  v.Confidence,
		Explanation: v.Explanation,
		Citations:   v.Citations,
	}, nil
}

// BatchExtractClaims extracts claims from several transcripts,
// isolating per-transcript failures as empty claim lists.
func (s *ClaimService) BatchExtractClaims(ctx context.Context, transcripts []string) [][]model.Claim {
	results := make([][]model.Claim, len(transcripts))
	for i, transcript := range transcripts {
		claims, err := s.ExtractClaims(ctx, transcript)
		if err != nil {
			results[i] = []model.Claim{}
			continue
		}
		results[i] = claims
	}
	return results
}

func (s *ClaimService) recordUsage(c *Completion) {
	if s.usage == nil {
		return
	}
	s.usage.WriteTokenUsage(s.provider.Name(), c.PromptTokens, c.CompletionTokens, 0)
}
