package baseline

import (
	"math"
	"testing"

	"github.com/ppiankov/claimstream/internal/model"
)

func TestVerifyTrueIndicators(t *testing.T) {
	v := NewVerifier()

	result := v.Verify("X was confirmed by officials", "")
	if result.Label != model.LabelTrue {
		t.Errorf("expected true, got %s", result.Label)
	}
	// one true indicator, zero others: 1/(0+1) = 1.0
	if math.Abs(result.Confidence-1.0) > 1e-9 {
		t.Errorf("expected confidence 1.0, got %v", result.Confidence)
	}
}

func TestVerifyFalseMajority(t *testing.T) {
	v := NewVerifier()

	// claim carries "debunked" and "hoax", evidence carries "confirmed":
	// false=2 beats true=1, confidence min(2/(1+1), 1.0) = 1.0
	result := v.Verify("X is a debunked hoax", "officials say it was confirmed")
	if result.Label != model.LabelFalse {
		t.Errorf("expected false, got %s", result.Label)
	}
	if math.Abs(result.Confidence-1.0) > 1e-9 {
		t.Errorf("expected confidence 1.0, got %v", result.Confidence)
	}
}

func TestVerifyNoIndicators(t *testing.T) {
	v := NewVerifier()

	result := v.Verify("The sky is blue", "weather report")
	if result.Label != model.LabelUncertain {
		t.Errorf("expected uncertain, got %s", result.Label)
	}
	if result.Confidence != 0.5 {
		t.Errorf("expected confidence 0.5, got %v", result.Confidence)
	}
}

func TestVerifyTieIsUncertain(t *testing.T) {
	v := NewVerifier()

	result := v.Verify("confirmed but also debunked", "")
	if result.Label != model.LabelUncertain {
		t.Errorf("tie should be uncertain, got %s", result.Label)
	}
}

func TestVerifyWholeWordMatching(t *testing.T) {
	v := NewVerifier()

	// "falsehood" must not count as "false"
	result := v.Verify("the concept of falsehood", "")
	if result.Label != model.LabelUncertain {
		t.Errorf("substring match leaked: got %s", result.Label)
	}
}

func TestVerifyCaseInsensitive(t *testing.T) {
	v := NewVerifier()

	result := v.Verify("X was CONFIRMED", "")
	if result.Label != model.LabelTrue {
		t.Errorf("expected case-insensitive match, got %s", result.Label)
	}
}

func TestVerifyMultiWordIndicator(t *testing.T) {
	v := NewVerifier()

	result := v.Verify("according to the census the population grew", "")
	if result.Label != model.LabelTrue {
		t.Errorf("multi-word indicator not matched, got %s", result.Label)
	}
}

func TestVerifyUncertainIndicators(t *testing.T) {
	v := NewVerifier()

	result := v.Verify("the figure may allegedly be higher", "")
	if result.Label != model.LabelUncertain {
		t.Errorf("expected uncertain, got %s", result.Label)
	}
}

func TestVerifyWithEvidence(t *testing.T) {
	v := NewVerifier()

	evidence := []model.EvidenceItem{
		{Snippet: "the study was verified by researchers"},
		{Snippet: "data shows consistent results"},
	}
	result := v.VerifyWithEvidence("population grew", evidence)
	if result.Label != model.LabelTrue {
		t.Errorf("expected true from evidence snippets, got %s", result.Label)
	}
}

func TestBatchVerify(t *testing.T) {
	v := NewVerifier()

	claims := []model.Claim{
		{ID: "claim_001", Text: "X was confirmed"},
		{ID: "claim_002", Text: "Y is a hoax"},
		{ID: "claim_003", Text: "Z happened"},
	}
	evidence := map[string]string{
		"Z happened": "reportedly unclear",
	}

	results := v.BatchVerify(claims, evidence)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Label != model.LabelTrue {
		t.Errorf("claim 1: expected true, got %s", results[0].Label)
	}
	if results[1].Label != model.LabelFalse {
		t.Errorf("claim 2: expected false, got %s", results[1].Label)
	}
	if results[2].Label != model.LabelUncertain {
		t.Errorf("claim 3: expected uncertain, got %s", results[2].Label)
	}
}

func TestStatistics(t *testing.T) {
	results := []model.BaselineVerification{
		{Label: model.LabelTrue, Confidence: 1.0},
		{Label: model.LabelFalse, Confidence: 0.8},
		{Label: model.LabelUncertain, Confidence: 0.5},
		{Label: model.LabelUncertain, Confidence: 0.5},
	}

	stats := Statistics(results)
	if stats["total"] != 4 {
		t.Errorf("total = %v, want 4", stats["total"])
	}
	if stats["uncertain"] != 2 {
		t.Errorf("uncertain = %v, want 2", stats["uncertain"])
	}
	avg := stats["avg_confidence"].(float64)
	if math.Abs(avg-0.7) > 1e-9 {
		t.Errorf("avg_confidence = %v, want 0.7", avg)
	}
}

func TestStatisticsEmpty(t *testing.T) {
	stats := Statistics(nil)
	if stats["total"] != 0 {
		t.Errorf("total = %v, want 0", stats["total"])
	}
	if _, ok := stats["avg_confidence"]; ok {
		t.Error("empty input should not report avg_confidence")
	}
}
