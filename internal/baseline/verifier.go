// Package baseline implements a keyword-counting verifier used as a
// comparison floor for the LLM verification path. It needs no network
// access and is fully deterministic.
package baseline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/claimstream/internal/model"
)

var trueIndicators = []string{
	"confirmed", "verified", "proven", "established", "documented",
	"official", "according to", "research shows", "studies indicate",
	"evidence suggests", "data shows", "statistics show",
}

var falseIndicators = []string{
	"debunked", "false", "hoax", "fake", "misleading", "incorrect",
	"disproven", "contradicts", "denies", "refutes", "disputed",
}

var uncertainIndicators = []string{
	"may", "might", "could", "possibly", "allegedly", "reportedly",
	"unclear", "uncertain", "unknown", "unverified", "unconfirmed",
}

// Verifier assigns labels by counting indicator keywords in the claim
// text and its evidence
type Verifier struct {
	truePatterns      []*regexp.Regexp
	falsePatterns     []*regexp.Regexp
	uncertainPatterns []*regexp.Regexp
}

// NewVerifier compiles the indicator keyword patterns
func NewVerifier() *Verifier {
	return &Verifier{
		truePatterns:      compileIndicators(trueIndicators),
		falsePatterns:     compileIndicators(falseIndicators),
		uncertainPatterns: compileIndicators(uncertainIndicators),
	}
}

// compileIndicators builds whole-word patterns so "false" does not
// match inside "falsehood"
func compileIndicators(indicators []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(indicators))
	for _, ind := range indicators {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(ind)+`\b`))
	}
	return patterns
}

func countMatches(patterns []*regexp.Regexp, text string) int {
	total := 0
	for _, p := range patterns {
		total += len(p.FindAllString(text, -1))
	}
	return total
}

// Verify labels a claim from keyword counts over the lowercased claim
// and evidence text. A strict majority for one polarity wins; anything
// else is uncertain with confidence 0.5.
func (v *Verifier) Verify(claim, evidence string) model.BaselineVerification {
	text := strings.ToLower(claim + " " + evidence)

	trueCount := countMatches(v.truePatterns, text)
	falseCount := countMatches(v.falsePatterns, text)
	uncertainCount := countMatches(v.uncertainPatterns, text)

	result := model.BaselineVerification{Claim: claim}

	switch {
	case falseCount > trueCount && falseCount > uncertainCount:
		result.Label = model.LabelFalse
		result.Confidence = ratioConfidence(falseCount, trueCount+uncertainCount)
		result.Reasoning = fmt.Sprintf("Found %d false indicators vs %d true indicators", falseCount, trueCount)
	case trueCount > falseCount && trueCount > uncertainCount:
		result.Label = model.LabelTrue
		result.Confidence = ratioConfidence(trueCount, falseCount+uncertainCount)
		result.Reasoning = fmt.Sprintf("Found %d true indicators vs %d false indicators", trueCount, falseCount)
	default:
		result.Label = model.LabelUncertain
		result.Confidence = 0.5
		result.Reasoning = fmt.Sprintf("No clear majority: %d true, %d false, %d uncertain indicators",
			trueCount, falseCount, uncertainCount)
	}

	return result
}

// ratioConfidence is winner/(others+1) capped at 1
func ratioConfidence(winner, others int) float64 {
	conf := float64(winner) / float64(others+1)
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}

// VerifyWithEvidence verifies a claim against a set of evidence
// snippets joined into a single text
func (v *Verifier) VerifyWithEvidence(claim string, evidence []model.EvidenceItem) model.BaselineVerification {
	parts := make([]string, 0, len(evidence))
	for _, item := range evidence {
		parts = append(parts, item.Snippet)
	}
	return v.Verify(claim, strings.Join(parts, " "))
}

// BatchVerify verifies claims against their evidence texts. Claims
// without an evidence entry are verified on claim text alone.
func (v *Verifier) BatchVerify(claims []model.Claim, evidenceByClaim map[string]string) []model.BaselineVerification {
	results := make([]model.BaselineVerification, 0, len(claims))
	for _, claim := range claims {
		results = append(results, v.verifyIsolated(claim.Text, evidenceByClaim[claim.Text]))
	}
	return results
}

// verifyIsolated converts a panic for one claim into an uncertain
// zero-confidence result so the batch continues
func (v *Verifier) verifyIsolated(claim, evidence string) (result model.BaselineVerification) {
	defer func() {
		if r := recover(); r != nil {
			result = model.BaselineVerification{
				Claim:      claim,
				Label:      model.LabelUncertain,
				Confidence: 0.0,
				Reasoning:  fmt.Sprintf("Verification error: %v", r),
			}
		}
	}()
	return v.Verify(claim, evidence)
}

// Statistics summarizes label distribution and mean confidence over a
// batch of baseline verifications
func Statistics(results []model.BaselineVerification) map[string]interface{} {
	stats := map[string]interface{}{
		"total": len(results),
	}
	if len(results) == 0 {
		return stats
	}

	counts := map[model.Label]int{}
	confSum := 0.0
	for _, r := range results {
		counts[r.Label]++
		confSum += r.Confidence
	}

	stats["true"] = counts[model.LabelTrue]
	stats["false"] = counts[model.LabelFalse]
	stats["uncertain"] = counts[model.LabelUncertain]
	stats["avg_confidence"] = confSum / float64(len(results))
	return stats
}
