// Package eval computes transcription quality (WER/CER) and
// classification metrics for verification runs.
package eval

import (
	"strings"

	"github.com/ppiankov/claimstream/internal/errs"
	"github.com/ppiankov/claimstream/internal/model"
)

// editDistance is the Levenshtein distance between two token sequences
func editDistance(ref, hyp []string) int {
	m, n := len(ref), len(hyp)
	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 1
			if ref[i-1] == hyp[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[n]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// splitWords tokenizes on whitespace. No case folding or other
// normalization: error rates compare the texts exactly as given.
func splitWords(text string) []string {
	return strings.Fields(text)
}

func splitChars(text string) []string {
	chars := make([]string, 0, len(text))
	for _, r := range text {
		chars = append(chars, string(r))
	}
	return chars
}

// rate converts an edit distance into a percentage capped at 100. An
// empty reference scores 0 against an empty hypothesis and 100 against
// anything else.
func rate(distance, refLen, hypLen int) float64 {
	if refLen == 0 {
		if hypLen == 0 {
			return 0.0
		}
		return 100.0
	}
	r := float64(distance) / float64(refLen) * 100.0
	if r > 100.0 {
		r = 100.0
	}
	return r
}

// WER is the word error rate between a reference and a hypothesis,
// as a percentage in [0,100]
func WER(reference, hypothesis string) float64 {
	ref := splitWords(reference)
	hyp := splitWords(hypothesis)
	return rate(editDistance(ref, hyp), len(ref), len(hyp))
}

// CER is the character error rate over the raw rune sequences,
// whitespace included
func CER(reference, hypothesis string) float64 {
	ref := splitChars(reference)
	hyp := splitChars(hypothesis)
	return rate(editDistance(ref, hyp), len(ref), len(hyp))
}

// Compare produces a full quality report for one reference/hypothesis pair
func Compare(reference, hypothesis string) model.TranscriptionQuality {
	wer := WER(reference, hypothesis)
	return model.TranscriptionQuality{
		WER:             wer,
		CER:             CER(reference, hypothesis),
		SimilarityRatio: (100.0 - wer) / 100.0,
		ReferenceWords:  len(splitWords(reference)),
		HypothesisWords: len(splitWords(hypothesis)),
	}
}

// BatchWER computes per-pair WER and the mean across pairs. The two
// slices must be the same length.
func BatchWER(references, hypotheses []string) (mean float64, individual []float64, err error) {
	if len(references) != len(hypotheses) {
		return 0, nil, errs.Validation("batch WER: %d references vs %d hypotheses", len(references), len(hypotheses))
	}
	if len(references) == 0 {
		return 0, nil, nil
	}

	individual = make([]float64, len(references))
	sum := 0.0
	for i := range references {
		individual[i] = WER(references[i], hypotheses[i])
		sum += individual[i]
	}
	return sum / float64(len(references)), individual, nil
}
