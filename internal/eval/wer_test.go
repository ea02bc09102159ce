package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimstream/internal/errs"
)

func TestWER(t *testing.T) {
	tests := []struct {
		name       string
		reference  string
		hypothesis string
		want       float64
	}{
		{"identical", "the cat sat", "the cat sat", 0.0},
		{"both empty", "", "", 0.0},
		{"empty reference", "", "a b", 100.0},
		{"empty hypothesis", "a b c", "", 100.0},
		{"one substitution", "the cat sat", "the dog sat", 100.0 / 3.0},
		{"one insertion", "the cat", "the big cat", 50.0},
		{"one deletion", "the big cat", "the cat", 100.0 / 3.0},
		{"case sensitive", "The Cat", "the cat", 100.0},
		{"capped at 100", "a", "b c d e f", 100.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, WER(tt.reference, tt.hypothesis), 1e-9)
		})
	}
}

func TestCER(t *testing.T) {
	assert.InDelta(t, 0.0, CER("abc", "abc"), 1e-9)
	assert.InDelta(t, 0.0, CER("", ""), 1e-9)
	assert.InDelta(t, 100.0, CER("", "x"), 1e-9)
	// "abc" -> "abd": one substitution over three characters
	assert.InDelta(t, 100.0/3.0, CER("abc", "abd"), 1e-9)
	// whitespace counts: "a  b" vs "a b" is one deletion over four runes
	assert.InDelta(t, 25.0, CER("a  b", "a b"), 1e-9)
	// case counts: both runes of "AB" differ from "ab"
	assert.InDelta(t, 100.0, CER("AB", "ab"), 1e-9)
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance(nil, nil))
	assert.Equal(t, 3, editDistance([]string{"a", "b", "c"}, nil))
	assert.Equal(t, 3, editDistance(nil, []string{"a", "b", "c"}))
	assert.Equal(t, 1, editDistance([]string{"a", "b"}, []string{"a", "c"}))
	assert.Equal(t, 2, editDistance([]string{"kitten"}, []string{"sitting", "x"}))
}

func TestCompare(t *testing.T) {
	q := Compare("the cat sat on the mat", "the cat sat on the mat")
	assert.InDelta(t, 0.0, q.WER, 1e-9)
	assert.InDelta(t, 0.0, q.CER, 1e-9)
	assert.InDelta(t, 1.0, q.SimilarityRatio, 1e-9)
	assert.Equal(t, 6, q.ReferenceWords)
	assert.Equal(t, 6, q.HypothesisWords)

	q = Compare("a b c d", "a b")
	assert.InDelta(t, 50.0, q.WER, 1e-9)
	assert.InDelta(t, 0.5, q.SimilarityRatio, 1e-9)
}

func TestBatchWER(t *testing.T) {
	mean, individual, err := BatchWER(
		[]string{"the cat sat", "a b"},
		[]string{"the cat sat", "x y"},
	)
	require.NoError(t, err)
	require.Len(t, individual, 2)
	assert.InDelta(t, 0.0, individual[0], 1e-9)
	assert.InDelta(t, 100.0, individual[1], 1e-9)
	assert.InDelta(t, 50.0, mean, 1e-9)
}

func TestBatchWERLengthMismatch(t *testing.T) {
	_, _, err := BatchWER([]string{"a"}, []string{"a", "b"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestBatchWEREmpty(t *testing.T) {
	mean, individual, err := BatchWER(nil, nil)
	require.NoError(t, err)
	assert.Zero(t, mean)
	assert.Empty(t, individual)
}
