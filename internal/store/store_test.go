package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimstream/internal/errs"
	"github.com/ppiankov/claimstream/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndQueryClaim(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	claim := model.Claim{
		ID:         "claim_001",
		Text:       "Paris population reached 2.1 million",
		Type:       model.ClaimTypeStatistical,
		Confidence: 0.9,
	}

	id, err := s.InsertClaim(ctx, "video-1", claim)
	require.NoError(t, err)
	assert.Positive(t, id)

	claims, err := s.ClaimsByVideo(ctx, "video-1")
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, claim.Text, claims[0].Text)
	assert.Equal(t, model.ClaimTypeStatistical, claims[0].Type)
	assert.InDelta(t, 0.9, claims[0].Confidence, 1e-9)
	assert.NotEmpty(t, claims[0].CreatedAt)
}

func TestClaimsByVideoFiltersAndOrders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.InsertClaim(ctx, "video-1", model.Claim{Text: "first", Type: model.ClaimTypeFactual})
	require.NoError(t, err)
	_, err = s.InsertClaim(ctx, "video-2", model.Claim{Text: "other video", Type: model.ClaimTypeFactual})
	require.NoError(t, err)
	_, err = s.InsertClaim(ctx, "video-1", model.Claim{Text: "second", Type: model.ClaimTypeFactual})
	require.NoError(t, err)

	claims, err := s.ClaimsByVideo(ctx, "video-1")
	require.NoError(t, err)
	require.Len(t, claims, 2)
	assert.Equal(t, "first", claims[0].Text)
	assert.Equal(t, "second", claims[1].Text)
}

func TestInsertAndLoadVerification(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	claimID, err := s.InsertClaim(ctx, "video-1", model.Claim{Text: "X", Type: model.ClaimTypeFactual})
	require.NoError(t, err)

	v := model.VerificationResult{
		ClaimID:     "claim_001",
		Label:       model.LabelTrue,
		Confidence:  0.85,
		Explanation: "supported by two sources",
		Citations:   []string{"https://wikipedia.org/x", "https://census.gov/y"},
	}
	require.NoError(t, s.InsertVerification(ctx, claimID, v))

	loaded, err := s.VerificationByClaim(ctx, claimID)
	require.NoError(t, err)
	assert.Equal(t, model.LabelTrue, loaded.Label)
	assert.InDelta(t, 0.85, loaded.Confidence, 1e-9)
	assert.Equal(t, v.Explanation, loaded.Explanation)
	assert.Equal(t, v.Citations, loaded.Citations)
}

func TestVerificationByClaimMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.VerificationByClaim(context.Background(), 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrStorage)
}

func TestSaveRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &model.PipelineRun{
		RunID:   "run-1",
		VideoID: "video-9",
		Status:  model.StatusCompleted,
		Claims: []model.Claim{
			{ID: "claim_001", Text: "A happened", Type: model.ClaimTypeFactual, Confidence: 0.8},
			{ID: "claim_002", Text: "B happened", Type: model.ClaimTypeOpinion, Confidence: 0.4},
		},
		Verifications: []model.VerificationResult{
			{ClaimID: "claim_001", Label: model.LabelTrue, Confidence: 0.9, Citations: []string{"https://a"}},
		},
	}

	require.NoError(t, s.SaveRun(ctx, run))

	claims, err := s.ClaimsByVideo(ctx, "video-9")
	require.NoError(t, err)
	require.Len(t, claims, 2)

	// claim_001 has a verification, claim_002 does not
	loaded, err := s.VerificationByClaim(ctx, claims[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.LabelTrue, loaded.Label)

	_, err = s.VerificationByClaim(ctx, claims[1].ID)
	require.Error(t, err)
}
