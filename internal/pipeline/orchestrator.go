// Package pipeline orchestrates the full video verification flow:
// audio extraction, transcription, claim extraction, evidence
// retrieval, reranking, verification and persistence.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/claimstream/internal/model"
)

// AudioExtractor converts a video file into transcribable audio
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath, videoID string) (string, error)
}

// Transcriber turns an audio file into text
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*model.Transcription, error)
}

// ClaimService extracts claims from transcripts and verifies them
// against evidence
type ClaimService interface {
	ExtractClaims(ctx context.Context, transcript string) ([]model.Claim, error)
	VerifyClaim(ctx context.Context, claim, evidence string) (model.VerificationResult, error)
}

// Retriever gathers web evidence for claims
type Retriever interface {
	BatchRetrieveEvidence(ctx context.Context, claims []string) []model.EvidenceBundle
}

// Reranker orders evidence by relevance to a claim
type Reranker interface {
	Rerank(claim string, evidence []model.EvidenceItem) []model.RankedEvidence
}

// RunStore persists completed runs
type RunStore interface {
	SaveRun(ctx context.Context, run *model.PipelineRun) error
}

// LatencyRecorder receives per-stage timing samples
type LatencyRecorder interface {
	WriteLatency(component string, d time.Duration)
}

// Orchestrator wires the pipeline stages together
type Orchestrator struct {
	extractor AudioExtractor
	asr       Transcriber
	claims    ClaimService
	retriever Retriever
	reranker  Reranker
	store     RunStore
	recorder  LatencyRecorder
}

// NewOrchestrator builds a pipeline from its stage implementations.
// store and recorder may be nil; persistence and metrics are then
// skipped.
func NewOrchestrator(extractor AudioExtractor, asr Transcriber, claims ClaimService,
	retriever Retriever, reranker Reranker, store RunStore, recorder LatencyRecorder) *Orchestrator {
	return &Orchestrator{
		extractor: extractor,
		asr:       asr,
		claims:    claims,
		retriever: retriever,
		reranker:  reranker,
		store:     store,
		recorder:  recorder,
	}
}

// ProcessVideo runs a video file through every stage and returns the
// run record. A stage failure marks the run failed and stops the
// pipeline; persistence failures are logged without changing the run
// status. A video with no extractable claims completes successfully
// with empty results.
func (o *Orchestrator) ProcessVideo(ctx context.Context, videoPath, videoID string, saveToDB bool) *model.PipelineRun {
	run := &model.PipelineRun{
		RunID:       uuid.NewString(),
		VideoID:     videoID,
		Status:      model.StatusProcessing,
		EvidenceMap: map[string]model.EvidenceBundle{},
		StartedAt:   time.Now(),
	}
	defer func() { run.TotalTime = time.Since(run.StartedAt) }()

	audioPath, err := o.timedExtract(ctx, videoPath, videoID)
	if err != nil {
		return o.fail(run, "audio extraction", err)
	}

	transcription, err := o.timedTranscribe(ctx, audioPath)
	if err != nil {
		return o.fail(run, "transcription", err)
	}
	if transcription.Text == "" {
		return o.fail(run, "transcription", fmt.Errorf("empty transcript"))
	}
	run.Transcript = transcription.Text

	claims, err := o.timedExtractClaims(ctx, transcription.Text)
	if err != nil {
		return o.fail(run, "claim extraction", err)
	}
	run.Claims = claims
	if len(claims) == 0 {
		run.Status = model.StatusCompleted
		return run
	}

	o.retrieveAndRerank(ctx, run)

	if err := o.verifyClaims(ctx, run); err != nil {
		return o.fail(run, "verification", err)
	}

	run.Status = model.StatusCompleted

	if saveToDB && o.store != nil {
		if err := o.store.SaveRun(ctx, run); err != nil {
			log.Printf("pipeline: persisting run %s: %v", run.RunID, err)
		}
	}

	return run
}

func (o *Orchestrator) fail(run *model.PipelineRun, stage string, err error) *model.PipelineRun {
	run.Status = model.StatusFailed
	run.Error = fmt.Sprintf("%s: %v", stage, err)
	return run
}

func (o *Orchestrator) timedExtract(ctx context.Context, videoPath, videoID string) (string, error) {
	start := time.Now()
	path, err := o.extractor.ExtractAudio(ctx, videoPath, videoID)
	o.recordLatency("audio_extraction", time.Since(start))
	return path, err
}

func (o *Orchestrator) timedTranscribe(ctx context.Context, audioPath string) (*model.Transcription, error) {
	start := time.Now()
	t, err := o.asr.Transcribe(ctx, audioPath)
	o.recordLatency("whisper", time.Since(start))
	return t, err
}

func (o *Orchestrator) timedExtractClaims(ctx context.Context, transcript string) ([]model.Claim, error) {
	start := time.Now()
	claims, err := o.claims.ExtractClaims(ctx, transcript)
	o.recordLatency("claim_extraction", time.Since(start))
	return claims, err
}

// retrieveAndRerank gathers evidence for every claim concurrently,
// then reorders each bundle's search results. A claim whose retrieval
// failed keeps its bundle with the error recorded; verification for it
// proceeds on empty evidence.
func (o *Orchestrator) retrieveAndRerank(ctx context.Context, run *model.PipelineRun) {
	texts := make([]string, len(run.Claims))
	for i, c := range run.Claims {
		texts[i] = c.Text
	}

	start := time.Now()
	bundles := o.retriever.BatchRetrieveEvidence(ctx, texts)
	o.recordLatency("evidence_retrieval", time.Since(start))

	start = time.Now()
	for _, bundle := range bundles {
		ranked := o.reranker.Rerank(bundle.Claim, bundle.SearchResults)

		items := make([]model.EvidenceItem, len(ranked))
		for i, r := range ranked {
			items[i] = model.EvidenceItem{
				Title:          r.Title,
				URL:            r.URL,
				Snippet:        r.Snippet,
				Rank:           r.Rank,
				RelevanceScore: r.RelevanceScore,
			}
		}
		bundle.SearchResults = items
		run.EvidenceMap[bundle.Claim] = bundle
	}
	o.recordLatency("reranking", time.Since(start))
}

func (o *Orchestrator) verifyClaims(ctx context.Context, run *model.PipelineRun) error {
	start := time.Now()
	defer func() { o.recordLatency("verification", time.Since(start)) }()

	run.Verifications = make([]model.VerificationResult, 0, len(run.Claims))
	for _, claim := range run.Claims {
		bundle := run.EvidenceMap[claim.Text]

		result, err := o.claims.VerifyClaim(ctx, claim.Text, bundle.EvidenceText)
		if err != nil {
			return fmt.Errorf("claim %q: %w", claim.ID, err)
		}
		result.ClaimID = claim.ID
		result.Sources = bundle.Sources
		run.Verifications = append(run.Verifications, result)
	}
	return nil
}

func (o *Orchestrator) recordLatency(component string, d time.Duration) {
	if o.recorder != nil {
		o.recorder.WriteLatency(component, d)
	}
}
