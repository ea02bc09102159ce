package model

import "time"

// RunStatus is the lifecycle state of a pipeline run
type RunStatus string

const (
	StatusProcessing RunStatus = "processing"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
)

// PipelineRun is the record of one video passing through the pipeline.
// It is mutated stage-by-stage and becomes immutable once Status is
// terminal and the run has been handed to storage.
type PipelineRun struct {
	RunID         string                    `json:"run_id"`
	VideoID       string                    `json:"video_id"`
	Status        RunStatus                 `json:"status"`
	Transcript    string                    `json:"transcript,omitempty"`
	Claims        []Claim                   `json:"claims"`
	EvidenceMap   map[string]EvidenceBundle `json:"evidence_map"` // Keyed by claim text
	Verifications []VerificationResult      `json:"verifications"`
	StartedAt     time.Time                 `json:"started_at"`
	TotalTime     time.Duration             `json:"total_time"`
	Error         string                    `json:"error,omitempty"`
}

// Transcription is the ASR service response for one audio file
type Transcription struct {
	Text           string    `json:"text"`
	Language       string    `json:"language"`
	Duration       float64   `json:"duration"`
	ProcessingTime float64   `json:"processing_time"`
	Segments       []Segment `json:"segments"`
}

// Segment is one timed span of the transcript
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
