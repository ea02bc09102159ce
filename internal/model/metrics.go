package model

// LabelMetrics holds per-label precision/recall/F1 derived from the
// confusion matrix marginals
type LabelMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
	Support   int     `json:"support"` // Number of ground-truth items with this label
}

// EvaluationMetrics aggregates classification quality over a batch.
// Precision/Recall are macro averages; F1 is the harmonic mean of the
// macro pair. Derived once, never mutated.
type EvaluationMetrics struct {
	Precision       float64                 `json:"precision"`
	Recall          float64                 `json:"recall"`
	F1              float64                 `json:"f1_score"`
	Accuracy        float64                 `json:"accuracy"`
	ConfusionMatrix map[Label]map[Label]int `json:"confusion_matrix"` // [truth][predicted] -> count
	PerLabel        map[Label]LabelMetrics  `json:"per_label_metrics"`
}

// LabeledResult pairs a prediction with its ground truth for evaluation
type LabeledResult struct {
	GroundTruth Label   `json:"ground_truth"`
	Predicted   Label   `json:"label"`
	Confidence  float64 `json:"confidence"`
}

// ThresholdedMetrics is the confidence-filtered evaluation variant
type ThresholdedMetrics struct {
	Threshold float64           `json:"threshold"`
	Total     int               `json:"total_results"`
	Kept      int               `json:"filtered_results"`
	Coverage  float64           `json:"coverage"` // Kept / Total
	Metrics   EvaluationMetrics `json:"metrics"`
}

// MetricsComparison reports baseline vs. system metrics and their delta
type MetricsComparison struct {
	Baseline    EvaluationMetrics `json:"baseline"`
	System      EvaluationMetrics `json:"system"`
	Improvement MetricsDelta      `json:"improvement"`
}

// MetricsDelta is the pairwise difference (system minus baseline)
type MetricsDelta struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
	Accuracy  float64 `json:"accuracy"`
}

// TranscriptionQuality is a detailed reference/hypothesis comparison
type TranscriptionQuality struct {
	WER             float64 `json:"wer"`
	CER             float64 `json:"cer"`
	SimilarityRatio float64 `json:"similarity_ratio"`
	ReferenceWords  int     `json:"reference_length"`
	HypothesisWords int     `json:"hypothesis_length"`
}
