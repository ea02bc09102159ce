package eval

import (
	"github.com/ppiankov/claimstream/internal/errs"
	"github.com/ppiankov/claimstream/internal/model"
)

// Evaluate computes a confusion matrix, per-label precision/recall/F1,
// macro averages and accuracy over labeled predictions. Macro F1 is
// the harmonic mean of macro precision and macro recall.
func Evaluate(results []model.LabeledResult) (model.EvaluationMetrics, error) {
	if len(results) == 0 {
		return model.EvaluationMetrics{}, errs.Validation("evaluate: no labeled results")
	}

	labels := labelUnion(results)

	matrix := make(map[model.Label]map[model.Label]int, len(labels))
	for _, truth := range labels {
		matrix[truth] = make(map[model.Label]int, len(labels))
	}

	correct := 0
	for _, r := range results {
		if _, ok := matrix[r.GroundTruth]; !ok {
			matrix[r.GroundTruth] = make(map[model.Label]int)
		}
		matrix[r.GroundTruth][r.Predicted]++
		if r.GroundTruth == r.Predicted {
			correct++
		}
	}

	perLabel := make(map[model.Label]model.LabelMetrics, len(labels))
	precisionSum, recallSum := 0.0, 0.0
	for _, label := range labels {
		tp := matrix[label][label]

		predicted := 0
		for _, truth := range labels {
			predicted += matrix[truth][label]
		}
		actual := 0
		for _, pred := range labels {
			actual += matrix[label][pred]
		}

		lm := model.LabelMetrics{
			Precision: safeDiv(tp, predicted),
			Recall:    safeDiv(tp, actual),
			Support:   actual,
		}
		lm.F1 = harmonicMean(lm.Precision, lm.Recall)
		perLabel[label] = lm

		precisionSum += lm.Precision
		recallSum += lm.Recall
	}

	macroPrecision := precisionSum / float64(len(labels))
	macroRecall := recallSum / float64(len(labels))

	return model.EvaluationMetrics{
		Precision:       macroPrecision,
		Recall:          macroRecall,
		F1:              harmonicMean(macroPrecision, macroRecall),
		Accuracy:        float64(correct) / float64(len(results)),
		ConfusionMatrix: matrix,
		PerLabel:        perLabel,
	}, nil
}

// labelUnion collects every label seen as either truth or prediction,
// in a fixed order so output is deterministic
func labelUnion(results []model.LabeledResult) []model.Label {
	seen := make(map[model.Label]bool)
	for _, r := range results {
		seen[r.GroundTruth] = true
		seen[r.Predicted] = true
	}

	ordered := []model.Label{model.LabelTrue, model.LabelFalse, model.LabelUncertain}
	labels := make([]model.Label, 0, len(seen))
	for _, l := range ordered {
		if seen[l] {
			labels = append(labels, l)
			delete(seen, l)
		}
	}
	for l := range seen {
		labels = append(labels, l)
	}
	return labels
}

func safeDiv(num, den int) float64 {
	if den == 0 {
		return 0.0
	}
	return float64(num) / float64(den)
}

func harmonicMean(a, b float64) float64 {
	if a+b == 0 {
		return 0.0
	}
	return 2 * a * b / (a + b)
}

// EvaluateWithConfidence keeps only predictions at or above the
// confidence threshold and evaluates the remainder, reporting coverage
func EvaluateWithConfidence(results []model.LabeledResult, threshold float64) (model.ThresholdedMetrics, error) {
	kept := make([]model.LabeledResult, 0, len(results))
	for _, r := range results {
		if r.Confidence >= threshold {
			kept = append(kept, r)
		}
	}

	tm := model.ThresholdedMetrics{
		Threshold: threshold,
		Total:     len(results),
		Kept:      len(kept),
	}
	if len(results) > 0 {
		tm.Coverage = float64(len(kept)) / float64(len(results))
	}

	if len(kept) == 0 {
		return tm, nil
	}

	metrics, err := Evaluate(kept)
	if err != nil {
		return tm, err
	}
	tm.Metrics = metrics
	return tm, nil
}

// CompareRuns evaluates a baseline and a system run over the same
// ground truth and reports the per-metric improvement. The runs must
// have the same length; they are predictions over the same items.
func CompareRuns(baseline, system []model.LabeledResult) (model.MetricsComparison, error) {
	if len(baseline) != len(system) {
		return model.MetricsComparison{}, errs.Validation("compare runs: %d baseline vs %d system results", len(baseline), len(system))
	}
	baseMetrics, err := Evaluate(baseline)
	if err != nil {
		return model.MetricsComparison{}, err
	}
	sysMetrics, err := Evaluate(system)
	if err != nil {
		return model.MetricsComparison{}, err
	}

	return model.MetricsComparison{
		Baseline: baseMetrics,
		System:   sysMetrics,
		Improvement: model.MetricsDelta{
			Precision: sysMetrics.Precision - baseMetrics.Precision,
			Recall:    sysMetrics.Recall - baseMetrics.Recall,
			F1:        sysMetrics.F1 - baseMetrics.F1,
			Accuracy:  sysMetrics.Accuracy - baseMetrics.Accuracy,
		},
	}, nil
}
