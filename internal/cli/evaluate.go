package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimstream/internal/eval"
	"github.com/ppiankov/claimstream/internal/model"
)

var (
	evalThreshold float64
	evalBaseline  string
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate transcription and verification quality",
}

var evaluateWERCmd = &cobra.Command{
	Use:   "wer <reference-file> <hypothesis-file>",
	Short: "Compare a transcript against a reference",
	Long: `Compute word and character error rates between a reference transcript
and a hypothesis transcript.

Example:
  claimstream evaluate wer reference.txt transcript.txt`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reference, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading reference: %w", err)
		}
		hypothesis, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("reading hypothesis: %w", err)
		}

		q := eval.Compare(string(reference), string(hypothesis))
		fmt.Printf("WER:        %.2f%%\n", q.WER)
		fmt.Printf("CER:        %.2f%%\n", q.CER)
		fmt.Printf("Similarity: %.3f\n", q.SimilarityRatio)
		fmt.Printf("Words:      %d reference, %d hypothesis\n", q.ReferenceWords, q.HypothesisWords)
		return nil
	},
}

var evaluateLabelsCmd = &cobra.Command{
	Use:   "labels <results-file>",
	Short: "Score verification results against ground truth",
	Long: `Compute precision, recall, macro F1, accuracy and a confusion matrix
from a JSON file of labeled results. Each entry needs a ground_truth
and a predicted label plus an optional confidence.

With --baseline, a second results file is evaluated over the same
ground truth and the per-metric improvement is reported.

Example:
  claimstream evaluate labels results.json
  claimstream evaluate labels results.json --threshold 0.7
  claimstream evaluate labels results.json --baseline baseline.json`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluateLabels,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.AddCommand(evaluateWERCmd)
	evaluateCmd.AddCommand(evaluateLabelsCmd)

	evaluateLabelsCmd.Flags().Float64Var(&evalThreshold, "threshold", 0, "only evaluate predictions with at least this confidence")
	evaluateLabelsCmd.Flags().StringVar(&evalBaseline, "baseline", "", "baseline results file to compare against")
}

func runEvaluateLabels(cmd *cobra.Command, args []string) error {
	results, err := loadLabeledResults(args[0])
	if err != nil {
		return err
	}

	if evalBaseline != "" {
		baseline, err := loadLabeledResults(evalBaseline)
		if err != nil {
			return err
		}
		comparison, err := eval.CompareRuns(baseline, results)
		if err != nil {
			return err
		}
		printComparison(comparison)
		return nil
	}

	if evalThreshold > 0 {
		tm, err := eval.EvaluateWithConfidence(results, evalThreshold)
		if err != nil {
			return err
		}
		fmt.Printf("Threshold: %.2f, kept %d/%d (coverage %.1f%%)\n\n",
			tm.Threshold, tm.Kept, tm.Total, tm.Coverage*100)
		if tm.Kept == 0 {
			fmt.Println("No predictions met the threshold.")
			return nil
		}
		printMetrics(tm.Metrics)
		return nil
	}

	metrics, err := eval.Evaluate(results)
	if err != nil {
		return err
	}
	printMetrics(metrics)
	return nil
}

func loadLabeledResults(path string) ([]model.LabeledResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var results []model.LabeledResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return results, nil
}

func printMetrics(m model.EvaluationMetrics) {
	fmt.Printf("Accuracy:  %.3f\n", m.Accuracy)
	fmt.Printf("Precision: %.3f (macro)\n", m.Precision)
	fmt.Printf("Recall:    %.3f (macro)\n", m.Recall)
	fmt.Printf("F1:        %.3f (macro)\n", m.F1)
	fmt.Println()

	fmt.Println("Per-label:")
	for label, lm := range m.PerLabel {
		fmt.Printf("  %-10s precision=%.3f recall=%.3f f1=%.3f support=%d\n",
			label, lm.Precision, lm.Recall, lm.F1, lm.Support)
	}
}

func printComparison(c model.MetricsComparison) {
	fmt.Println("Baseline:")
	printMetrics(c.Baseline)
	fmt.Println("\nSystem:")
	printMetrics(c.System)
	fmt.Println("\nImprovement:")
	fmt.Printf("  accuracy %+.3f, precision %+.3f, recall %+.3f, f1 %+.3f\n",
		c.Improvement.Accuracy, c.Improvement.Precision, c.Improvement.Recall, c.Improvement.F1)
}
