package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/claimstream/internal/baseline"
	"github.com/ppiankov/claimstream/internal/model"
)

var baselineOutJSON string

// baselineCmd represents the baseline command
var baselineCmd = &cobra.Command{
	Use:   "baseline <claims-file>",
	Short: "Verify claims with the keyword baseline",
	Long: `Run the rule-based keyword verifier over a JSON file of claims.
Each claim may carry pre-retrieved evidence text; claims without
evidence are judged on their own wording.

The baseline needs no API keys and is useful as a comparison floor
for the LLM verification path.

Example:
  claimstream baseline claims.json
  claimstream baseline claims.json --json verdicts.json`,
	Args: cobra.ExactArgs(1),
	RunE: runBaseline,
}

func init() {
	rootCmd.AddCommand(baselineCmd)
	baselineCmd.Flags().StringVar(&baselineOutJSON, "json", "", "write verdicts to this JSON file")
}

// baselineInput is one entry of the claims file
type baselineInput struct {
	Claim    string `json:"claim"`
	Evidence string `json:"evidence,omitempty"`
}

func runBaseline(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	var inputs []baselineInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no claims in %s", args[0])
	}

	verifier := baseline.NewVerifier()
	results := make([]model.BaselineVerification, 0, len(inputs))
	for _, in := range inputs {
		results = append(results, verifier.Verify(in.Claim, in.Evidence))
	}

	for _, r := range results {
		fmt.Printf("[%s] %.2f %s\n", r.Label, r.Confidence, r.Claim)
		if verbose {
			fmt.Printf("    %s\n", r.Reasoning)
		}
	}

	stats := baseline.Statistics(results)
	fmt.Printf("\n%d claims: %v true, %v false, %v uncertain (avg confidence %.2f)\n",
		stats["total"], stats["true"], stats["false"], stats["uncertain"], stats["avg_confidence"])

	if baselineOutJSON != "" {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding verdicts: %w", err)
		}
		if err := os.WriteFile(baselineOutJSON, out, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", baselineOutJSON, err)
		}
	}
	return nil
}
