package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"docrag/internal/usecase"
)

var (
	evalAnswers bool
	evalJSON    bool
)

var evalCmd = &cobra.Command{
	Use:   "eval <cases.yaml>",
	Short: "Evaluate retrieval quality against labeled cases",
	Long: `Evaluate retrieval quality against a YAML file of labeled cases.
Each case names a question and the ground truth context snippets a good
retrieval should surface. Reports hit rate and mean reciprocal rank.

Example case file:
  cases:
    - question: "What is the refund window?"
      ground_truth: "30 days"
      ground_truth_contexts:
        - "refunds are accepted within 30 days"`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().BoolVar(&evalAnswers, "answers", false, "also generate answers for each case")
	evalCmd.Flags().BoolVar(&evalJSON, "json", false, "output as JSON")
}

func runEval(cmd *cobra.Command, args []string) error {
	cases, err := usecase.LoadCases(args[0])
	if err != nil {
		return err
	}

	p, err := buildPipeline(cfg, rootDir, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	evalUC := p.evaluate
	if !evalAnswers {
		// Retrieval metrics only, no completion calls.
		evalUC = usecase.NewEvaluateUseCase(nil, p.retriever, cfg.Retrieve.TopK, logger)
	}

	report, err := evalUC.Evaluate(cmd.Context(), cases)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if evalJSON {
		output, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Evaluated %d cases\n", len(report.Cases))
	fmt.Printf("  Hit rate: %.2f\n", report.HitRate)
	fmt.Printf("  MRR:      %.2f\n", report.MRR)
	for _, c := range report.Cases {
		status := "miss"
		if c.Hit {
			status = "hit"
		}
		fmt.Printf("  [%s] %s (rr=%.2f, retrieved=%d)\n", status, c.Question, c.ReciprocalRank, c.Retrieved)
	}
	return nil
}
