package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"docrag/internal/domain"
)

var (
	queryText   string
	queryFilter string
	queryJSON   bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Ask a question about ingested documents",
	Long: `Ask a question about ingested documents. Complex questions are
decomposed into sub-questions and retrieved independently before one
grounded answer is synthesized.

Examples:
  docrag query -q "What is the refund policy?"
  docrag query -q "Compare plan A and plan B" --json
  docrag query -q "What does it cost?" --document pricing.md`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "question", "q", "", "question to answer (required)")
	queryCmd.Flags().StringVar(&queryFilter, "document", "", "restrict retrieval to one document")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.MarkFlagRequired("question")
}

func runQuery(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline(cfg, rootDir, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	resp, err := p.query.Answer(cmd.Context(), domain.QueryRequest{
		Question:       queryText,
		DocumentFilter: queryFilter,
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		output, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(resp.Answer)
	fmt.Println()
	if resp.IsComplex {
		fmt.Printf("Sub-questions (%d):\n", len(resp.SubQuestions))
		for i, sq := range resp.SubQuestions {
			fmt.Printf("  %d. %s\n", i+1, sq)
		}
		fmt.Println()
	}
	if len(resp.Sources) > 0 {
		fmt.Printf("Sources (%d):\n", len(resp.Sources))
		for i, s := range resp.Sources {
			page := "N/A"
			if s.PageNumber != nil {
				page = strconv.Itoa(*s.PageNumber)
			}
			fmt.Printf("  [%d] %s p.%s (%s, similarity %.3f)\n", i+1, s.DocumentName, page, s.ContentType, s.Similarity)
		}
	}

	return nil
}
