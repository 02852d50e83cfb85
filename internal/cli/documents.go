package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var documentsJSON bool

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List ingested documents",
	RunE:  runDocuments,
}

var documentsRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove an ingested document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsRm,
}

func init() {
	rootCmd.AddCommand(documentsCmd)
	documentsCmd.AddCommand(documentsRmCmd)
	documentsCmd.Flags().BoolVar(&documentsJSON, "json", false, "output as JSON")
}

func runDocuments(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline(cfg, rootDir, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	docs, err := p.store.ListDocuments(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if documentsJSON {
		output, _ := json.MarshalIndent(docs, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(docs) == 0 {
		fmt.Println("No documents ingested.")
		return nil
	}
	for _, d := range docs {
		fmt.Printf("%s  (%d chunks, ingested %s)\n", d.Name, d.TotalChunks, d.IngestedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runDocumentsRm(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline(cfg, rootDir, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	name := args[0]
	if err := p.store.DeleteDocument(cmd.Context(), name); err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	p.cache.Clear()

	fmt.Printf("Deleted %s\n", name)
	return nil
}
