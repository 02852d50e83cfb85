package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"docrag/internal/adapter/fs"
	"docrag/internal/port"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <path>",
	Short: "Ingest a document or a directory of documents",
	Long: `Ingest a file or every supported file under a directory into the
chunk store. Re-ingesting a document name replaces its previous chunks.

Examples:
  docrag ingest handbook.md
  docrag ingest ./docs`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	p, err := buildPipeline(cfg, rootDir, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	var files []port.FileInfo
	if info.IsDir() {
		walker := fs.NewWalker(cfg.Ingest.Includes, cfg.Ingest.Excludes)
		files, err = walker.Walk(path)
		if err != nil {
			return fmt.Errorf("failed to walk %s: %w", path, err)
		}
	} else {
		files = []port.FileInfo{{Path: path, ModTime: info.ModTime().Unix(), Size: info.Size()}}
	}

	var supported []port.FileInfo
	for _, f := range files {
		if p.ingest.Supports(f.Path) {
			supported = append(supported, f)
		}
	}
	if len(supported) == 0 {
		return fmt.Errorf("no supported documents found under %s", path)
	}

	bar := progressbar.NewOptions(len(supported),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Ingesting[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)

	totalChunks := 0
	for _, f := range supported {
		result, err := p.ingest.IngestFile(cmd.Context(), f.Path)
		if err != nil {
			return err
		}
		totalChunks += result.TotalChunks
		bar.Add(1)
	}

	// Cached retrieval results may reference replaced chunks.
	p.cache.Clear()

	fmt.Printf("Ingested %d documents (%d chunks)\n", len(supported), totalChunks)
	return nil
}
