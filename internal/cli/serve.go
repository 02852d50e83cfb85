package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"docrag/internal/api"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API for querying and managing documents.

Endpoints:
  POST   /query             Answer a question
  POST   /ingest            Upload and ingest a document
  GET    /documents         List ingested documents
  DELETE /documents/{name}  Remove a document
  GET    /health            Health and chunk count`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline(cfg, rootDir, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	host := cfg.Server.Host
	if serveHost != "" {
		host = serveHost
	}
	port := cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(p.query, p.ingest, p.store, p.cache, logger)
	return srv.Run(ctx, fmt.Sprintf("%s:%d", host, port))
}
