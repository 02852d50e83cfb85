package main

import (
	"github.com/joho/godotenv"

	"docrag/internal/cli"
)

func main() {
	// API keys are commonly kept in a local .env during development.
	_ = godotenv.Load()

	cli.Execute()
}
