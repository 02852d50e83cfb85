package agent

import (
	"context"
	"fmt"
	"log/slog"

	"docrag/internal/domain"
	"docrag/internal/port"
)

const analyzerSystemPrompt = `You are a query analysis expert. Analyze if a user query is simple (single intent) or complex (multiple intents).

A query is COMPLEX if it:
- Asks multiple distinct questions
- Requires information from different topics
- Contains "and", "also", "additionally" connecting different questions

A query is SIMPLE if it:
- Asks one focused question
- Can be answered with a single coherent response

Respond ONLY with valid JSON in this exact format:
{"is_complex": true/false, "reasoning": "brief explanation"}`

// Analyzer decides whether a question needs decomposition.
type Analyzer struct {
	llm port.LLM
	log *slog.Logger
}

func NewAnalyzer(llm port.LLM, log *slog.Logger) *Analyzer {
	return &Analyzer{llm: llm, log: log}
}

// analysisPayload makes field presence checkable: a response without an
// is_complex field is a parse failure, not an implicit "simple".
type analysisPayload struct {
	IsComplex *bool  `json:"is_complex"`
	Reasoning string `json:"reasoning"`
}

// Analyze classifies the question's complexity. It never fails: any fault
// while calling or parsing the model degrades to a "simple" verdict.
func (a *Analyzer) Analyze(ctx context.Context, question string) domain.QueryAnalysis {
	response, err := a.llm.Complete(ctx, analyzerSystemPrompt, "Query: "+question)
	if err != nil {
		a.log.Warn("query analysis call failed, defaulting to simple", "error", err)
		return domain.QueryAnalysis{IsComplex: false, Reasoning: fmt.Sprintf("analysis failed: %v", err)}
	}

	var payload analysisPayload
	if err := decodeJSON(response, &payload); err != nil || payload.IsComplex == nil {
		a.log.Warn("query analysis response not parseable, defaulting to simple", "response", truncate(response, 200))
		return domain.QueryAnalysis{IsComplex: false, Reasoning: "failed to parse analysis response"}
	}

	analysis := domain.QueryAnalysis{IsComplex: *payload.IsComplex, Reasoning: payload.Reasoning}
	a.log.Debug("query analyzed", "is_complex", analysis.IsComplex, "reasoning", analysis.Reasoning)
	return analysis
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
