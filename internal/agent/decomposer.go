package agent

import (
	"context"
	"log/slog"
	"strings"

	"docrag/internal/port"
)

const decomposerSystemPrompt = `You are a query decomposition expert. Break down complex queries into atomic sub-questions.

Rules for sub-questions:
1. Each sub-question should cover ONE specific intent
2. Each should be answerable independently
3. Together they should cover the full original query
4. Keep them concise and focused
5. Maintain the original query's context

Respond ONLY with valid JSON in this exact format:
{"sub_questions": ["question1", "question2", ...]}`

// Decomposer splits a complex question into independently answerable
// atomic sub-questions.
type Decomposer struct {
	llm port.LLM
	log *slog.Logger
}

func NewDecomposer(llm port.LLM, log *slog.Logger) *Decomposer {
	return &Decomposer{llm: llm, log: log}
}

type decompositionPayload struct {
	SubQuestions []string `json:"sub_questions"`
}

// Decompose returns the ordered sub-questions for a question. Ordering is
// preserved as returned by the model; a single sub-question is valid. Any
// fault degrades to [question], behaving as if decomposition never
// happened. The returned slice is never empty.
func (d *Decomposer) Decompose(ctx context.Context, question string) []string {
	user := "Original query: " + question + "\n\nDecompose this into atomic sub-questions."
	response, err := d.llm.Complete(ctx, decomposerSystemPrompt, user)
	if err != nil {
		d.log.Warn("decomposition call failed, using original question", "error", err)
		return []string{question}
	}

	var payload decompositionPayload
	if err := decodeJSON(response, &payload); err != nil {
		d.log.Warn("decomposition response not parseable, using original question", "response", truncate(response, 200))
		return []string{question}
	}

	subQuestions := make([]string, 0, len(payload.SubQuestions))
	for _, sq := range payload.SubQuestions {
		if sq = strings.TrimSpace(sq); sq != "" {
			subQuestions = append(subQuestions, sq)
		}
	}
	if len(subQuestions) == 0 {
		return []string{question}
	}

	d.log.Debug("query decomposed", "sub_questions", len(subQuestions))
	return subQuestions
}
