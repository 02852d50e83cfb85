package agent

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"docrag/internal/domain"
	"docrag/internal/port"
)

const synthesizerSystemPrompt = `You are a helpful assistant that answers questions based ONLY on the provided context.

CRITICAL RULES:
1. Use ONLY information from the provided context
2. If the answer is not in the context, clearly state "The information is not available in the provided documents"
3. Synthesize information from multiple sources when relevant
4. Be concise and accurate
5. Cite sources when possible (e.g., "According to [Source 1]...")
6. Do NOT make up or infer information not present in the context`

// Synthesizer generates a grounded answer from aggregated context.
type Synthesizer struct {
	llm port.LLM
	log *slog.Logger
}

func NewSynthesizer(llm port.LLM, log *slog.Logger) *Synthesizer {
	return &Synthesizer{llm: llm, log: log}
}

// Synthesize produces the answer plus citation metadata. The sources
// field is projected from the input chunks in order, independent of any
// inline citations in the model's free text. A model fault yields a
// degraded but well-formed result, never an error.
func (s *Synthesizer) Synthesize(ctx context.Context, question, contextText string, sources []domain.Chunk) domain.SynthesisResult {
	user := fmt.Sprintf("Context:\n%s\n\nUser Question: %s\n\nAnswer:", contextText, question)

	answer, err := s.llm.Complete(ctx, synthesizerSystemPrompt, user)
	if err != nil {
		s.log.Warn("answer synthesis failed", "error", err)
		return domain.SynthesisResult{
			Answer:      fmt.Sprintf("Error generating answer: %v", err),
			Sources:     []domain.Source{},
			ContextUsed: 0,
		}
	}

	s.log.Debug("answer synthesized", "question", truncate(question, 50), "sources", len(sources))
	return domain.SynthesisResult{
		Answer:      strings.TrimSpace(answer),
		Sources:     formatSources(sources),
		ContextUsed: len(sources),
	}
}

// formatSources projects chunks to citation entries, order-preserving,
// with similarity rounded to 3 decimal places.
func formatSources(chunks []domain.Chunk) []domain.Source {
	sources := make([]domain.Source, 0, len(chunks))
	for _, c := range chunks {
		sources = append(sources, domain.Source{
			DocumentName: c.DocumentName,
			PageNumber:   c.PageNumber,
			ContentType:  c.ContentType,
			Similarity:   math.Round(c.Similarity*1000) / 1000,
		})
	}
	return sources
}
