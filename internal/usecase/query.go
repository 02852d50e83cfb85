package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"docrag/internal/agent"
	"docrag/internal/domain"
	"docrag/internal/port"
)

// ErrEmptyQuestion rejects requests with no question text.
var ErrEmptyQuestion = errors.New("question must not be empty")

// QueryUseCase runs the full question answering cycle: complexity
// analysis, optional decomposition, independent retrieval per
// sub-question, aggregation into one bounded context, and synthesis.
type QueryUseCase struct {
	analyzer    *agent.Analyzer
	decomposer  *agent.Decomposer
	retriever   port.MultiQueryRetriever
	aggregator  *agent.Aggregator
	synthesizer *agent.Synthesizer
	topK        int
	log         *slog.Logger
}

func NewQueryUseCase(
	analyzer *agent.Analyzer,
	decomposer *agent.Decomposer,
	retriever port.MultiQueryRetriever,
	aggregator *agent.Aggregator,
	synthesizer *agent.Synthesizer,
	topK int,
	log *slog.Logger,
) *QueryUseCase {
	if topK <= 0 {
		topK = 5
	}
	return &QueryUseCase{
		analyzer:    analyzer,
		decomposer:  decomposer,
		retriever:   retriever,
		aggregator:  aggregator,
		synthesizer: synthesizer,
		topK:        topK,
		log:         log,
	}
}

// Answer executes one query cycle. Analysis, decomposition and synthesis
// faults degrade locally and still produce a response; a retrieval fault
// aborts the cycle with an error, because an answer synthesized from
// incomplete context would silently present partial knowledge as
// complete.
func (u *QueryUseCase) Answer(ctx context.Context, req domain.QueryRequest) (domain.QueryResponse, error) {
	if req.Question == "" {
		return domain.QueryResponse{}, ErrEmptyQuestion
	}

	analysis := u.analyzer.Analyze(ctx, req.Question)

	queries := []string{req.Question}
	var subQuestions []string
	if analysis.IsComplex {
		queries = u.decomposer.Decompose(ctx, req.Question)
		subQuestions = queries
		u.log.Info("question decomposed", "sub_questions", len(queries))
	}

	results, err := u.retriever.RetrieveForQueries(ctx, queries, u.topK, req.DocumentFilter)
	if err != nil {
		return domain.QueryResponse{}, fmt.Errorf("retrieval failed: %w", err)
	}

	aggregated := u.aggregator.Aggregate(results)
	contextText := u.aggregator.FormatContext(aggregated)

	synthesis := u.synthesizer.Synthesize(ctx, req.Question, contextText, aggregated)

	return domain.QueryResponse{
		Question:     req.Question,
		Answer:       synthesis.Answer,
		IsComplex:    analysis.IsComplex,
		SubQuestions: subQuestions,
		Sources:      synthesis.Sources,
		Metadata: domain.QueryMetadata{
			TotalChunksRetrieved: len(aggregated),
			AnalysisReasoning:    analysis.Reasoning,
		},
	}, nil
}
