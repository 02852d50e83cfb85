package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"docrag/internal/domain"
	"docrag/internal/port"
)

// EvalCase is one labeled question in an evaluation set.
type EvalCase struct {
	Question            string   `yaml:"question"`
	GroundTruth         string   `yaml:"ground_truth"`
	GroundTruthContexts []string `yaml:"ground_truth_contexts"`
}

type evalFile struct {
	Cases []EvalCase `yaml:"cases"`
}

// CaseResult is the outcome of evaluating one case.
type CaseResult struct {
	Question       string
	Answer         string
	Hit            bool
	ReciprocalRank float64
	Retrieved      int
}

// EvalReport aggregates retrieval metrics over an evaluation set.
type EvalReport struct {
	Cases   []CaseResult
	HitRate float64
	MRR     float64
}

// EvaluateUseCase measures retrieval quality against labeled cases. A
// case hits when any retrieved chunk contains one of its ground truth
// context snippets; the reciprocal rank is taken from the first such
// chunk.
type EvaluateUseCase struct {
	query     *QueryUseCase
	retriever port.Retriever
	topK      int
	log       *slog.Logger
}

func NewEvaluateUseCase(query *QueryUseCase, retriever port.Retriever, topK int, log *slog.Logger) *EvaluateUseCase {
	if topK <= 0 {
		topK = 5
	}
	return &EvaluateUseCase{query: query, retriever: retriever, topK: topK, log: log}
}

// LoadCases reads an evaluation set from a YAML file.
func LoadCases(path string) ([]EvalCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read eval file: %w", err)
	}

	var file evalFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse eval file: %w", err)
	}
	if len(file.Cases) == 0 {
		return nil, fmt.Errorf("eval file %s contains no cases", path)
	}
	for i, c := range file.Cases {
		if strings.TrimSpace(c.Question) == "" {
			return nil, fmt.Errorf("eval case %d has no question", i)
		}
	}
	return file.Cases, nil
}

// Evaluate runs every case and aggregates hit rate and mean reciprocal
// rank across them.
func (u *EvaluateUseCase) Evaluate(ctx context.Context, cases []EvalCase) (EvalReport, error) {
	report := EvalReport{Cases: make([]CaseResult, 0, len(cases))}

	for _, ec := range cases {
		chunks, err := u.retriever.Retrieve(ctx, ec.Question, u.topK, "")
		if err != nil {
			return EvalReport{}, fmt.Errorf("retrieval for eval case %q: %w", ec.Question, err)
		}

		hit, rr := matchContexts(chunks, ec.GroundTruthContexts)

		result := CaseResult{
			Question:       ec.Question,
			Hit:            hit,
			ReciprocalRank: rr,
			Retrieved:      len(chunks),
		}

		if u.query != nil {
			resp, err := u.query.Answer(ctx, domain.QueryRequest{Question: ec.Question})
			if err != nil {
				return EvalReport{}, fmt.Errorf("answer for eval case %q: %w", ec.Question, err)
			}
			result.Answer = resp.Answer
		}

		report.Cases = append(report.Cases, result)
		u.log.Debug("eval case done", "question", ec.Question, "hit", hit, "rr", rr)
	}

	hits := 0
	rrSum := 0.0
	for _, r := range report.Cases {
		if r.Hit {
			hits++
		}
		rrSum += r.ReciprocalRank
	}
	n := float64(len(report.Cases))
	report.HitRate = float64(hits) / n
	report.MRR = rrSum / n
	return report, nil
}

// matchContexts finds the first retrieved chunk containing any ground
// truth snippet. Matching is case-insensitive substring containment.
func matchContexts(chunks []domain.Chunk, contexts []string) (bool, float64) {
	if len(contexts) == 0 {
		return false, 0
	}
	for rank, c := range chunks {
		content := strings.ToLower(c.Content)
		for _, gt := range contexts {
			gt = strings.ToLower(strings.TrimSpace(gt))
			if gt != "" && strings.Contains(content, gt) {
				return true, 1.0 / float64(rank+1)
			}
		}
	}
	return false, 0
}
