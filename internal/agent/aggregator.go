package agent

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"docrag/internal/domain"
)

// charsPerToken is the fixed packing approximation; packing never
// consults a real tokenizer.
const charsPerToken = 4

// noContextSentinel is rendered when aggregation yields nothing.
const noContextSentinel = "No relevant context found."

const sourceSeparator = "\n\n---\n\n"

// Aggregator merges per-sub-question retrieval results into one bounded
// context: deduplicate by exact content, rank by similarity, pack within
// a character budget.
type Aggregator struct {
	maxContextTokens int
	log              *slog.Logger
}

func NewAggregator(maxContextTokens int, log *slog.Logger) *Aggregator {
	if maxContextTokens <= 0 {
		maxContextTokens = 2048
	}
	return &Aggregator{maxContextTokens: maxContextTokens, log: log}
}

// Aggregate flattens all chunks across sub-questions, deduplicates by
// exact content (first occurrence wins, by submission order over the
// result slice), stable-sorts by similarity descending, and greedily
// packs chunks until one would exceed the character budget. Packing stops
// at the first overflow; later, smaller chunks are never pulled forward
// to fill the gap.
func (a *Aggregator) Aggregate(results []domain.QueryResult) []domain.Chunk {
	seen := make(map[string]struct{})
	var unique []domain.Chunk
	total := 0

	for _, r := range results {
		total += len(r.Chunks)
		for _, c := range r.Chunks {
			if _, ok := seen[c.Content]; ok {
				continue
			}
			seen[c.Content] = struct{}{}
			unique = append(unique, c)
		}
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Similarity > unique[j].Similarity
	})

	maxChars := a.maxContextTokens * charsPerToken
	packed := make([]domain.Chunk, 0, len(unique))
	usedChars := 0
	for _, c := range unique {
		if usedChars+len(c.Content) > maxChars {
			break
		}
		packed = append(packed, c)
		usedChars += len(c.Content)
	}

	a.log.Info("context aggregated",
		"retrieved", total, "unique", len(unique), "packed", len(packed), "chars", usedChars)
	return packed
}

// FormatContext renders packed chunks as numbered source blocks. An empty
// sequence renders the fixed no-context sentinel.
func (a *Aggregator) FormatContext(chunks []domain.Chunk) string {
	if len(chunks) == 0 {
		return noContextSentinel
	}

	parts := make([]string, 0, len(chunks))
	for i, c := range chunks {
		page := "N/A"
		if c.PageNumber != nil {
			page = strconv.Itoa(*c.PageNumber)
		}
		parts = append(parts, fmt.Sprintf("[Source %d] Document: %s, Page: %s, Type: %s\n%s",
			i+1, c.DocumentName, page, c.ContentType, c.Content))
	}

	return strings.Join(parts, sourceSeparator)
}
