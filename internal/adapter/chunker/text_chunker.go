package chunker

import (
	"strings"

	"docrag/internal/domain"
	"docrag/internal/port"
)

// splitSeparators is tried in order when a piece of text exceeds the
// chunk size: paragraph, line, sentence, word, then raw characters.
var splitSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// TextChunker splits content blocks into chunks bounded by a token
// budget, with overlap between consecutive chunks. Table blocks are
// never split. Length is measured by the injected token counter.
type TextChunker struct {
	chunkSize    int
	chunkOverlap int
	counter      port.TokenCounter
}

func NewTextChunker(chunkSize, chunkOverlap int, counter port.TokenCounter) *TextChunker {
	if chunkSize <= 0 {
		chunkSize = 512
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 0
	}
	return &TextChunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		counter:      counter,
	}
}

// ChunkBlocks chunks extracted content blocks while preserving their
// metadata. ChunkIndex counts within a block; TotalChunks is the final
// chunk count for the whole document.
func (c *TextChunker) ChunkBlocks(blocks []domain.ContentBlock, documentName string) []domain.StoredChunk {
	var chunks []domain.StoredChunk

	for _, block := range blocks {
		if block.ContentType == domain.ContentTable {
			chunks = append(chunks, domain.StoredChunk{
				Content:      block.Content,
				DocumentName: documentName,
				PageNumber:   block.PageNumber,
				ContentType:  block.ContentType,
				ChunkIndex:   0,
			})
			continue
		}

		for idx, text := range c.splitText(block.Content) {
			chunks = append(chunks, domain.StoredChunk{
				Content:      text,
				DocumentName: documentName,
				PageNumber:   block.PageNumber,
				ContentType:  block.ContentType,
				ChunkIndex:   idx,
			})
		}
	}

	// Document-global chunk index keeps store keys unique across blocks.
	for i := range chunks {
		chunks[i].ChunkIndex = i
		chunks[i].TotalChunks = len(chunks)
	}
	return chunks
}

// splitText splits text into pieces within the chunk budget and merges
// them back into chunks, carrying overlap from the tail of each chunk
// into the next.
func (c *TextChunker) splitText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if c.counter.CountTokens(text) <= c.chunkSize {
		return []string{text}
	}

	pieces := c.split(text, 0)

	var out []string
	var current []string
	currentTokens := 0
	for _, p := range pieces {
		tokens := c.counter.CountTokens(p)
		if currentTokens > 0 && currentTokens+tokens > c.chunkSize {
			chunk := strings.TrimSpace(strings.Join(current, " "))
			if chunk != "" {
				out = append(out, chunk)
			}
			current, currentTokens = c.overlapTail(current)
		}
		current = append(current, p)
		currentTokens += tokens
	}
	if chunk := strings.TrimSpace(strings.Join(current, " ")); chunk != "" {
		out = append(out, chunk)
	}
	return out
}

// split recursively breaks text into pieces no larger than the chunk
// size, preferring coarse separators.
func (c *TextChunker) split(text string, level int) []string {
	if c.counter.CountTokens(text) <= c.chunkSize {
		return []string{text}
	}
	if level >= len(splitSeparators) {
		return []string{text}
	}

	sep := splitSeparators[level]
	if sep == "" {
		return c.splitRunes(text)
	}

	var pieces []string
	for _, part := range strings.Split(text, sep) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pieces = append(pieces, c.split(part, level+1)...)
	}
	return pieces
}

// splitRunes is the last resort for a single oversized token run.
func (c *TextChunker) splitRunes(text string) []string {
	runes := []rune(text)
	size := c.chunkSize * 4 // approximate characters per budget
	if size <= 0 {
		size = len(runes)
	}
	var pieces []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}

// overlapTail returns the trailing pieces of a finished chunk, up to the
// overlap budget, to seed the next chunk.
func (c *TextChunker) overlapTail(pieces []string) ([]string, int) {
	if c.chunkOverlap == 0 {
		return nil, 0
	}
	var tail []string
	tokens := 0
	for i := len(pieces) - 1; i >= 0; i-- {
		t := c.counter.CountTokens(pieces[i])
		if tokens+t > c.chunkOverlap {
			break
		}
		tail = append([]string{pieces[i]}, tail...)
		tokens += t
	}
	return tail, tokens
}
