package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docrag/internal/domain"
)

// TextExtractor extracts content blocks from plain-text and markdown
// files. Pages are delimited by form feeds; markdown tables are emitted
// as separate table blocks so the chunker can keep them whole. PDF and
// OCR extraction remain external collaborators behind the same port.
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (e *TextExtractor) Supports(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown":
		return true
	}
	return false
}

// Extract returns the file's content blocks in reading order.
func (e *TextExtractor) Extract(path string) ([]domain.ContentBlock, error) {
	if !e.Supports(path) {
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var blocks []domain.ContentBlock
	for i, page := range strings.Split(string(data), "\f") {
		pageNum := i + 1
		blocks = append(blocks, extractPage(page, pageNum)...)
	}
	return blocks, nil
}

// extractPage splits one page into text and table blocks. Consecutive
// pipe-delimited lines form a table block.
func extractPage(page string, pageNum int) []domain.ContentBlock {
	var blocks []domain.ContentBlock
	var text, table []string

	flushText := func() {
		content := strings.TrimSpace(strings.Join(text, "\n"))
		if content != "" {
			n := pageNum
			blocks = append(blocks, domain.ContentBlock{Content: content, ContentType: domain.ContentText, PageNumber: &n})
		}
		text = text[:0]
	}
	flushTable := func() {
		// A lone pipe-delimited line is treated as text, not a table.
		if len(table) < 2 {
			text = append(text, table...)
			table = table[:0]
			return
		}
		content := strings.TrimSpace(strings.Join(table, "\n"))
		n := pageNum
		blocks = append(blocks, domain.ContentBlock{Content: content, ContentType: domain.ContentTable, PageNumber: &n})
		table = table[:0]
	}

	for _, line := range strings.Split(page, "\n") {
		if isTableLine(line) {
			table = append(table, line)
			continue
		}
		if len(table) > 0 {
			if len(table) >= 2 {
				flushText()
			}
			flushTable()
		}
		text = append(text, line)
	}
	if len(table) > 0 {
		if len(table) >= 2 {
			flushText()
		}
		flushTable()
	}
	flushText()

	return blocks
}

func isTableLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "|") && strings.Count(trimmed, "|") >= 2
}
