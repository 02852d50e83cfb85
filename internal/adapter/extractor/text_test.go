package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrag/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSupports(t *testing.T) {
	e := NewTextExtractor()

	assert.True(t, e.Supports("notes.txt"))
	assert.True(t, e.Supports("README.md"))
	assert.True(t, e.Supports("doc.MARKDOWN"))
	assert.False(t, e.Supports("report.pdf"))
	assert.False(t, e.Supports("image.png"))
}

func TestExtractPlainText(t *testing.T) {
	e := NewTextExtractor()
	path := writeFile(t, "doc.txt", "First paragraph.\n\nSecond paragraph.")

	blocks, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, domain.ContentText, blocks[0].ContentType)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", blocks[0].Content)
	require.NotNil(t, blocks[0].PageNumber)
	assert.Equal(t, 1, *blocks[0].PageNumber)
}

func TestExtractFormFeedPages(t *testing.T) {
	e := NewTextExtractor()
	path := writeFile(t, "doc.txt", "page one\fpage two\fpage three")

	blocks, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	for i, b := range blocks {
		require.NotNil(t, b.PageNumber)
		assert.Equal(t, i+1, *b.PageNumber)
	}
}

func TestExtractMarkdownTable(t *testing.T) {
	e := NewTextExtractor()
	content := "Intro text.\n\n| Name | Value |\n|------|-------|\n| a    | 1     |\n\nOutro text."
	path := writeFile(t, "doc.md", content)

	blocks, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, blocks, 3)

	assert.Equal(t, domain.ContentText, blocks[0].ContentType)
	assert.Equal(t, "Intro text.", blocks[0].Content)
	assert.Equal(t, domain.ContentTable, blocks[1].ContentType)
	assert.Contains(t, blocks[1].Content, "| Name | Value |")
	assert.Equal(t, domain.ContentText, blocks[2].ContentType)
	assert.Equal(t, "Outro text.", blocks[2].Content)
}

func TestExtractLonePipeLineIsText(t *testing.T) {
	e := NewTextExtractor()
	path := writeFile(t, "doc.md", "before\n| just | one |\nafter")

	blocks, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, domain.ContentText, blocks[0].ContentType)
	assert.Contains(t, blocks[0].Content, "| just | one |")
}

func TestExtractUnsupportedFile(t *testing.T) {
	e := NewTextExtractor()

	_, err := e.Extract("report.pdf")
	assert.Error(t, err)
}

func TestExtractEmptyFile(t *testing.T) {
	e := NewTextExtractor()
	path := writeFile(t, "doc.txt", "")

	blocks, err := e.Extract(path)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}
