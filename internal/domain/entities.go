package domain

import "time"

// ContentType classifies the origin of a chunk's content within a document.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentTable ContentType = "table"
	ContentImage ContentType = "image"
)

// Chunk is a unit of retrieved document content with its similarity score
// and provenance metadata. Chunks are immutable once returned by the store;
// their identity for deduplication is the exact Content string.
type Chunk struct {
	Content      string      `json:"content"`
	DocumentName string      `json:"document_name"`
	PageNumber   *int        `json:"page_number,omitempty"`
	ContentType  ContentType `json:"content_type"`
	Similarity   float64     `json:"similarity"`
}

// QueryAnalysis is the complexity verdict for an incoming question.
type QueryAnalysis struct {
	IsComplex bool   `json:"is_complex"`
	Reasoning string `json:"reasoning"`
}

// QueryResult pairs one sub-question with its retrieved chunks, in the
// order the store returned them. A slice of QueryResult is the retrieval
// result map; slice order is sub-question submission order, which is what
// makes first-seen-wins deduplication deterministic.
type QueryResult struct {
	Query  string  `json:"query"`
	Chunks []Chunk `json:"chunks"`
}

// Source is the citation projection of a chunk.
type Source struct {
	DocumentName string      `json:"document_name"`
	PageNumber   *int        `json:"page_number"`
	ContentType  ContentType `json:"content_type"`
	Similarity   float64     `json:"similarity"`
}

// SynthesisResult is the output of answer synthesis.
type SynthesisResult struct {
	Answer      string   `json:"answer"`
	Sources     []Source `json:"sources"`
	ContextUsed int      `json:"context_used"`
}

// QueryRequest is one incoming question.
type QueryRequest struct {
	Question       string `json:"question"`
	DocumentFilter string `json:"document_filter,omitempty"`
}

// QueryResponse is the full pipeline response for one question.
// SubQuestions is populated only when decomposition occurred.
type QueryResponse struct {
	Question     string        `json:"question"`
	Answer       string        `json:"answer"`
	IsComplex    bool          `json:"is_complex"`
	SubQuestions []string      `json:"sub_questions,omitempty"`
	Sources      []Source      `json:"sources"`
	Metadata     QueryMetadata `json:"metadata"`
}

// QueryMetadata carries diagnostic information alongside the answer.
type QueryMetadata struct {
	TotalChunksRetrieved int    `json:"total_chunks_retrieved"`
	AnalysisReasoning    string `json:"analysis_reasoning"`
}

// Document describes one ingested document.
type Document struct {
	Name        string    `json:"name"`
	TotalChunks int       `json:"total_chunks"`
	IngestedAt  time.Time `json:"ingested_at"`
}

// ContentBlock is a unit of extracted document content before chunking.
type ContentBlock struct {
	Content     string
	ContentType ContentType
	PageNumber  *int
}

// StoredChunk is an ingestion-side chunk with full metadata, before any
// similarity scoring.
type StoredChunk struct {
	Content      string      `json:"content"`
	DocumentName string      `json:"document_name"`
	PageNumber   *int        `json:"page_number,omitempty"`
	ContentType  ContentType `json:"content_type"`
	ChunkIndex   int         `json:"chunk_index"`
	TotalChunks  int         `json:"total_chunks"`
}

// IngestResult summarizes one document ingestion.
type IngestResult struct {
	DocumentName string `json:"document_name"`
	TotalChunks  int    `json:"total_chunks"`
	Replaced     bool   `json:"replaced"`
}
