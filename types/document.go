package types

const (
	DocumentKindPDF  = "pdf"
	DocumentKindNews = "news"
)

// Document is a named source (file path or URL) registered after ingestion.
// It is immutable once chunked and indexed.
type Document struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Source     string `json:"source"`
	Kind       string `json:"kind"`
	ChunkCount int    `json:"chunk_count"`
	CreatedAt  int64  `json:"created_at"`
}

// RetrievedChunk is one ranked retrieval result with its provenance.
type RetrievedChunk struct {
	Content    string  `json:"content"`
	DocumentID string  `json:"document_id"`
	Source     string  `json:"source"`
	Score      float64 `json:"score"`
}
