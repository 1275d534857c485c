package service

import (
	"fmt"
)

// Chunker splits raw text into fixed-size segments where consecutive chunks
// share exactly overlapSize characters. Boundaries are deterministic for the
// same text and parameters, so re-indexing a document is idempotent.
type Chunker struct {
	chunkSize   int
	overlapSize int
}

func NewChunker(chunkSize, overlapSize int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlapSize < 0 || overlapSize >= chunkSize {
		return nil, fmt.Errorf("overlap must be in [0, chunk size), got %d", overlapSize)
	}
	return &Chunker{
		chunkSize:   chunkSize,
		overlapSize: overlapSize,
	}, nil
}

// Split returns the chunks of text in order. Empty text yields no chunks,
// not an error; callers decide whether an empty document is a failure.
// Sizes count runes so multi-byte text never splits mid-character.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= c.chunkSize {
		return []string{text}
	}

	step := c.chunkSize - c.overlapSize
	var chunks []string
	for start := 0; ; start += step {
		end := start + c.chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
