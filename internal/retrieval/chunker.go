package retrieval

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultChunkSize    = 900
	DefaultChunkOverlap = 150
)

var ErrInvalidChunkParams = errors.New("chunk size must be positive and greater than overlap")

// Chunk is a window of the normalized text. Start and End are rune offsets.
type Chunk struct {
	Index int
	Start int
	End   int
	Text  string
}

// Chunker splits text into overlapping windows that together cover it without gaps
type Chunker struct {
	size    int
	overlap int
}

func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", ErrInvalidChunkParams, size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// NewDefaultChunker uses 900-character windows overlapping by 150
func NewDefaultChunker() *Chunker {
	return &Chunker{size: DefaultChunkSize, overlap: DefaultChunkOverlap}
}

func (c *Chunker) Chunk(text string) []Chunk {
	runes := []rune(strings.Join(strings.Fields(text), " "))
	length := len(runes)
	if length == 0 {
		return nil
	}

	var chunks []Chunk
	for offset := 0; ; {
		end := min(offset+c.size, length)
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Start: offset,
			End:   end,
			Text:  string(runes[offset:end]),
		})
		if end == length {
			break
		}
		offset = end - c.overlap
	}

	return chunks
}
