// ABOUTME: Chunker splits message text into fixed-size normalized segments
// ABOUTME: Hard character-count cuts with whitespace collapsing, no sentence awareness
package core

import "strings"

// DefaultChunkSize is the maximum chunk length in characters.
const DefaultChunkSize = 450

// Chunker splits arbitrary message text into consecutive, non-overlapping
// segments of at most size characters. Cuts land on rune boundaries, so a
// multi-byte character is never split; mid-word cuts are expected.
type Chunker struct {
	size int
}

// NewChunker creates a Chunker with the given segment size.
// Non-positive sizes fall back to DefaultChunkSize.
func NewChunker(size int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &Chunker{size: size}
}

// Size returns the configured segment size.
func (c *Chunker) Size() int {
	return c.size
}

// Chunk normalizes text (trim, collapse whitespace runs to single spaces)
// and splits it into segments of at most the configured size.
// Empty or whitespace-only input yields nil; no empty chunks are emitted.
func (c *Chunker) Chunk(text string) []string {
	normalized := NormalizeText(text)
	if normalized == "" {
		return nil
	}

	runes := []rune(normalized)

	var chunks []string
	for start := 0; start < len(runes); start += c.size {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}

// NormalizeText trims the input and collapses all whitespace runs
// (spaces, tabs, newlines) to single spaces.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
