package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short text", 100, 20)
	assert.Equal(t, []string{"short text"}, chunks)
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10) // 100 chars
	chunks := SplitText(text, 40, 10)

	assert.Greater(t, len(chunks), 1)
	for i := 0; i < len(chunks)-1; i++ {
		assert.Len(t, chunks[i], 40)
		// tail of one chunk reappears at the head of the next
		assert.Equal(t, chunks[i][30:], chunks[i+1][:10])
	}

	// Reassembling without the overlapped heads yields the original.
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, c := range chunks[1:] {
		rebuilt.WriteString(c[10:])
	}
	assert.Equal(t, text, rebuilt.String())
}

func TestSplitTextOverlapAtLeastChunkSize(t *testing.T) {
	text := strings.Repeat("x", 50)
	chunks := SplitText(text, 20, 20)

	// Degenerate overlap falls back to non-overlapping chunks.
	assert.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 20)
	assert.Len(t, chunks[2], 10)
}
