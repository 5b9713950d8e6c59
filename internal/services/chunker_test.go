package services

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestChunkText(t *testing.T) {
	tc := NewTextChunker()

	tests := []struct {
		name    string
		text    string
		max     int
		overlap int
		want    []string
	}{
		{"empty", "", 100, 0, nil},
		{"whitespace", "  \n\t ", 100, 0, nil},
		{"single chunk", "One. Two.", 100, 0, []string{"One. Two."}},
		{"packs sentences", "One. Two. Three.", 9, 0, []string{"One. Two.", "Three."}},
		{"splits long sentence", "abcdefghij", 4, 0, []string{"abcd", "efgh", "ij"}},
		{"line breaks end sentences", "Skills\nGo, SQL", 100, 0, []string{"Skills Go, SQL"}},
		{"carries overlap", "One. Two. Three.", 9, 3, []string{"One. Two.", "wo. Three."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tc.ChunkText(tt.text, tt.max, tt.overlap))
		})
	}
}

func TestChunkText_RespectsMaxWithoutOverlap(t *testing.T) {
	text := "Built services in Go. Led a team of four. Cut latency by 30%. " +
		"Designed event pipelines with Kafka. Mentored interns every summer."

	for _, chunk := range NewTextChunker().ChunkText(text, 40, 0) {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 40)
		assert.NotEmpty(t, chunk)
	}
}

func TestChunkText_DefaultSize(t *testing.T) {
	chunks := NewTextChunker().ChunkText("Short text.", 0, 0)
	assert.Equal(t, []string{"Short text."}, chunks)
}

func TestGetLastNChars(t *testing.T) {
	assert.Equal(t, "", getLastNChars("hello", 0))
	assert.Equal(t, "llo", getLastNChars("hello", 3))
	assert.Equal(t, "hello", getLastNChars("hello", 10))
	assert.Equal(t, "ñé", getLastNChars("añé", 2))
}
