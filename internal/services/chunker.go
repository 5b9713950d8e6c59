package services

import (
	"strings"
	"unicode/utf8"
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText packs whole sentences into chunks of at most maxChunkSize runes.
// A sentence longer than maxChunkSize is cut on rune boundaries. When overlap
// is positive each chunk starts with the tail of the previous one, so chunks
// may then exceed maxChunkSize by up to overlap+1 runes.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 500
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0
	hasContent := false

	flush := func() {
		chunks = append(chunks, current.String())
		current.Reset()
		currentLen = 0
		hasContent = false

		if overlap > 0 {
			tail := getLastNChars(chunks[len(chunks)-1], overlap)
			current.WriteString(tail)
			currentLen = utf8.RuneCountInString(tail)
		}
	}

	for _, sentence := range splitIntoSentences(text) {
		for _, piece := range splitRunes(sentence, maxChunkSize) {
			pieceLen := utf8.RuneCountInString(piece)

			if hasContent && currentLen+1+pieceLen > maxChunkSize {
				flush()
			}

			if currentLen > 0 {
				current.WriteString(" ")
				currentLen++
			}
			current.WriteString(piece)
			currentLen += pieceLen
			hasContent = true
		}
	}

	// Add remaining chunk
	if hasContent {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// splitIntoSentences splits on terminal punctuation and line breaks, keeping
// the punctuation with its sentence.
func splitIntoSentences(text string) []string {
	var result []string
	var b strings.Builder

	emit := func() {
		s := strings.Join(strings.Fields(b.String()), " ")
		if s != "" {
			result = append(result, s)
		}
		b.Reset()
	}

	for _, r := range text {
		switch r {
		case '.', '!', '?':
			b.WriteRune(r)
			emit()
		case '\n':
			emit()
		default:
			b.WriteRune(r)
		}
	}
	emit()

	return result
}

func splitRunes(s string, n int) []string {
	runes := []rune(s)
	if len(runes) <= n {
		return []string{s}
	}

	var parts []string
	for len(runes) > n {
		parts = append(parts, strings.TrimSpace(string(runes[:n])))
		runes = runes[n:]
	}
	if rest := strings.TrimSpace(string(runes)); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

func getLastNChars(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
