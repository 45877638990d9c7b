package services

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultChunkRunes   = 1000
	defaultChunkOverlap = 150
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText groups CV lines into chunks of at most maxChunkSize runes. Each
// chunk after the first starts with trailing lines of the previous chunk
// totalling at most overlap runes. Lines longer than a chunk are split on
// word boundaries.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = defaultChunkRunes
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var units []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		units = append(units, splitLongLine(line, maxChunkSize)...)
	}

	var (
		chunks  []string
		current []string
		size    int
		fresh   bool
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(current, "\n"))
		current = tailWithin(current, overlap)
		size = joinedLen(current)
		fresh = false
	}

	for _, unit := range units {
		n := utf8.RuneCountInString(unit)
		if len(current) > 0 && size+1+n > maxChunkSize {
			flush()
			// Overlap must never push a unit past the limit.
			for len(current) > 0 && size+1+n > maxChunkSize {
				current = current[1:]
				size = joinedLen(current)
			}
		}
		if len(current) > 0 {
			size++
		}
		current = append(current, unit)
		size += n
		fresh = true
	}

	if fresh {
		chunks = append(chunks, strings.Join(current, "\n"))
	}

	return chunks
}

func splitLongLine(line string, limit int) []string {
	if utf8.RuneCountInString(line) <= limit {
		return []string{line}
	}

	var (
		parts   []string
		current strings.Builder
	)
	for _, word := range strings.Fields(line) {
		for utf8.RuneCountInString(word) > limit {
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
			runes := []rune(word)
			parts = append(parts, string(runes[:limit]))
			word = string(runes[limit:])
		}
		if word == "" {
			continue
		}

		if current.Len() > 0 && utf8.RuneCountInString(current.String())+1+utf8.RuneCountInString(word) > limit {
			parts = append(parts, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

func tailWithin(lines []string, budget int) []string {
	if budget <= 0 {
		return nil
	}

	size := 0
	start := len(lines)
	for i := len(lines) - 1; i >= 0; i-- {
		n := utf8.RuneCountInString(lines[i])
		if start < len(lines) {
			n++
		}
		if size+n > budget {
			break
		}
		size += n
		start = i
	}

	tail := make([]string, len(lines)-start)
	copy(tail, lines[start:])
	return tail
}

func joinedLen(lines []string) int {
	if len(lines) == 0 {
		return 0
	}
	size := len(lines) - 1
	for _, l := range lines {
		size += utf8.RuneCountInString(l)
	}
	return size
}
