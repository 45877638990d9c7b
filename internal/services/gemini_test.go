package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "short", truncateUTF8("short", 10))
	assert.Equal(t, "h", truncateUTF8("héllo", 2))
	assert.Equal(t, "hé", truncateUTF8("héllo", 3))

	long := strings.Repeat("é", maxEmbeddingInput)
	cut := truncateUTF8(long, maxEmbeddingInput-1)
	assert.True(t, utf8.ValidString(cut))
	assert.LessOrEqual(t, len(cut), maxEmbeddingInput-1)
}
