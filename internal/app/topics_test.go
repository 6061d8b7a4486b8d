package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickSubject_DrawsFromPool(t *testing.T) {
	subject, reused := PickSubject(map[string]bool{})

	assert.False(t, reused)
	words, ok := Topics[subject.Category]
	require.True(t, ok)
	assert.Contains(t, words, subject.Word)
}

func TestPickSubject_ExcludesUsedPairs(t *testing.T) {
	// Mark everything used except one pair
	used := make(map[string]bool)
	var free Subject
	first := true
	for category, words := range Topics {
		for _, word := range words {
			s := Subject{Category: category, Word: word}
			if first {
				free = s
				first = false
				continue
			}
			used[s.Key()] = true
		}
	}

	for i := 0; i < 10; i++ {
		subject, reused := PickSubject(used)
		assert.False(t, reused)
		assert.Equal(t, free, subject)
	}
}

func TestPickSubject_ReusesWhenExhausted(t *testing.T) {
	used := make(map[string]bool)
	for category, words := range Topics {
		for _, word := range words {
			used[Subject{Category: category, Word: word}.Key()] = true
		}
	}

	subject, reused := PickSubject(used)
	assert.True(t, reused, "exhausted pool falls back with a warning flag")
	assert.NotEmpty(t, subject.Word)
}
