package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/fsnotice/internal/model"
)

func TestFuzzySearch(t *testing.T) {
	notices := []model.Notice{
		{ID: "1", Text: "ON AIR"},
		{ID: "2", Text: "Back in five minutes"},
		{ID: "3", Text: "Break"},
	}

	t.Run("empty pattern", func(t *testing.T) {
		assert.Equal(t, notices, FuzzySearch(notices, ""))
	})

	t.Run("subsequence match", func(t *testing.T) {
		result := FuzzySearch(notices, "bkm")
		require.Len(t, result, 1)
		assert.Equal(t, "2", result[0].ID)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, FuzzySearch(notices, "zzz"))
	})
}
