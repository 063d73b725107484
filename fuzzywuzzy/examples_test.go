package fuzzywuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExampleSetInsertionOrder(t *testing.T) {
	set := NewExampleSet()
	set.Add("B", "second", []int{0, 2, 9})
	set.Add("A", "first", []int{0, 1, 9})
	set.Add("B", "third", []int{0, 3, 9})

	texts := make([]string, 0, set.Len())
	for _, c := range set.Candidates(nil) {
		texts = append(texts, c.Text)
	}
	assert.Equal(t, []string{"second", "first", "third"}, texts)
	assert.Equal(t, []string{"B", "A"}, set.Intents())
}

func TestExampleSetLastWriterWinsKeepsPosition(t *testing.T) {
	set := NewExampleSet()
	set.Add("A", "hello there", []int{0, 1, 9})
	set.Add("A", "goodbye", []int{0, 2, 9})
	set.Add("A", "hello there", []int{0, 3, 9})

	require.Equal(t, 2, set.Len())
	candidates := set.Candidates(nil)
	assert.Equal(t, "hello there", candidates[0].Text)
	assert.Equal(t, []int{0, 3, 9}, candidates[0].Path)
	assert.Equal(t, "goodbye", candidates[1].Text)
}

func TestExampleSetSameTextDifferentIntents(t *testing.T) {
	set := NewExampleSet()
	set.Add("A", "this is a test", []int{0, 1, 9})
	set.Add("B", "this is a test", []int{0, 2, 9})

	assert.Equal(t, 2, set.Len())
}

func TestExampleSetFilter(t *testing.T) {
	set := NewExampleSet()
	set.Add("A", "one", []int{0, 1, 9})
	set.Add("B", "two", []int{0, 2, 9})

	filtered := set.Candidates(func(intent string) bool { return intent == "B" })
	require.Len(t, filtered, 1)
	assert.Equal(t, "two", filtered[0].Text)

	assert.Empty(t, set.Candidates(func(string) bool { return false }))
}

func TestExampleSetAddCopiesPath(t *testing.T) {
	set := NewExampleSet()
	path := []int{0, 1, 9}
	set.Add("A", "one", path)
	path[1] = 42

	assert.Equal(t, []int{0, 1, 9}, set.Candidates(nil)[0].Path)
}

func TestExampleSetByIntent(t *testing.T) {
	set := NewExampleSet()
	set.Add("A", "one", []int{0, 1, 9})
	set.Add("A", "two", []int{0, 2, 9})
	set.Add("B", "three", []int{0, 3, 9})

	grouped := set.ByIntent()
	require.Len(t, grouped, 2)
	assert.Equal(t, []int{0, 2, 9}, grouped["A"]["two"])
	assert.Equal(t, []int{0, 3, 9}, grouped["B"]["three"])
}
