package repl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/grand/log"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "seed", 4, "seed", 0, 4},
		{"second word", "count 12", 8, "12", 6, 8},
		{"mid word", "tokens", 3, "tokens", 0, 6},
		{"at start", "tree", 0, "tree", 0, 4},
		{"on space", "count ", 6, "", 6, 6},
		{"cursor past end", "quit", 10, "quit", 0, 4},
		{"negative cursor", "help", -1, "help", 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestComputeMatchesCtrl(t *testing.T) {
	m := newModel(context.Background(), NewHistory(""), log.Logger{})
	m, _ = m.switchToMode(modeCtrl)

	m.input.SetValue("tk")
	m.input.SetCursor(2)

	matches, _, start, end := m.computeMatches()
	require.NotEmpty(t, matches)
	assert.Equal(t, "tokens", matches[0].Str)
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, end)

	// Arguments are not completed.
	m.input.SetValue("count q")
	m.input.SetCursor(7)

	matches, _, _, _ = m.computeMatches()
	assert.Empty(t, matches)
}

func TestComputeMatchesHistory(t *testing.T) {
	h := NewHistory("")

	for _, line := range []string{"0..100|*5", "[1, 2, 3]", "0..10", "0..100"} {
		_, err := h.Write(line)
		require.NoError(t, err)
	}

	m := newModel(context.Background(), h, log.Logger{})
	m.input.SetValue("0..100")

	matches, candidates, start, end := m.computeMatches()

	// The input itself is never offered.
	assert.NotContains(t, candidates, "0..100")
	require.Len(t, matches, 1)
	assert.Equal(t, "0..100|*5", matches[0].Str)
	assert.Equal(t, 0, start)
	assert.Equal(t, len("0..100"), end)

	// Tab completes the only candidate.
	m.matches, m.wordStart, m.wordEnd = matches, start, end
	m = m.cycle(1)
	assert.Equal(t, "0..100|*5", m.input.Value())
	assert.False(t, m.tabActive)
}

func TestCycleMultiple(t *testing.T) {
	h := NewHistory("")

	for _, line := range []string{"1..5", "1..9", "1..7"} {
		_, err := h.Write(line)
		require.NoError(t, err)
	}

	m := newModel(context.Background(), h, log.Logger{})
	m.input.SetValue("1..")
	refreshMatches(&m, false)
	require.Len(t, m.matches, 3)

	m = m.cycle(1)
	assert.True(t, m.tabActive)
	first := m.input.Value()

	m = m.cycle(1)
	assert.NotEqual(t, first, m.input.Value())

	m = m.cycle(-1)
	assert.Equal(t, first, m.input.Value())
}
