package repl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "history")

	h := NewHistory(path)
	require.NoError(t, h.Load())
	assert.Equal(t, 0, h.Len())

	for _, e := range []HistoryEntry{
		{"0..10", modeEval},
		{"count 5", modeCtrl},
		{"[1, 2, 3]", modeEval},
		{"[1, 2, 3]", modeEval}, // repeated last entry is skipped
		{"  ", modeEval},        // blank entries are skipped
	} {
		_, err := h.WriteWithMode(e.Line, e.Mode)
		require.NoError(t, err)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "E:0..10\nC:count 5\nE:[1, 2, 3]\n", string(data))

	// Re-entering an older line moves it to the end and rewrites the file.
	_, err = h.Write("0..10")
	require.NoError(t, err)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "C:count 5\nE:[1, 2, 3]\nE:0..10\n", string(data))

	loaded := NewHistory(path)
	require.NoError(t, loaded.Load())
	require.Equal(t, 3, loaded.Len())

	first, err := loaded.GetEntry(0)
	require.NoError(t, err)
	assert.Equal(t, HistoryEntry{"count 5", modeCtrl}, first)

	_, err = loaded.GetEntry(3)
	assert.ErrorIs(t, err, ErrHistoryIndex)

	assert.Equal(t, []string{"0..10", "[1, 2, 3]"}, loaded.Lines(modeEval))
	assert.Equal(t, []string{"count 5"}, loaded.Lines(modeCtrl))
}

func TestHistoryLegacyLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	require.NoError(t, os.WriteFile(path, []byte("1..2\n\nC:quit\n"), 0o600))

	h := NewHistory(path)
	require.NoError(t, h.Load())

	assert.Equal(t, []string{"1..2"}, h.Lines(modeEval))
	assert.Equal(t, []string{"quit"}, h.Lines(modeCtrl))
}

func TestHistoryInMemory(t *testing.T) {
	h := NewHistory("")
	require.NoError(t, h.Load())

	n, err := h.Write("0..1")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 1, h.Len())
}
