package pkg

import (
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	assert.Equal(t, "grand", Name)
	assert.NotEmpty(t, Description)
	assert.Regexp(t, regexp.MustCompile(`^\d+\.\d+\.\d+`), Version())

	require.NotEmpty(t, Author)

	for i, a := range Author {
		assert.False(t, a.Name == "" && a.Email == "", "Author[%d] is empty", i)
	}
}

func TestPrefixOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/usr/local/bin/grand", "grand"},
		{"/tmp/dice.exe", "dice"},
		{"/tmp/.dice.sh", "dice"},
		{"/tmp/__debug_bin3514", Name},
		{"/tmp/...", Name},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, prefixOf(filepath.FromSlash(tt.path)))
		})
	}
}

func TestUserDir(t *testing.T) {
	dir := userDir(func() (string, error) { return "/base", nil }, ".hidden")
	assert.Equal(t, filepath.Join("/base", Prefix()), dir)

	t.Setenv("HOME", "/home/someone")

	dir = userDir(func() (string, error) { return "", errors.New("unset") }, ".hidden")
	assert.Equal(t, filepath.Join("/home/someone", ".hidden", Prefix()), dir)
}

func TestFiles(t *testing.T) {
	assert.Equal(t, "config.yaml", filepath.Base(ConfigFile()))
	assert.Equal(t, "history", filepath.Base(HistoryFile()))
}
