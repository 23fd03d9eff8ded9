package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	testCases := []struct {
		input       string
		expected    string
		description string
	}{
		{"Hello", "hello", "Lowercases"},
		{"Or '///!sout23hwa32rd to strike the Entwash?'", "or sout23hwa32rd to strike the entwash", "Drops punctuation"},
		{"tab\there\n", "tabhere", "Drops other whitespace"},
		{"Ça Va", "ça va", "Keeps non ASCII letters"},
		{"!!!", "", "Nothing left"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, Sanitize(tc.input))
		})
	}
}

func TestHasAlnum(t *testing.T) {
	assert.True(t, HasAlnum("  a "))
	assert.True(t, HasAlnum("7"))
	assert.False(t, HasAlnum("   "))
	assert.False(t, HasAlnum(""))
}

func TestSanitizeWords(t *testing.T) {
	assert.Equal(t, []string{"how", "to", "cook"}, SanitizeWords("How\tto  cook!"))
	assert.Equal(t, []string{"a", "b"}, SanitizeWords("a ?? b"))
	assert.Empty(t, SanitizeWords(" !! ?"))
}

func TestCreateRankList(t *testing.T) {
	assert.Equal(t, []uint16{1, 2, 3}, CreateRankList(3))
	assert.Empty(t, CreateRankList(0))
	assert.Empty(t, CreateRankList(-2))
}

func TestExtract(t *testing.T) {
	data := map[string]any{
		"n":   int64(4),
		"f":   2.5,
		"s":   "sum",
		"b":   true,
		"sec": map[string]any{"x": int64(1)},
	}

	n, ok := ExtractInt64(data, "n")
	assert.True(t, ok)
	assert.Equal(t, 4, n)
	_, ok = ExtractInt64(data, "s")
	assert.False(t, ok)

	f, ok := ExtractFloat(data, "f")
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)
	f, ok = ExtractFloat(data, "n")
	assert.True(t, ok)
	assert.Equal(t, 4.0, f)

	s, ok := ExtractString(data, "s")
	assert.True(t, ok)
	assert.Equal(t, "sum", s)

	b, ok := ExtractBool(data, "b")
	assert.True(t, ok)
	assert.True(t, b)

	sec, ok := ExtractSection(data, "sec")
	assert.True(t, ok)
	assert.Equal(t, int64(1), sec["x"])
	_, ok = ExtractSection(data, "n")
	assert.False(t, ok)
}

func TestSaveTOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	type section struct {
		Limit int `toml:"limit"`
	}
	require.NoError(t, SaveTOMLFile(struct {
		Server section `toml:"server"`
	}{section{Limit: 9}}, path))

	parsed, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	server, ok := ExtractSection(parsed, "server")
	require.True(t, ok)
	limit, _ := ExtractInt64(server, "limit")
	assert.Equal(t, 9, limit)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.True(t, WritableDir(filepath.Join(dir, "nested")))
	assert.True(t, FileExists(path))
}
