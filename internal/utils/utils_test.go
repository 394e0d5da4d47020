package utils

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func TestIsValidInput(t *testing.T) {
	testCases := []struct {
		input string
		want  bool
	}{
		{"app", true},
		{"Buenos Aires, Arg", true},
		{"rock'n", true},
		{"", false},
		{"1234", false},
		{"a$b", false},
		{"aaaa", false},
		{"aa", true},
		{"x86", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, IsValidInput(tc.input))
		})
	}
}

func TestCreateRankList(t *testing.T) {
	assert.Equal(t, []uint16{}, CreateRankList(0))
	assert.Equal(t, []uint16{1, 2, 3}, CreateRankList(3))

	ranks := CreateRankList(math.MaxUint16 + 5)
	assert.Equal(t, uint16(math.MaxUint16), ranks[len(ranks)-1])
}

func TestTOMLRoundTrip(t *testing.T) {
	type section struct {
		Limit int    `toml:"limit"`
		Name  string `toml:"name"`
	}
	type doc struct {
		Server section `toml:"server"`
	}

	path := filepath.Join(t.TempDir(), "nested", "conf.toml")
	require.NoError(t, EnsureDir(filepath.Dir(path)))
	require.NoError(t, SaveTOMLFile(doc{Server: section{Limit: 7, Name: "x"}}, path))
	assert.True(t, FileExists(path))

	var got doc
	require.NoError(t, LoadTOMLFile(path, &got))
	assert.Equal(t, 7, got.Server.Limit)

	raw, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	server, ok := ExtractSection(raw, "server")
	require.True(t, ok)

	limit, ok := ExtractInt(server, "limit")
	assert.True(t, ok)
	assert.Equal(t, 7, limit)
	_, ok = ExtractInt(server, "name")
	assert.False(t, ok)
	_, ok = ExtractInt(map[string]any{"n": 7.5}, "n")
	assert.False(t, ok, "floats are not integers")
	name, ok := ExtractString(server, "name")
	assert.True(t, ok)
	assert.Equal(t, "x", name)
	_, ok = ExtractBool(server, "name")
	assert.False(t, ok)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must be cleaned up")
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	result := CheckDirStatus(dir)
	assert.True(t, result.Exists)
	assert.True(t, result.Writable)
	assert.NoError(t, result.Error)
	assert.False(t, FileExists(dir), "directories are not files")
}

func TestGetCataloguePath(t *testing.T) {
	dir := t.TempDir()
	catalogue := filepath.Join(dir, "cities.txt")
	require.NoError(t, os.WriteFile(catalogue, []byte("1\n1 a\n"), 0644))

	pr := &PathResolver{executableDir: dir, configDir: filepath.Join(dir, "cfg")}

	got, err := pr.GetCataloguePath(catalogue)
	require.NoError(t, err)
	assert.Equal(t, catalogue, got)

	got, err = pr.GetCataloguePath("cities.txt")
	require.NoError(t, err)
	assert.Equal(t, catalogue, got)

	_, err = pr.GetCataloguePath("missing.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
