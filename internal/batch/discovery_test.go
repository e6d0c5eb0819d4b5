package batch

import (
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/polyglot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverFiles_EmptyArgs(t *testing.T) {
	files, err := discoverFiles([]string{}, false, []string{"*.txt"}, nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscoverFiles_SingleFiles(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	txt := testutil.WriteTextFile(t, dir, "a.txt", "hello")
	md := testutil.WriteTextFile(t, dir, "b.md", "hello")
	bin := testutil.WriteTextFile(t, dir, "c.bin", "hello")

	files, err := discoverFiles([]string{txt, md, bin}, false, []string{"*.txt", "*.md"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{txt, md}, files)
}

func TestDiscoverFiles_Directory(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	b := testutil.WriteTextFile(t, dir, "b.txt", "b")
	a := testutil.WriteTextFile(t, dir, "a.txt", "a")
	testutil.WriteTextFile(t, dir, "notes.csv", "c")

	files, err := discoverFiles([]string{dir}, false, []string{"*.txt"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)
}

func TestDiscoverFiles_Recursion(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	top := testutil.WriteTextFile(t, dir, "top.txt", "top")
	sub := filepath.Join(dir, "sub")
	require.NoError(t, testutil.EnsureDir(sub))
	nested := testutil.WriteTextFile(t, sub, "nested.txt", "nested")

	files, err := discoverFiles([]string{dir}, true, []string{"*.txt"}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{top, nested}, files)

	files, err = discoverFiles([]string{dir}, false, []string{"*.txt"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{top}, files)
}

func TestDiscoverFiles_IncludeExcludePatterns(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	keep := testutil.WriteTextFile(t, dir, "keep.txt", "x")
	testutil.WriteTextFile(t, dir, "skip_me.txt", "x")
	other := testutil.WriteTextFile(t, dir, "other.log", "x")

	files, err := discoverFiles([]string{dir}, false, []string{"*.txt"}, []string{"skip_*"})
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, files)

	files, err = discoverFiles([]string{dir}, false, nil, []string{"skip_*"})
	require.NoError(t, err)
	assert.Equal(t, []string{keep, other}, files)
}

func TestDiscoverFiles_DuplicateArgs(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	a := testutil.WriteTextFile(t, dir, "a.txt", "a")

	files, err := discoverFiles([]string{a, a}, false, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{a}, files)
}

func TestDiscoverFiles_DuplicatesAcrossArgs(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	a := testutil.WriteTextFile(t, dir, "a.txt", "a")
	b := testutil.WriteTextFile(t, dir, "b.txt", "b")

	files, err := discoverFiles([]string{a, dir, a, filepath.Join(dir, ".", "b.txt")}, false, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)
}

func TestDiscoverFiles_NonExistent(t *testing.T) {
	_, err := discoverFiles([]string{"/non/existent/path"}, false, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot access")
}

func TestShouldIncludeFile(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		include []string
		exclude []string
		want    bool
	}{
		{"no patterns", "/tmp/a.txt", nil, nil, true},
		{"include match", "/tmp/a.txt", []string{"*.txt"}, nil, true},
		{"include miss", "/tmp/a.md", []string{"*.txt"}, nil, false},
		{"exclude wins", "/tmp/a.txt", []string{"*.txt"}, []string{"a.*"}, false},
		{"matches base name only", "/txt/a.md", []string{"txt"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldIncludeFile(tt.path, tt.include, tt.exclude))
		})
	}
}

func TestMatchesAnyPattern(t *testing.T) {
	assert.False(t, matchesAnyPattern("a.txt", nil))
	assert.True(t, matchesAnyPattern("dir/a.txt", []string{"*.md", "*.txt"}))
	assert.False(t, matchesAnyPattern("a.txt", []string{"[invalid"}))
}
