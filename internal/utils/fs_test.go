package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "file.txt")
	require.NoError(t, EnsureDir(path))
	assert.True(t, DirExists(filepath.Dir(path)))

	// Idempotent.
	assert.NoError(t, EnsureDir(path))
}

func TestExpandPath(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "tilde slash", input: "~/data", want: filepath.Join(home, "data")},
		{name: "bare tilde", input: "~", want: home},
		{name: "absolute untouched", input: "/data/run1", want: "/data/run1"},
		{name: "relative untouched", input: "run1", want: "run1"},
		{name: "tilde mid-path untouched", input: "/data/~/x", want: "/data/~/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}

func TestFileExistsAndDirExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(dir), "directory is not a file")
	assert.False(t, FileExists(filepath.Join(dir, "nope")))

	assert.True(t, DirExists(dir))
	assert.False(t, DirExists(file))
}

func TestAtomicWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("first"), 0644))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	// Overwrite replaces content in one step.
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0644))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// No temp files survive.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestAtomicWriteFileMissingDir(t *testing.T) {
	t.Parallel()

	err := AtomicWriteFile(filepath.Join(t.TempDir(), "nope", "out.txt"), []byte("x"), 0644)
	assert.Error(t, err)
}

func TestAbsPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/data/run1", AbsPath("/data/run1"))
	assert.True(t, filepath.IsAbs(AbsPath("relative/path")))
}
