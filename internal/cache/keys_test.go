package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileDigest(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ref.qza")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	digest, err := FileDigest(path)
	require.NoError(t, err)
	// sha256("hello")
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", digest)
}

func TestFileDigestMissingFile(t *testing.T) {
	t.Parallel()

	_, err := FileDigest(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Fingerprint("a", "b"), Fingerprint("a", "b"), "deterministic")
	assert.NotEqual(t, Fingerprint("a", "b"), Fingerprint("b", "a"), "order matters")
	assert.NotEqual(t, Fingerprint("ab"), Fingerprint("a", "b"), "part boundaries matter")
	assert.Len(t, Fingerprint("x"), 64)
}

func TestClassifierKey(t *testing.T) {
	t.Parallel()

	key := ClassifierKey("d1", "d2", "ACGT", "TGCA")
	assert.True(t, strings.HasPrefix(key, PrefixClassifier+":"))

	assert.Equal(t, key, ClassifierKey("d1", "d2", "ACGT", "TGCA"))
	assert.NotEqual(t, key, ClassifierKey("d1", "d2", "", ""), "primer pair is part of the key")
}
