package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// PrefixClassifier namespaces cache keys for trained classifiers, the one
// artifact class the cache stores.
const PrefixClassifier = "classifier"

// FileDigest returns the hex SHA256 of a file's contents.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Fingerprint hashes an ordered list of parts into one hex digest. Used both
// for cache keys and for the state manager's stage fingerprints.
func Fingerprint(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(h[:])
}

// ClassifierKey derives the cache key for a trained classifier from the
// digests of its training inputs and the primer pair it was trained for.
func ClassifierKey(refReadsDigest, refTaxonomyDigest, primerF, primerR string) string {
	return PrefixClassifier + ":" + Fingerprint(refReadsDigest, refTaxonomyDigest, primerF, primerR)
}
