package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/domain"
)

// touchFiles creates empty files with the given names in dir.
func touchFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
}

func TestBuildPairedDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touchFiles(t, dir,
		"sampleB_S2_L001_R2_001.fastq.gz",
		"sampleA_S1_L001_R1_001.fastq.gz",
		"sampleA_S1_L001_R2_001.fastq.gz",
		"sampleB_S2_L001_R1_001.fastq.gz",
		"notes.txt",
		"undetermined.fastq.gz", // no _R1/_R2 suffix, skipped in paired mode
	)

	m, err := NewBuilder(Options{Dir: dir}, nil).Build()
	require.NoError(t, err)

	require.Equal(t, 4, m.Len())
	assert.Equal(t, []string{"sampleA", "sampleB"}, m.SampleIDs())

	// Forward block first, then reverse, both name-sorted.
	var got [][2]string
	for _, r := range m.Records {
		got = append(got, [2]string{r.SampleID, string(r.Direction)})
	}
	assert.Equal(t, [][2]string{
		{"sampleA", "forward"},
		{"sampleB", "forward"},
		{"sampleA", "reverse"},
		{"sampleB", "reverse"},
	}, got)

	// Paths are absolute and inside the scanned directory.
	for _, r := range m.Records {
		assert.True(t, filepath.IsAbs(r.FilePath))
		assert.Equal(t, m.Dir, filepath.Dir(r.FilePath))
	}

	require.NoError(t, m.ValidatePairs())
}

func TestBuildSingleMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touchFiles(t, dir, "s1_run.fastq.gz", "s2_run.fq", "skip.me")

	m, err := NewBuilder(Options{Dir: dir, Mode: ModeSingle}, nil).Build()
	require.NoError(t, err)

	require.Equal(t, 2, m.Len())
	for _, r := range m.Records {
		assert.Equal(t, domain.Forward, r.Direction)
	}
	assert.Equal(t, []string{"s1", "s2"}, m.SampleIDs())
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		_, err := NewBuilder(Options{Dir: filepath.Join(t.TempDir(), "nope")}, nil).Build()
		assert.ErrorIs(t, err, domain.ErrDirectoryNotFound)
	})

	t.Run("path is a file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		touchFiles(t, dir, "plain")
		_, err := NewBuilder(Options{Dir: filepath.Join(dir, "plain")}, nil).Build()
		assert.ErrorIs(t, err, domain.ErrDirectoryNotFound)
	})

	t.Run("no matching files", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		touchFiles(t, dir, "readme.md", "data.csv")
		_, err := NewBuilder(Options{Dir: dir}, nil).Build()
		assert.ErrorIs(t, err, domain.ErrNoMatchingFiles)
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()
		_, err := NewBuilder(Options{Dir: t.TempDir()}, nil).Build()
		assert.ErrorIs(t, err, domain.ErrNoMatchingFiles)
	})

	t.Run("duplicate sample and direction", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		// Two lanes of the same sample collapse to the same (id, direction).
		touchFiles(t, dir,
			"sampleA_S1_L001_R1_001.fastq.gz",
			"sampleA_S1_L002_R1_001.fastq.gz",
		)
		_, err := NewBuilder(Options{Dir: dir}, nil).Build()
		assert.ErrorIs(t, err, domain.ErrDuplicateSample)
	})
}

func TestBuildSampleIDFallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touchFiles(t, dir, "NODELIM.fastq.gz")

	t.Run("lenient uses basename", func(t *testing.T) {
		m, err := NewBuilder(Options{Dir: dir, Mode: ModeSingle}, nil).Build()
		require.NoError(t, err)
		require.Equal(t, 1, m.Len())
		assert.Equal(t, "NODELIM", m.Records[0].SampleID)
	})

	t.Run("strict fails", func(t *testing.T) {
		_, err := NewBuilder(Options{Dir: dir, Mode: ModeSingle, StrictSampleIDs: true}, nil).Build()
		assert.ErrorIs(t, err, domain.ErrAmbiguousSampleID)
	})
}

func TestBuildCustomDelimiter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touchFiles(t, dir, "s1-lane_R1.fastq.gz", "s1-lane_R2.fastq.gz")

	m, err := NewBuilder(Options{Dir: dir, Delimiter: "-"}, nil).Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, m.SampleIDs())
}

func TestValidatePairs(t *testing.T) {
	t.Parallel()

	t.Run("missing reverse mate", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		touchFiles(t, dir,
			"sampleA_S1_R1.fastq.gz",
			"sampleA_S1_R2.fastq.gz",
			"sampleB_S2_R1.fastq.gz",
		)

		m, err := NewBuilder(Options{Dir: dir}, nil).Build()
		require.NoError(t, err)
		// Build itself succeeds; pairing is enforced separately.
		assert.Equal(t, 3, m.Len())

		err = m.ValidatePairs()
		require.ErrorIs(t, err, domain.ErrUnpairedSample)
		assert.Contains(t, err.Error(), "sampleB (no R2)")
	})

	t.Run("missing forward mate", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		touchFiles(t, dir,
			"sampleA_S1_R2.fastq.gz",
		)

		m, err := NewBuilder(Options{Dir: dir}, nil).Build()
		require.NoError(t, err)

		err = m.ValidatePairs()
		require.ErrorIs(t, err, domain.ErrUnpairedSample)
		assert.Contains(t, err.Error(), "sampleA (no R1)")
	})
}

func TestMatchDirection(t *testing.T) {
	t.Parallel()

	b := NewBuilder(Options{Dir: "."}, nil)

	tests := []struct {
		name    string
		input   string
		want    domain.Direction
		matched bool
	}{
		{name: "plain forward suffix", input: "s1_R1.fastq.gz", want: domain.Forward, matched: true},
		{name: "plain reverse suffix", input: "s1_R2.fastq.gz", want: domain.Reverse, matched: true},
		{name: "lane name with chunk segment", input: "sampleA_S1_L001_R1_001.fastq.gz", want: domain.Forward, matched: true},
		{name: "lane name reverse", input: "sampleA_S1_L001_R2_001.fastq.gz", want: domain.Reverse, matched: true},
		{name: "no direction token", input: "undetermined.fastq.gz", matched: false},
		{name: "token must match exactly", input: "s1_R10.fastq.gz", matched: false},
		{name: "direction-like sample id alone", input: "R1.fastq.gz", matched: false},
		{name: "not a read file", input: "s1_R1.txt", matched: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := b.matchDirection(tt.input)
			assert.Equal(t, tt.matched, ok)
			if tt.matched {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestBuildIlluminaLaneNames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touchFiles(t, dir,
		"sampleA_S1_L001_R1_001.fastq.gz",
		"sampleA_S1_L001_R2_001.fastq.gz",
	)

	m, err := NewBuilder(Options{Dir: dir}, nil).Build()
	require.NoError(t, err)

	require.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"sampleA"}, m.SampleIDs())
	assert.Equal(t, domain.Forward, m.Records[0].Direction)
	assert.Equal(t, domain.Reverse, m.Records[1].Direction)
	require.NoError(t, m.ValidatePairs())
}

func TestBuildLeadingDelimiterName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touchFiles(t, dir, "_x_R1.fastq.gz", "_x_R2.fastq.gz")

	// An empty prefix is never a sample id; the name falls back to the whole
	// extension-stripped basename, like a name with no delimiter at all.
	m, err := NewBuilder(Options{Dir: dir}, nil).Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"_x_R1", "_x_R2"}, m.SampleIDs())

	_, err = NewBuilder(Options{Dir: dir, StrictSampleIDs: true}, nil).Build()
	assert.ErrorIs(t, err, domain.ErrAmbiguousSampleID)
}

func TestTrimFastqExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		matched bool
	}{
		{name: "gzipped fastq", input: "a_R1.fastq.gz", want: "a_R1", matched: true},
		{name: "gzipped fq", input: "a_R1.fq.gz", want: "a_R1", matched: true},
		{name: "plain fastq", input: "a_R1.fastq", want: "a_R1", matched: true},
		{name: "plain fq", input: "a_R1.fq", want: "a_R1", matched: true},
		{name: "not a read file", input: "a_R1.txt", want: "a_R1.txt", matched: false},
		{name: "extension only", input: ".fastq.gz", want: ".fastq.gz", matched: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := trimFastqExt(tt.input)
			assert.Equal(t, tt.matched, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
