package reads

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/domain"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/manifest"
)

// fastqRecord renders one FASTQ record with a constant quality line.
func fastqRecord(id, seq string) string {
	return "@" + id + "\n" + seq + "\n+\n" + strings.Repeat("I", len(seq)) + "\n"
}

// writeFastq writes records to path, gzipped when the name says so.
func writeFastq(t *testing.T, path string, records ...string) {
	t.Helper()
	content := strings.Join(records, "")

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(f)
		_, err = gz.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, gz.Close())
		return
	}
	_, err = f.WriteString(content)
	require.NoError(t, err)
}

func TestStatPlainFastq(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "s1_R1.fastq")
	writeFastq(t, path,
		fastqRecord("r1", "ACGTACGT"),
		fastqRecord("r2", "ACGT"),
		fastqRecord("r3", "ACGTACGTACGT"),
	)

	stats, err := Stat(domain.SampleRecord{SampleID: "s1", FilePath: path, Direction: domain.Forward})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, 4, stats.MinLen)
	assert.Equal(t, 12, stats.MaxLen)
	assert.Equal(t, int64(24), stats.TotalLen)
	assert.InDelta(t, 8.0, stats.MeanLen(), 0.01)
}

func TestStatGzippedFastq(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "s1_R1.fastq.gz")
	writeFastq(t, path, fastqRecord("r1", "ACGTAC"))

	stats, err := Stat(domain.SampleRecord{SampleID: "s1", FilePath: path, Direction: domain.Forward})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Records)
	assert.Equal(t, 6, stats.MinLen)
	assert.Equal(t, 6, stats.MaxLen)
}

func TestStatMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Stat(domain.SampleRecord{FilePath: filepath.Join(t.TempDir(), "nope.fastq")})
	assert.Error(t, err)
}

func TestScanKeepsRecordOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f1 := filepath.Join(dir, "a_R1.fastq.gz")
	f2 := filepath.Join(dir, "b_R1.fastq.gz")
	writeFastq(t, f1, fastqRecord("r1", "ACGT"))
	writeFastq(t, f2, fastqRecord("r1", "ACGTACGT"), fastqRecord("r2", "AC"))

	m := &manifest.Manifest{
		Dir: dir,
		Records: []domain.SampleRecord{
			{SampleID: "a", FilePath: f1, Direction: domain.Forward},
			{SampleID: "b", FilePath: f2, Direction: domain.Forward},
		},
	}

	stats, err := Scan(context.Background(), m, 4, nil)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "a", stats[0].SampleID)
	assert.Equal(t, 1, stats[0].Records)
	assert.Equal(t, "b", stats[1].SampleID)
	assert.Equal(t, 2, stats[1].Records)
}

func TestScanPropagatesErrors(t *testing.T) {
	t.Parallel()

	m := &manifest.Manifest{
		Records: []domain.SampleRecord{
			{SampleID: "a", FilePath: filepath.Join(t.TempDir(), "missing.fastq"), Direction: domain.Forward},
		},
	}

	_, err := Scan(context.Background(), m, 2, nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	ok := []domain.ReadStats{
		{SampleID: "a", Records: 10},
		{SampleID: "b", Records: 1},
	}
	assert.NoError(t, Validate(ok))

	empty := []domain.ReadStats{
		{SampleID: "a", Records: 10},
		{SampleID: "b", FilePath: "/data/b_R1.fastq.gz", Records: 0},
	}
	err := Validate(empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b (/data/b_R1.fastq.gz)")
}

func TestMinLength(t *testing.T) {
	t.Parallel()

	stats := []domain.ReadStats{
		{SampleID: "a", Direction: domain.Forward, MinLen: 120},
		{SampleID: "b", Direction: domain.Forward, MinLen: 80},
		{SampleID: "a", Direction: domain.Reverse, MinLen: 200},
	}

	assert.Equal(t, 80, MinLength(stats, domain.Forward))
	assert.Equal(t, 200, MinLength(stats, domain.Reverse))

	var none []domain.ReadStats
	assert.Equal(t, 0, MinLength(none, domain.Forward))
}
