// Package reads inspects FASTQ read files: record counts and length ranges
// per sample. The orchestrator uses it to fail on empty or unreadable read
// files before handing the manifest to the toolkit, and to warn when
// configured truncation lengths exceed what the reads can support.
package reads

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"
	"github.com/klauspost/compress/gzip"

	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/domain"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/manifest"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/utils"
)

// Stat streams one read file and summarizes its records.
func Stat(rec domain.SampleRecord) (domain.ReadStats, error) {
	stats := domain.ReadStats{
		SampleID:  rec.SampleID,
		FilePath:  rec.FilePath,
		Direction: rec.Direction,
	}

	f, err := os.Open(rec.FilePath)
	if err != nil {
		return stats, fmt.Errorf("open %s: %w", rec.FilePath, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(rec.FilePath, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return stats, fmt.Errorf("gunzip %s: %w", rec.FilePath, err)
		}
		defer gz.Close()
		r = gz
	}

	template := linear.NewQSeq("", nil, alphabet.DNAredundant, alphabet.Sanger)
	sc := seqio.NewScanner(fastq.NewReader(r, template))

	for sc.Next() {
		l := sc.Seq().Len()
		stats.Records++
		stats.TotalLen += int64(l)
		if stats.MinLen == 0 || l < stats.MinLen {
			stats.MinLen = l
		}
		if l > stats.MaxLen {
			stats.MaxLen = l
		}
	}
	if err := sc.Error(); err != nil {
		return stats, fmt.Errorf("parse %s: %w", rec.FilePath, err)
	}
	return stats, nil
}

// Scan stats every file in the manifest, fanning out across workers.
// Results keep manifest record order.
func Scan(ctx context.Context, m *manifest.Manifest, workers int, logger *utils.Logger) ([]domain.ReadStats, error) {
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	log := logger.WithComponent("reads")

	results := make([]domain.ReadStats, len(m.Records))
	indexes := make([]int, len(m.Records))
	for i := range indexes {
		indexes[i] = i
	}

	errs := utils.ParallelForEach(ctx, indexes, workers, func(ctx context.Context, i int) error {
		stats, err := Stat(m.Records[i])
		if err != nil {
			return err
		}
		results[i] = stats
		log.WithSample(stats.SampleID).Debug().
			Str("direction", string(stats.Direction)).
			Int("records", stats.Records).
			Msg("Read file scanned")
		return nil
	})

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if failed := utils.CollectErrors(errs); len(failed) > 0 {
		return nil, fmt.Errorf("%d read file(s) unreadable: %w", len(failed), failed[0])
	}
	return results, nil
}

// Validate fails when any manifest file holds zero records. A header-only
// sample would make the downstream import fail with a much less useful
// message.
func Validate(stats []domain.ReadStats) error {
	var empty []string
	for _, s := range stats {
		if s.Records == 0 {
			empty = append(empty, fmt.Sprintf("%s (%s)", s.SampleID, s.FilePath))
		}
	}
	if len(empty) > 0 {
		return fmt.Errorf("read files contain no records: %s", strings.Join(empty, ", "))
	}
	return nil
}

// MinLength returns the shortest read observed for a direction, or 0 when
// the direction is absent.
func MinLength(stats []domain.ReadStats, d domain.Direction) int {
	min := 0
	for _, s := range stats {
		if s.Direction != d {
			continue
		}
		if min == 0 || s.MinLen < min {
			min = s.MinLen
		}
	}
	return min
}
