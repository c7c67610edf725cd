package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/domain"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/utils"
)

// fastqExtensions lists the recognized read-file extensions, longest first.
var fastqExtensions = []string{".fastq.gz", ".fq.gz", ".fastq", ".fq"}

// Builder scans a directory and produces a Manifest.
type Builder struct {
	opts   Options
	logger *utils.Logger
}

// NewBuilder creates a Builder with defaults applied.
func NewBuilder(opts Options, logger *utils.Logger) *Builder {
	if opts.Mode == "" {
		opts.Mode = ModePaired
	}
	if opts.Delimiter == "" {
		opts.Delimiter = "_"
	}
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	return &Builder{
		opts:   opts,
		logger: logger.WithComponent("manifest"),
	}
}

// Build lists the directory and derives one record per matching file.
// Files that do not match the naming convention are skipped, not errors.
// Records are ordered forward block first, then reverse block; within each
// block the name-sorted listing order is kept.
func (b *Builder) Build() (*Manifest, error) {
	info, err := os.Stat(b.opts.Dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", domain.ErrDirectoryNotFound, b.opts.Dir)
	}

	entries, err := os.ReadDir(b.opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDirectoryNotFound, b.opts.Dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	// ReadDir already sorts, but row order is part of the manifest contract,
	// so do not depend on it.
	sort.Strings(names)

	absDir := utils.AbsPath(b.opts.Dir)

	var forward, reverse []domain.SampleRecord
	seen := make(map[string]string) // (sample-id, direction) -> file path

	for _, name := range names {
		direction, ok := b.matchDirection(name)
		if !ok {
			b.logger.Debug().Str("file", name).Msg("Skipping file outside naming convention")
			continue
		}

		id, err := b.sampleID(name)
		if err != nil {
			return nil, err
		}

		rec := domain.SampleRecord{
			SampleID:  id,
			FilePath:  filepath.Join(absDir, name),
			Direction: direction,
		}

		key := id + "\x00" + string(direction)
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %s and %s both map to sample %q direction %s",
				domain.ErrDuplicateSample, prev, name, id, direction)
		}
		seen[key] = name

		if direction == domain.Forward {
			forward = append(forward, rec)
		} else {
			reverse = append(reverse, rec)
		}
	}

	if len(forward)+len(reverse) == 0 {
		return nil, fmt.Errorf("%w in %s (mode %s)", domain.ErrNoMatchingFiles, absDir, b.opts.Mode)
	}

	b.logger.Debug().
		Int("forward", len(forward)).
		Int("reverse", len(reverse)).
		Str("dir", absDir).
		Msg("Manifest built")

	return &Manifest{
		Dir:     absDir,
		Records: append(forward, reverse...),
	}, nil
}

// matchDirection classifies a filename, returning false for files outside
// the naming convention.
func (b *Builder) matchDirection(name string) (domain.Direction, bool) {
	base, ok := trimFastqExt(name)
	if !ok {
		return "", false
	}
	if b.opts.Mode == ModeSingle {
		return domain.Forward, true
	}
	// The direction token either ends the name (s1_R1) or sits before
	// trailing chunks, as in the Illumina convention's chunk segment
	// (sampleA_S1_L001_R1_001). Scan tokens right to left; the leading token
	// is the sample id and never a direction.
	tokens := strings.Split(base, "_")
	for i := len(tokens) - 1; i > 0; i-- {
		switch tokens[i] {
		case "R1":
			return domain.Forward, true
		case "R2":
			return domain.Reverse, true
		}
	}
	return "", false
}

// sampleID derives the sample id: the segment before the first delimiter.
// A filename with no delimiter falls back to the whole extension-stripped
// name with a warning, or fails in strict mode.
func (b *Builder) sampleID(name string) (string, error) {
	base, _ := trimFastqExt(name)

	// idx == 0 means the name starts with the delimiter: the prefix before it
	// is empty and can never be a sample id, so such a name takes the same
	// fallback (or strict failure) as one with no delimiter at all.
	idx := strings.Index(base, b.opts.Delimiter)
	if idx > 0 {
		return base[:idx], nil
	}

	if b.opts.StrictSampleIDs {
		return "", fmt.Errorf("%w: %q contains no %q delimiter",
			domain.ErrAmbiguousSampleID, name, b.opts.Delimiter)
	}

	b.logger.Warn().
		Str("file", name).
		Str("delimiter", b.opts.Delimiter).
		Str("sample_id", base).
		Msg("Filename has no delimiter, using full basename as sample id")
	return base, nil
}

// trimFastqExt strips a recognized read-file extension, reporting whether
// the name carried one.
func trimFastqExt(name string) (string, bool) {
	for _, ext := range fastqExtensions {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return strings.TrimSuffix(name, ext), true
		}
	}
	return name, false
}

// ValidatePairs checks that every sample has both mates. It is a separate
// step from Build so that a manifest can still be produced and inspected for
// a directory with stray mates; the import stage refuses to proceed on it.
func (m *Manifest) ValidatePairs() error {
	forward := make(map[string]bool)
	reverse := make(map[string]bool)
	for _, r := range m.Records {
		if r.Direction == domain.Forward {
			forward[r.SampleID] = true
		} else {
			reverse[r.SampleID] = true
		}
	}

	var missing []string
	for id := range forward {
		if !reverse[id] {
			missing = append(missing, id+" (no R2)")
		}
	}
	for id := range reverse {
		if !forward[id] {
			missing = append(missing, id+" (no R1)")
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s", domain.ErrUnpairedSample, strings.Join(missing, ", "))
	}
	return nil
}
