package manifest

import (
	"fmt"

	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/domain"
)

// Format selects the manifest serialization.
type Format string

const (
	// FormatCSVLegacy is the comma-separated format accepted by the
	// toolkit's PairedEndFastqManifestPhred33 importer.
	FormatCSVLegacy Format = "csv_legacy"

	// FormatTSVV2 is the tab-separated variant.
	FormatTSVV2 Format = "tsv_v2"
)

// Delimiter returns the column separator for the format.
func (f Format) Delimiter() (string, error) {
	switch f {
	case FormatCSVLegacy:
		return ",", nil
	case FormatTSVV2:
		return "\t", nil
	default:
		return "", fmt.Errorf("unknown manifest format: %q", f)
	}
}

// Extension returns the conventional file extension for the format.
func (f Format) Extension() string {
	if f == FormatTSVV2 {
		return ".tsv"
	}
	return ".csv"
}

// Mode selects the read-layout naming convention.
type Mode string

const (
	// ModePaired matches *_R1.fastq.gz / *_R2.fastq.gz pairs.
	ModePaired Mode = "paired"

	// ModeSingle matches *.fastq.gz; every file is a forward read.
	ModeSingle Mode = "single"
)

// Options configures a Builder.
type Options struct {
	// Dir is the directory scanned for read files. Must exist.
	Dir string

	// Mode selects paired-end or single-end discovery. Defaults to paired.
	Mode Mode

	// Delimiter separates the sample id from the rest of the filename.
	// Defaults to "_".
	Delimiter string

	// StrictSampleIDs makes a missing delimiter an error instead of a
	// warning with the extension-stripped filename as fallback id.
	StrictSampleIDs bool
}

// Manifest is an ordered set of sample records, unique by
// (sample id, direction).
type Manifest struct {
	Dir     string
	Records []domain.SampleRecord
}

// Len returns the number of data rows the manifest serializes to.
func (m *Manifest) Len() int {
	return len(m.Records)
}

// SampleIDs returns the distinct sample ids in record order.
func (m *Manifest) SampleIDs() []string {
	seen := make(map[string]bool, len(m.Records))
	var ids []string
	for _, r := range m.Records {
		if !seen[r.SampleID] {
			seen[r.SampleID] = true
			ids = append(ids, r.SampleID)
		}
	}
	return ids
}

// ByDirection returns the records with the given direction, in order.
func (m *Manifest) ByDirection(d domain.Direction) []domain.SampleRecord {
	var out []domain.SampleRecord
	for _, r := range m.Records {
		if r.Direction == d {
			out = append(out, r)
		}
	}
	return out
}

// Paths returns every file path in the manifest, in record order.
func (m *Manifest) Paths() []string {
	paths := make([]string, 0, len(m.Records))
	for _, r := range m.Records {
		paths = append(paths, r.FilePath)
	}
	return paths
}
