package toolkit

import (
	"strconv"

	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/config"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/manifest"
)

// Command is a single toolkit invocation: the argv after the `qiime`
// entrypoint, the stage it belongs to, and the artifacts it produces. All
// paths are container paths; the runner is responsible for mounting the
// workspace so they resolve.
type Command struct {
	Stage   string
	Args    []string
	Outputs []string
}

// importFormat maps a manifest format to the toolkit's import format name.
func importFormat(f manifest.Format, paired bool) string {
	switch {
	case paired && f == manifest.FormatTSVV2:
		return "PairedEndFastqManifestPhred33V2"
	case paired:
		return "PairedEndFastqManifestPhred33"
	case f == manifest.FormatTSVV2:
		return "SingleEndFastqManifestPhred33V2"
	default:
		return "SingleEndFastqManifestPhred33"
	}
}

// ImportPaired builds the paired-end manifest import invocation.
func ImportPaired(manifestPath, out string, f manifest.Format) Command {
	return Command{
		Stage: "import",
		Args: []string{
			"tools", "import",
			"--type", "SampleData[PairedEndSequencesWithQuality]",
			"--input-path", manifestPath,
			"--input-format", importFormat(f, true),
			"--output-path", out,
		},
		Outputs: []string{out},
	}
}

// ImportSingle builds the single-end manifest import invocation.
func ImportSingle(manifestPath, out string, f manifest.Format) Command {
	return Command{
		Stage: "import",
		Args: []string{
			"tools", "import",
			"--type", "SampleData[SequencesWithQuality]",
			"--input-path", manifestPath,
			"--input-format", importFormat(f, false),
			"--output-path", out,
		},
		Outputs: []string{out},
	}
}

// DemuxSummarize builds the demultiplexing quality summary invocation.
func DemuxSummarize(demux, out string) Command {
	return Command{
		Stage: "demux-summary",
		Args: []string{
			"demux", "summarize",
			"--i-data", demux,
			"--o-visualization", out,
		},
		Outputs: []string{out},
	}
}

// DenoisePaired builds the DADA2 paired-end denoising invocation.
func DenoisePaired(demux string, d config.DenoiseConfig, table, repSeqs, stats string) Command {
	return Command{
		Stage: "denoise",
		Args: []string{
			"dada2", "denoise-paired",
			"--i-demultiplexed-seqs", demux,
			"--p-trim-left-f", strconv.Itoa(d.TrimLeftF),
			"--p-trim-left-r", strconv.Itoa(d.TrimLeftR),
			"--p-trunc-len-f", strconv.Itoa(d.TruncLenF),
			"--p-trunc-len-r", strconv.Itoa(d.TruncLenR),
			"--p-n-threads", strconv.Itoa(d.Threads),
			"--o-table", table,
			"--o-representative-sequences", repSeqs,
			"--o-denoising-stats", stats,
		},
		Outputs: []string{table, repSeqs, stats},
	}
}

// DenoiseSingle builds the DADA2 single-end denoising invocation.
func DenoiseSingle(demux string, d config.DenoiseConfig, table, repSeqs, stats string) Command {
	return Command{
		Stage: "denoise",
		Args: []string{
			"dada2", "denoise-single",
			"--i-demultiplexed-seqs", demux,
			"--p-trim-left", strconv.Itoa(d.TrimLeftF),
			"--p-trunc-len", strconv.Itoa(d.TruncLenF),
			"--p-n-threads", strconv.Itoa(d.Threads),
			"--o-table", table,
			"--o-representative-sequences", repSeqs,
			"--o-denoising-stats", stats,
		},
		Outputs: []string{table, repSeqs, stats},
	}
}

// FeatureTableSummarize builds the feature-table summary invocation.
func FeatureTableSummarize(table, metadata, out string) Command {
	return Command{
		Stage: "table-summary",
		Args: []string{
			"feature-table", "summarize",
			"--i-table", table,
			"--m-sample-metadata-file", metadata,
			"--o-visualization", out,
		},
		Outputs: []string{out},
	}
}

// TabulateSeqs builds the representative-sequence tabulation invocation.
func TabulateSeqs(repSeqs, out string) Command {
	return Command{
		Stage: "table-summary",
		Args: []string{
			"feature-table", "tabulate-seqs",
			"--i-data", repSeqs,
			"--o-visualization", out,
		},
		Outputs: []string{out},
	}
}

// ExtractReads builds the primer-based reference read extraction invocation,
// run before classifier training when a primer pair is configured.
func ExtractReads(refReads, primerF, primerR, out string) Command {
	return Command{
		Stage: "classifier-train",
		Args: []string{
			"feature-classifier", "extract-reads",
			"--i-sequences", refReads,
			"--p-f-primer", primerF,
			"--p-r-primer", primerR,
			"--o-reads", out,
		},
		Outputs: []string{out},
	}
}

// FitClassifier builds the naive-Bayes classifier training invocation.
func FitClassifier(refReads, refTaxonomy, out string) Command {
	return Command{
		Stage: "classifier-train",
		Args: []string{
			"feature-classifier", "fit-classifier-naive-bayes",
			"--i-reference-reads", refReads,
			"--i-reference-taxonomy", refTaxonomy,
			"--o-classifier", out,
		},
		Outputs: []string{out},
	}
}

// ClassifySklearn builds the classification invocation.
func ClassifySklearn(classifier, repSeqs string, confidence float64, out string) Command {
	return Command{
		Stage: "classify",
		Args: []string{
			"feature-classifier", "classify-sklearn",
			"--i-classifier", classifier,
			"--i-reads", repSeqs,
			"--p-confidence", strconv.FormatFloat(confidence, 'g', -1, 64),
			"--o-classification", out,
		},
		Outputs: []string{out},
	}
}

// MetadataTabulate builds the taxonomy tabulation invocation.
func MetadataTabulate(input, out string) Command {
	return Command{
		Stage: "taxonomy-tabulate",
		Args: []string{
			"metadata", "tabulate",
			"--m-input-file", input,
			"--o-visualization", out,
		},
		Outputs: []string{out},
	}
}

// TaxaBarplot builds the taxonomy barplot invocation.
func TaxaBarplot(table, taxonomy, metadata, out string) Command {
	return Command{
		Stage: "barplot",
		Args: []string{
			"taxa", "barplot",
			"--i-table", table,
			"--i-taxonomy", taxonomy,
			"--m-metadata-file", metadata,
			"--o-visualization", out,
		},
		Outputs: []string{out},
	}
}
