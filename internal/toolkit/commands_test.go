package toolkit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/config"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/manifest"
)

func TestImportFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format manifest.Format
		paired bool
		want   string
	}{
		{name: "paired csv", format: manifest.FormatCSVLegacy, paired: true, want: "PairedEndFastqManifestPhred33"},
		{name: "paired tsv", format: manifest.FormatTSVV2, paired: true, want: "PairedEndFastqManifestPhred33V2"},
		{name: "single csv", format: manifest.FormatCSVLegacy, paired: false, want: "SingleEndFastqManifestPhred33"},
		{name: "single tsv", format: manifest.FormatTSVV2, paired: false, want: "SingleEndFastqManifestPhred33V2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, importFormat(tt.format, tt.paired))
		})
	}
}

func TestImportPaired(t *testing.T) {
	t.Parallel()

	cmd := ImportPaired("/ws/manifest.csv", "/ws/artifacts/demux.qza", manifest.FormatCSVLegacy)

	assert.Equal(t, "import", cmd.Stage)
	assert.Equal(t, []string{
		"tools", "import",
		"--type", "SampleData[PairedEndSequencesWithQuality]",
		"--input-path", "/ws/manifest.csv",
		"--input-format", "PairedEndFastqManifestPhred33",
		"--output-path", "/ws/artifacts/demux.qza",
	}, cmd.Args)
	assert.Equal(t, []string{"/ws/artifacts/demux.qza"}, cmd.Outputs)
}

func TestImportSingle(t *testing.T) {
	t.Parallel()

	cmd := ImportSingle("/ws/manifest.tsv", "/ws/demux.qza", manifest.FormatTSVV2)

	assert.Contains(t, cmd.Args, "SampleData[SequencesWithQuality]")
	assert.Contains(t, cmd.Args, "SingleEndFastqManifestPhred33V2")
}

func TestDenoisePaired(t *testing.T) {
	t.Parallel()

	d := config.DenoiseConfig{
		TruncLenF: 260,
		TruncLenR: 220,
		TrimLeftF: 5,
		TrimLeftR: 3,
		Threads:   8,
	}
	cmd := DenoisePaired("/ws/demux.qza", d, "/ws/table.qza", "/ws/rep-seqs.qza", "/ws/stats.qza")

	assert.Equal(t, "denoise", cmd.Stage)
	assert.Equal(t, []string{
		"dada2", "denoise-paired",
		"--i-demultiplexed-seqs", "/ws/demux.qza",
		"--p-trim-left-f", "5",
		"--p-trim-left-r", "3",
		"--p-trunc-len-f", "260",
		"--p-trunc-len-r", "220",
		"--p-n-threads", "8",
		"--o-table", "/ws/table.qza",
		"--o-representative-sequences", "/ws/rep-seqs.qza",
		"--o-denoising-stats", "/ws/stats.qza",
	}, cmd.Args)
	assert.Equal(t, []string{"/ws/table.qza", "/ws/rep-seqs.qza", "/ws/stats.qza"}, cmd.Outputs)
}

func TestDenoiseSingle(t *testing.T) {
	t.Parallel()

	d := config.DenoiseConfig{TruncLenF: 150, Threads: 4}
	cmd := DenoiseSingle("/ws/demux.qza", d, "/ws/table.qza", "/ws/rep-seqs.qza", "/ws/stats.qza")

	assert.Contains(t, cmd.Args, "denoise-single")
	assert.Contains(t, cmd.Args, "--p-trunc-len")
	assert.NotContains(t, cmd.Args, "--p-trunc-len-r")
}

func TestClassifySklearnConfidence(t *testing.T) {
	t.Parallel()

	cmd := ClassifySklearn("/ws/classifier.qza", "/ws/rep-seqs.qza", 0.7, "/ws/taxonomy.qza")

	assert.Equal(t, "classify", cmd.Stage)
	assert.Contains(t, cmd.Args, "0.7")
}

func TestVisualizationCommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cmd     Command
		stage   string
		plugin  string
		outputs []string
	}{
		{
			name:    "demux summarize",
			cmd:     DemuxSummarize("/ws/demux.qza", "/ws/demux.qzv"),
			stage:   "demux-summary",
			plugin:  "demux",
			outputs: []string{"/ws/demux.qzv"},
		},
		{
			name:    "feature table summarize",
			cmd:     FeatureTableSummarize("/ws/table.qza", "/ws/metadata.tsv", "/ws/table.qzv"),
			stage:   "table-summary",
			plugin:  "feature-table",
			outputs: []string{"/ws/table.qzv"},
		},
		{
			name:    "tabulate seqs",
			cmd:     TabulateSeqs("/ws/rep-seqs.qza", "/ws/rep-seqs.qzv"),
			stage:   "table-summary",
			plugin:  "feature-table",
			outputs: []string{"/ws/rep-seqs.qzv"},
		},
		{
			name:    "metadata tabulate",
			cmd:     MetadataTabulate("/ws/taxonomy.qza", "/ws/taxonomy.qzv"),
			stage:   "taxonomy-tabulate",
			plugin:  "metadata",
			outputs: []string{"/ws/taxonomy.qzv"},
		},
		{
			name:    "taxa barplot",
			cmd:     TaxaBarplot("/ws/table.qza", "/ws/taxonomy.qza", "/ws/metadata.tsv", "/ws/barplot.qzv"),
			stage:   "barplot",
			plugin:  "taxa",
			outputs: []string{"/ws/barplot.qzv"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.stage, tt.cmd.Stage)
			assert.Equal(t, tt.plugin, tt.cmd.Args[0])
			assert.Equal(t, tt.outputs, tt.cmd.Outputs)
		})
	}
}

func TestClassifierTrainingCommands(t *testing.T) {
	t.Parallel()

	extract := ExtractReads("/ref/reads.qza", "ACGT", "TGCA", "/ws/extracted.qza")
	assert.Equal(t, "classifier-train", extract.Stage)
	assert.Equal(t, []string{
		"feature-classifier", "extract-reads",
		"--i-sequences", "/ref/reads.qza",
		"--p-f-primer", "ACGT",
		"--p-r-primer", "TGCA",
		"--o-reads", "/ws/extracted.qza",
	}, extract.Args)

	fit := FitClassifier("/ws/extracted.qza", "/ref/taxonomy.qza", "/ws/classifier.qza")
	assert.Equal(t, "classifier-train", fit.Stage)
	assert.Contains(t, fit.Args, "fit-classifier-naive-bayes")
	assert.Equal(t, []string{"/ws/classifier.qza"}, fit.Outputs)
}
