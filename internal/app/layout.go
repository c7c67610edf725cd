package app

import (
	"os"
	"path/filepath"

	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/manifest"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/utils"
)

// Layout resolves every path the pipeline writes inside the workspace.
// Artifacts (.qza) and visualizations (.qzv) are kept in separate
// subdirectories, mirroring how the original analysis organized its outputs.
type Layout struct {
	Base string
}

// NewLayout creates a Layout rooted at the workspace directory.
func NewLayout(base string) Layout {
	return Layout{Base: utils.AbsPath(utils.ExpandPath(base))}
}

func (l Layout) ArtifactsDir() string      { return filepath.Join(l.Base, "artifacts") }
func (l Layout) VisualizationsDir() string { return filepath.Join(l.Base, "visualizations") }
func (l Layout) LogsDir() string           { return filepath.Join(l.Base, "logs") }

func (l Layout) ManifestPath(f manifest.Format) string {
	return filepath.Join(l.Base, "manifest"+f.Extension())
}
func (l Layout) MetadataPath() string { return filepath.Join(l.Base, "metadata.tsv") }
func (l Layout) ReportPath() string   { return filepath.Join(l.Base, "run-report.yaml") }

func (l Layout) DemuxArtifact() string  { return filepath.Join(l.ArtifactsDir(), "demux.qza") }
func (l Layout) TableArtifact() string  { return filepath.Join(l.ArtifactsDir(), "table.qza") }
func (l Layout) RepSeqsArtifact() string {
	return filepath.Join(l.ArtifactsDir(), "rep-seqs.qza")
}
func (l Layout) DenoiseStatsArtifact() string {
	return filepath.Join(l.ArtifactsDir(), "denoising-stats.qza")
}
func (l Layout) ExtractedRefArtifact() string {
	return filepath.Join(l.ArtifactsDir(), "ref-extracted.qza")
}
func (l Layout) ClassifierArtifact() string {
	return filepath.Join(l.ArtifactsDir(), "classifier.qza")
}
func (l Layout) TaxonomyArtifact() string {
	return filepath.Join(l.ArtifactsDir(), "taxonomy.qza")
}

func (l Layout) DemuxViz() string {
	return filepath.Join(l.VisualizationsDir(), "demux.qzv")
}
func (l Layout) TableViz() string {
	return filepath.Join(l.VisualizationsDir(), "table.qzv")
}
func (l Layout) RepSeqsViz() string {
	return filepath.Join(l.VisualizationsDir(), "rep-seqs.qzv")
}
func (l Layout) TaxonomyViz() string {
	return filepath.Join(l.VisualizationsDir(), "taxonomy.qzv")
}
func (l Layout) BarplotViz() string {
	return filepath.Join(l.VisualizationsDir(), "taxa-barplot.qzv")
}

// Ensure creates the workspace directory tree.
func (l Layout) Ensure() error {
	for _, dir := range []string{l.Base, l.ArtifactsDir(), l.VisualizationsDir(), l.LogsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
