package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/cache"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/config"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/domain"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/manifest"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/reads"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/state"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/toolkit"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/utils"
)

// Pipeline stage names, in execution order.
const (
	StageManifest         = "manifest"
	StageImport           = "import"
	StageDemuxSummary     = "demux-summary"
	StageDenoise          = "denoise"
	StageTableSummary     = "table-summary"
	StageClassifierTrain  = "classifier-train"
	StageClassify         = "classify"
	StageTaxonomyTabulate = "taxonomy-tabulate"
	StageBarplot          = "barplot"
)

// PipelineStages is the fixed, linear stage sequence.
var PipelineStages = []string{
	StageManifest,
	StageImport,
	StageDemuxSummary,
	StageDenoise,
	StageTableSummary,
	StageClassifierTrain,
	StageClassify,
	StageTaxonomyTabulate,
	StageBarplot,
}

// Orchestrator coordinates the analysis pipeline.
type Orchestrator struct {
	config  *config.Config
	opts    Options
	runner  toolkit.Runner
	cache   cache.Cache
	state   *state.Manager
	layout  Layout
	logger  *utils.Logger
	results []domain.StageResult

	inputDir string
}

// Options contains options for creating an orchestrator.
type Options struct {
	domain.CommonOptions
	Config *config.Config

	// Runner and Cache allow injection for testing; when nil the container
	// runner and the badger cache from config are used.
	Runner toolkit.Runner
	Cache  cache.Cache
}

// NewOrchestrator creates a new orchestrator with the given configuration.
func NewOrchestrator(opts Options) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Input.Directory == "" {
		return nil, domain.NewValidationError("input.directory", "no input directory configured")
	}

	logLevel := cfg.Logging.Level
	if opts.Verbose {
		logLevel = "debug"
	}
	logger := utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  cfg.Logging.Format,
		Verbose: opts.Verbose,
	})

	layout := NewLayout(cfg.Output.Directory)
	inputDir := utils.AbsPath(utils.ExpandPath(cfg.Input.Directory))

	runner := opts.Runner
	if runner == nil {
		runner = toolkit.NewContainerRunner(toolkit.RunnerOptions{
			Runtime:     cfg.Container.Runtime,
			Image:       cfg.Container.Image,
			Mounts:      containerMounts(layout, inputDir, cfg),
			Workdir:     layout.Base,
			LogsDir:     layout.LogsDir(),
			PullTimeout: cfg.Container.PullTimeout,
			Logger:      logger,
		})
	}

	c := opts.Cache
	if c == nil && cfg.Cache.Enabled {
		copts := cache.DefaultOptions()
		copts.Directory = utils.ExpandPath(cfg.Cache.Directory)
		bc, err := cache.NewBadgerCache(copts)
		if err != nil {
			logger.Warn().Err(err).Msg("Classifier cache unavailable, continuing without it")
		} else {
			c = bc
		}
	}

	st := state.NewManager(state.ManagerOptions{
		BaseDir:  layout.Base,
		InputDir: inputDir,
		Mode:     cfg.Input.Mode,
		Logger:   logger,
		Disabled: opts.DryRun,
	})

	return &Orchestrator{
		config:   cfg,
		opts:     opts,
		runner:   runner,
		cache:    c,
		state:    st,
		layout:   layout,
		logger:   logger,
		inputDir: inputDir,
	}, nil
}

// containerMounts bind-mounts every host directory the toolkit needs at its
// identical host path, so absolute paths in the manifest resolve unchanged
// inside the container.
func containerMounts(layout Layout, inputDir string, cfg *config.Config) []toolkit.Mount {
	dirs := []string{layout.Base, inputDir}
	for _, p := range []string{cfg.Classifier.ReferenceReads, cfg.Classifier.ReferenceTaxonomy, cfg.Classifier.Prebuilt} {
		if p != "" {
			dirs = append(dirs, filepath.Dir(utils.AbsPath(utils.ExpandPath(p))))
		}
	}
	seen := make(map[string]bool)
	var mounts []toolkit.Mount
	for _, d := range dirs {
		if seen[d] {
			continue
		}
		seen[d] = true
		mounts = append(mounts, toolkit.Mount{Host: d, Container: d})
	}
	return mounts
}

// Close releases resources held by the orchestrator.
func (o *Orchestrator) Close() error {
	if o.cache != nil {
		return o.cache.Close()
	}
	return nil
}

// Results returns the per-stage outcomes of the last Run.
func (o *Orchestrator) Results() []domain.StageResult {
	return o.results
}

// BuildManifest scans the input directory into a manifest using the
// configured naming convention.
func (o *Orchestrator) BuildManifest() (*manifest.Manifest, error) {
	return manifest.NewBuilder(manifest.Options{
		Dir:             o.inputDir,
		Mode:            manifest.Mode(o.config.Input.Mode),
		Delimiter:       o.config.Manifest.Delimiter,
		StrictSampleIDs: o.config.Manifest.StrictSampleIDs,
	}, o.logger).Build()
}

// WriteManifest builds the manifest and writes it (plus the sample metadata
// file) into the workspace. Used by the `manifest` subcommand and by Run.
func (o *Orchestrator) WriteManifest(m *manifest.Manifest) (string, error) {
	format := manifest.Format(o.config.Manifest.Format)
	path := o.layout.ManifestPath(format)

	if err := manifest.NewWriter(format).WriteFile(m, path); err != nil {
		return "", err
	}
	if err := manifest.WriteMetadata(m, o.layout.MetadataPath()); err != nil {
		return "", err
	}
	return path, nil
}

// Run executes the full pipeline.
func (o *Orchestrator) Run(ctx context.Context) error {
	startTime := time.Now()
	o.results = nil

	cfg := o.config
	paired := cfg.Input.Mode == "paired"
	format := manifest.Format(cfg.Manifest.Format)

	o.logger.Info().
		Str("input", o.inputDir).
		Str("workspace", o.layout.Base).
		Str("image", cfg.Container.Image).
		Str("mode", cfg.Input.Mode).
		Bool("dry_run", o.opts.DryRun).
		Msg("Starting amplicon analysis pipeline")

	if err := o.layout.Ensure(); err != nil {
		return fmt.Errorf("prepare workspace: %w", err)
	}

	if err := o.runner.Check(ctx); err != nil {
		return err
	}
	if !o.opts.DryRun {
		if err := o.runner.EnsureImage(ctx); err != nil {
			return err
		}
	}

	o.loadState()

	bar := utils.NewProgressBar(len(PipelineStages), utils.DescPipeline)
	defer bar.Finish()

	// Stage: manifest. Always rebuilt; it is the fingerprint source for
	// everything downstream.
	manifestStart := time.Now()
	m, err := o.BuildManifest()
	if err != nil {
		return domain.NewStageError(StageManifest, "", err)
	}
	if paired {
		if err := m.ValidatePairs(); err != nil {
			return domain.NewStageError(StageManifest, "", err)
		}
	}
	text, err := manifest.NewWriter(format).Serialize(m)
	if err != nil {
		return domain.NewStageError(StageManifest, "", err)
	}
	manifestFP := cache.Fingerprint(text, string(format))

	manifestPath := o.layout.ManifestPath(format)
	if !o.opts.DryRun {
		if _, err := o.WriteManifest(m); err != nil {
			return domain.NewStageError(StageManifest, "", err)
		}
	}
	o.state.MarkDone(StageManifest, manifestFP, []string{manifestPath, o.layout.MetadataPath()})
	o.results = append(o.results, domain.StageResult{
		Stage:     StageManifest,
		Duration:  time.Since(manifestStart),
		Artifacts: []string{manifestPath, o.layout.MetadataPath()},
	})
	o.logger.Info().
		Int("samples", len(m.SampleIDs())).
		Int("rows", m.Len()).
		Msg("Manifest written")
	bar.Add(1)

	if err := o.inspectReads(ctx, m); err != nil {
		return err
	}

	// Stage: import.
	demux := o.layout.DemuxArtifact()
	var importCmd toolkit.Command
	if paired {
		importCmd = toolkit.ImportPaired(manifestPath, demux, format)
	} else {
		importCmd = toolkit.ImportSingle(manifestPath, demux, format)
	}
	importFP := cache.Fingerprint(manifestFP, cfg.Container.Image)
	if err := o.execStage(ctx, StageImport, importFP, bar, importCmd); err != nil {
		return err
	}

	// Stage: demux quality summary.
	if err := o.execStage(ctx, StageDemuxSummary, cache.Fingerprint(importFP, "demux-summary"), bar,
		toolkit.DemuxSummarize(demux, o.layout.DemuxViz())); err != nil {
		return err
	}

	// Stage: denoise.
	d := cfg.Denoise
	denoiseFP := cache.Fingerprint(importFP,
		strconv.Itoa(d.TruncLenF), strconv.Itoa(d.TruncLenR),
		strconv.Itoa(d.TrimLeftF), strconv.Itoa(d.TrimLeftR))
	table := o.layout.TableArtifact()
	repSeqs := o.layout.RepSeqsArtifact()
	var denoiseCmd toolkit.Command
	if paired {
		denoiseCmd = toolkit.DenoisePaired(demux, d, table, repSeqs, o.layout.DenoiseStatsArtifact())
	} else {
		denoiseCmd = toolkit.DenoiseSingle(demux, d, table, repSeqs, o.layout.DenoiseStatsArtifact())
	}
	if err := o.execStage(ctx, StageDenoise, denoiseFP, bar, denoiseCmd); err != nil {
		return err
	}

	// Stage: feature table summaries.
	if err := o.execStage(ctx, StageTableSummary, cache.Fingerprint(denoiseFP, "table-summary"), bar,
		toolkit.FeatureTableSummarize(table, o.layout.MetadataPath(), o.layout.TableViz()),
		toolkit.TabulateSeqs(repSeqs, o.layout.RepSeqsViz())); err != nil {
		return err
	}

	// Stage: classifier training (or cache/prebuilt resolution).
	classifier, err := o.resolveClassifier(ctx, bar)
	if err != nil {
		return err
	}

	// Stage: classification.
	taxonomy := o.layout.TaxonomyArtifact()
	classifyFP := cache.Fingerprint(denoiseFP, classifier,
		strconv.FormatFloat(cfg.Classifier.Confidence, 'g', -1, 64))
	if err := o.execStage(ctx, StageClassify, classifyFP, bar,
		toolkit.ClassifySklearn(classifier, repSeqs, cfg.Classifier.Confidence, taxonomy)); err != nil {
		return err
	}

	// Stage: taxonomy table.
	if err := o.execStage(ctx, StageTaxonomyTabulate, cache.Fingerprint(classifyFP, "tabulate"), bar,
		toolkit.MetadataTabulate(taxonomy, o.layout.TaxonomyViz())); err != nil {
		return err
	}

	// Stage: barplot.
	if err := o.execStage(ctx, StageBarplot, cache.Fingerprint(classifyFP, "barplot"), bar,
		toolkit.TaxaBarplot(table, taxonomy, o.layout.MetadataPath(), o.layout.BarplotViz())); err != nil {
		return err
	}

	if err := o.state.Save(); err != nil {
		o.logger.Warn().Err(err).Msg("Failed to save state")
	}

	if !o.opts.DryRun {
		report := &RunReport{
			GeneratedAt: time.Now(),
			InputDir:    o.inputDir,
			Workspace:   o.layout.Base,
			Image:       cfg.Container.Image,
			Mode:        cfg.Input.Mode,
			Samples:     m.SampleIDs(),
			Stages:      o.results,
		}
		if err := WriteReport(report, o.layout.ReportPath()); err != nil {
			o.logger.Warn().Err(err).Msg("Failed to write run report")
		}
	}

	o.logger.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Pipeline completed")
	return nil
}

// loadState loads prior run state; --force discards it.
func (o *Orchestrator) loadState() {
	if err := o.state.Load(); err != nil {
		switch err {
		case state.ErrStateNotFound, state.ErrStateCorrupted, state.ErrVersionMismatch:
			o.logger.Debug().Err(err).Msg("No usable run state, starting fresh")
		default:
			o.logger.Warn().Err(err).Msg("Failed to load run state")
		}
	}
	if o.opts.Force {
		o.state.Reset()
	}
}

// inspectReads streams every manifest file, failing on empty files and
// warning when truncation lengths exceed the shortest observed read.
func (o *Orchestrator) inspectReads(ctx context.Context, m *manifest.Manifest) error {
	if o.opts.DryRun {
		return nil
	}

	stats, err := reads.Scan(ctx, m, o.config.Denoise.Threads, o.logger)
	if err != nil {
		return domain.NewStageError(StageManifest, "", err)
	}
	if err := reads.Validate(stats); err != nil {
		return domain.NewStageError(StageManifest, "", err)
	}

	if min := reads.MinLength(stats, domain.Forward); min > 0 && o.config.Denoise.TruncLenF > min {
		o.logger.Warn().
			Int("trunc_len_f", o.config.Denoise.TruncLenF).
			Int("min_read_len", min).
			Msg("Forward truncation length exceeds shortest read; denoising will drop reads")
	}
	if min := reads.MinLength(stats, domain.Reverse); min > 0 && o.config.Denoise.TruncLenR > min {
		o.logger.Warn().
			Int("trunc_len_r", o.config.Denoise.TruncLenR).
			Int("min_read_len", min).
			Msg("Reverse truncation length exceeds shortest read; denoising will drop reads")
	}
	return nil
}

// resolveClassifier returns the classifier artifact to classify with:
// the configured prebuilt one, a cached previously trained one, or a newly
// trained one (recorded in the cache afterwards).
func (o *Orchestrator) resolveClassifier(ctx context.Context, bar progressAdder) (string, error) {
	cls := o.config.Classifier

	if cls.Prebuilt != "" {
		path := utils.AbsPath(utils.ExpandPath(cls.Prebuilt))
		if !utils.FileExists(path) {
			return "", domain.NewValidationError("classifier.prebuilt", "file not found: "+path)
		}
		o.logger.Info().Str("classifier", path).Msg("Using prebuilt classifier")
		o.results = append(o.results, domain.StageResult{Stage: StageClassifierTrain, Skipped: true})
		bar.Add(1)
		return path, nil
	}

	if cls.ReferenceReads == "" || cls.ReferenceTaxonomy == "" {
		return "", domain.NewValidationError("classifier.reference_reads",
			"reference reads and taxonomy are required unless classifier.prebuilt is set")
	}
	refReads := utils.AbsPath(utils.ExpandPath(cls.ReferenceReads))
	refTax := utils.AbsPath(utils.ExpandPath(cls.ReferenceTaxonomy))

	var key string
	if o.cache != nil && !o.opts.DryRun {
		readsDigest, err := cache.FileDigest(refReads)
		if err != nil {
			return "", domain.NewValidationError("classifier.reference_reads", err.Error())
		}
		taxDigest, err := cache.FileDigest(refTax)
		if err != nil {
			return "", domain.NewValidationError("classifier.reference_taxonomy", err.Error())
		}
		key = cache.ClassifierKey(readsDigest, taxDigest, cls.PrimerF, cls.PrimerR)

		if path, ok := cache.GetClassifier(ctx, o.cache, key); ok {
			o.logger.Info().Str("classifier", path).Msg("Using cached classifier")
			o.results = append(o.results, domain.StageResult{Stage: StageClassifierTrain, Skipped: true, CacheHit: true})
			bar.Add(1)
			return path, nil
		}
	}

	// Train. With a primer pair configured, reference reads are first
	// trimmed to the amplified region.
	trainSource := refReads
	var cmds []toolkit.Command
	if cls.PrimerF != "" && cls.PrimerR != "" {
		extracted := o.layout.ExtractedRefArtifact()
		cmds = append(cmds, toolkit.ExtractReads(refReads, cls.PrimerF, cls.PrimerR, extracted))
		trainSource = extracted
	}
	out := o.layout.ClassifierArtifact()
	cmds = append(cmds, toolkit.FitClassifier(trainSource, refTax, out))

	trainFP := cache.Fingerprint(refReads, refTax, cls.PrimerF, cls.PrimerR, o.config.Container.Image)
	if err := o.execStage(ctx, StageClassifierTrain, trainFP, bar, cmds...); err != nil {
		return "", err
	}

	if o.cache != nil && !o.opts.DryRun && key != "" {
		if err := cache.PutClassifier(ctx, o.cache, key, out); err != nil {
			o.logger.Warn().Err(err).Msg("Failed to record classifier in cache")
		}
	}
	return out, nil
}

// progressAdder is the slice of the progress-bar API the orchestrator uses.
type progressAdder interface {
	Add(int) error
}

// execStage runs one stage's invocations unless state says it already
// completed with the same fingerprint and its artifacts still exist.
func (o *Orchestrator) execStage(ctx context.Context, stage, fingerprint string, bar progressAdder, cmds ...toolkit.Command) error {
	defer bar.Add(1)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	var artifacts []string
	for _, c := range cmds {
		artifacts = append(artifacts, c.Outputs...)
	}

	if o.opts.Resume && !o.opts.Force && !o.state.ShouldRun(stage, fingerprint) && allExist(artifacts) {
		o.logger.Info().Str("stage", stage).Msg("Stage up to date, skipping")
		o.results = append(o.results, domain.StageResult{Stage: stage, Skipped: true, Artifacts: artifacts})
		return nil
	}

	if o.opts.DryRun {
		for _, c := range cmds {
			o.logger.Info().
				Str("stage", stage).
				Strs("args", c.Args).
				Msg("Dry run: would invoke toolkit")
		}
		o.results = append(o.results, domain.StageResult{Stage: stage, Skipped: true})
		return nil
	}

	log := o.logger.WithStage(stage)
	start := time.Now()
	log.Info().Msg("Running stage")

	for _, c := range cmds {
		if err := o.runner.Run(ctx, c); err != nil {
			return err
		}
	}

	o.state.MarkDone(stage, fingerprint, artifacts)
	if err := o.state.Save(); err != nil {
		log.Warn().Err(err).Msg("Failed to save state")
	}

	duration := time.Since(start)
	o.results = append(o.results, domain.StageResult{
		Stage:     stage,
		Duration:  duration,
		Artifacts: artifacts,
		LogPath:   o.runner.LogPath(stage),
	})
	log.Info().Dur("duration", duration).Msg("Stage completed")
	return nil
}

// allExist reports whether every artifact path is present.
func allExist(paths []string) bool {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return len(paths) > 0
}
