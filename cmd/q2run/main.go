package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/app"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/config"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/domain"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/reads"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/utils"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/pkg/version"
)

var (
	cfgFile string
	verbose bool

	// Dependencies for testing
	execLookPath = exec.LookPath
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "q2run [input-dir]",
	Short: "Run the 23S/5S amplicon analysis pipeline",
	Long: `q2run drives a containerized QIIME 2 amplicon analysis end to end:
it scans a directory of FASTQ files into an import manifest, then runs
import, quality summaries, DADA2 denoising, classifier training, taxonomic
classification, and barplot generation inside the toolkit container.

Completed stages are recorded in the workspace and skipped on re-runs as
long as their inputs are unchanged; use --force to redo everything.`,
	Version: version.Short(),
	Args:    cobra.MaximumNArgs(1),
	RunE:    runPipeline,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.q2run/q2run.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", config.DefaultOutputDir, "Workspace directory for all outputs")
	rootCmd.PersistentFlags().String("mode", config.DefaultMode, "Read layout: paired or single")
	rootCmd.PersistentFlags().String("manifest-format", config.DefaultManifestFormat, "Manifest format: csv_legacy or tsv_v2")
	rootCmd.PersistentFlags().String("delimiter", config.DefaultDelimiter, "Sample-id delimiter in filenames")
	rootCmd.PersistentFlags().Bool("strict-sample-ids", false, "Fail on filenames without the sample-id delimiter")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Denoising flags
	rootCmd.PersistentFlags().Int("trunc-len-f", config.DefaultTruncLenF, "Forward read truncation length")
	rootCmd.PersistentFlags().Int("trunc-len-r", config.DefaultTruncLenR, "Reverse read truncation length")
	rootCmd.PersistentFlags().Int("trim-left-f", 0, "Forward read left trim")
	rootCmd.PersistentFlags().Int("trim-left-r", 0, "Reverse read left trim")
	rootCmd.PersistentFlags().IntP("threads", "j", config.DefaultThreads, "Denoising threads")

	// Classifier flags
	rootCmd.PersistentFlags().String("ref-reads", "", "Reference reads artifact for classifier training")
	rootCmd.PersistentFlags().String("ref-taxonomy", "", "Reference taxonomy artifact for classifier training")
	rootCmd.PersistentFlags().String("classifier", "", "Prebuilt classifier artifact (skips training)")
	rootCmd.PersistentFlags().String("primer-f", "", "Forward primer for reference read extraction")
	rootCmd.PersistentFlags().String("primer-r", "", "Reverse primer for reference read extraction")
	rootCmd.PersistentFlags().Float64("confidence", config.DefaultConfidence, "Classification confidence threshold")

	// Container flags
	rootCmd.PersistentFlags().String("runtime", config.DefaultRuntime, "Container runtime: docker or podman")
	rootCmd.PersistentFlags().String("image", config.DefaultImage, "Toolkit container image")

	// Execution flags
	rootCmd.PersistentFlags().Bool("force", false, "Redo all stages, ignoring recorded state")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Log invocations without executing them")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Disable the trained-classifier cache")

	// Bind flags to viper
	_ = viper.BindPFlag("output.directory", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("input.mode", rootCmd.PersistentFlags().Lookup("mode"))
	_ = viper.BindPFlag("manifest.format", rootCmd.PersistentFlags().Lookup("manifest-format"))
	_ = viper.BindPFlag("manifest.delimiter", rootCmd.PersistentFlags().Lookup("delimiter"))
	_ = viper.BindPFlag("manifest.strict_sample_ids", rootCmd.PersistentFlags().Lookup("strict-sample-ids"))
	_ = viper.BindPFlag("denoise.trunc_len_f", rootCmd.PersistentFlags().Lookup("trunc-len-f"))
	_ = viper.BindPFlag("denoise.trunc_len_r", rootCmd.PersistentFlags().Lookup("trunc-len-r"))
	_ = viper.BindPFlag("denoise.trim_left_f", rootCmd.PersistentFlags().Lookup("trim-left-f"))
	_ = viper.BindPFlag("denoise.trim_left_r", rootCmd.PersistentFlags().Lookup("trim-left-r"))
	_ = viper.BindPFlag("denoise.threads", rootCmd.PersistentFlags().Lookup("threads"))
	_ = viper.BindPFlag("classifier.reference_reads", rootCmd.PersistentFlags().Lookup("ref-reads"))
	_ = viper.BindPFlag("classifier.reference_taxonomy", rootCmd.PersistentFlags().Lookup("ref-taxonomy"))
	_ = viper.BindPFlag("classifier.prebuilt", rootCmd.PersistentFlags().Lookup("classifier"))
	_ = viper.BindPFlag("classifier.primer_f", rootCmd.PersistentFlags().Lookup("primer-f"))
	_ = viper.BindPFlag("classifier.primer_r", rootCmd.PersistentFlags().Lookup("primer-r"))
	_ = viper.BindPFlag("classifier.confidence", rootCmd.PersistentFlags().Lookup("confidence"))
	_ = viper.BindPFlag("container.runtime", rootCmd.PersistentFlags().Lookup("runtime"))
	_ = viper.BindPFlag("container.image", rootCmd.PersistentFlags().Lookup("image"))

	// Add subcommands
	rootCmd.AddCommand(manifestCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// loadConfig loads configuration and applies the positional input directory.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if len(args) > 0 {
		cfg.Input.Directory = args[0]
	}
	if noCache, _ := cmd.Root().PersistentFlags().GetBool("no-cache"); noCache {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext(log *utils.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("Shutting down gracefully...")
		cancel()
	}()

	return ctx, cancel
}

// commonOptions reads the shared flags. They are registered on the root's
// persistent set, which is the one place their parsed values always live,
// whether the root or a subcommand ran.
func commonOptions(cmd *cobra.Command) domain.CommonOptions {
	flags := cmd.Root().PersistentFlags()
	force, _ := flags.GetBool("force")
	dryRun, _ := flags.GetBool("dry-run")

	opts := domain.DefaultCommonOptions()
	opts.Verbose = verbose
	opts.DryRun = dryRun
	opts.Force = force
	opts.Resume = !force
	return opts
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Input.Directory == "" {
		return cmd.Help()
	}

	logLevel := cfg.Logging.Level
	if verbose {
		logLevel = "debug"
	}
	utils.SetGlobalLevel(logLevel)

	orchestrator, err := app.NewOrchestrator(app.Options{
		CommonOptions: commonOptions(cmd),
		Config:        cfg,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orchestrator.Close()

	log := utils.NewDefaultLogger()
	ctx, cancel := signalContext(log)
	defer cancel()

	return orchestrator.Run(ctx)
}

var manifestCmd = &cobra.Command{
	Use:   "manifest [input-dir]",
	Short: "Build the import manifest without running the pipeline",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		if cfg.Input.Directory == "" {
			return cmd.Help()
		}
		cfg.Cache.Enabled = false

		orchestrator, err := app.NewOrchestrator(app.Options{
			CommonOptions: commonOptions(cmd),
			Config:        cfg,
		})
		if err != nil {
			return err
		}
		defer orchestrator.Close()

		m, err := orchestrator.BuildManifest()
		if err != nil {
			return err
		}
		if cfg.Input.Mode == "paired" {
			if err := m.ValidatePairs(); err != nil {
				return err
			}
		}

		path, err := orchestrator.WriteManifest(m)
		if err != nil {
			return err
		}
		fmt.Printf("Manifest with %d samples (%d rows) written to %s\n",
			len(m.SampleIDs()), m.Len(), path)
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [input-dir]",
	Short: "Scan the input FASTQ files and report per-sample read statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		if cfg.Input.Directory == "" {
			return cmd.Help()
		}
		cfg.Cache.Enabled = false

		orchestrator, err := app.NewOrchestrator(app.Options{
			CommonOptions: commonOptions(cmd),
			Config:        cfg,
		})
		if err != nil {
			return err
		}
		defer orchestrator.Close()

		m, err := orchestrator.BuildManifest()
		if err != nil {
			return err
		}

		log := utils.NewDefaultLogger()
		ctx, cancel := signalContext(log)
		defer cancel()

		stats, err := reads.Scan(ctx, m, cfg.Denoise.Threads, log)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SAMPLE\tDIRECTION\tREADS\tMIN\tMAX\tMEAN")
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.1f\n",
				s.SampleID, s.Direction, s.Records, s.MinLen, s.MaxLen, s.MeanLen())
		}
		if err := w.Flush(); err != nil {
			return err
		}
		return reads.Validate(stats)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  "Verifies that all system dependencies are properly installed and configured.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking system dependencies...")
		allPassed := true

		// Check 1: Container runtime
		fmt.Print("  Container runtime: ")
		if path := checkRuntime(); path != "" {
			fmt.Printf("OK (%s)\n", path)
		} else {
			fmt.Println("FAILED (install docker or podman)")
			allPassed = false
		}

		// Check 2: Config file
		fmt.Print("  Config file: ")
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("WARN (%v)\n", err)
			cfg = config.Default()
		} else {
			fmt.Println("OK")
		}

		// Check 3: Input directory, when configured
		if cfg.Input.Directory != "" {
			fmt.Print("  Input directory: ")
			dir := utils.ExpandPath(cfg.Input.Directory)
			if utils.DirExists(dir) {
				fmt.Printf("OK (%s)\n", dir)
			} else {
				fmt.Printf("FAILED (%s not found)\n", dir)
				allPassed = false
			}
		}

		// Check 4: Write permissions for the workspace
		fmt.Print("  Write permissions: ")
		if checkWritePermissions() {
			fmt.Println("OK")
		} else {
			fmt.Println("FAILED")
			allPassed = false
		}

		// Check 5: Cache directory
		fmt.Print("  Cache directory: ")
		cacheDir := utils.ExpandPath(cfg.Cache.Directory)
		if utils.DirExists(cacheDir) {
			fmt.Printf("OK (%s)\n", cacheDir)
		} else {
			fmt.Println("WARN (will be created on first use)")
		}

		fmt.Println()
		if allPassed {
			fmt.Println("All critical checks passed!")
		} else {
			fmt.Println("Some checks failed. Please resolve the issues above.")
		}
		return nil
	},
}

// checkRuntime returns the path of the first available container runtime.
func checkRuntime() string {
	for _, rt := range []string{"docker", "podman"} {
		if path, err := execLookPath(rt); err == nil {
			return path
		}
	}
	return ""
}

// checkWritePermissions checks if we can write to the current directory
func checkWritePermissions() bool {
	tmpFile := ".q2run_test_write"
	f, err := os.Create(tmpFile)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(tmpFile)
	return true
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}
