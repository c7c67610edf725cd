package toolkit

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/domain"
	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/utils"
)

// Runner executes toolkit invocations.
type Runner interface {
	// Check verifies the execution environment is usable.
	Check(ctx context.Context) error

	// EnsureImage makes the toolkit image available locally.
	EnsureImage(ctx context.Context) error

	// Run executes one invocation, blocking until it finishes.
	Run(ctx context.Context, cmd Command) error

	// LogPath returns the host path of the captured output for a stage.
	LogPath(stage string) string
}

// Mount is a host-to-container bind mount.
type Mount struct {
	Host      string
	Container string
}

// RunnerOptions configures a ContainerRunner.
type RunnerOptions struct {
	Runtime     string // docker or podman
	Image       string
	Mounts      []Mount
	Workdir     string // container working directory
	LogsDir     string // host directory for per-stage toolkit logs
	PullTimeout time.Duration
	Logger      *utils.Logger
}

// ContainerRunner runs each invocation inside the toolkit container,
// teeing tool stdout to a per-stage log file and keeping stderr for error
// reporting.
type ContainerRunner struct {
	runtime     string
	image       string
	mounts      []Mount
	workdir     string
	logsDir     string
	pullTimeout time.Duration
	logger      *utils.Logger

	// Dependencies for testing
	lookPath func(string) (string, error)
}

var _ Runner = (*ContainerRunner)(nil)

// NewContainerRunner creates a ContainerRunner.
func NewContainerRunner(opts RunnerOptions) *ContainerRunner {
	if opts.Runtime == "" {
		opts.Runtime = "docker"
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewDefaultLogger()
	}
	if opts.PullTimeout <= 0 {
		opts.PullTimeout = 30 * time.Minute
	}
	return &ContainerRunner{
		runtime:     opts.Runtime,
		image:       opts.Image,
		mounts:      opts.Mounts,
		workdir:     opts.Workdir,
		logsDir:     opts.LogsDir,
		pullTimeout: opts.PullTimeout,
		logger:      opts.Logger.WithComponent("toolkit"),
		lookPath:    exec.LookPath,
	}
}

// Check verifies the container runtime binary is on PATH.
func (r *ContainerRunner) Check(ctx context.Context) error {
	if _, err := r.lookPath(r.runtime); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrRuntimeNotFound, r.runtime)
	}
	return nil
}

// LogPath returns the host path of the log file for a stage.
func (r *ContainerRunner) LogPath(stage string) string {
	return filepath.Join(r.logsDir, stage+".log")
}

// argv assembles the full host command line for one invocation.
func (r *ContainerRunner) argv(cmd Command) []string {
	args := []string{"run", "--rm"}
	for _, m := range r.mounts {
		args = append(args, "-v", m.Host+":"+m.Container)
	}
	if r.workdir != "" {
		args = append(args, "-w", r.workdir)
	}
	args = append(args, r.image, "qiime")
	args = append(args, cmd.Args...)
	return args
}

// Run executes one invocation. Tool stdout goes to the stage log file;
// stderr is captured and included in the returned StageError on failure.
// Stage execution is never retried (directory contents do not change
// between attempts).
func (r *ContainerRunner) Run(ctx context.Context, cmd Command) error {
	args := r.argv(cmd)
	logPath := r.LogPath(cmd.Stage)

	r.logger.Debug().
		Str("stage", cmd.Stage).
		Str("cmd", r.runtime+" "+strings.Join(args, " ")).
		Msg("Invoking toolkit")

	if err := os.MkdirAll(r.logsDir, 0755); err != nil {
		return domain.NewStageError(cmd.Stage, "", err)
	}
	logFile, err := os.Create(logPath)
	if err != nil {
		return domain.NewStageError(cmd.Stage, "", err)
	}
	defer logFile.Close()

	execCmd := exec.CommandContext(ctx, r.runtime, args...)
	stderr := new(bytes.Buffer)
	execCmd.Stdout = logFile
	execCmd.Stderr = stderr

	if err := execCmd.Run(); err != nil {
		if ctx.Err() != nil {
			return domain.NewStageError(cmd.Stage, logPath, ctx.Err())
		}
		// Keep the tail of stderr; full output is in the log file.
		if _, werr := logFile.Write(stderr.Bytes()); werr != nil {
			r.logger.Warn().Err(werr).Msg("Failed to append stderr to stage log")
		}
		return domain.NewStageError(cmd.Stage, logPath,
			fmt.Errorf("%v: %s", err, tail(stderr.String(), 500)))
	}

	// Toolkit writes diagnostics to stderr even on success.
	if stderr.Len() > 0 {
		if _, werr := logFile.Write(stderr.Bytes()); werr != nil {
			r.logger.Warn().Err(werr).Msg("Failed to append stderr to stage log")
		}
	}
	return nil
}

// tail returns at most the last n bytes of s, trimmed.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
