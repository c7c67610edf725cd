package toolkit

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/camjacqueline/Qiime2-23S5S-amplicons-analysis/internal/domain"
)

// EnsureImage checks whether the toolkit image is present and pulls it if
// not. The pull is the one network operation this module performs and the
// only one retried: registry failures are transient in a way stage
// executions are not.
func (r *ContainerRunner) EnsureImage(ctx context.Context) error {
	if r.imagePresent(ctx) {
		return nil
	}

	r.logger.Info().
		Str("image", r.image).
		Str("runtime", r.runtime).
		Msg("Pulling toolkit image")

	pullCtx, cancel := context.WithTimeout(ctx, r.pullTimeout)
	defer cancel()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxInterval = 1 * time.Minute
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5

	err := backoff.Retry(func() error {
		if err := r.pull(pullCtx); err != nil {
			if !domain.IsRetryable(err) {
				return backoff.Permanent(err)
			}
			r.logger.Warn().Err(err).Msg("Image pull failed, retrying")
			return err
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(b, 4), pullCtx))

	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrImageUnavailable, r.image, err)
	}
	return nil
}

// imagePresent checks for a local copy of the image.
func (r *ContainerRunner) imagePresent(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, r.runtime, "image", "inspect", r.image)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}

// pull runs a single pull attempt. Registry failures come back as retryable;
// a cancelled or expired context does not.
func (r *ContainerRunner) pull(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, r.runtime, "pull", r.image)
	stderr := new(bytes.Buffer)
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		wrapped := fmt.Errorf("%v: %s", err, tail(stderr.String(), 300))
		if ctx.Err() != nil {
			return wrapped
		}
		return &domain.RetryableError{Err: wrapped}
	}
	return nil
}
