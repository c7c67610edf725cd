package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandMetadata(t *testing.T) {
	assert.Equal(t, "q2run [input-dir]", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)

	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "manifest")
	assert.Contains(t, names, "inspect")
	assert.Contains(t, names, "doctor")
	assert.Contains(t, names, "version")
}

func TestRootCommandFlags(t *testing.T) {
	for _, name := range []string{
		"config", "output", "mode", "manifest-format", "delimiter",
		"trunc-len-f", "trunc-len-r", "threads",
		"ref-reads", "ref-taxonomy", "classifier", "confidence",
		"runtime", "image", "force", "dry-run", "no-cache",
	} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "missing flag %s", name)
	}
}

func TestCheckRuntime(t *testing.T) {
	orig := execLookPath
	t.Cleanup(func() { execLookPath = orig })

	t.Run("docker preferred", func(t *testing.T) {
		execLookPath = func(name string) (string, error) {
			if name == "docker" {
				return "/usr/bin/docker", nil
			}
			return "", errors.New("not found")
		}
		assert.Equal(t, "/usr/bin/docker", checkRuntime())
	})

	t.Run("falls back to podman", func(t *testing.T) {
		execLookPath = func(name string) (string, error) {
			if name == "podman" {
				return "/usr/bin/podman", nil
			}
			return "", errors.New("not found")
		}
		assert.Equal(t, "/usr/bin/podman", checkRuntime())
	})

	t.Run("none installed", func(t *testing.T) {
		execLookPath = func(string) (string, error) {
			return "", errors.New("not found")
		}
		assert.Empty(t, checkRuntime())
	})
}

func TestCommonOptions(t *testing.T) {
	require.NoError(t, rootCmd.PersistentFlags().Set("force", "true"))
	require.NoError(t, rootCmd.PersistentFlags().Set("dry-run", "true"))
	t.Cleanup(func() {
		_ = rootCmd.PersistentFlags().Set("force", "false")
		_ = rootCmd.PersistentFlags().Set("dry-run", "false")
	})

	opts := commonOptions(rootCmd)
	assert.True(t, opts.Force)
	assert.True(t, opts.DryRun)
	assert.False(t, opts.Resume, "force disables resume")

	// Subcommands resolve the same persistent set through their root.
	opts = commonOptions(manifestCmd)
	assert.True(t, opts.Force)
}

func TestCommonOptionsDefaults(t *testing.T) {
	opts := commonOptions(rootCmd)
	assert.False(t, opts.Force)
	assert.True(t, opts.Resume, "resume is the default")
}
