package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgressBar(t *testing.T) {
	t.Parallel()

	bar := NewProgressBar(9, DescPipeline)
	require.NotNil(t, bar)

	require.NoError(t, bar.Add(1))
	assert.False(t, bar.IsFinished())

	require.NoError(t, bar.Add(8))
	assert.True(t, bar.IsFinished())
}

func TestNewProgressBarSpinner(t *testing.T) {
	t.Parallel()

	bar := NewProgressBar(-1, DescScanning)
	require.NotNil(t, bar)
	assert.NoError(t, bar.Add(1))
}
