package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectionIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Forward.IsValid())
	assert.True(t, Reverse.IsValid())
	assert.False(t, Direction("up").IsValid())
	assert.False(t, Direction("").IsValid())
}

func TestReadStatsMeanLen(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, ReadStats{}.MeanLen())
	assert.Equal(t, 8.0, ReadStats{Records: 3, TotalLen: 24}.MeanLen())
	assert.InDelta(t, 7.5, ReadStats{Records: 2, TotalLen: 15}.MeanLen(), 0.001)
}
