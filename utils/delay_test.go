package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRandomBetween(t *testing.T) {
	t.Parallel()

	for i := 0; i < 200; i++ {
		v := RandomBetween(3, 7)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 7)
	}

	assert.Equal(t, 5, RandomBetween(5, 5))
	assert.Equal(t, 4, RandomBetween(4, 2))
}

func TestRandomDelayEqualBounds(t *testing.T) {
	t.Parallel()

	// Equal bounds must sleep min once, not panic on an empty range.
	RandomDelay(time.Millisecond, time.Millisecond)
}
