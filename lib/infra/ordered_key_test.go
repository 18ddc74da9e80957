package infra

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaturalOrder(t *testing.T) {
	assert.Equal(t, int64(0), NaturalOrder(3, 3))
	assert.Equal(t, int64(-1), NaturalOrder(1, 3))
	assert.Equal(t, int64(1), NaturalOrder(3, 1))
	assert.Equal(t, int64(-1), NaturalOrder("abc", "abd"))
	assert.Equal(t, int64(1), NaturalOrder(2.5, -1.0))
}

func TestReverseOrder(t *testing.T) {
	assert.Equal(t, int64(0), ReverseOrder(uint8(7), uint8(7)))
	assert.Equal(t, int64(1), ReverseOrder(1, 3))
	assert.Equal(t, int64(-1), ReverseOrder(3, 1))
	assert.Equal(t, int64(1), ReverseOrder("a", "b"))
}

func TestNaturalOrder_NaN(t *testing.T) {
	nan := math.NaN()
	assert.Equal(t, int64(0), NaturalOrder(nan, nan))
	assert.Equal(t, int64(-1), NaturalOrder(nan, math.Inf(-1)))
	assert.Equal(t, int64(1), NaturalOrder(1.0, nan))
	assert.Equal(t, int64(0), NaturalOrder(float32(math.NaN()), float32(math.NaN())))
	assert.Equal(t, int64(1), ReverseOrder(nan, 0.0))
}
