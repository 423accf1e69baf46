package utils

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgmaxAndSum(t *testing.T) {
	assert.Equal(t, 2, Argmax([]float64{1, 3, 7, 2}))
	assert.Equal(t, 0, Argmax([]int{5, 5, 1}))
	assert.Equal(t, 13., SumSlice([]float64{1, 3, 7, 2}))
	assert.Equal(t, 0, SumSlice([]int{}))
}

func TestNearestIndex(t *testing.T) {
	grid := []float64{0, 1, 2, 3, 4}
	assert.Equal(t, -1, NearestIndex(nil, 1))
	assert.Equal(t, 0, NearestIndex(grid, -10))
	assert.Equal(t, 4, NearestIndex(grid, 10))
	assert.Equal(t, 2, NearestIndex(grid, 2.4))
	assert.Equal(t, 3, NearestIndex(grid, 2.6))
}

func TestStrictlyIncreasing(t *testing.T) {
	assert.True(t, StrictlyIncreasing([]float64{0, 1e-15, 2e-15}))
	assert.False(t, StrictlyIncreasing([]float64{0, 1, 1}))
	assert.True(t, StrictlyIncreasing([]int{}))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(1, -2, 0))
	assert.False(t, IsFinite(1, math.NaN()))
	assert.False(t, IsFinite(math.Inf(-1)))
}

func TestBisect(t *testing.T) {
	root := Bisect(func(x float64) float64 { return x*x - 2 }, 0, 2, 1e-12)
	assert.InDelta(t, math.Sqrt2, root, 1e-11)

	decreasing := Bisect(func(x float64) float64 { return 1 - x }, 0, 3, 1e-12)
	assert.InDelta(t, 1., decreasing, 1e-11)
}

func TestReadFloatRows(t *testing.T) {
	input := "# t E\n0 1\n\n1e-15, -0.5\n"
	rows, err := ReadFloatRows(strings.NewReader(input), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 1}, {1e-15, -0.5}}, rows)

	_, err = ReadFloatRows(strings.NewReader("1 2 3\n"), 2, 2)
	assert.Error(t, err)

	_, err = ReadFloatRows(strings.NewReader("1 x\n"), 2, 2)
	assert.Error(t, err)
}

func TestWriteSortedCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSortedCSV(&buf, []string{"model", "N"}, CSV{{"tip_10", "1"}, {"tip_2", "2"}, {"tip_1", "3"}})
	require.NoError(t, err)
	assert.Equal(t, "model,N\ntip_1,3\ntip_2,2\ntip_10,1\n", buf.String())
}
