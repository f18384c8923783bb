package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featchain/featchain/container"
)

func testMatrix() *container.Matrix {
	return container.NewMatrix([][]float64{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		{10, 11, 12, 13, 14, 15, 16, 17, 18, 19},
	}, 0.02)
}

func TestMatrixShape(t *testing.T) {
	m := testMatrix()
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 10, m.Length())
	assert.Equal(t, 0.02, m.TimeResolution())
}

func TestMatrixFocus(t *testing.T) {
	m := testMatrix()

	m.SetFocus(2, 5)
	focused := m.Focused()
	assert.Equal(t, [][]float64{{2, 3, 4}, {12, 13, 14}}, focused)

	// The backing data is untouched by focus operations.
	assert.Equal(t, 10, m.Length())

	// Mutating the returned view must not leak into the container.
	focused[0][0] = 99
	assert.Equal(t, float64(2), m.Data()[0][2])
}

func TestMatrixFocusReversedAndClamped(t *testing.T) {
	m := testMatrix()
	m.SetFocus(8, 3)
	start, stop, ok := m.Focus()
	assert.True(t, ok)
	assert.Equal(t, 3, start)
	assert.Equal(t, 8, stop)

	m.SetFocus(-5, 100)
	start, stop, _ = m.Focus()
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, stop)
}

func TestMatrixFocusSeconds(t *testing.T) {
	m := testMatrix()
	_, err := m.SetFocusSeconds(0.04, 0.1)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{2, 3, 4}, {12, 13, 14}}, m.Focused())

	// Unknown time resolution fails instead of guessing.
	unresolved := container.NewMatrix([][]float64{{1, 2, 3}}, 0)
	_, err = unresolved.SetFocusSeconds(0, 1)
	var timingErr *container.UnresolvedTimingError
	assert.ErrorAs(t, err, &timingErr)
}

func TestMatrixFreeze(t *testing.T) {
	m := testMatrix()
	m.SetFocus(2, 5)
	m.Freeze()

	assert.Equal(t, 3, m.Length())
	_, _, focused := m.Focus()
	assert.False(t, focused)

	// Freeze is idempotent with respect to subsequent full-array reads.
	before := m.CopyData()
	m.ResetFocus()
	assert.Equal(t, before, m.Focused())
	m.Freeze()
	assert.Equal(t, before, m.Data())
}

func TestMatrixFrames(t *testing.T) {
	m := testMatrix()
	frames := m.Frames([]int{1, 5, 7})
	assert.Equal(t, [][]float64{{1, 5, 7}, {11, 15, 17}}, frames)

	// Out-of-range indexes clamp to the edges.
	frames = m.Frames([]int{-2, 15})
	assert.Equal(t, [][]float64{{0, 9}, {10, 19}}, frames)
}

func TestMatrixFrameRange(t *testing.T) {
	m := testMatrix()
	assert.Equal(t, [][]float64{{2, 3, 4}, {12, 13, 14}}, m.FrameRange(2, 5))
	assert.Equal(t, [][]float64{{8, 9}, {18, 19}}, m.FrameRange(8, 20))
	for _, row := range m.FrameRange(7, 3) {
		assert.Empty(t, row)
	}
}

func TestMatrixPad(t *testing.T) {
	m := testMatrix()
	m.Pad(12)
	assert.Equal(t, 12, m.Length())
	assert.Equal(t, float64(0), m.Data()[0][11])
	assert.Equal(t, float64(9), m.Data()[0][9])

	// Padding to a met length is a no-op.
	m.Pad(5)
	assert.Equal(t, 12, m.Length())
}

func TestMatrixStats(t *testing.T) {
	m := container.NewMatrix([][]float64{
		{1, 2, 3, 4},
		{2, 2, 2, 2},
	}, 0)

	stats := m.Stats()
	assert.Equal(t, 4, stats.N)
	assert.Equal(t, 2.5, stats.Mean[0])
	assert.Equal(t, 2.0, stats.Mean[1])
	assert.Equal(t, 10.0, stats.S1[0])
	assert.Equal(t, 30.0, stats.S2[0])
	assert.Equal(t, 0.0, stats.Std[1])

	// The cached value is reused until the data mutates.
	assert.Same(t, stats, m.Stats())
	m.Pad(6)
	refreshed := m.Stats()
	assert.NotSame(t, stats, refreshed)
	assert.Equal(t, 6, refreshed.N)
}

func TestMatrixCopyIsolation(t *testing.T) {
	m := testMatrix()
	c := m.Copy()
	c.Data()[0][0] = 123
	assert.Equal(t, float64(0), m.Data()[0][0])
}

func TestMatrix3D(t *testing.T) {
	data := [][][]float64{
		{{1, 4}, {2, 5}, {3, 6}},
	}
	m := container.NewMatrix3D(data, 0.02)
	assert.Equal(t, 1, m.Rows())
	assert.Equal(t, 3, m.SequenceLength())
	assert.Equal(t, 2, m.Sequences())
	assert.Equal(t, [][]float64{{1, 2, 3}}, m.Sequence(0))
	assert.Equal(t, [][]float64{{4, 5, 6}}, m.Sequence(1))
}
