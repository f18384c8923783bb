// Package container provides typed wrappers around numeric matrices extracted
// from audio signals. Containers track axis semantics and timing metadata and
// offer a non-destructive focus sub-view over the backing data.
//
// Matrix data is stored feature-major: data[row] is one feature vector over
// time, so the data axis is 0 and the time axis is 1. Audio data is stored
// channel-major with the same orientation.
package container

import (
	"fmt"
	"math"
)

// Rounding controls how seconds are converted to frame indexes.
type Rounding int

const (
	// RoundDown truncates towards zero.
	RoundDown Rounding = iota
	// RoundFloor floors the frame index.
	RoundFloor
	// RoundCeil ceils the frame index.
	RoundCeil
)

// UnresolvedTimingError is returned when a seconds-based operation is
// requested on a container with unknown time resolution.
type UnresolvedTimingError struct {
	Op string
}

func (e *UnresolvedTimingError) Error() string {
	return fmt.Sprintf("container: %s requires known time resolution", e.Op)
}

// Stats holds per-row sufficient statistics of a matrix, computed over the
// time axis.
type Stats struct {
	Mean []float64
	Std  []float64
	N    int
	S1   []float64
	S2   []float64
}

// Matrix is a two-dimensional data container. The backing data is never
// mutated by focus operations; only Freeze replaces it with the focused
// slice.
type Matrix struct {
	data           [][]float64
	timeResolution float64

	focusStart, focusStop int
	focused               bool

	stats *Stats
}

// NewMatrix wraps data into a matrix container. The data slice is owned by
// the container afterwards; callers that need isolation should copy first.
// timeResolution is seconds per frame, zero when unknown.
func NewMatrix(data [][]float64, timeResolution float64) *Matrix {
	return &Matrix{
		data:           data,
		timeResolution: timeResolution,
	}
}

// EmptyMatrix returns a zero-filled matrix of given dimensions.
func EmptyMatrix(rows, cols int, timeResolution float64) *Matrix {
	data := make([][]float64, rows)
	for i := range data {
		data[i] = make([]float64, cols)
	}
	return NewMatrix(data, timeResolution)
}

// Data returns the backing data. Mutating the returned slices bypasses the
// container, use CopyData when isolation is needed.
func (m *Matrix) Data() [][]float64 {
	return m.data
}

// CopyData returns a deep copy of the backing data.
func (m *Matrix) CopyData() [][]float64 {
	return copyMatrix(m.data)
}

// Copy returns a deep copy of the container, focus state included.
func (m *Matrix) Copy() *Matrix {
	c := *m
	c.data = copyMatrix(m.data)
	c.stats = nil
	return &c
}

// SetData replaces the backing data and invalidates cached statistics and
// focus.
func (m *Matrix) SetData(data [][]float64) {
	m.data = data
	m.stats = nil
	m.ResetFocus()
}

// Rows returns the feature vector length, i.e. the size of the data axis.
func (m *Matrix) Rows() int {
	return len(m.data)
}

// Length returns the number of frames along the time axis.
func (m *Matrix) Length() int {
	if len(m.data) == 0 {
		return 0
	}
	return len(m.data[0])
}

// TimeResolution returns seconds per frame, zero when unknown.
func (m *Matrix) TimeResolution() float64 {
	return m.timeResolution
}

// SetTimeResolution sets seconds per frame.
func (m *Matrix) SetTimeResolution(r float64) {
	m.timeResolution = r
}

// TimeToFrame converts a time stamp in seconds to a frame index, clamped to
// the matrix bounds.
func (m *Matrix) TimeToFrame(seconds float64, r Rounding) (int, error) {
	if m.timeResolution <= 0 {
		return 0, &UnresolvedTimingError{Op: "TimeToFrame"}
	}
	var frame int
	switch r {
	case RoundCeil:
		frame = int(math.Ceil(seconds / m.timeResolution))
	case RoundFloor:
		frame = int(math.Floor(seconds / m.timeResolution))
	default:
		frame = int(seconds / m.timeResolution)
	}
	if frame < 0 {
		frame = 0
	} else if frame > m.Length() {
		frame = m.Length()
	}
	return frame, nil
}

// FrameToTime converts a frame index to a time stamp in seconds.
func (m *Matrix) FrameToTime(frame int) (float64, error) {
	if m.timeResolution <= 0 {
		return 0, &UnresolvedTimingError{Op: "FrameToTime"}
	}
	return float64(frame) * m.timeResolution, nil
}

// SetFocus sets the focus segment with frame indexes. Reversed bounds are
// swapped, out-of-range bounds are clamped.
func (m *Matrix) SetFocus(start, stop int) *Matrix {
	if start > stop {
		start, stop = stop, start
	}
	if start < 0 {
		start = 0
	}
	if stop > m.Length() {
		stop = m.Length()
	}
	m.focusStart = start
	m.focusStop = stop
	m.focused = true
	return m
}

// SetFocusSeconds sets the focus segment with second-based bounds, converted
// through the time resolution of the matrix.
func (m *Matrix) SetFocusSeconds(start, stop float64) (*Matrix, error) {
	startFrame, err := m.TimeToFrame(start, RoundDown)
	if err != nil {
		return nil, &UnresolvedTimingError{Op: "SetFocusSeconds"}
	}
	stopFrame, err := m.TimeToFrame(stop, RoundDown)
	if err != nil {
		return nil, &UnresolvedTimingError{Op: "SetFocusSeconds"}
	}
	return m.SetFocus(startFrame, stopFrame), nil
}

// ResetFocus clears the focus segment.
func (m *Matrix) ResetFocus() *Matrix {
	m.focusStart = 0
	m.focusStop = 0
	m.focused = false
	return m
}

// Focus returns the active focus segment bounds; ok is false when no focus
// is set.
func (m *Matrix) Focus() (start, stop int, ok bool) {
	return m.focusStart, m.focusStop, m.focused
}

// Focused returns a copy of the focus segment, or of the whole matrix when
// no focus is set.
func (m *Matrix) Focused() [][]float64 {
	if !m.focused {
		return copyMatrix(m.data)
	}
	out := make([][]float64, len(m.data))
	for i, row := range m.data {
		out[i] = append([]float64(nil), row[m.focusStart:m.focusStop]...)
	}
	return out
}

// Freeze replaces the backing data with the focus segment and resets the
// focus. Without an active focus it is a no-op.
func (m *Matrix) Freeze() *Matrix {
	if !m.focused {
		return m
	}
	m.data = m.Focused()
	m.stats = nil
	return m.ResetFocus()
}

// Frames returns a copy of the selected frames, in the given order. Indexes
// out of range are clamped to the matrix bounds, mirroring edge padding
// semantics of windowed access.
func (m *Matrix) Frames(frameIDs []int) [][]float64 {
	out := make([][]float64, len(m.data))
	last := m.Length() - 1
	for i, row := range m.data {
		out[i] = make([]float64, len(frameIDs))
		for j, id := range frameIDs {
			if id < 0 {
				id = 0
			} else if id > last {
				id = last
			}
			out[i][j] = row[id]
		}
	}
	return out
}

// FrameRange returns a copy of the contiguous frames [start, stop), clamped
// to the matrix bounds.
func (m *Matrix) FrameRange(start, stop int) [][]float64 {
	if start < 0 {
		start = 0
	}
	if stop > m.Length() {
		stop = m.Length()
	}
	if start > stop {
		start = stop
	}
	out := make([][]float64, len(m.data))
	for i, row := range m.data {
		out[i] = append([]float64(nil), row[start:stop]...)
	}
	return out
}

// FramesHop returns a copy of every hop-th frame.
func (m *Matrix) FramesHop(hop int) [][]float64 {
	if hop <= 1 {
		return copyMatrix(m.data)
	}
	out := make([][]float64, len(m.data))
	for i, row := range m.data {
		for j := 0; j < len(row); j += hop {
			out[i] = append(out[i], row[j])
		}
	}
	return out
}

// RowRange returns a copy of rows [start, stop).
func (m *Matrix) RowRange(start, stop int) [][]float64 {
	out := make([][]float64, 0, stop-start)
	for i := start; i < stop && i < len(m.data); i++ {
		if i < 0 {
			continue
		}
		out = append(out, append([]float64(nil), m.data[i]...))
	}
	return out
}

// Pad zero-extends the matrix along the time axis to reach the given length.
// It is a no-op when the matrix is already long enough.
func (m *Matrix) Pad(length int) *Matrix {
	if length <= m.Length() {
		return m
	}
	for i, row := range m.data {
		padded := make([]float64, length)
		copy(padded, row)
		m.data[i] = padded
	}
	m.stats = nil
	return m
}

// Stats returns per-row statistics over the time axis. The result is
// computed lazily and cached until the backing data mutates.
func (m *Matrix) Stats() *Stats {
	if m.stats == nil {
		m.stats = calculateStats(m.data)
	}
	return m.stats
}

// Normalize applies (x-mean[i])/std[i] in place to every row. Rows with zero
// deviation are left centered only.
func (m *Matrix) Normalize(mean, std []float64) {
	for i, row := range m.data {
		for j := range row {
			row[j] -= mean[i]
			if std[i] != 0 {
				row[j] /= std[i]
			}
		}
	}
	m.stats = nil
}

func calculateStats(data [][]float64) *Stats {
	s := &Stats{
		Mean: make([]float64, len(data)),
		Std:  make([]float64, len(data)),
		S1:   make([]float64, len(data)),
		S2:   make([]float64, len(data)),
	}
	if len(data) > 0 {
		s.N = len(data[0])
	}
	for i, row := range data {
		var sum, sqsum float64
		for _, v := range row {
			sum += v
			sqsum += v * v
		}
		s.S1[i] = sum
		s.S2[i] = sqsum
		if len(row) > 0 {
			n := float64(len(row))
			s.Mean[i] = sum / n
			s.Std[i] = math.Sqrt(sqsum/n - s.Mean[i]*s.Mean[i])
		}
	}
	return s
}

func copyMatrix(data [][]float64) [][]float64 {
	out := make([][]float64, len(data))
	for i, row := range data {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Matrix3D is a three-dimensional data container holding a stack of
// fixed-length sequences: data[row][step][seq].
type Matrix3D struct {
	data           [][][]float64
	timeResolution float64
}

// NewMatrix3D wraps data into a 3-D container.
func NewMatrix3D(data [][][]float64, timeResolution float64) *Matrix3D {
	return &Matrix3D{data: data, timeResolution: timeResolution}
}

// Data returns the backing data.
func (m *Matrix3D) Data() [][][]float64 {
	return m.data
}

// Rows returns the feature vector length.
func (m *Matrix3D) Rows() int {
	return len(m.data)
}

// SequenceLength returns the number of frames in one sequence.
func (m *Matrix3D) SequenceLength() int {
	if len(m.data) == 0 {
		return 0
	}
	return len(m.data[0])
}

// Sequences returns the number of stacked sequences.
func (m *Matrix3D) Sequences() int {
	if m.SequenceLength() == 0 {
		return 0
	}
	return len(m.data[0][0])
}

// TimeResolution returns seconds per frame, zero when unknown.
func (m *Matrix3D) TimeResolution() float64 {
	return m.timeResolution
}

// Sequence returns a copy of a single sequence as a 2-D matrix.
func (m *Matrix3D) Sequence(i int) [][]float64 {
	out := make([][]float64, len(m.data))
	for row := range m.data {
		out[row] = make([]float64, len(m.data[row]))
		for step := range m.data[row] {
			out[row][step] = m.data[row][step][i]
		}
	}
	return out
}
