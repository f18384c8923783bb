// Package window implements the windowed-array operations: sliding-window
// aggregation, fixed-length sequencing and recipe-based stacking. All
// operations are pure functions of their inputs and are safe to call
// concurrently.
package window

import (
	"fmt"
	"math"

	"github.com/featchain/featchain/container"
)

// Stat is a per-window statistic emitted by Aggregate.
type Stat string

const (
	// Mean emits the per-row mean of the window.
	Mean Stat = "mean"
	// Std emits the per-row standard deviation of the window.
	Std Stat = "std"
	// Cov emits the flattened row covariance matrix of the window.
	Cov Stat = "cov"
	// Skew emits the per-row skewness of the window.
	Skew Stat = "skew"
	// Kurtosis emits the per-row excess kurtosis of the window.
	Kurtosis Stat = "kurtosis"
	// Flatten emits the win*rows window block as one column, frame by frame.
	Flatten Stat = "flatten"
)

// ParseStat converts a statistic name to a Stat.
func ParseStat(name string) (Stat, error) {
	switch Stat(name) {
	case Mean, Std, Cov, Skew, Kurtosis, Flatten:
		return Stat(name), nil
	}
	return "", fmt.Errorf("window: unknown aggregation statistic %q", name)
}

// InvalidWindowError is returned when window or sequence parameters exceed
// the data bounds.
type InvalidWindowError struct {
	WinLength int
	HopLength int
	Length    int
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("window: window length %d with hop %d does not fit data length %d",
		e.WinLength, e.HopLength, e.Length)
}

// Aggregate slides a window of winLength frames with step hopLength along
// the time axis of m and emits, for every full window, the requested
// statistics concatenated along the feature axis in recipe order. Windows
// that would run past the end of the data are not emitted; the output has
// floor((N-winLength)/hopLength)+1 columns. The time resolution of the
// result scales by hopLength.
func Aggregate(m *container.Matrix, stats []Stat, winLength, hopLength int) (*container.Matrix, error) {
	n := m.Length()
	if winLength <= 0 || hopLength <= 0 || winLength > n {
		return nil, &InvalidWindowError{WinLength: winLength, HopLength: hopLength, Length: n}
	}
	if len(stats) == 0 {
		return nil, fmt.Errorf("window: empty aggregation recipe")
	}

	data := m.Data()
	rows := m.Rows()
	cols := (n-winLength)/hopLength + 1

	outRows := 0
	for _, stat := range stats {
		outRows += statRows(stat, rows, winLength)
	}
	out := make([][]float64, outRows)
	for i := range out {
		out[i] = make([]float64, cols)
	}

	for col := 0; col < cols; col++ {
		start := col * hopLength
		row := 0
		for _, stat := range stats {
			column := aggregateWindow(stat, data, start, winLength)
			for _, v := range column {
				out[row][col] = v
				row++
			}
		}
	}

	return container.NewMatrix(out, m.TimeResolution()*float64(hopLength)), nil
}

func statRows(stat Stat, rows, winLength int) int {
	switch stat {
	case Cov:
		return rows * rows
	case Flatten:
		return rows * winLength
	default:
		return rows
	}
}

// aggregateWindow computes one output column fragment for the window
// [start, start+win) of data.
func aggregateWindow(stat Stat, data [][]float64, start, win int) []float64 {
	switch stat {
	case Mean:
		out := make([]float64, len(data))
		for i, row := range data {
			out[i] = mean(row[start : start+win])
		}
		return out

	case Std:
		out := make([]float64, len(data))
		for i, row := range data {
			out[i] = std(row[start : start+win])
		}
		return out

	case Cov:
		return covariance(data, start, win)

	case Skew:
		out := make([]float64, len(data))
		for i, row := range data {
			out[i] = moment(row[start:start+win], 3)
		}
		return out

	case Kurtosis:
		out := make([]float64, len(data))
		for i, row := range data {
			out[i] = moment(row[start:start+win], 4) - 3
		}
		return out

	case Flatten:
		// Frame by frame, feature-fastest.
		out := make([]float64, 0, len(data)*win)
		for j := 0; j < win; j++ {
			for _, row := range data {
				out = append(out, row[start+j])
			}
		}
		return out
	}
	return nil
}

func mean(xs []float64) float64 {
	var sum float64
	for _, v := range xs {
		sum += v
	}
	return sum / float64(len(xs))
}

func std(xs []float64) float64 {
	m := mean(xs)
	var sum float64
	for _, v := range xs {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// moment returns the k-th standardized moment of xs, zero for constant
// windows.
func moment(xs []float64, k int) float64 {
	m := mean(xs)
	s := std(xs)
	if s == 0 {
		return 0
	}
	var sum float64
	for _, v := range xs {
		sum += math.Pow((v-m)/s, float64(k))
	}
	return sum / float64(len(xs))
}

// covariance returns the flattened rows*rows sample covariance matrix of
// the window.
func covariance(data [][]float64, start, win int) []float64 {
	rows := len(data)
	means := make([]float64, rows)
	for i, row := range data {
		means[i] = mean(row[start : start+win])
	}
	out := make([]float64, 0, rows*rows)
	denom := float64(win - 1)
	if denom <= 0 {
		denom = 1
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < rows; j++ {
			var sum float64
			for t := 0; t < win; t++ {
				sum += (data[i][start+t] - means[i]) * (data[j][start+t] - means[j])
			}
			out = append(out, sum/denom)
		}
	}
	return out
}
