package window

import (
	"fmt"
	"math/rand"

	"github.com/featchain/featchain/container"
)

// PadMode controls how the trailing partial sequence is handled.
type PadMode string

const (
	// PadNone drops a trailing partial sequence.
	PadNone PadMode = "none"
	// PadZero completes a trailing partial sequence with zeros.
	PadZero PadMode = "zero"
	// PadRepeat completes a trailing partial sequence by wrapping around to
	// the start of the data.
	PadRepeat PadMode = "repeat"
)

// ShiftBorder controls what happens to the frames rolled off the front of
// the data when the sequencing grid is shifted.
type ShiftBorder string

const (
	// ShiftRoll rotates the data so the rolled-off prefix reappears at the
	// end.
	ShiftRoll ShiftBorder = "roll"
	// ShiftShift starts the sequencing grid at the shift offset and drops
	// the prefix.
	ShiftShift ShiftBorder = "shift"
)

// Sequencer splits 2-D matrices into stacks of fixed-length sequences along
// the time axis. The zero shift state makes Sequence a pure function; shift
// mutators exist for dataset-epoch style grid jitter and must not be shared
// across goroutines.
type Sequencer struct {
	// Length is the sequence length in frames.
	Length int
	// Hop is the sequencing grid step in frames. Zero means Length.
	Hop int
	// Padding selects the trailing partial sequence policy.
	Padding PadMode
	// Border selects the shifted-prefix policy.
	Border ShiftBorder

	// ShiftStep is the grid offset increment in frames.
	ShiftStep int
	// ShiftMax bounds the grid offset; IncreaseShift wraps past it.
	ShiftMax int

	shift int
	rng   *rand.Rand
}

// NewSequencer returns a sequencer with the given sequence length and hop.
// Zero hop means non-overlapping sequences.
func NewSequencer(length, hop int) *Sequencer {
	if hop == 0 {
		hop = length
	}
	return &Sequencer{
		Length:  length,
		Hop:     hop,
		Padding: PadNone,
		Border:  ShiftRoll,
	}
}

// Shift returns the current grid offset in frames.
func (s *Sequencer) Shift() int {
	return s.shift
}

// SetShift sets the grid offset in frames.
func (s *Sequencer) SetShift(shift int) *Sequencer {
	s.shift = shift
	return s
}

// IncreaseShift advances the grid offset by ShiftStep, wrapping to zero past
// ShiftMax.
func (s *Sequencer) IncreaseShift() *Sequencer {
	s.shift += s.ShiftStep
	if s.ShiftMax > 0 && s.shift > s.ShiftMax {
		s.shift = 0
	}
	return s
}

// Seed seeds the shift randomizer. RandomizeShift panics without a prior
// Seed call; an explicit seed keeps randomized sequencing reproducible.
func (s *Sequencer) Seed(seed int64) *Sequencer {
	s.rng = rand.New(rand.NewSource(seed))
	return s
}

// RandomizeShift draws a grid offset r*ShiftStep with r*ShiftStep <=
// ShiftMax from the seeded source.
func (s *Sequencer) RandomizeShift() *Sequencer {
	if s.rng == nil {
		panic("window: RandomizeShift called before Seed")
	}
	if s.ShiftStep <= 0 || s.ShiftMax <= 0 {
		return s
	}
	steps := s.ShiftMax/s.ShiftStep + 1
	s.shift = s.rng.Intn(steps) * s.ShiftStep
	return s
}

// Sequence splits m into a 3-D stack of Length-wide sequences stepping by
// Hop. With PadZero and PadRepeat every grid start inside the data yields a
// sequence and the trailing partial one is completed; with PadNone it is
// dropped. The input matrix is not modified.
func (s *Sequencer) Sequence(m *container.Matrix) (*container.Matrix3D, error) {
	n := m.Length()
	if s.Length <= 0 || s.Hop <= 0 || n == 0 {
		return nil, &InvalidWindowError{WinLength: s.Length, HopLength: s.Hop, Length: n}
	}

	data := m.Data()
	if s.shift > 0 {
		switch s.Border {
		case ShiftShift:
			// Grid starts at the shift offset; handled below.
		case ShiftRoll:
			data = roll(data, s.shift)
		default:
			return nil, fmt.Errorf("window: unknown shift border %q", s.Border)
		}
	}

	gridStart := 0
	if s.shift > 0 && s.Border == ShiftShift {
		gridStart = s.shift
	}

	var starts []int
	for start := gridStart; start < n; start += s.Hop {
		if s.Padding == PadNone && start+s.Length > n {
			continue
		}
		starts = append(starts, start)
	}
	if len(starts) == 0 {
		return nil, &InvalidWindowError{WinLength: s.Length, HopLength: s.Hop, Length: n}
	}

	rows := m.Rows()
	out := make([][][]float64, rows)
	for i := range out {
		out[i] = make([][]float64, s.Length)
		for j := range out[i] {
			out[i][j] = make([]float64, len(starts))
		}
	}

	for seq, start := range starts {
		for step := 0; step < s.Length; step++ {
			src := start + step
			for i := 0; i < rows; i++ {
				var v float64
				switch {
				case src < n:
					v = data[i][src]
				case s.Padding == PadRepeat:
					v = data[i][src%n]
				}
				out[i][step][seq] = v
			}
		}
	}

	return container.NewMatrix3D(out, m.TimeResolution()), nil
}

// roll rotates every row left by shift frames.
func roll(data [][]float64, shift int) [][]float64 {
	out := make([][]float64, len(data))
	for i, row := range data {
		shift := shift % len(row)
		out[i] = append(append([]float64(nil), row[shift:]...), row[:shift]...)
	}
	return out
}
