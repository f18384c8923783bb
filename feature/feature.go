// Package feature extracts frame-based feature matrices from audio
// containers. Extractors share a common framing: a window of WinLength
// samples advanced by HopLength samples, trailing partial windows dropped.
// The resulting matrices carry time resolution HopLength/sampleRate.
package feature

import (
	"fmt"
	"math"

	"github.com/featchain/featchain/container"
)

// Extractor turns one audio channel into a feature matrix.
type Extractor interface {
	Name() string
	Extract(a *container.Audio) (*container.Matrix, error)
}

// Framing holds the shared windowing parameters of the extractors.
type Framing struct {
	// WinLength is the analysis window length in samples.
	WinLength int
	// HopLength is the analysis hop in samples.
	HopLength int
}

func (f Framing) frames(n int) int {
	if f.WinLength <= 0 || f.HopLength <= 0 || f.WinLength > n {
		return 0
	}
	return (n-f.WinLength)/f.HopLength + 1
}

func (f Framing) validate(a *container.Audio) error {
	if a.Channels() == 0 || a.Length() == 0 {
		return fmt.Errorf("feature: empty audio")
	}
	if f.frames(a.Length()) == 0 {
		return fmt.Errorf("feature: window of %d samples does not fit %d samples", f.WinLength, a.Length())
	}
	return nil
}

func (f Framing) timeResolution(a *container.Audio) float64 {
	return float64(f.HopLength) / float64(a.SampleRate())
}

// extract applies fn to every full window of the first channel.
func (f Framing) extract(a *container.Audio, fn func(frame []float64) float64) *container.Matrix {
	samples := a.Data()[0]
	cols := f.frames(len(samples))
	row := make([]float64, cols)
	for i := 0; i < cols; i++ {
		start := i * f.HopLength
		row[i] = fn(samples[start : start+f.WinLength])
	}
	return container.NewMatrix([][]float64{row}, f.timeResolution(a))
}

// RMSEnergy extracts per-frame root-mean-square energy.
type RMSEnergy struct {
	Framing
}

// Name implements Extractor.
func (RMSEnergy) Name() string { return "rms_energy" }

// Extract implements Extractor.
func (e RMSEnergy) Extract(a *container.Audio) (*container.Matrix, error) {
	if err := e.validate(a); err != nil {
		return nil, err
	}
	return e.extract(a, rms), nil
}

// ZeroCrossingRate extracts the per-frame fraction of sign changes.
type ZeroCrossingRate struct {
	Framing
}

// Name implements Extractor.
func (ZeroCrossingRate) Name() string { return "zero_crossing_rate" }

// Extract implements Extractor.
func (e ZeroCrossingRate) Extract(a *container.Audio) (*container.Matrix, error) {
	if err := e.validate(a); err != nil {
		return nil, err
	}
	return e.extract(a, func(frame []float64) float64 {
		crossings := 0
		for i := 1; i < len(frame); i++ {
			if (frame[i-1] >= 0) != (frame[i] >= 0) {
				crossings++
			}
		}
		return float64(crossings) / float64(len(frame)-1)
	}), nil
}

// CrestFactor extracts the per-frame peak-to-RMS ratio.
type CrestFactor struct {
	Framing
}

// Name implements Extractor.
func (CrestFactor) Name() string { return "crest_factor" }

// Extract implements Extractor.
func (e CrestFactor) Extract(a *container.Audio) (*container.Matrix, error) {
	if err := e.validate(a); err != nil {
		return nil, err
	}
	return e.extract(a, func(frame []float64) float64 {
		var peak float64
		for _, v := range frame {
			if abs := math.Abs(v); abs > peak {
				peak = abs
			}
		}
		r := rms(frame)
		if r == 0 {
			return 0
		}
		return peak / r
	}), nil
}

func rms(frame []float64) float64 {
	var sum float64
	for _, v := range frame {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// New returns the extractor registered under name. The extractor set is
// closed; unknown names fail.
func New(name string, framing Framing) (Extractor, error) {
	switch name {
	case RMSEnergy{}.Name():
		return RMSEnergy{Framing: framing}, nil
	case ZeroCrossingRate{}.Name():
		return ZeroCrossingRate{Framing: framing}, nil
	case CrestFactor{}.Name():
		return CrestFactor{Framing: framing}, nil
	}
	return nil, fmt.Errorf("feature: unknown extractor %q", name)
}
