package container

import (
	"math"
	"time"
)

// Audio is a multi-channel audio container with channel axis 0 and time
// axis 1. Focus can be set by samples, by seconds and by channel; focus
// operations never mutate the backing data.
type Audio struct {
	data       [][]float64
	sampleRate int

	focusStart, focusStop int
	focused               bool
	focusChannel          int
}

// NewAudio wraps channel-major sample data into an audio container.
func NewAudio(data [][]float64, sampleRate int) *Audio {
	return &Audio{
		data:         data,
		sampleRate:   sampleRate,
		focusChannel: -1,
	}
}

// NewAudioMono wraps a single channel of samples.
func NewAudioMono(data []float64, sampleRate int) *Audio {
	return NewAudio([][]float64{data}, sampleRate)
}

// Data returns the backing sample data.
func (a *Audio) Data() [][]float64 {
	return a.data
}

// SampleRate returns samples per second.
func (a *Audio) SampleRate() int {
	return a.sampleRate
}

// Channels returns the channel count.
func (a *Audio) Channels() int {
	return len(a.data)
}

// Length returns the number of samples per channel.
func (a *Audio) Length() int {
	if len(a.data) == 0 {
		return 0
	}
	return len(a.data[0])
}

// Duration returns the clip duration for the container's sample rate.
func (a *Audio) Duration() time.Duration {
	if a.sampleRate == 0 {
		return 0
	}
	return time.Duration(float64(a.Length()) / float64(a.sampleRate) * float64(time.Second))
}

// Copy returns a deep copy of the container, focus state included.
func (a *Audio) Copy() *Audio {
	c := *a
	c.data = copyMatrix(a.data)
	return &c
}

// SetFocus sets the focus segment with sample indexes. Reversed bounds are
// swapped, out-of-range bounds are clamped.
func (a *Audio) SetFocus(start, stop int) *Audio {
	if start > stop {
		start, stop = stop, start
	}
	if start < 0 {
		start = 0
	}
	if stop > a.Length() {
		stop = a.Length()
	}
	a.focusStart = start
	a.focusStop = stop
	a.focused = true
	return a
}

// SetFocusSeconds sets the focus segment with second-based bounds, converted
// through the sample rate.
func (a *Audio) SetFocusSeconds(start, stop float64) (*Audio, error) {
	if a.sampleRate <= 0 {
		return nil, &UnresolvedTimingError{Op: "SetFocusSeconds"}
	}
	return a.SetFocus(
		int(start*float64(a.sampleRate)),
		int(stop*float64(a.sampleRate)),
	), nil
}

// SetFocusChannel restricts the focus to a single channel. A negative value
// selects all channels.
func (a *Audio) SetFocusChannel(channel int) *Audio {
	if channel >= a.Channels() {
		channel = -1
	}
	a.focusChannel = channel
	return a
}

// ResetFocus clears the focus segment and channel.
func (a *Audio) ResetFocus() *Audio {
	a.focusStart = 0
	a.focusStop = 0
	a.focused = false
	a.focusChannel = -1
	return a
}

// Focused returns a copy of the focus segment of the focused channels, or of
// the whole clip when no focus is set.
func (a *Audio) Focused() [][]float64 {
	start, stop := 0, a.Length()
	if a.focused {
		start, stop = a.focusStart, a.focusStop
	}
	channels := a.data
	if a.focusChannel >= 0 {
		channels = a.data[a.focusChannel : a.focusChannel+1]
	}
	out := make([][]float64, len(channels))
	for i, ch := range channels {
		out[i] = append([]float64(nil), ch[start:stop]...)
	}
	return out
}

// Freeze replaces the backing data with the focus segment and resets the
// focus. Without an active focus or channel it is a no-op.
func (a *Audio) Freeze() *Audio {
	if !a.focused && a.focusChannel < 0 {
		return a
	}
	a.data = a.Focused()
	return a.ResetFocus()
}

// MixDown averages all channels into one.
func (a *Audio) MixDown() *Audio {
	if a.Channels() <= 1 {
		return a
	}
	mono := make([]float64, a.Length())
	for _, ch := range a.data {
		for i, v := range ch {
			mono[i] += v
		}
	}
	n := float64(a.Channels())
	for i := range mono {
		mono[i] /= n
	}
	a.data = [][]float64{mono}
	return a.ResetFocus()
}

// Normalize scales all channels so that the absolute peak reaches
// 1-headroom. Silent clips are left untouched.
func (a *Audio) Normalize(headroom float64) *Audio {
	var peak float64
	for _, ch := range a.data {
		for _, v := range ch {
			if abs := math.Abs(v); abs > peak {
				peak = abs
			}
		}
	}
	if peak == 0 {
		return a
	}
	gain := (1.0 - headroom) / peak
	for _, ch := range a.data {
		for i := range ch {
			ch[i] *= gain
		}
	}
	return a
}

// Pad zero-extends every channel to reach the given sample count. It is a
// no-op when the clip is already long enough.
func (a *Audio) Pad(length int) *Audio {
	if length <= a.Length() {
		return a
	}
	for i, ch := range a.data {
		padded := make([]float64, length)
		copy(padded, ch)
		a.data[i] = padded
	}
	return a
}
