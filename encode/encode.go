// Package encode converts metadata records into binary target matrices with
// one row per label in a fixed label list.
package encode

import (
	"fmt"

	"github.com/featchain/featchain/container"
	"github.com/featchain/featchain/meta"
)

// UnknownLabelError is returned when a record names a label outside the
// encoder's label list.
type UnknownLabelError struct {
	Label string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("encode: label %q not in label list", e.Label)
}

// OneHot encodes a single scene label into a constant binary matrix of
// labelCount x lengthFrames.
type OneHot struct {
	Labels         []string
	TimeResolution float64
}

// NewOneHot returns a one-hot encoder over a fixed label list.
func NewOneHot(labels []string, timeResolution float64) *OneHot {
	return &OneHot{Labels: labels, TimeResolution: timeResolution}
}

// Encode produces the binary matrix for one scene label, active over all
// lengthFrames frames.
func (e *OneHot) Encode(sceneLabel string, lengthFrames int) (*container.Matrix, error) {
	row := indexOf(e.Labels, sceneLabel)
	if row < 0 {
		return nil, &UnknownLabelError{Label: sceneLabel}
	}
	m := container.EmptyMatrix(len(e.Labels), lengthFrames, e.TimeResolution)
	data := m.Data()
	for j := 0; j < lengthFrames; j++ {
		data[row][j] = 1
	}
	return m, nil
}

// EventRoll encodes timed event records into a binary activity matrix with
// one row per event label.
type EventRoll struct {
	Labels         []string
	TimeResolution float64
}

// NewEventRoll returns an event roll encoder over a fixed label list.
func NewEventRoll(labels []string, timeResolution float64) *EventRoll {
	return &EventRoll{Labels: labels, TimeResolution: timeResolution}
}

// Encode produces the activity matrix for the given events. lengthFrames
// zero derives the length from the largest event offset. Event onsets are
// floored and offsets ceiled to frames.
func (e *EventRoll) Encode(events meta.Records, lengthFrames int) (*container.Matrix, error) {
	if e.TimeResolution <= 0 {
		return nil, &container.UnresolvedTimingError{Op: "EventRoll.Encode"}
	}
	if lengthFrames == 0 {
		lengthFrames = ceilDiv(events.MaxOffset(), e.TimeResolution)
	}
	m := container.EmptyMatrix(len(e.Labels), lengthFrames, e.TimeResolution)
	data := m.Data()
	for _, event := range events {
		row := indexOf(e.Labels, event.EventLabel)
		if row < 0 {
			return nil, &UnknownLabelError{Label: event.EventLabel}
		}
		onset := int(event.Onset / e.TimeResolution)
		offset := ceilDiv(event.Offset, e.TimeResolution)
		if offset > lengthFrames {
			offset = lengthFrames
		}
		for j := onset; j < offset; j++ {
			data[row][j] = 1
		}
	}
	return m, nil
}

func ceilDiv(seconds, resolution float64) int {
	frames := int(seconds / resolution)
	if float64(frames)*resolution < seconds {
		frames++
	}
	return frames
}

func indexOf(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}
