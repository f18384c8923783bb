package encode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featchain/featchain/container"
	"github.com/featchain/featchain/encode"
	"github.com/featchain/featchain/meta"
)

func TestOneHotEncode(t *testing.T) {
	e := encode.NewOneHot([]string{"home", "office", "street"}, 0.02)

	m, err := e.Encode("office", 4)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{0, 0, 0, 0},
	}, m.Data())
	assert.Equal(t, 0.02, m.TimeResolution())
}

func TestOneHotUnknownLabel(t *testing.T) {
	e := encode.NewOneHot([]string{"home"}, 0.02)

	_, err := e.Encode("beach", 4)
	var unknown *encode.UnknownLabelError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "beach", unknown.Label)
}

func TestEventRollEncode(t *testing.T) {
	e := encode.NewEventRoll([]string{"speech", "car"}, 0.5)
	events := meta.Records{
		{EventLabel: "speech", Onset: 0.0, Offset: 1.0},
		{EventLabel: "car", Onset: 1.2, Offset: 2.0},
	}

	m, err := e.Encode(events, 5)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{1, 1, 0, 0, 0},
		{0, 0, 1, 1, 0},
	}, m.Data())
}

func TestEventRollDerivesLength(t *testing.T) {
	e := encode.NewEventRoll([]string{"speech"}, 0.5)
	events := meta.Records{{EventLabel: "speech", Onset: 0.0, Offset: 1.3}}

	m, err := e.Encode(events, 0)
	require.NoError(t, err)
	// ceil(1.3 / 0.5) frames.
	assert.Equal(t, 3, m.Length())
	assert.Equal(t, []float64{1, 1, 1}, m.Data()[0])
}

func TestEventRollClampsPastEnd(t *testing.T) {
	e := encode.NewEventRoll([]string{"speech"}, 0.5)
	events := meta.Records{{EventLabel: "speech", Onset: 0.0, Offset: 10.0}}

	m, err := e.Encode(events, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1, 1}, m.Data()[0])
}

func TestEventRollErrors(t *testing.T) {
	_, err := encode.NewEventRoll([]string{"speech"}, 0).Encode(nil, 4)
	var timing *container.UnresolvedTimingError
	assert.ErrorAs(t, err, &timing)

	_, err = encode.NewEventRoll([]string{"speech"}, 0.5).Encode(
		meta.Records{{EventLabel: "dog", Onset: 0, Offset: 1}}, 4)
	var unknown *encode.UnknownLabelError
	assert.ErrorAs(t, err, &unknown)
}
