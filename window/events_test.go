package window_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featchain/featchain/container"
	"github.com/featchain/featchain/meta"
	"github.com/featchain/featchain/window"
)

func eventRepo() *container.Repository {
	repo := container.NewRepository()
	repo.Set("mfcc", container.DefaultStream, rampMatrix(2, 10, 0.1))
	repo.Set("energy", container.DefaultStream, rampMatrix(1, 10, 0.1))
	return repo
}

func TestSelectKeepsCoveredFrames(t *testing.T) {
	repo := eventRepo()
	events := meta.Records{
		{Onset: 0.25, Offset: 0.45},
		{Onset: 0.8, Offset: 1.0},
	}

	require.NoError(t, window.Select(repo, events))

	// Onset floors to frame 2, offset ceils to frame 5; the second event
	// covers frames 8 and 9.
	mfcc, err := repo.Get("mfcc")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{2, 3, 4, 8, 9},
		{12, 13, 14, 18, 19},
	}, mfcc.Data())

	energy, err := repo.Get("energy")
	require.NoError(t, err)
	assert.Equal(t, 5, energy.Length())
}

func TestMaskRemovesCoveredFrames(t *testing.T) {
	repo := eventRepo()
	events := meta.Records{{Onset: 0.25, Offset: 0.45}}

	require.NoError(t, window.Mask(repo, events))

	mfcc, err := repo.Get("mfcc")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{
		{0, 1, 5, 6, 7, 8, 9},
		{10, 11, 15, 16, 17, 18, 19},
	}, mfcc.Data())
}

func TestSelectMaskPartition(t *testing.T) {
	events := meta.Records{{Onset: 0.3, Offset: 0.7}}

	selected := eventRepo()
	require.NoError(t, window.Select(selected, events))
	masked := eventRepo()
	require.NoError(t, window.Mask(masked, events))

	// Every frame ends up in exactly one of the two repositories.
	selectedM, _ := selected.Get("mfcc")
	maskedM, _ := masked.Get("mfcc")
	assert.Equal(t, 10, selectedM.Length()+maskedM.Length())
}

func TestSelectClampsEventsPastEnd(t *testing.T) {
	repo := eventRepo()
	events := meta.Records{{Onset: 0.85, Offset: 5.0}}

	require.NoError(t, window.Select(repo, events))
	mfcc, _ := repo.Get("mfcc")
	assert.Equal(t, [][]float64{{8, 9}, {18, 19}}, mfcc.Data())
}

func TestSelectWithoutTimeResolution(t *testing.T) {
	repo := container.NewRepository()
	repo.Set("mfcc", container.DefaultStream, rampMatrix(2, 10, 0))

	err := window.Select(repo, meta.Records{{Onset: 0, Offset: 1}})
	var timingErr *container.UnresolvedTimingError
	assert.ErrorAs(t, err, &timingErr)
}
