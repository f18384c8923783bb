package window_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featchain/featchain/container"
	"github.com/featchain/featchain/window"
)

func stackRepo(t *testing.T) *container.Repository {
	t.Helper()
	repo := container.NewRepository()
	repo.Set("mfcc", container.DefaultStream, rampMatrix(20, 4, 0.02))
	repo.Set("energy", container.DefaultStream, rampMatrix(1, 4, 0.02))
	repo.Set("energy", 1, rampMatrix(1, 4, 0.02))
	return repo
}

func TestStackFullLabel(t *testing.T) {
	repo := stackRepo(t)

	m, err := window.Stack(repo, "mfcc;energy")
	require.NoError(t, err)
	assert.Equal(t, 21, m.Rows())
	assert.Equal(t, 4, m.Length())
	assert.Equal(t, 0.02, m.TimeResolution())

	// Concatenation follows recipe order: mfcc rows first, energy last.
	mfcc, _ := repo.Get("mfcc")
	assert.Equal(t, mfcc.Data()[0], m.Data()[0])
	energy, _ := repo.Get("energy")
	assert.Equal(t, energy.Data()[0], m.Data()[20])
}

func TestStackRowSelection(t *testing.T) {
	repo := stackRepo(t)
	mfcc, _ := repo.Get("mfcc")

	tests := []struct {
		name   string
		recipe string
		rows   [][]float64
	}{
		{
			name:   "index vector",
			recipe: "mfcc=1,5,7",
			rows:   [][]float64{mfcc.Data()[1], mfcc.Data()[5], mfcc.Data()[7]},
		},
		{
			name:   "inclusive range",
			recipe: "mfcc=0-2",
			rows:   [][]float64{mfcc.Data()[0], mfcc.Data()[1], mfcc.Data()[2]},
		},
		{
			name:   "explicit stream",
			recipe: "energy=1:0-0",
			rows:   [][]float64{{0, 1, 2, 3}},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, err := window.Stack(repo, test.recipe)
			require.NoError(t, err)
			assert.Equal(t, test.rows, m.Data())
		})
	}
}

func TestStackOrderSplitsCompose(t *testing.T) {
	repo := stackRepo(t)

	whole, err := window.Stack(repo, "mfcc=0-9;mfcc=10-19")
	require.NoError(t, err)
	direct, err := window.Stack(repo, "mfcc")
	require.NoError(t, err)
	assert.Equal(t, direct.Data(), whole.Data())
}

func TestStackErrors(t *testing.T) {
	repo := stackRepo(t)
	repo.Set("short", container.DefaultStream, rampMatrix(2, 3, 0.02))
	repo.Set("coarse", container.DefaultStream, rampMatrix(2, 4, 0.04))

	tests := []struct {
		name   string
		recipe string
	}{
		{name: "malformed recipe", recipe: "mfcc=1-"},
		{name: "unknown label", recipe: "pitch"},
		{name: "unknown stream", recipe: "mfcc=7:0-2"},
		{name: "range exceeds rows", recipe: "mfcc=10-30"},
		{name: "index exceeds rows", recipe: "mfcc=5,21"},
		{name: "length mismatch", recipe: "mfcc;short"},
		{name: "time resolution mismatch", recipe: "mfcc;coarse"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := window.Stack(repo, test.recipe)
			var resolutionErr *window.RecipeResolutionError
			require.ErrorAs(t, err, &resolutionErr)
			assert.Equal(t, test.recipe, resolutionErr.Recipe)
		})
	}
}

func TestStackDoesNotAliasRepository(t *testing.T) {
	repo := stackRepo(t)

	m, err := window.Stack(repo, "mfcc=0-1")
	require.NoError(t, err)
	m.Data()[0][0] = -1

	mfcc, _ := repo.Get("mfcc")
	assert.Zero(t, mfcc.Data()[0][0])
}
