package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featchain/featchain/container"
)

func TestRepositoryGetSet(t *testing.T) {
	repo := container.NewRepository()
	m := container.NewMatrix([][]float64{{1, 2}}, 0.02)
	repo.Set("mfcc", container.DefaultStream, m)

	got, err := repo.Get("mfcc")
	require.NoError(t, err)
	assert.Same(t, m, got)

	_, err = repo.Get("energy")
	var keyErr *container.KeyNotFoundError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "energy", keyErr.Label)

	_, err = repo.GetStream("mfcc", 3)
	assert.ErrorAs(t, err, &keyErr)
}

func TestRepositoryEnumeration(t *testing.T) {
	repo := container.NewRepository()
	m := container.NewMatrix(nil, 0)
	repo.Set("zcr", 0, m)
	repo.Set("mfcc", 1, m)
	repo.Set("mfcc", 0, m)

	assert.Equal(t, []string{"mfcc", "zcr"}, repo.Labels())
	assert.Equal(t, []int{0, 1}, repo.StreamIDs("mfcc"))
	assert.Nil(t, repo.StreamIDs("unknown"))
	assert.Equal(t, 3, repo.Len())
}

func TestRepositoryMerge(t *testing.T) {
	a := container.NewRepository()
	b := container.NewRepository()
	m1 := container.NewMatrix([][]float64{{1}}, 0)
	m2 := container.NewMatrix([][]float64{{2}}, 0)
	a.Set("mfcc", 0, m1)
	b.Set("mfcc", 1, m2)
	b.Set("zcr", 0, m2)

	require.NoError(t, a.Merge(b, false))
	assert.Equal(t, 3, a.Len())
}

func TestRepositoryMergeConflict(t *testing.T) {
	a := container.NewRepository()
	b := container.NewRepository()
	m1 := container.NewMatrix([][]float64{{1}}, 0)
	m2 := container.NewMatrix([][]float64{{2}}, 0)
	a.Set("mfcc", 0, m1)
	b.Set("mfcc", 0, m2)

	err := a.Merge(b, false)
	var conflict *container.MergeConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "mfcc", conflict.Label)

	// The failed merge left the repository unchanged.
	got, err := a.Get("mfcc")
	require.NoError(t, err)
	assert.Same(t, m1, got)

	// Overwrite resolves the conflict.
	require.NoError(t, a.Merge(b, true))
	got, err = a.Get("mfcc")
	require.NoError(t, err)
	assert.Same(t, m2, got)
}

func TestRepositoryFrom(t *testing.T) {
	m := container.NewMatrix([][]float64{{1}}, 0)
	repo := container.NewRepositoryFrom(map[string]map[int]*container.Matrix{
		"mfcc": {0: m, 1: m},
	})
	assert.Equal(t, 2, repo.Len())
}
