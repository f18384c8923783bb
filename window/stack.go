package window

import (
	"fmt"

	"github.com/featchain/featchain/container"
	"github.com/featchain/featchain/recipe"
)

// RecipeResolutionError is returned when a stacking recipe is malformed or
// cannot be satisfied by the repository contents.
type RecipeResolutionError struct {
	Recipe string
	Reason string
	Err    error
}

func (e *RecipeResolutionError) Error() string {
	return fmt.Sprintf("window: cannot resolve recipe %q: %s", e.Recipe, e.Reason)
}

func (e *RecipeResolutionError) Unwrap() error {
	return e.Err
}

// Stack parses recipeString, looks up every entry in the repository,
// validates that all selected sub-matrices share the same time-axis length
// and time resolution, and concatenates them along the feature axis in
// recipe order.
func Stack(repo *container.Repository, recipeString string) (*container.Matrix, error) {
	entries, err := recipe.Parse(recipeString)
	if err != nil {
		return nil, &RecipeResolutionError{Recipe: recipeString, Reason: "malformed recipe", Err: err}
	}

	var (
		length         = -1
		timeResolution = -1.0
		stacked        [][]float64
	)
	for _, entry := range entries {
		m, err := repo.GetStream(entry.Label, entry.Stream)
		if err != nil {
			return nil, &RecipeResolutionError{Recipe: recipeString, Reason: err.Error(), Err: err}
		}

		if length == -1 {
			length = m.Length()
		} else if m.Length() != length {
			return nil, &RecipeResolutionError{
				Recipe: recipeString,
				Reason: fmt.Sprintf("label %q has %d frames, expected %d", entry.Label, m.Length(), length),
			}
		}
		if m.TimeResolution() > 0 {
			if timeResolution < 0 {
				timeResolution = m.TimeResolution()
			} else if m.TimeResolution() != timeResolution {
				return nil, &RecipeResolutionError{
					Recipe: recipeString,
					Reason: fmt.Sprintf("label %q has time resolution %v, expected %v",
						entry.Label, m.TimeResolution(), timeResolution),
				}
			}
		}

		rows, err := selectRows(m, entry)
		if err != nil {
			return nil, &RecipeResolutionError{Recipe: recipeString, Reason: err.Error(), Err: err}
		}
		stacked = append(stacked, rows...)
	}

	if timeResolution < 0 {
		timeResolution = 0
	}
	return container.NewMatrix(stacked, timeResolution), nil
}

func selectRows(m *container.Matrix, entry recipe.Entry) ([][]float64, error) {
	switch entry.Selector {
	case recipe.Range:
		if entry.Stop > m.Rows() {
			return nil, fmt.Errorf("row range %d-%d exceeds %d rows of label %q",
				entry.Start, entry.Stop-1, m.Rows(), entry.Label)
		}
		return m.RowRange(entry.Start, entry.Stop), nil

	case recipe.Indices:
		out := make([][]float64, 0, len(entry.List))
		for _, id := range entry.List {
			if id < 0 || id >= m.Rows() {
				return nil, fmt.Errorf("row index %d exceeds %d rows of label %q", id, m.Rows(), entry.Label)
			}
			out = append(out, append([]float64(nil), m.Data()[id]...))
		}
		return out, nil

	default:
		return m.CopyData(), nil
	}
}
