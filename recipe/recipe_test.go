package recipe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featchain/featchain/recipe"
)

func TestParse(t *testing.T) {
	tests := []struct {
		recipe   string
		expected []recipe.Entry
	}{
		{
			recipe:   "mfcc",
			expected: []recipe.Entry{{Label: "mfcc", Selector: recipe.Full}},
		},
		{
			recipe: "mfcc;energy",
			expected: []recipe.Entry{
				{Label: "mfcc", Selector: recipe.Full},
				{Label: "energy", Selector: recipe.Full},
			},
		},
		{
			recipe:   "mfcc=1",
			expected: []recipe.Entry{{Label: "mfcc", Stream: 1, Selector: recipe.Full}},
		},
		{
			recipe:   "mfcc=0-9",
			expected: []recipe.Entry{{Label: "mfcc", Selector: recipe.Range, Start: 0, Stop: 10}},
		},
		{
			recipe:   "mfcc=1:0-9",
			expected: []recipe.Entry{{Label: "mfcc", Stream: 1, Selector: recipe.Range, Start: 0, Stop: 10}},
		},
		{
			recipe:   "mfcc=1,5,7",
			expected: []recipe.Entry{{Label: "mfcc", Selector: recipe.Indices, List: []int{1, 5, 7}}},
		},
		{
			recipe: " mfcc = 1,5,7 ; energy ",
			expected: []recipe.Entry{
				{Label: "mfcc", Selector: recipe.Indices, List: []int{1, 5, 7}},
				{Label: "energy", Selector: recipe.Full},
			},
		},
	}

	for _, test := range tests {
		entries, err := recipe.Parse(test.recipe)
		require.NoError(t, err, test.recipe)
		assert.Equal(t, test.expected, entries, test.recipe)
	}
}

func TestParseErrors(t *testing.T) {
	for _, bad := range []string{
		"",
		";;",
		"mfcc=",
		"mfcc=a-b",
		"mfcc=x",
		"mfcc=1,two,3",
		"mfcc=x:0-9",
		"mfcc=9-1",
		"=0-9",
	} {
		_, err := recipe.Parse(bad)
		var parseErr *recipe.ParseError
		assert.ErrorAs(t, err, &parseErr, bad)
	}
}

func TestRowCount(t *testing.T) {
	entries, err := recipe.Parse("a;b=2-4;c=1,5,7")
	require.NoError(t, err)
	assert.Equal(t, 20, entries[0].RowCount(20))
	assert.Equal(t, 3, entries[1].RowCount(20))
	assert.Equal(t, 3, entries[2].RowCount(20))
}
