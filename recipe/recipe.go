// Package recipe parses textual stacking recipes. A recipe is a
// semicolon-separated list of entries, each naming a repository label and an
// optional row selector:
//
//	mfcc                  full matrix, default stream
//	mfcc=1                full matrix, stream 1
//	mfcc=0-9              rows 0..9, default stream
//	mfcc=1:0-9            rows 0..9, stream 1
//	mfcc=1,5,7            rows 1, 5 and 7 in that order, default stream
//
// A parsed entry resolves deterministically to a fixed output row count for
// a fixed input matrix shape.
package recipe

import (
	"fmt"
	"strconv"
	"strings"
)

// Selector describes how an entry picks rows from its source matrix.
type Selector int

const (
	// Full selects the whole matrix.
	Full Selector = iota
	// Range selects the contiguous rows [Start, Stop).
	Range
	// Indices selects the listed rows in the listed order.
	Indices
)

// ParseError is returned on malformed recipe strings.
type ParseError struct {
	Recipe string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("recipe: cannot parse %q: %s", e.Recipe, e.Reason)
}

// Entry is one parsed recipe entry.
type Entry struct {
	Label    string
	Stream   int
	Selector Selector
	Start    int
	Stop     int
	List     []int
}

// RowCount resolves the number of output rows the entry selects from a
// matrix with totalRows rows.
func (e Entry) RowCount(totalRows int) int {
	switch e.Selector {
	case Range:
		return e.Stop - e.Start
	case Indices:
		return len(e.List)
	default:
		return totalRows
	}
}

// Parse parses a recipe string into its entries.
func Parse(s string) ([]Entry, error) {
	var entries []Entry
	for _, block := range strings.Split(s, ";") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		entry, err := parseEntry(block)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, &ParseError{Recipe: s, Reason: "no entries"}
	}
	return entries, nil
}

func parseEntry(block string) (Entry, error) {
	parts := strings.SplitN(block, "=", 2)
	entry := Entry{
		Label:    strings.TrimSpace(parts[0]),
		Selector: Full,
	}
	if entry.Label == "" {
		return Entry{}, &ParseError{Recipe: block, Reason: "empty label"}
	}
	if len(parts) == 1 {
		return entry, nil
	}

	selector := strings.TrimSpace(parts[1])
	if selector == "" {
		return Entry{}, &ParseError{Recipe: block, Reason: "empty selector"}
	}

	// Optional stream prefix: stream:start-stop.
	if dims := strings.SplitN(selector, ":", 2); len(dims) == 2 {
		stream, err := strconv.Atoi(strings.TrimSpace(dims[0]))
		if err != nil {
			return Entry{}, &ParseError{Recipe: block, Reason: "invalid stream id"}
		}
		entry.Stream = stream
		selector = strings.TrimSpace(dims[1])
	}

	switch {
	case strings.Contains(selector, "-"):
		bounds := strings.SplitN(selector, "-", 2)
		start, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
		if err != nil {
			return Entry{}, &ParseError{Recipe: block, Reason: "invalid range start"}
		}
		stop, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
		if err != nil {
			return Entry{}, &ParseError{Recipe: block, Reason: "invalid range stop"}
		}
		if stop < start {
			return Entry{}, &ParseError{Recipe: block, Reason: "range stop before start"}
		}
		entry.Selector = Range
		entry.Start = start
		// Stop bound is inclusive in the textual form.
		entry.Stop = stop + 1

	case strings.Contains(selector, ","):
		for _, field := range strings.Split(selector, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return Entry{}, &ParseError{Recipe: block, Reason: "invalid row index"}
			}
			entry.List = append(entry.List, id)
		}
		entry.Selector = Indices

	default:
		stream, err := strconv.Atoi(selector)
		if err != nil {
			return Entry{}, &ParseError{Recipe: block, Reason: "invalid selector"}
		}
		entry.Stream = stream
	}
	return entry, nil
}
