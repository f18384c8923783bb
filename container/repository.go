package container

import (
	"fmt"
	"sort"
)

// DefaultStream is the stream id used when none is given.
const DefaultStream = 0

// KeyNotFoundError is returned when a repository lookup misses.
type KeyNotFoundError struct {
	Label  string
	Stream int
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("container: no entry for label %q stream %d", e.Label, e.Stream)
}

// MergeConflictError is returned when merging repositories with overlapping
// entries and overwrite disabled.
type MergeConflictError struct {
	Label  string
	Stream int
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("container: merge conflict for label %q stream %d", e.Label, e.Stream)
}

// Repository is a two-level keyed collection of matrix containers:
// label -> stream id -> matrix. Stream ids hold parallel variants of the
// same item, for example per-channel features.
type Repository struct {
	items map[string]map[int]*Matrix
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{items: make(map[string]map[int]*Matrix)}
}

// NewRepositoryFrom builds a repository from a nested mapping.
func NewRepositoryFrom(data map[string]map[int]*Matrix) *Repository {
	r := NewRepository()
	for label, streams := range data {
		for stream, m := range streams {
			r.Set(label, stream, m)
		}
	}
	return r
}

// Get returns the container stored under label and the default stream.
func (r *Repository) Get(label string) (*Matrix, error) {
	return r.GetStream(label, DefaultStream)
}

// GetStream returns the container stored under label and stream.
func (r *Repository) GetStream(label string, stream int) (*Matrix, error) {
	streams, ok := r.items[label]
	if !ok {
		return nil, &KeyNotFoundError{Label: label, Stream: stream}
	}
	m, ok := streams[stream]
	if !ok {
		return nil, &KeyNotFoundError{Label: label, Stream: stream}
	}
	return m, nil
}

// Set stores the container under label and stream, replacing any previous
// entry.
func (r *Repository) Set(label string, stream int, m *Matrix) *Repository {
	streams, ok := r.items[label]
	if !ok {
		streams = make(map[int]*Matrix)
		r.items[label] = streams
	}
	streams[stream] = m
	return r
}

// Labels returns the sorted set of labels in the repository.
func (r *Repository) Labels() []string {
	labels := make([]string, 0, len(r.items))
	for label := range r.items {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// StreamIDs returns the sorted stream ids stored under label.
func (r *Repository) StreamIDs(label string) []int {
	streams, ok := r.items[label]
	if !ok {
		return nil
	}
	ids := make([]int, 0, len(streams))
	for id := range streams {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Len returns the number of stored containers.
func (r *Repository) Len() int {
	n := 0
	for _, streams := range r.items {
		n += len(streams)
	}
	return n
}

// Merge unions the entries of other into the repository. Conflicting
// (label, stream) pairs fail with MergeConflictError unless overwrite is
// set. On conflict the repository is left unchanged.
func (r *Repository) Merge(other *Repository, overwrite bool) error {
	if !overwrite {
		for label, streams := range other.items {
			for stream := range streams {
				if _, ok := r.items[label][stream]; ok {
					return &MergeConflictError{Label: label, Stream: stream}
				}
			}
		}
	}
	for label, streams := range other.items {
		for stream, m := range streams {
			r.Set(label, stream, m)
		}
	}
	return nil
}
