// Package meta holds the metadata records handed to the core by file-backed
// metadata readers: one record per annotated segment of a signal.
package meta

import "sort"

// Record is one metadata item. Onset and Offset are in seconds; a zero
// Offset with a zero Onset means the record covers the whole item.
type Record struct {
	Filename   string   `yaml:"filename,omitempty"`
	Onset      float64  `yaml:"onset,omitempty"`
	Offset     float64  `yaml:"offset,omitempty"`
	SceneLabel string   `yaml:"scene_label,omitempty"`
	EventLabel string   `yaml:"event_label,omitempty"`
	Tags       []string `yaml:"tags,omitempty"`
}

// Duration returns the covered time span in seconds.
func (r Record) Duration() float64 {
	return r.Offset - r.Onset
}

// Records is a list of metadata items.
type Records []Record

// FilterByFilename returns the records matching the given filename.
func (rs Records) FilterByFilename(filename string) Records {
	var out Records
	for _, r := range rs {
		if r.Filename == filename {
			out = append(out, r)
		}
	}
	return out
}

// FilterByEventLabel returns the records matching the given event label.
func (rs Records) FilterByEventLabel(label string) Records {
	var out Records
	for _, r := range rs {
		if r.EventLabel == label {
			out = append(out, r)
		}
	}
	return out
}

// SceneLabels returns the sorted set of unique scene labels.
func (rs Records) SceneLabels() []string {
	return rs.uniqueLabels(func(r Record) string { return r.SceneLabel })
}

// EventLabels returns the sorted set of unique event labels.
func (rs Records) EventLabels() []string {
	return rs.uniqueLabels(func(r Record) string { return r.EventLabel })
}

// Tags returns the sorted set of unique tags.
func (rs Records) Tags() []string {
	seen := make(map[string]struct{})
	for _, r := range rs {
		for _, tag := range r.Tags {
			seen[tag] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// MaxOffset returns the largest offset in the records.
func (rs Records) MaxOffset() float64 {
	var max float64
	for _, r := range rs {
		if r.Offset > max {
			max = r.Offset
		}
	}
	return max
}

func (rs Records) uniqueLabels(field func(Record) string) []string {
	seen := make(map[string]struct{})
	for _, r := range rs {
		if label := field(r); label != "" {
			seen[label] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
