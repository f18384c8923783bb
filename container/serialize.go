package container

import (
	"os"

	"gopkg.in/yaml.v3"
)

// matrixDoc is the on-disk form of a matrix. Focus state is deliberately not
// persisted; a loaded matrix always starts unfocused.
type matrixDoc struct {
	Data           [][]float64 `yaml:"data"`
	TimeResolution float64     `yaml:"time_resolution"`
}

type repositoryDoc map[string]map[int]matrixDoc

// MarshalYAML implements yaml.Marshaler.
func (m *Matrix) MarshalYAML() (interface{}, error) {
	return matrixDoc{
		Data:           m.data,
		TimeResolution: m.timeResolution,
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Matrix) UnmarshalYAML(value *yaml.Node) error {
	var doc matrixDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}
	m.data = doc.Data
	m.timeResolution = doc.TimeResolution
	m.stats = nil
	m.ResetFocus()
	return nil
}

// Save writes the matrix to a file.
func (m *Matrix) Save(path string) error {
	out, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// LoadMatrix reads a matrix from a file.
func LoadMatrix(path string) (*Matrix, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := &Matrix{}
	if err := yaml.Unmarshal(raw, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Save writes the repository to a file.
func (r *Repository) Save(path string) error {
	doc := make(repositoryDoc, len(r.items))
	for label, streams := range r.items {
		doc[label] = make(map[int]matrixDoc, len(streams))
		for stream, m := range streams {
			doc[label][stream] = matrixDoc{
				Data:           m.data,
				TimeResolution: m.timeResolution,
			}
		}
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// LoadRepository reads a repository from a file.
func LoadRepository(path string) (*Repository, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc repositoryDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	r := NewRepository()
	for label, streams := range doc {
		for stream, md := range streams {
			r.Set(label, stream, NewMatrix(md.Data, md.TimeResolution))
		}
	}
	return r, nil
}
