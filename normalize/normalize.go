// Package normalize accumulates sufficient statistics over feature matrices
// and applies mean/std normalization. A Normalizer is meant to see a whole
// training set through Accumulate before Finalize fixes its parameters.
package normalize

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/featchain/featchain/container"
)

// NotFinalizedError is returned when normalization parameters are requested
// before any data was accumulated.
type NotFinalizedError struct {
	Op string
}

func (e *NotFinalizedError) Error() string {
	return fmt.Sprintf("normalize: %s before any accumulation", e.Op)
}

// Normalizer accumulates per-row count, sum and sum-of-squares and converts
// them into mean and standard deviation. Not safe for concurrent use; use
// one instance per goroutine.
type Normalizer struct {
	n  int
	s1 []float64
	s2 []float64

	mean []float64
	std  []float64
}

// New returns an empty normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// FromParams returns a normalizer with fixed mean and std parameters.
func FromParams(mean, std []float64) *Normalizer {
	return &Normalizer{mean: mean, std: std}
}

// Reset drops all accumulated statistics and parameters.
func (n *Normalizer) Reset() {
	n.n = 0
	n.s1 = nil
	n.s2 = nil
	n.mean = nil
	n.std = nil
}

// Count returns the number of frames accumulated so far.
func (n *Normalizer) Count() int {
	return n.n
}

// Accumulate folds the statistics of m into the running sums. Matrices must
// share the feature vector length.
func (n *Normalizer) Accumulate(m *container.Matrix) error {
	stats := m.Stats()
	if n.s1 == nil {
		n.s1 = make([]float64, len(stats.S1))
		n.s2 = make([]float64, len(stats.S2))
	}
	if len(stats.S1) != len(n.s1) {
		return fmt.Errorf("normalize: vector length mismatch: %d != %d", len(stats.S1), len(n.s1))
	}
	n.n += stats.N
	for i := range n.s1 {
		n.s1[i] += stats.S1[i]
		n.s2[i] += stats.S2[i]
	}
	// Parameters are stale until the next Finalize.
	n.mean = nil
	n.std = nil
	return nil
}

// Finalize converts the accumulated statistics into mean and standard
// deviation. Std uses the unbiased estimate.
func (n *Normalizer) Finalize() error {
	if n.n == 0 {
		return &NotFinalizedError{Op: "Finalize"}
	}
	count := float64(n.n)
	n.mean = make([]float64, len(n.s1))
	n.std = make([]float64, len(n.s1))
	for i := range n.s1 {
		n.mean[i] = n.s1[i] / count
		if n.n > 1 {
			n.std[i] = math.Sqrt((count*n.s2[i] - n.s1[i]*n.s1[i]) / (count * (count - 1)))
		}
	}
	return nil
}

// Mean returns the mean vector, finalizing first when needed.
func (n *Normalizer) Mean() ([]float64, error) {
	if err := n.ensureFinalized(); err != nil {
		return nil, err
	}
	return n.mean, nil
}

// Std returns the standard deviation vector, finalizing first when needed.
func (n *Normalizer) Std() ([]float64, error) {
	if err := n.ensureFinalized(); err != nil {
		return nil, err
	}
	return n.std, nil
}

// Normalize applies (x-mean)/std in place to every row of m.
func (n *Normalizer) Normalize(m *container.Matrix) error {
	if err := n.ensureFinalized(); err != nil {
		return err
	}
	if m.Rows() != len(n.mean) {
		return fmt.Errorf("normalize: vector length mismatch: %d != %d", m.Rows(), len(n.mean))
	}
	m.Normalize(n.mean, n.std)
	return nil
}

func (n *Normalizer) ensureFinalized() error {
	if n.mean != nil && n.std != nil {
		return nil
	}
	if n.n == 0 {
		return &NotFinalizedError{Op: "parameter access"}
	}
	return n.Finalize()
}

type normalizerDoc struct {
	N    int       `yaml:"n"`
	S1   []float64 `yaml:"s1,omitempty"`
	S2   []float64 `yaml:"s2,omitempty"`
	Mean []float64 `yaml:"mean,omitempty"`
	Std  []float64 `yaml:"std,omitempty"`
}

// Save writes the normalizer state, accumulated sums included, to a file.
func (n *Normalizer) Save(path string) error {
	out, err := yaml.Marshal(normalizerDoc{
		N: n.n, S1: n.s1, S2: n.s2, Mean: n.mean, Std: n.std,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// Load reads normalizer state from a file.
func Load(path string) (*Normalizer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc normalizerDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &Normalizer{
		n: doc.N, s1: doc.S1, s2: doc.S2, mean: doc.Mean, std: doc.Std,
	}, nil
}

// RepositoryNormalizer applies per-label normalizers across every stream of
// a repository.
type RepositoryNormalizer struct {
	normalizers map[string]*Normalizer
}

// NewRepository returns an empty repository normalizer.
func NewRepository() *RepositoryNormalizer {
	return &RepositoryNormalizer{normalizers: make(map[string]*Normalizer)}
}

// Set assigns the normalizer used for a label.
func (rn *RepositoryNormalizer) Set(label string, n *Normalizer) *RepositoryNormalizer {
	rn.normalizers[label] = n
	return rn
}

// Get returns the normalizer for a label.
func (rn *RepositoryNormalizer) Get(label string) (*Normalizer, bool) {
	n, ok := rn.normalizers[label]
	return n, ok
}

// Normalize applies every label's normalizer to all its streams in place.
// Labels without a normalizer are left untouched.
func (rn *RepositoryNormalizer) Normalize(repo *container.Repository) error {
	for _, label := range repo.Labels() {
		n, ok := rn.normalizers[label]
		if !ok {
			continue
		}
		for _, stream := range repo.StreamIDs(label) {
			m, err := repo.GetStream(label, stream)
			if err != nil {
				return err
			}
			if err := n.Normalize(m); err != nil {
				return fmt.Errorf("normalize: label %q stream %d: %w", label, stream, err)
			}
		}
	}
	return nil
}

// LoadRepository builds a repository normalizer from per-label state files.
func LoadRepository(paths map[string]string) (*RepositoryNormalizer, error) {
	rn := NewRepository()
	for label, path := range paths {
		n, err := Load(path)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("normalize: cannot load normalizer for label %q", label), err)
		}
		rn.Set(label, n)
	}
	return rn, nil
}
