// Package chain composes typed processors into validated processing chains.
// Every processor declares the data kind it consumes and produces; a chain
// checks adjacent kinds at construction time and records a provenance trail
// while executing.
package chain

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/featchain/featchain/log"
)

// DataType is the kind of payload flowing between chain stages.
type DataType int

const (
	// TypeNone marks stages that manufacture or swallow data.
	TypeNone DataType = iota
	// TypeAudio is an audio container payload.
	TypeAudio
	// TypeDataContainer is a matrix container payload.
	TypeDataContainer
	// TypeDataRepository is a repository payload.
	TypeDataRepository
	// TypeMetadata is a metadata record list payload.
	TypeMetadata
	// TypeMatrix is a raw matrix payload.
	TypeMatrix
)

// String implements fmt.Stringer.
func (t DataType) String() string {
	switch t {
	case TypeNone:
		return "NONE"
	case TypeAudio:
		return "AUDIO"
	case TypeDataContainer:
		return "DATA_CONTAINER"
	case TypeDataRepository:
		return "DATA_REPOSITORY"
	case TypeMetadata:
		return "METADATA"
	case TypeMatrix:
		return "MATRIX"
	}
	return "UNKNOWN"
}

// Params carries call-scoped processor parameters. They apply to a single
// Process invocation and are never persisted into a processor's own
// configuration.
type Params map[string]interface{}

// Int reads an integer parameter, accepting the int types YAML decoders
// produce.
func (p Params) Int(key string) (int, bool) {
	switch v := p[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// Float reads a float parameter.
func (p Params) Float(key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// String reads a string parameter.
func (p Params) String(key string) (string, bool) {
	v, ok := p[key].(string)
	return v, ok
}

// Processor is a single transformation stage. Process must not retain or
// mutate its call-scoped params; implementations are expected to be usable
// from multiple chains unless they accumulate state.
type Processor interface {
	Name() string
	InputType() DataType
	OutputType() DataType
	// Config returns the construction-time configuration, recorded in the
	// provenance trail.
	Config() Params
	Process(in interface{}, params Params) (interface{}, error)
}

// TypeError is returned when adjacent chain stages have incompatible data
// kinds.
type TypeError struct {
	From       string
	To         string
	OutputType DataType
	InputType  DataType
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("chain: invalid connection [%s][%s] -> [%s][%s]",
		e.From, e.OutputType, e.To, e.InputType)
}

// TrailEntry records one executed stage for provenance.
type TrailEntry struct {
	// ID is unique per chain invocation and stage.
	ID string
	// Processor is the stage's identity.
	Processor string
	// Config is the stage's construction-time configuration.
	Config Params
	// Params are the call-scoped parameters used for this invocation.
	Params Params
}

// Chain is a validated, ordered sequence of processors.
type Chain struct {
	stages []Processor
	trail  []TrailEntry
	logger *logrus.Logger
}

// New builds a chain and validates that for every adjacent stage pair the
// output type of the former equals the input type of the latter. Mismatches
// fail here, before any data is processed.
func New(stages ...Processor) (*Chain, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("chain: no stages")
	}
	for i := 1; i < len(stages); i++ {
		if stages[i-1].OutputType() != stages[i].InputType() {
			return nil, &TypeError{
				From:       stages[i-1].Name(),
				To:         stages[i].Name(),
				OutputType: stages[i-1].OutputType(),
				InputType:  stages[i].InputType(),
			}
		}
	}
	return &Chain{
		stages: stages,
		logger: log.GetLogger(),
	}, nil
}

// Len returns the number of stages.
func (c *Chain) Len() int {
	return len(c.stages)
}

// Stages returns the chain's processors in execution order.
func (c *Chain) Stages() []Processor {
	return c.stages
}

// Process executes the stages in order, threading each stage's output into
// the next stage's input. The call-scoped params are offered to every
// stage. A stage failure aborts the invocation and propagates unmodified;
// the trail then covers only the completed stages.
func (c *Chain) Process(params Params) (interface{}, error) {
	return c.ProcessFrom(nil, params)
}

// ProcessFrom is Process with an explicit initial payload injected into the
// first stage.
func (c *Chain) ProcessFrom(in interface{}, params Params) (interface{}, error) {
	c.trail = make([]TrailEntry, 0, len(c.stages))
	data := in
	for _, stage := range c.stages {
		c.logger.WithFields(logrus.Fields{
			"processor": stage.Name(),
			"input":     stage.InputType().String(),
			"output":    stage.OutputType().String(),
		}).Debug("processing stage")

		out, err := stage.Process(data, params)
		if err != nil {
			return nil, err
		}
		c.trail = append(c.trail, TrailEntry{
			ID:        xid.New().String(),
			Processor: stage.Name(),
			Config:    stage.Config(),
			Params:    params,
		})
		data = out
	}
	return data, nil
}

// Trail returns the provenance trail of the latest invocation: one entry
// per executed stage, in execution order.
func (c *Chain) Trail() []TrailEntry {
	return c.trail
}

// String lists the stages with their connecting types.
func (c *Chain) String() string {
	out := ""
	for i, stage := range c.stages {
		if i > 0 {
			out += " -> "
		}
		out += fmt.Sprintf("%s[%s->%s]", stage.Name(), stage.InputType(), stage.OutputType())
	}
	return out
}
