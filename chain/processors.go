package chain

import (
	"fmt"

	"github.com/featchain/featchain/audiofile"
	"github.com/featchain/featchain/container"
	"github.com/featchain/featchain/encode"
	"github.com/featchain/featchain/feature"
	"github.com/featchain/featchain/meta"
	"github.com/featchain/featchain/normalize"
	"github.com/featchain/featchain/window"
)

// UnexpectedInputError is returned when a stage receives a payload of the
// wrong concrete type at run time. Chain validation prevents this for
// chains built through New; it can still surface on direct Process calls.
type UnexpectedInputError struct {
	Processor string
	Expected  DataType
}

func (e *UnexpectedInputError) Error() string {
	return fmt.Sprintf("chain: %s expects %s input", e.Processor, e.Expected)
}

// AudioReader manufactures an audio container from a wav file. The filename
// comes from the construction config and may be overridden per call with
// the "filename" param. Call-scoped "focus_start_seconds",
// "focus_stop_seconds" and "focus_channel" params narrow the clip before it
// enters the chain.
type AudioReader struct {
	Filename string
	Mono     bool
}

// Name implements Processor.
func (*AudioReader) Name() string { return "audio_reader" }

// InputType implements Processor.
func (*AudioReader) InputType() DataType { return TypeNone }

// OutputType implements Processor.
func (*AudioReader) OutputType() DataType { return TypeAudio }

// Config implements Processor.
func (p *AudioReader) Config() Params {
	return Params{"filename": p.Filename, "mono": p.Mono}
}

// Process implements Processor.
func (p *AudioReader) Process(_ interface{}, params Params) (interface{}, error) {
	filename := p.Filename
	if override, ok := params.String("filename"); ok {
		filename = override
	}
	a, err := audiofile.Load(filename)
	if err != nil {
		return nil, err
	}
	if p.Mono {
		a.MixDown()
	}
	if channel, ok := params.Int("focus_channel"); ok {
		a.SetFocusChannel(channel)
	}
	start, startOK := params.Float("focus_start_seconds")
	stop, stopOK := params.Float("focus_stop_seconds")
	if startOK && stopOK {
		if _, err := a.SetFocusSeconds(start, stop); err != nil {
			return nil, err
		}
	}
	return a.Freeze(), nil
}

// FeatureExtractor extracts one feature matrix from the first channel of an
// audio container.
type FeatureExtractor struct {
	Extractor feature.Extractor
}

// Name implements Processor.
func (p *FeatureExtractor) Name() string {
	return "feature_extractor." + p.Extractor.Name()
}

// InputType implements Processor.
func (*FeatureExtractor) InputType() DataType { return TypeAudio }

// OutputType implements Processor.
func (*FeatureExtractor) OutputType() DataType { return TypeDataContainer }

// Config implements Processor.
func (p *FeatureExtractor) Config() Params {
	return Params{"extractor": p.Extractor.Name()}
}

// Process implements Processor.
func (p *FeatureExtractor) Process(in interface{}, _ Params) (interface{}, error) {
	a, ok := in.(*container.Audio)
	if !ok {
		return nil, &UnexpectedInputError{Processor: p.Name(), Expected: TypeAudio}
	}
	return p.Extractor.Extract(a)
}

// RepositoryFeatureExtractor runs several extractors over every channel of
// an audio container and collects the results into a repository: extractor
// name becomes the label, channel index the stream id.
type RepositoryFeatureExtractor struct {
	Extractors []feature.Extractor
}

// Name implements Processor.
func (*RepositoryFeatureExtractor) Name() string { return "repository_feature_extractor" }

// InputType implements Processor.
func (*RepositoryFeatureExtractor) InputType() DataType { return TypeAudio }

// OutputType implements Processor.
func (*RepositoryFeatureExtractor) OutputType() DataType { return TypeDataRepository }

// Config implements Processor.
func (p *RepositoryFeatureExtractor) Config() Params {
	names := make([]string, len(p.Extractors))
	for i, e := range p.Extractors {
		names[i] = e.Name()
	}
	return Params{"extractors": names}
}

// Process implements Processor.
func (p *RepositoryFeatureExtractor) Process(in interface{}, _ Params) (interface{}, error) {
	a, ok := in.(*container.Audio)
	if !ok {
		return nil, &UnexpectedInputError{Processor: p.Name(), Expected: TypeAudio}
	}
	repo := container.NewRepository()
	for channel := 0; channel < a.Channels(); channel++ {
		mono := container.NewAudio(a.Data()[channel:channel+1], a.SampleRate())
		for _, extractor := range p.Extractors {
			m, err := extractor.Extract(mono)
			if err != nil {
				return nil, err
			}
			repo.Set(extractor.Name(), channel, m)
		}
	}
	return repo, nil
}

// Aggregator aggregates a matrix over sliding windows.
type Aggregator struct {
	Stats     []window.Stat
	WinLength int
	HopLength int
}

// Name implements Processor.
func (*Aggregator) Name() string { return "aggregator" }

// InputType implements Processor.
func (*Aggregator) InputType() DataType { return TypeDataContainer }

// OutputType implements Processor.
func (*Aggregator) OutputType() DataType { return TypeDataContainer }

// Config implements Processor.
func (p *Aggregator) Config() Params {
	return Params{
		"recipe":     p.Stats,
		"win_length": p.WinLength,
		"hop_length": p.HopLength,
	}
}

// Process implements Processor.
func (p *Aggregator) Process(in interface{}, _ Params) (interface{}, error) {
	m, ok := in.(*container.Matrix)
	if !ok {
		return nil, &UnexpectedInputError{Processor: p.Name(), Expected: TypeDataContainer}
	}
	return window.Aggregate(m, p.Stats, p.WinLength, p.HopLength)
}

// Sequencer splits a matrix into fixed-length sequences.
type Sequencer struct {
	Sequencer *window.Sequencer
}

// Name implements Processor.
func (*Sequencer) Name() string { return "sequencer" }

// InputType implements Processor.
func (*Sequencer) InputType() DataType { return TypeDataContainer }

// OutputType implements Processor.
func (*Sequencer) OutputType() DataType { return TypeDataContainer }

// Config implements Processor.
func (p *Sequencer) Config() Params {
	return Params{
		"sequence_length": p.Sequencer.Length,
		"hop_length":      p.Sequencer.Hop,
		"padding":         string(p.Sequencer.Padding),
		"shift_border":    string(p.Sequencer.Border),
	}
}

// Process implements Processor.
func (p *Sequencer) Process(in interface{}, _ Params) (interface{}, error) {
	m, ok := in.(*container.Matrix)
	if !ok {
		return nil, &UnexpectedInputError{Processor: p.Name(), Expected: TypeDataContainer}
	}
	return p.Sequencer.Sequence(m)
}

// Stacker stacks repository entries into a dense matrix following a recipe.
type Stacker struct {
	Recipe string
}

// Name implements Processor.
func (*Stacker) Name() string { return "stacker" }

// InputType implements Processor.
func (*Stacker) InputType() DataType { return TypeDataRepository }

// OutputType implements Processor.
func (*Stacker) OutputType() DataType { return TypeDataContainer }

// Config implements Processor.
func (p *Stacker) Config() Params {
	return Params{"recipe": p.Recipe}
}

// Process implements Processor.
func (p *Stacker) Process(in interface{}, _ Params) (interface{}, error) {
	repo, ok := in.(*container.Repository)
	if !ok {
		return nil, &UnexpectedInputError{Processor: p.Name(), Expected: TypeDataRepository}
	}
	return window.Stack(repo, p.Recipe)
}

// Normalizer applies accumulated mean/std normalization to a matrix. The
// wrapped normalizer accumulates state across calls to Accumulate and is
// therefore not safe to share between concurrently running chains.
type Normalizer struct {
	Normalizer *normalize.Normalizer
}

// Name implements Processor.
func (*Normalizer) Name() string { return "normalizer" }

// InputType implements Processor.
func (*Normalizer) InputType() DataType { return TypeDataContainer }

// OutputType implements Processor.
func (*Normalizer) OutputType() DataType { return TypeDataContainer }

// Config implements Processor.
func (p *Normalizer) Config() Params {
	return Params{"accumulated_frames": p.Normalizer.Count()}
}

// Process implements Processor.
func (p *Normalizer) Process(in interface{}, _ Params) (interface{}, error) {
	m, ok := in.(*container.Matrix)
	if !ok {
		return nil, &UnexpectedInputError{Processor: p.Name(), Expected: TypeDataContainer}
	}
	if err := p.Normalizer.Normalize(m); err != nil {
		return nil, err
	}
	return m, nil
}

// RepositoryNormalizer applies per-label normalization across a repository.
type RepositoryNormalizer struct {
	Normalizer *normalize.RepositoryNormalizer
}

// Name implements Processor.
func (*RepositoryNormalizer) Name() string { return "repository_normalizer" }

// InputType implements Processor.
func (*RepositoryNormalizer) InputType() DataType { return TypeDataRepository }

// OutputType implements Processor.
func (*RepositoryNormalizer) OutputType() DataType { return TypeDataRepository }

// Config implements Processor.
func (p *RepositoryNormalizer) Config() Params {
	return Params{}
}

// Process implements Processor.
func (p *RepositoryNormalizer) Process(in interface{}, _ Params) (interface{}, error) {
	repo, ok := in.(*container.Repository)
	if !ok {
		return nil, &UnexpectedInputError{Processor: p.Name(), Expected: TypeDataRepository}
	}
	if err := p.Normalizer.Normalize(repo); err != nil {
		return nil, err
	}
	return repo, nil
}

// RepositoryMasker removes event-covered frames from every container of a
// repository. Events come from the construction config and can be replaced
// per call with the "events" param.
type RepositoryMasker struct {
	Events meta.Records
}

// Name implements Processor.
func (*RepositoryMasker) Name() string { return "repository_masker" }

// InputType implements Processor.
func (*RepositoryMasker) InputType() DataType { return TypeDataRepository }

// OutputType implements Processor.
func (*RepositoryMasker) OutputType() DataType { return TypeDataRepository }

// Config implements Processor.
func (p *RepositoryMasker) Config() Params {
	return Params{"events": len(p.Events)}
}

// Process implements Processor.
func (p *RepositoryMasker) Process(in interface{}, params Params) (interface{}, error) {
	repo, ok := in.(*container.Repository)
	if !ok {
		return nil, &UnexpectedInputError{Processor: p.Name(), Expected: TypeDataRepository}
	}
	events := p.Events
	if override, ok := params["events"].(meta.Records); ok {
		events = override
	}
	if err := window.Mask(repo, events); err != nil {
		return nil, err
	}
	return repo, nil
}

// MetadataReader manufactures metadata records, optionally narrowed per
// call to one filename with the "filename" param.
type MetadataReader struct {
	Records meta.Records
}

// Name implements Processor.
func (*MetadataReader) Name() string { return "metadata_reader" }

// InputType implements Processor.
func (*MetadataReader) InputType() DataType { return TypeNone }

// OutputType implements Processor.
func (*MetadataReader) OutputType() DataType { return TypeMetadata }

// Config implements Processor.
func (p *MetadataReader) Config() Params {
	return Params{"records": len(p.Records)}
}

// Process implements Processor.
func (p *MetadataReader) Process(_ interface{}, params Params) (interface{}, error) {
	if filename, ok := params.String("filename"); ok {
		return p.Records.FilterByFilename(filename), nil
	}
	return p.Records, nil
}

// OneHotEncoder encodes the scene label of the incoming records into a
// binary matrix spanning "length_frames" frames.
type OneHotEncoder struct {
	Encoder      *encode.OneHot
	LengthFrames int
}

// Name implements Processor.
func (*OneHotEncoder) Name() string { return "one_hot_encoder" }

// InputType implements Processor.
func (*OneHotEncoder) InputType() DataType { return TypeMetadata }

// OutputType implements Processor.
func (*OneHotEncoder) OutputType() DataType { return TypeDataContainer }

// Config implements Processor.
func (p *OneHotEncoder) Config() Params {
	return Params{
		"labels":        p.Encoder.Labels,
		"length_frames": p.LengthFrames,
	}
}

// Process implements Processor.
func (p *OneHotEncoder) Process(in interface{}, params Params) (interface{}, error) {
	records, ok := in.(meta.Records)
	if !ok {
		return nil, &UnexpectedInputError{Processor: p.Name(), Expected: TypeMetadata}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("chain: one_hot_encoder: no records")
	}
	length := p.LengthFrames
	if override, ok := params.Int("length_frames"); ok {
		length = override
	}
	return p.Encoder.Encode(records[0].SceneLabel, length)
}

// EventRollEncoder encodes timed event records into a binary activity
// matrix.
type EventRollEncoder struct {
	Encoder      *encode.EventRoll
	LengthFrames int
}

// Name implements Processor.
func (*EventRollEncoder) Name() string { return "event_roll_encoder" }

// InputType implements Processor.
func (*EventRollEncoder) InputType() DataType { return TypeMetadata }

// OutputType implements Processor.
func (*EventRollEncoder) OutputType() DataType { return TypeDataContainer }

// Config implements Processor.
func (p *EventRollEncoder) Config() Params {
	return Params{
		"labels":        p.Encoder.Labels,
		"length_frames": p.LengthFrames,
	}
}

// Process implements Processor.
func (p *EventRollEncoder) Process(in interface{}, params Params) (interface{}, error) {
	records, ok := in.(meta.Records)
	if !ok {
		return nil, &UnexpectedInputError{Processor: p.Name(), Expected: TypeMetadata}
	}
	length := p.LengthFrames
	if override, ok := params.Int("length_frames"); ok {
		length = override
	}
	return p.Encoder.Encode(records, length)
}
