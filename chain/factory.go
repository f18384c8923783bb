package chain

import (
	"fmt"

	"github.com/featchain/featchain/feature"
	"github.com/featchain/featchain/meta"
	"github.com/featchain/featchain/normalize"
	"github.com/featchain/featchain/window"
)

// UnknownProcessorError is returned by the factory for identifiers outside
// the closed processor set.
type UnknownProcessorError struct {
	Name string
}

func (e *UnknownProcessorError) Error() string {
	return fmt.Sprintf("chain: unknown processor %q", e.Name)
}

// NewProcessor builds a processor from its registered identifier and a
// configuration map. The identifier set is closed; unknown names fail with
// UnknownProcessorError instead of any dynamic lookup.
func NewProcessor(name string, config Params) (Processor, error) {
	switch name {
	case "audio_reader":
		filename, _ := config.String("filename")
		mono, _ := config["mono"].(bool)
		return &AudioReader{Filename: filename, Mono: mono}, nil

	case "feature_extractor":
		extractor, err := extractorFromConfig(config)
		if err != nil {
			return nil, err
		}
		return &FeatureExtractor{Extractor: extractor}, nil

	case "repository_feature_extractor":
		framing, err := framingFromConfig(config)
		if err != nil {
			return nil, err
		}
		names, ok := config["extractors"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("chain: repository_feature_extractor requires an extractor list")
		}
		extractors := make([]feature.Extractor, 0, len(names))
		for _, n := range names {
			name, ok := n.(string)
			if !ok {
				return nil, fmt.Errorf("chain: extractor names must be strings")
			}
			extractor, err := feature.New(name, framing)
			if err != nil {
				return nil, err
			}
			extractors = append(extractors, extractor)
		}
		return &RepositoryFeatureExtractor{Extractors: extractors}, nil

	case "aggregator":
		names, ok := config["recipe"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("chain: aggregator requires a recipe list")
		}
		stats := make([]window.Stat, 0, len(names))
		for _, n := range names {
			name, ok := n.(string)
			if !ok {
				return nil, fmt.Errorf("chain: aggregation statistics must be strings")
			}
			stat, err := window.ParseStat(name)
			if err != nil {
				return nil, err
			}
			stats = append(stats, stat)
		}
		winLength, _ := config.Int("win_length")
		hopLength, _ := config.Int("hop_length")
		return &Aggregator{Stats: stats, WinLength: winLength, HopLength: hopLength}, nil

	case "sequencer":
		length, _ := config.Int("sequence_length")
		hop, _ := config.Int("hop_length")
		s := window.NewSequencer(length, hop)
		if padding, ok := config.String("padding"); ok {
			s.Padding = window.PadMode(padding)
		}
		if border, ok := config.String("shift_border"); ok {
			s.Border = window.ShiftBorder(border)
		}
		if step, ok := config.Int("shift_step"); ok {
			s.ShiftStep = step
		}
		if max, ok := config.Int("shift_max"); ok {
			s.ShiftMax = max
		}
		if seed, ok := config.Int("seed"); ok {
			s.Seed(int64(seed))
		}
		return &Sequencer{Sequencer: s}, nil

	case "stacker":
		recipe, ok := config.String("recipe")
		if !ok {
			return nil, fmt.Errorf("chain: stacker requires a recipe string")
		}
		return &Stacker{Recipe: recipe}, nil

	case "normalizer":
		if path, ok := config.String("filename"); ok {
			n, err := normalize.Load(path)
			if err != nil {
				return nil, err
			}
			return &Normalizer{Normalizer: n}, nil
		}
		return &Normalizer{Normalizer: normalize.New()}, nil

	case "repository_normalizer":
		paths, ok := config["filenames"].(map[string]string)
		if !ok {
			return nil, fmt.Errorf("chain: repository_normalizer requires per-label state files")
		}
		rn, err := normalize.LoadRepository(paths)
		if err != nil {
			return nil, err
		}
		return &RepositoryNormalizer{Normalizer: rn}, nil

	case "repository_masker":
		events, _ := config["events"].(meta.Records)
		return &RepositoryMasker{Events: events}, nil

	case "metadata_reader":
		records, _ := config["records"].(meta.Records)
		return &MetadataReader{Records: records}, nil
	}
	return nil, &UnknownProcessorError{Name: name}
}

func framingFromConfig(config Params) (feature.Framing, error) {
	winLength, ok := config.Int("win_length")
	if !ok {
		return feature.Framing{}, fmt.Errorf("chain: extractor config requires win_length")
	}
	hopLength, ok := config.Int("hop_length")
	if !ok {
		return feature.Framing{}, fmt.Errorf("chain: extractor config requires hop_length")
	}
	return feature.Framing{WinLength: winLength, HopLength: hopLength}, nil
}

func extractorFromConfig(config Params) (feature.Extractor, error) {
	name, ok := config.String("extractor")
	if !ok {
		return nil, fmt.Errorf("chain: feature_extractor requires an extractor name")
	}
	framing, err := framingFromConfig(config)
	if err != nil {
		return nil, err
	}
	return feature.New(name, framing)
}
