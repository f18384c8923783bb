// Package audiofile is the WAV boundary of the module: it decodes files
// into audio containers and encodes containers back. All other formats are
// external collaborators.
package audiofile

import (
	"errors"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/featchain/featchain/container"
)

// ErrInvalidFile is returned when the file is not a decodable wav file.
var ErrInvalidFile = errors.New("audiofile: not a valid wav file")

// Load decodes a wav file into an audio container with float64 samples in
// [-1, 1].
func Load(path string) (*container.Audio, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidFile
	}

	ib, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, err
	}

	numChannels := ib.Format.NumChannels
	devider := bitDepthDevider(int(decoder.BitDepth))
	data := make([][]float64, numChannels)
	frames := len(ib.Data) / numChannels
	for ch := range data {
		data[ch] = make([]float64, frames)
		for i := 0; i < frames; i++ {
			data[ch][i] = float64(ib.Data[i*numChannels+ch]) / devider
		}
	}
	return container.NewAudio(data, int(decoder.SampleRate)), nil
}

// Save encodes an audio container into a PCM wav file with the given bit
// depth.
func Save(path string, a *container.Audio, bitDepth int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := wav.NewEncoder(file, a.SampleRate(), bitDepth, a.Channels(), 1)

	numChannels := a.Channels()
	data := a.Data()
	multiplier := bitDepthDevider(bitDepth) - 1
	ints := make([]int, a.Length()*numChannels)
	for ch, samples := range data {
		for i, v := range samples {
			ints[i*numChannels+ch] = int(v * multiplier)
		}
	}

	ib := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  a.SampleRate(),
		},
		Data:           ints,
		SourceBitDepth: bitDepth,
	}
	if err := encoder.Write(ib); err != nil {
		return err
	}
	return encoder.Close()
}

func bitDepthDevider(bitDepth int) float64 {
	switch bitDepth {
	case 8:
		return math.MaxInt8
	case 16:
		return math.MaxInt16
	case 24:
		return 1 << 23
	case 32:
		return math.MaxInt32
	default:
		return 1
	}
}
