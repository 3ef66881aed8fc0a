// sample_buffer.go - Immutable source sample storage

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

package main

import "errors"

var errEmptySample = errors.New("sample buffer is empty")

// SampleBuffer holds the source material grains read from. Ownership
// transfers to the engine on submission: the producer must not mutate the
// backing slice afterwards. Multi-channel input is mixed down to mono at
// construction because each grain reads through a single fractional index;
// the stereo field is created by per-grain panning, not by the source.
type SampleBuffer struct {
	data       []float32
	channels   int // channel count of the original material
	sampleRate int
}

// NewSampleBuffer wraps interleaved sample data. For channels > 1 the
// interleaved frames are averaged into a fresh mono slice; mono input is
// adopted without copying.
func NewSampleBuffer(data []float32, channels, sampleRate int) (*SampleBuffer, error) {
	if len(data) == 0 {
		return nil, errEmptySample
	}
	if channels < 1 {
		channels = 1
	}
	if sampleRate <= 0 {
		return nil, errors.New("sample buffer: non-positive sample rate")
	}
	mono := data
	if channels > 1 {
		frames := len(data) / channels
		mono = make([]float32, frames)
		for i := 0; i < frames; i++ {
			var sum float32
			for c := 0; c < channels; c++ {
				sum += data[i*channels+c]
			}
			mono[i] = sum / float32(channels)
		}
	}
	return &SampleBuffer{data: mono, channels: channels, sampleRate: sampleRate}, nil
}

func (b *SampleBuffer) Len() int { return len(b.data) }

func (b *SampleBuffer) SampleRate() int { return b.sampleRate }

func (b *SampleBuffer) Channels() int { return b.channels }

// Data exposes the mono samples for read-only use (waveform drawing).
func (b *SampleBuffer) Data() []float32 { return b.data }
