// sample_loader.go - Source material loading (WAV, MP3)

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// WAV format codes
const (
	wavFormatPCM   = 1
	wavFormatFloat = 3
)

// LoadSample reads an audio file into a SampleBuffer, dispatching on the
// file extension. The buffer keeps whatever sample rate the file was
// encoded at; the engine only uses the rate for time-to-frame conversion.
func LoadSample(path string) (*SampleBuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return parseWAV(data)
	case ".mp3":
		return parseMP3(data)
	default:
		return nil, fmt.Errorf("unsupported sample format: %s", filepath.Ext(path))
	}
}

// parseWAV walks the RIFF chunk list and converts the data chunk to
// float32. Supported encodings: PCM 16-bit, PCM 24-bit, IEEE float 32-bit.
func parseWAV(data []byte) (*SampleBuffer, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE file")
	}

	var (
		format     uint16
		channels   uint16
		sampleRate uint32
		bitDepth   uint16
		pcm        []byte
		haveFmt    bool
	)

	pos := 12
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkLen := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+chunkLen > len(data) {
			chunkLen = len(data) - body // tolerate a truncated final chunk
		}

		switch chunkID {
		case "fmt ":
			if chunkLen < 16 {
				return nil, fmt.Errorf("wav: short fmt chunk (%d bytes)", chunkLen)
			}
			format = binary.LittleEndian.Uint16(data[body : body+2])
			channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			sampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			bitDepth = binary.LittleEndian.Uint16(data[body+14 : body+16])
			haveFmt = true
		case "data":
			pcm = data[body : body+chunkLen]
		}

		pos = body + chunkLen
		if chunkLen%2 == 1 {
			pos++ // chunks are word-aligned
		}
	}

	if !haveFmt {
		return nil, fmt.Errorf("wav: missing fmt chunk")
	}
	if pcm == nil {
		return nil, fmt.Errorf("wav: missing data chunk")
	}
	if channels == 0 {
		return nil, fmt.Errorf("wav: zero channels")
	}

	var samples []float32
	switch {
	case format == wavFormatPCM && bitDepth == 16:
		n := len(pcm) / 2
		samples = make([]float32, n)
		for i := 0; i < n; i++ {
			v := int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
			samples[i] = float32(v) / 32768
		}
	case format == wavFormatPCM && bitDepth == 24:
		n := len(pcm) / 3
		samples = make([]float32, n)
		for i := 0; i < n; i++ {
			v := int32(pcm[i*3]) | int32(pcm[i*3+1])<<8 | int32(pcm[i*3+2])<<16
			if v&0x800000 != 0 {
				v |= ^int32(0xFFFFFF) // sign-extend
			}
			samples[i] = float32(v) / 8388608
		}
	case format == wavFormatFloat && bitDepth == 32:
		n := len(pcm) / 4
		samples = make([]float32, n)
		for i := 0; i < n; i++ {
			bits := binary.LittleEndian.Uint32(pcm[i*4 : i*4+4])
			samples[i] = math.Float32frombits(bits)
		}
	default:
		return nil, fmt.Errorf("wav: unsupported encoding (format %d, %d-bit)", format, bitDepth)
	}

	return NewSampleBuffer(samples, int(channels), int(sampleRate))
}

// parseMP3 decodes an MP3 stream. go-mp3 always emits 16-bit little-endian
// stereo frames at the stream's native rate.
func parseMP3(data []byte) (*SampleBuffer, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	n := len(raw) / 2
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
		samples[i] = float32(v) / 32768
	}
	return NewSampleBuffer(samples, 2, dec.SampleRate())
}
