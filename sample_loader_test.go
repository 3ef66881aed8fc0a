// sample_loader_test.go - WAV parsing tests

package main

import (
	"encoding/binary"
	"math"
	"testing"
)

// buildWAV assembles a minimal RIFF/WAVE file around raw sample bytes.
func buildWAV(format, channels, bitDepth uint16, sampleRate uint32, pcm []byte) []byte {
	var out []byte
	put16 := func(v uint16) { out = binary.LittleEndian.AppendUint16(out, v) }
	put32 := func(v uint32) { out = binary.LittleEndian.AppendUint32(out, v) }

	out = append(out, "RIFF"...)
	put32(uint32(36 + len(pcm)))
	out = append(out, "WAVE"...)

	out = append(out, "fmt "...)
	put32(16)
	put16(format)
	put16(channels)
	put32(sampleRate)
	put32(sampleRate * uint32(channels) * uint32(bitDepth) / 8)
	put16(channels * bitDepth / 8)
	put16(bitDepth)

	out = append(out, "data"...)
	put32(uint32(len(pcm)))
	out = append(out, pcm...)
	return out
}

func pcm16Bytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestParseWAVMono16(t *testing.T) {
	wav := buildWAV(wavFormatPCM, 1, 16, 44100, pcm16Bytes([]int16{0, 16384, -16384, 32767}))
	buf, err := parseWAV(wav)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 4 {
		t.Fatalf("got %d frames, want 4", buf.Len())
	}
	if buf.SampleRate() != 44100 {
		t.Fatalf("sample rate %d, want 44100", buf.SampleRate())
	}
	want := []float64{0, 0.5, -0.5, 32767.0 / 32768}
	for i, w := range want {
		if math.Abs(float64(buf.Data()[i])-w) > 1e-4 {
			t.Errorf("sample %d = %v, want %v", i, buf.Data()[i], w)
		}
	}
}

func TestParseWAVStereoMixesDown(t *testing.T) {
	// Frames: (L=1.0, R=0.0), (L=-1.0, R=-1.0)
	wav := buildWAV(wavFormatPCM, 2, 16, 48000, pcm16Bytes([]int16{32767, 0, -32768, -32768}))
	buf, err := parseWAV(wav)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 2 {
		t.Fatalf("got %d frames, want 2", buf.Len())
	}
	if buf.Channels() != 2 {
		t.Fatalf("channels = %d, want 2 recorded from the source", buf.Channels())
	}
	if math.Abs(float64(buf.Data()[0])-0.5) > 1e-3 {
		t.Errorf("mixdown frame 0 = %v, want ~0.5", buf.Data()[0])
	}
	if math.Abs(float64(buf.Data()[1])+1) > 1e-3 {
		t.Errorf("mixdown frame 1 = %v, want -1", buf.Data()[1])
	}
}

func TestParseWAVFloat32(t *testing.T) {
	pcm := make([]byte, 8)
	binary.LittleEndian.PutUint32(pcm[0:], math.Float32bits(0.25))
	binary.LittleEndian.PutUint32(pcm[4:], math.Float32bits(-0.75))
	wav := buildWAV(wavFormatFloat, 1, 32, 48000, pcm)

	buf, err := parseWAV(wav)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Data()[0] != 0.25 || buf.Data()[1] != -0.75 {
		t.Fatalf("float samples = %v, want [0.25, -0.75]", buf.Data()[:2])
	}
}

func TestParseWAVPCM24(t *testing.T) {
	// +0x400000 is half of full scale, 0x800000 two's-complement is -1.0.
	pcm := []byte{0x00, 0x00, 0x40, 0x00, 0x00, 0x80}
	wav := buildWAV(wavFormatPCM, 1, 24, 48000, pcm)

	buf, err := parseWAV(wav)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(float64(buf.Data()[0])-0.5) > 1e-6 {
		t.Errorf("24-bit half scale = %v, want 0.5", buf.Data()[0])
	}
	if math.Abs(float64(buf.Data()[1])+1) > 1e-6 {
		t.Errorf("24-bit min = %v, want -1", buf.Data()[1])
	}
}

func TestParseWAVRejectsGarbage(t *testing.T) {
	cases := map[string][]byte{
		"not riff":    []byte("OggS\x00\x00\x00\x00\x00\x00\x00\x00"),
		"truncated":   []byte("RIFF"),
		"no chunks":   []byte("RIFF\x04\x00\x00\x00WAVE"),
		"unsupported": buildWAV(wavFormatPCM, 1, 8, 48000, []byte{1, 2, 3, 4}),
	}
	for name, data := range cases {
		if _, err := parseWAV(data); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
