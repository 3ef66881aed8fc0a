// audio_interface.go - Audio output backend selection

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

package main

import "fmt"

// Audio backend selection
const (
	AUDIO_BACKEND_OTO = iota
	AUDIO_BACKEND_ALSA
	AUDIO_BACKEND_PORTAUDIO
	AUDIO_BACKEND_HEADLESS
)

// Render block size used by the push-style backends (ALSA, PortAudio).
// The oto backend renders whatever its reader asks for.
const RENDER_BLOCK_FRAMES = 512

// AudioOutput is implemented by all audio backends. Each backend drives
// the engine's Process and the effects chain from its own realtime
// context.
type AudioOutput interface {
	Start()
	Stop()
	Close()
	IsStarted() bool
}

// NewAudioOutput constructs the requested backend bound to an engine and
// its effects chain.
func NewAudioOutput(backend int, sampleRate int, engine *GrainEngine, fx *FXChain) (AudioOutput, error) {
	switch backend {
	case AUDIO_BACKEND_OTO:
		return NewOtoPlayer(sampleRate, engine, fx)
	case AUDIO_BACKEND_ALSA:
		return NewALSAPlayer(sampleRate, engine, fx)
	case AUDIO_BACKEND_PORTAUDIO:
		return NewPortAudioPlayer(sampleRate, engine, fx)
	case AUDIO_BACKEND_HEADLESS:
		return NewHeadlessPlayer(sampleRate, engine, fx), nil
	default:
		return nil, fmt.Errorf("unknown audio backend: %d", backend)
	}
}

func backendFromName(name string) (int, error) {
	switch name {
	case "oto":
		return AUDIO_BACKEND_OTO, nil
	case "alsa":
		return AUDIO_BACKEND_ALSA, nil
	case "portaudio":
		return AUDIO_BACKEND_PORTAUDIO, nil
	case "headless":
		return AUDIO_BACKEND_HEADLESS, nil
	default:
		return 0, fmt.Errorf("unknown audio backend %q", name)
	}
}
