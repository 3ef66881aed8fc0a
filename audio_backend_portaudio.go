// audio_backend_portaudio.go - Audio output via PortAudio

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

//go:build cgo

package main

import (
	"sync"

	"github.com/gordonklaus/portaudio"
)

// PortAudioPlayer renders inside PortAudio's stream callback, which the
// library runs on its realtime thread. Non-interleaved float32 output
// maps straight onto the engine's channel-split Process signature.
type PortAudioPlayer struct {
	stream  *portaudio.Stream
	engine  *GrainEngine
	fx      *FXChain
	started bool
	mutex   sync.Mutex
}

func NewPortAudioPlayer(sampleRate int, engine *GrainEngine, fx *FXChain) (*PortAudioPlayer, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	pp := &PortAudioPlayer{engine: engine, fx: fx}
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(sampleRate), RENDER_BLOCK_FRAMES, pp.callback)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, err
	}
	pp.stream = stream
	return pp, nil
}

func (pp *PortAudioPlayer) callback(out [][]float32) {
	outL, outR := out[0], out[1]
	numFrames := len(outL)
	pp.engine.Process(outL, outR, numFrames)
	pp.fx.Process(outL, outR, pp.engine.FXParams())
}

func (pp *PortAudioPlayer) Start() {
	pp.mutex.Lock()
	defer pp.mutex.Unlock()

	if !pp.started && pp.stream != nil {
		if err := pp.stream.Start(); err == nil {
			pp.started = true
		}
	}
}

func (pp *PortAudioPlayer) Stop() {
	pp.mutex.Lock()
	defer pp.mutex.Unlock()

	if pp.started && pp.stream != nil {
		_ = pp.stream.Stop()
		pp.started = false
	}
}

func (pp *PortAudioPlayer) Close() {
	pp.Stop()
	pp.mutex.Lock()
	defer pp.mutex.Unlock()

	if pp.stream != nil {
		_ = pp.stream.Close()
		pp.stream = nil
		_ = portaudio.Terminate()
	}
}

func (pp *PortAudioPlayer) IsStarted() bool {
	pp.mutex.Lock()
	defer pp.mutex.Unlock()
	return pp.started
}
