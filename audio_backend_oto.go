// audio_backend_oto.go - Cross-platform audio output via oto

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

//go:build !linux || cgo

package main

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// otoSource is the pull side handed to oto. It renders the engine and
// effects chain directly inside oto's Read callback, which runs on the
// library's audio goroutine.
type otoSource struct {
	engine atomic.Pointer[GrainEngine] // lock-free handoff for the hot path
	fx     *FXChain
	bufL   []float32
	bufR   []float32
}

type OtoPlayer struct {
	ctx     *oto.Context
	player  *oto.Player
	source  *otoSource
	started bool
	mutex   sync.Mutex // setup/control only, never the render path
}

func NewOtoPlayer(sampleRate int, engine *GrainEngine, fx *FXChain) (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	src := &otoSource{
		fx:   fx,
		bufL: make([]float32, 4096),
		bufR: make([]float32, 4096),
	}
	src.engine.Store(engine)

	player := &OtoPlayer{
		ctx:    ctx,
		source: src,
	}
	player.player = ctx.NewPlayer(src)
	return player, nil
}

func (src *otoSource) Read(p []byte) (int, error) {
	engine := src.engine.Load()
	if engine == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	numFrames := len(p) / 8 // stereo float32
	if numFrames == 0 {
		return 0, nil
	}
	if len(src.bufL) < numFrames {
		// Should not happen after construction; oto buffers are small.
		src.bufL = make([]float32, numFrames)
		src.bufR = make([]float32, numFrames)
	}
	outL := src.bufL[:numFrames]
	outR := src.bufR[:numFrames]

	engine.Process(outL, outR, numFrames)
	src.fx.Process(outL, outR, engine.FXParams())

	samples := (*[1 << 28]float32)(unsafe.Pointer(&p[0]))[: numFrames*2 : numFrames*2]
	for i := 0; i < numFrames; i++ {
		samples[i*2] = outL[i]
		samples[i*2+1] = outR[i]
	}
	return numFrames * 8, nil
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
}

func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started && op.player != nil {
		op.player.Pause()
		op.started = false
	}
}

func (op *OtoPlayer) Close() {
	op.Stop()
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player != nil {
		op.player.Close()
		op.player = nil
	}
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}
