// audio_backend_headless.go - Null audio backend for tests and capture

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

package main

// HeadlessPlayer produces no audio device output. Tests and offline
// capture drive it directly with RenderBlock.
type HeadlessPlayer struct {
	engine  *GrainEngine
	fx      *FXChain
	started bool
}

func NewHeadlessPlayer(sampleRate int, engine *GrainEngine, fx *FXChain) *HeadlessPlayer {
	return &HeadlessPlayer{engine: engine, fx: fx}
}

// RenderBlock runs one engine + effects block into the provided buffers.
func (hp *HeadlessPlayer) RenderBlock(outL, outR []float32, numFrames int) {
	hp.engine.Process(outL, outR, numFrames)
	hp.fx.Process(outL[:numFrames], outR[:numFrames], hp.engine.FXParams())
}

func (hp *HeadlessPlayer) Start() {
	hp.started = true
}

func (hp *HeadlessPlayer) Stop() {
	hp.started = false
}

func (hp *HeadlessPlayer) Close() {
	hp.started = false
}

func (hp *HeadlessPlayer) IsStarted() bool {
	return hp.started
}
