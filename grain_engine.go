// grain_engine.go - Real-time granular synthesis engine core

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

/*
grain_engine.go - Granular Synthesis Engine

The engine draws short overlapping fragments ("grains") from an immutable
sample buffer and mixes them into a stereo stream at the host sample rate.
Per block it:

1. Drains pending control commands (parameters, buffer swaps, transport)
2. Caches the LFO value at block-start time
3. Advances the parameter smoothers once per output sample
4. Updates the drift position controller
5. Spawns grains whose scheduled times fall inside the block
6. Sums every active grain, sample by sample, into the output

Thread Safety:
Process runs on the host's realtime audio thread and is wait-free: no
locks, no allocation, no channel sends. All ingress arrives through a
bounded single-producer/single-consumer command queue that is drained at
the top of Process. Everything else (pool, clock, smoothers, PRNG, drift)
is audio-thread-private.
*/

package main

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
)

// ------------------------------------------------------------------------------
// Grain Record
// ------------------------------------------------------------------------------

// Grain is plain data describing one pool slot. Inactive slots are zeroed
// and skipped during mixing; there are no heap references, so slot reuse
// is a struct assignment.
type Grain struct {
	// Hot fields touched every output sample
	readPos          float64 // fractional read index into the sample buffer
	rate             float64 // per-output-sample increment; negative = reverse
	envPhase         float32 // 0..1 progress through the envelope
	envIncrement     float32 // 1 / samplesTotal
	panL             float32 // equal-power left gain
	panR             float32 // equal-power right gain
	samplesRemaining int     // reaches zero at grain end

	// Set at spawn, read-only afterwards
	samplesTotal   int
	attackRatio    float32
	releaseRatio   float32
	exponentialEnv bool
	active         bool
}

// ------------------------------------------------------------------------------
// Control Commands
// ------------------------------------------------------------------------------

type commandKind int

const (
	cmdUpdateParams commandKind = iota
	cmdSetBuffer
	cmdStart
	cmdStop
	cmdFreeze
	cmdDrift
	cmdResetPool
)

type engineCommand struct {
	kind   commandKind
	params *EngineParams
	buffer *SampleBuffer
	flag   bool
	pos    float32
	speed  float32
	ret    float32
}

// ------------------------------------------------------------------------------
// FX Pass-Through
// ------------------------------------------------------------------------------

// FXParams carries the block's modulated effects parameters from the
// engine to the effects chain. Written in Process, read on the same audio
// thread immediately afterwards. Master gain is absent: the engine applies
// it, smoothed, at its own mix-out so transport edges stay click-free.
type FXParams struct {
	FilterFreq    float32
	FilterRes     float32
	DistAmount    float32
	DelayMix      float32
	DelayTime     float32
	DelayFeedback float32
	ReverbMix     float32
}

// ------------------------------------------------------------------------------
// Engine
// ------------------------------------------------------------------------------

type GrainEngine struct {
	// Audio-thread-private state
	sampleRate    float64
	params        EngineParams
	grains        [GRAIN_POOL_SIZE]Grain
	buffer        *SampleBuffer
	currentTime   float64 // engine clock, seconds
	nextSpawnTime float64
	playing       bool
	blockLFO      float32
	fxParams      FXParams
	rng           grainPRNG
	pos           positionController

	smPitch     smoother
	smPosition  smoother
	smGrainSize smoother
	smPan       smoother
	smVolume    smoother

	// Shared with other threads
	viz      vizRing
	retired  atomic.Pointer[SampleBuffer] // swap-out cell the producer reclaims
	commands chan engineCommand
	cmdMu    sync.Mutex // serialises producers; never touched by Process
}

// NewGrainEngine allocates every fixed-capacity structure up front so the
// realtime path never allocates. Not realtime-safe.
func NewGrainEngine(sampleRate float64) (*GrainEngine, error) {
	if sampleRate <= 0 {
		return nil, errors.New("grain engine: sample rate must be positive")
	}
	e := &GrainEngine{
		sampleRate: sampleRate,
		params:     DefaultParams(),
		commands:   make(chan engineCommand, CMD_QUEUE_SIZE),
	}
	e.rng.Seed(prngDefaultSeed)
	p := &e.params
	e.smPitch = newSmoother(sampleRate, SMOOTH_TIME_MS, p.Pitch)
	e.smPosition = newSmoother(sampleRate, SMOOTH_TIME_MS, p.Position)
	e.smGrainSize = newSmoother(sampleRate, SMOOTH_TIME_MS, p.GrainSize)
	e.smPan = newSmoother(sampleRate, SMOOTH_TIME_MS, p.Pan)
	e.smVolume = newSmoother(sampleRate, SMOOTH_TIME_MS, p.MasterGain)
	return e, nil
}

// SeedPRNG fixes the jitter sequence. Not realtime-safe; call before
// processing starts when reproducible output is needed.
func (e *GrainEngine) SeedPRNG(seed uint64) {
	e.rng.Seed(seed)
}

func (e *GrainEngine) SampleRate() float64 { return e.sampleRate }

// CurrentTime returns the engine clock. Owned by the audio thread; callers
// on other threads get a stale but tear-free-enough reading for display.
func (e *GrainEngine) CurrentTime() float64 { return e.currentTime }

// ------------------------------------------------------------------------------
// Ingress (control thread)
// ------------------------------------------------------------------------------

// submit enqueues a command. On overflow the oldest non-buffer command is
// dropped: parameter updates are idempotent and the most recent wins, but
// a sample-buffer swap must never be lost.
func (e *GrainEngine) submit(cmd engineCommand) {
	e.cmdMu.Lock()
	defer e.cmdMu.Unlock()
	for attempts := 0; ; attempts++ {
		select {
		case e.commands <- cmd:
			return
		default:
		}
		if attempts >= CMD_QUEUE_SIZE {
			// Queue full of buffer swaps; only another swap may displace one.
			if cmd.kind != cmdSetBuffer {
				return
			}
		}
		select {
		case old := <-e.commands:
			if old.kind == cmdSetBuffer && cmd.kind != cmdSetBuffer {
				e.commands <- old // keep the swap, retry dropping something else
			}
		default:
		}
	}
}

// UpdateParams atomically replaces the parameter record at the next block
// boundary. The record is clamped on the audio thread before use.
func (e *GrainEngine) UpdateParams(p EngineParams) {
	e.submit(engineCommand{kind: cmdUpdateParams, params: &p})
}

// SetSampleBuffer hands ownership of buf to the engine. The previous
// buffer parks in the retired cell until ReclaimRetiredBuffer collects it.
func (e *GrainEngine) SetSampleBuffer(buf *SampleBuffer) {
	e.submit(engineCommand{kind: cmdSetBuffer, buffer: buf})
}

// ReclaimRetiredBuffer returns the most recently swapped-out buffer, or
// nil. By the time a buffer lands here the engine has acknowledged the
// swap and holds no grain referencing it.
func (e *GrainEngine) ReclaimRetiredBuffer() *SampleBuffer {
	return e.retired.Swap(nil)
}

func (e *GrainEngine) Start() {
	e.submit(engineCommand{kind: cmdStart})
}

// Stop marks the engine not-playing and deactivates every grain. The
// caller is expected to fade the output externally to mask the cut.
func (e *GrainEngine) Stop() {
	e.submit(engineCommand{kind: cmdStop})
}

func (e *GrainEngine) SetFrozen(frozen bool, position float32) {
	e.submit(engineCommand{kind: cmdFreeze, flag: frozen, pos: position})
}

func (e *GrainEngine) SetDrift(active bool, basePosition, speed, returnTendency float32) {
	e.submit(engineCommand{kind: cmdDrift, flag: active, pos: basePosition, speed: speed, ret: returnTendency})
}

func (e *GrainEngine) ResetPool() {
	e.submit(engineCommand{kind: cmdResetPool})
}

// DrainGrainEvents appends pending visualization events to dst and clears
// the ring. Consumer-side only; call from a single UI thread.
func (e *GrainEngine) DrainGrainEvents(dst []GrainEvent) []GrainEvent {
	return e.viz.Drain(dst)
}

// ------------------------------------------------------------------------------
// Command application (audio thread)
// ------------------------------------------------------------------------------

func (e *GrainEngine) applyCommand(cmd engineCommand) {
	switch cmd.kind {
	case cmdUpdateParams:
		p := *cmd.params
		p.Clamp()
		e.params = p
		e.smPitch.SetTarget(p.Pitch)
		e.smPosition.SetTarget(p.Position)
		e.smGrainSize.SetTarget(p.GrainSize)
		e.smPan.SetTarget(p.Pan)
		e.smVolume.SetTarget(p.MasterGain)
	case cmdSetBuffer:
		// Clean break: grains from the old material stop, smoothers snap so
		// the new buffer's first grains don't glide in from stale values.
		e.deactivateAll()
		if e.buffer != nil {
			e.retired.Store(e.buffer)
		}
		e.buffer = cmd.buffer
		p := &e.params
		e.smPitch.SetImmediate(p.Pitch)
		e.smPosition.SetImmediate(p.Position)
		e.smGrainSize.SetImmediate(p.GrainSize)
		e.smPan.SetImmediate(p.Pan)
		e.smVolume.SetImmediate(p.MasterGain)
	case cmdStart:
		e.playing = true
		e.nextSpawnTime = e.currentTime
	case cmdStop:
		e.playing = false
		e.deactivateAll()
	case cmdFreeze:
		if cmd.flag {
			e.pos.Freeze(cmd.pos)
		} else {
			e.pos.Unfreeze()
		}
	case cmdDrift:
		if cmd.flag {
			e.pos.StartDrift(cmd.pos, cmd.speed, cmd.ret)
		} else {
			e.pos.StopDrift()
		}
	case cmdResetPool:
		e.deactivateAll()
	}
}

func (e *GrainEngine) deactivateAll() {
	for i := range e.grains {
		e.grains[i].active = false
	}
}

// ------------------------------------------------------------------------------
// Block Processor (audio thread)
// ------------------------------------------------------------------------------

// Process writes numFrames samples into outL and outR. Realtime-safe:
// bounded work, no locks, no allocation. Outputs stay zero when the engine
// is not playing or has no sample material; the clock advances regardless.
func (e *GrainEngine) Process(outL, outR []float32, numFrames int) {
	for {
		select {
		case cmd := <-e.commands:
			e.applyCommand(cmd)
			continue
		default:
		}
		break
	}

	for i := 0; i < numFrames; i++ {
		outL[i] = 0
		outR[i] = 0
	}

	dt := float64(numFrames) / e.sampleRate
	p := &e.params

	e.blockLFO = lfoValue(e.currentTime, float64(p.LFORate), p.LFOShape)
	e.updateFXParams()

	if !e.playing || e.buffer == nil || e.buffer.Len() == 0 {
		e.currentTime += dt
		return
	}

	for i := 0; i < numFrames; i++ {
		e.smPitch.Step()
		e.smPosition.Step()
		e.smGrainSize.Step()
		e.smPan.Step()
		e.smVolume.Step()
	}

	e.pos.Update(dt, &e.rng)

	// Scheduler: spawn every grain whose time falls inside this block.
	// Density is the period between spawns; the post-modulation floor
	// prevents runaway spawn rates.
	blockEnd := e.currentTime + dt
	for e.nextSpawnTime < blockEnd {
		e.spawnGrain()
		period := modulate(LFO_TARGET_DENSITY, p.Density, e.blockLFO, p.LFOAmount, p.LFOTargets)
		if period < MIN_DENSITY_SEC {
			period = MIN_DENSITY_SEC
		}
		e.nextSpawnTime += float64(period)
	}

	data := e.buffer.data
	bufLen := float64(len(data))
	vol := e.smVolume.current

	for i := 0; i < numFrames; i++ {
		var l, r float32
		for g := range e.grains {
			gr := &e.grains[g]
			if !gr.active {
				continue
			}
			s := readInterp(data, gr.readPos) *
				grainEnvelope(gr.envPhase, gr.attackRatio, gr.releaseRatio, gr.exponentialEnv)
			l += s * gr.panL
			r += s * gr.panR

			gr.readPos += gr.rate
			gr.envPhase += gr.envIncrement
			gr.samplesRemaining--
			if gr.samplesRemaining <= 0 || gr.readPos < 0 || gr.readPos >= bufLen {
				gr.active = false
			}
		}
		outL[i] = l * vol
		outR[i] = r * vol
	}

	e.currentTime += dt
}

// FXParams returns the block's modulated effects parameters. Valid on the
// audio thread after Process.
func (e *GrainEngine) FXParams() FXParams { return e.fxParams }

func (e *GrainEngine) updateFXParams() {
	p := &e.params
	lfo, depth, mask := e.blockLFO, p.LFOAmount, p.LFOTargets
	e.fxParams = FXParams{
		FilterFreq:    modulate(LFO_TARGET_FILTER_FREQ, p.FilterFreq, lfo, depth, mask),
		FilterRes:     modulate(LFO_TARGET_FILTER_RES, p.FilterRes, lfo, depth, mask),
		DistAmount:    modulate(LFO_TARGET_DIST_AMOUNT, p.DistAmount, lfo, depth, mask),
		DelayMix:      modulate(LFO_TARGET_DELAY_MIX, p.DelayMix, lfo, depth, mask),
		DelayTime:     modulate(LFO_TARGET_DELAY_TIME, p.DelayTime, lfo, depth, mask),
		DelayFeedback: modulate(LFO_TARGET_DELAY_FEEDBACK, p.DelayFeedback, lfo, depth, mask),
		ReverbMix:     p.ReverbMix,
	}
}

// ------------------------------------------------------------------------------
// Grain Spawn (audio thread)
// ------------------------------------------------------------------------------

// spawnGrain allocates a pool slot and initialises it from the current
// smoothed and modulated parameters. PRNG draw order (detune, reversal,
// spread offset, pan) is fixed: it is part of the determinism contract.
func (e *GrainEngine) spawnGrain() {
	p := &e.params
	lfo, depth, mask := e.blockLFO, p.LFOAmount, p.LFOTargets

	// Allocate: first inactive slot, else evict the grain closest to its
	// natural end. Stealing the oldest-dying grain minimises audible
	// truncation.
	slot := -1
	minRemaining := math.MaxInt
	minIdx := 0
	for i := range e.grains {
		if !e.grains[i].active {
			slot = i
			break
		}
		if e.grains[i].samplesRemaining < minRemaining {
			minRemaining = e.grains[i].samplesRemaining
			minIdx = i
		}
	}
	if slot < 0 {
		slot = minIdx
	}

	gs := modulate(LFO_TARGET_GRAIN_SIZE, e.smGrainSize.current, lfo, depth, mask)
	if gs < MIN_GRAIN_SIZE_SEC {
		gs = MIN_GRAIN_SIZE_SEC
	}
	samplesTotal := int(math.Round(float64(gs) * e.sampleRate))
	if samplesTotal < 1 {
		samplesTotal = 1
	}

	pitch := modulate(LFO_TARGET_PITCH, e.smPitch.current, lfo, depth, mask)
	cents := float64(pitch)*CENTS_PER_SEMITONE + float64(e.rng.Range(-p.Detune, p.Detune))
	rate := math.Pow(2, cents/CENTS_PER_OCTAVE)

	reversed := e.rng.Float() < p.GrainReversalChance

	// FM: the carrier is sampled once, at spawn time. The grain's rate is
	// frozen for its lifetime.
	fmAmount := modulate(LFO_TARGET_FM_AMOUNT, p.FMAmount, lfo, depth, mask)
	if fmAmount > 0 {
		fmFreq := modulate(LFO_TARGET_FM_FREQ, p.FMFreq, lfo, depth, mask)
		fmMod := math.Sin(e.currentTime*float64(fmFreq)) * float64(fmAmount) * FM_AMOUNT_SCALE
		rate = math.Abs(rate + fmMod)
		if rate < MIN_RATE_MAG {
			rate = MIN_RATE_MAG
		}
	}

	bufLen := float64(e.buffer.Len())
	base := e.pos.Value(e.smPosition.current)
	posN := modulate(LFO_TARGET_POSITION, base, lfo, depth, mask)
	spread := modulate(LFO_TARGET_SPREAD, p.Spread, lfo, depth, mask)

	center := float64(posN) * bufLen
	offset := float64(e.rng.Bipolar()) * float64(spread) * bufLen * 0.5
	span := float64(samplesTotal) * rate
	maxStart := bufLen - span
	if maxStart < 0 {
		maxStart = 0
	}
	start := center + offset
	if start < 0 {
		start = 0
	} else if start > maxStart {
		start = maxStart
	}
	if reversed {
		// Reverse playback walks down from the end of the region.
		start += span
		if start > bufLen-1 {
			start = bufLen - 1
		}
		rate = -rate
	}

	panSpread := modulate(LFO_TARGET_PAN_SPREAD, p.PanSpread, lfo, depth, mask)
	panBase := modulate(LFO_TARGET_PAN, e.smPan.current, lfo, depth, mask)
	finalPan := clampF32(panBase+e.rng.Bipolar()*panSpread, PAN_MIN, PAN_MAX)
	theta := float64(finalPan+1) * QUARTER_PI

	attack := modulate(LFO_TARGET_ATTACK, p.Attack, lfo, depth, mask)
	release := modulate(LFO_TARGET_RELEASE, p.Release, lfo, depth, mask)

	e.grains[slot] = Grain{
		active:           true,
		readPos:          start,
		rate:             rate,
		samplesTotal:     samplesTotal,
		samplesRemaining: samplesTotal,
		envIncrement:     1 / float32(samplesTotal),
		attackRatio:      attack,
		releaseRatio:     release,
		exponentialEnv:   p.ExponentialEnv,
		panL:             float32(math.Cos(theta)),
		panR:             float32(math.Sin(theta)),
	}

	e.viz.Push(GrainEvent{
		NormPos:  float32(start / bufLen),
		Duration: gs,
		Pan:      finalPan,
	})
}

// ------------------------------------------------------------------------------
// Per-Grain DSP Helpers
// ------------------------------------------------------------------------------

// readInterp performs a linearly interpolated buffer read. Positions at
// the last valid index return that sample; positions outside the buffer
// read as silence (the lifecycle check deactivates the grain on the same
// sample).
//
//go:nosplit
func readInterp(data []float32, pos float64) float32 {
	if pos < 0 {
		return 0
	}
	idx := int(pos)
	if idx >= len(data) {
		return 0
	}
	if idx == len(data)-1 {
		return data[idx]
	}
	frac := float32(pos - float64(idx))
	return data[idx] + frac*(data[idx+1]-data[idx])
}

// grainEnvelope evaluates the grain amplitude at the given phase.
//
// A fixed anti-click fade-in occupies the first 1% of phase, ramping from
// 0 to the click-safety floor. Attack spans [fade, attackRatio] scaling
// floor -> 1, linearly or quadratically. Sustain holds 1. Release spans
// [1-releaseRatio, 1] scaling 1 -> 0. When attack + release > 1 the
// sustain region is empty and the attack and release ramps meet where
// they cross; taking the minimum of the two sides keeps the junction
// continuous.
//
//go:nosplit
func grainEnvelope(phase, attack, release float32, exponential bool) float32 {
	if phase <= 0 || phase >= 1 {
		return 0
	}

	var a float32
	switch {
	case phase < ENV_FADE_RATIO:
		a = ENV_CLICK_FLOOR * (phase / ENV_FADE_RATIO)
	case phase <= attack:
		if attack-ENV_FADE_RATIO < ENV_CLICK_FLOOR {
			a = ENV_CLICK_FLOOR // degenerate attack region snaps to the floor
		} else {
			u := (phase - ENV_FADE_RATIO) / (attack - ENV_FADE_RATIO)
			if exponential {
				u *= u
			}
			a = ENV_CLICK_FLOOR + (1-ENV_CLICK_FLOOR)*u
		}
	default:
		a = 1
	}

	r := float32(1)
	relStart := 1 - release
	if phase >= relStart {
		if release < ENV_CLICK_FLOOR {
			r = 0 // degenerate release snaps to silence
		} else {
			v := 1 - (phase-relStart)/release
			if exponential {
				v *= v
			}
			r = v
		}
	}

	if r < a {
		return r
	}
	return a
}
