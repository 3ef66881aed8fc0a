// fx_chain.go - Post-engine effects cascade

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

/*
fx_chain.go - Effects Processing

A straight cascade over the engine's stereo output, in place, per block:

1. Lowpass biquad (RBJ cookbook coefficients)
2. Waveshaping distortion (tanh lookup table)
3. Feedback delay line
4. Schroeder reverb (pre-delay, parallel combs, series allpasses)
5. Final output clamp

Every delay buffer is allocated up front; Process is realtime-safe and
stages bypass when their amount or mix parameter is zero. Parameters
arrive per block via FXParams, already modulated and clamped by the
engine.
*/

package main

import "math"

// ------------------------------------------------------------------------------
// Reverb Topology Constants
// ------------------------------------------------------------------------------
// Prime-length comb delays avoid harmonic relationships that would ring
// metallically. The right channel runs slightly longer lines to decorrelate
// the tail.
const (
	FX_PRE_DELAY_MS = 8

	FX_COMB_DELAY_1 = 1687
	FX_COMB_DELAY_2 = 1601
	FX_COMB_DELAY_3 = 2053
	FX_COMB_DELAY_4 = 2251

	FX_COMB_DECAY_1 = 0.97
	FX_COMB_DECAY_2 = 0.95
	FX_COMB_DECAY_3 = 0.93
	FX_COMB_DECAY_4 = 0.91

	FX_ALLPASS_DELAY_1 = 389
	FX_ALLPASS_DELAY_2 = 307
	FX_ALLPASS_COEF    = 0.5

	FX_STEREO_SPREAD = 23 // extra right-channel delay samples

	FX_NUM_COMBS     = 4
	FX_NUM_ALLPASSES = 2

	FX_REVERB_ATTENUATION = 0.3
	FX_DIST_DRIVE_RANGE   = 4.0 // drive at distAmount = 1.0
)

type fxComb struct {
	buffer []float32
	decay  float32
	pos    int
}

//go:nosplit
func (c *fxComb) process(in float32) float32 {
	out := c.buffer[c.pos]
	c.buffer[c.pos] = in + out*c.decay
	c.pos++
	if c.pos == len(c.buffer) {
		c.pos = 0
	}
	return out
}

type fxAllpass struct {
	buffer []float32
	pos    int
}

//go:nosplit
func (a *fxAllpass) process(in float32) float32 {
	delayed := a.buffer[a.pos]
	a.buffer[a.pos] = in + delayed*FX_ALLPASS_COEF
	a.pos++
	if a.pos == len(a.buffer) {
		a.pos = 0
	}
	return delayed - in
}

type fxReverbChannel struct {
	preDelay    []float32
	preDelayPos int
	combs       [FX_NUM_COMBS]fxComb
	allpasses   [FX_NUM_ALLPASSES]fxAllpass
}

//go:nosplit
func (rc *fxReverbChannel) process(in float32) float32 {
	delayed := rc.preDelay[rc.preDelayPos]
	rc.preDelay[rc.preDelayPos] = in
	rc.preDelayPos++
	if rc.preDelayPos == len(rc.preDelay) {
		rc.preDelayPos = 0
	}

	var out float32
	for i := range rc.combs {
		out += rc.combs[i].process(delayed)
	}
	for i := range rc.allpasses {
		out = rc.allpasses[i].process(out)
	}
	return out * FX_REVERB_ATTENUATION
}

// FXChain is the post-engine cascade. One instance per output stream, used
// only from the audio thread.
type FXChain struct {
	sampleRate float64

	// Biquad lowpass state. Coefficients are recomputed only when the
	// frequency or Q inputs change.
	b0, b1, b2, a1, a2     float32
	coeffFreq, coeffRes    float32
	x1L, x2L, y1L, y2L     float32
	x1R, x2R, y1R, y2R     float32

	// Delay
	delayL   []float32
	delayR   []float32
	delayPos int

	// Reverb
	revL fxReverbChannel
	revR fxReverbChannel
}

func NewFXChain(sampleRate float64) *FXChain {
	fx := &FXChain{
		sampleRate: sampleRate,
		coeffFreq:  -1, // force first coefficient computation
	}
	delayCap := int(sampleRate*DELAY_TIME_MAX) + 1
	fx.delayL = make([]float32, delayCap)
	fx.delayR = make([]float32, delayCap)

	preDelay := FX_PRE_DELAY_MS * int(sampleRate) / 1000
	if preDelay < 1 {
		preDelay = 1
	}
	combDelays := [FX_NUM_COMBS]int{FX_COMB_DELAY_1, FX_COMB_DELAY_2, FX_COMB_DELAY_3, FX_COMB_DELAY_4}
	combDecays := [FX_NUM_COMBS]float32{FX_COMB_DECAY_1, FX_COMB_DECAY_2, FX_COMB_DECAY_3, FX_COMB_DECAY_4}
	allpassDelays := [FX_NUM_ALLPASSES]int{FX_ALLPASS_DELAY_1, FX_ALLPASS_DELAY_2}

	for side, rc := range [...]*fxReverbChannel{&fx.revL, &fx.revR} {
		spread := side * FX_STEREO_SPREAD
		rc.preDelay = make([]float32, preDelay)
		for i := range rc.combs {
			rc.combs[i] = fxComb{
				buffer: make([]float32, combDelays[i]+spread),
				decay:  combDecays[i],
			}
		}
		for i := range rc.allpasses {
			rc.allpasses[i] = fxAllpass{buffer: make([]float32, allpassDelays[i]+spread)}
		}
	}
	return fx
}

func (fx *FXChain) updateBiquad(freq, res float32) {
	if freq == fx.coeffFreq && res == fx.coeffRes {
		return
	}
	fx.coeffFreq = freq
	fx.coeffRes = res

	omega := TWO_PI * float64(freq) / fx.sampleRate
	if omega > math.Pi*0.99 {
		omega = math.Pi * 0.99
	}
	sn, cs := math.Sincos(omega)
	alpha := sn / (2 * float64(res))

	a0 := 1 + alpha
	fx.b1 = float32((1 - cs) / a0)
	fx.b0 = fx.b1 / 2
	fx.b2 = fx.b0
	fx.a1 = float32(-2 * cs / a0)
	fx.a2 = float32((1 - alpha) / a0)
}

// Process runs the cascade over one block in place. Realtime-safe.
func (fx *FXChain) Process(outL, outR []float32, p FXParams) {
	n := len(outL)
	if len(outR) < n {
		n = len(outR)
	}

	// Lowpass biquad. Fully open with low resonance passes through
	// untouched to keep the dry path bit-clean.
	if p.FilterFreq < FILTER_FREQ_MAX || p.FilterRes > 1 {
		fx.updateBiquad(p.FilterFreq, p.FilterRes)
		for i := 0; i < n; i++ {
			x := outL[i]
			y := fx.b0*x + fx.b1*fx.x1L + fx.b2*fx.x2L - fx.a1*fx.y1L - fx.a2*fx.y2L
			fx.x2L, fx.x1L = fx.x1L, x
			fx.y2L, fx.y1L = fx.y1L, y
			outL[i] = y

			x = outR[i]
			y = fx.b0*x + fx.b1*fx.x1R + fx.b2*fx.x2R - fx.a1*fx.y1R - fx.a2*fx.y2R
			fx.x2R, fx.x1R = fx.x1R, x
			fx.y2R, fx.y1R = fx.y1R, y
			outR[i] = y
		}
	}

	// Waveshaping distortion with gain compensation so the perceived
	// level stays put as the drive rises.
	if p.DistAmount > 0 {
		drive := 1 + p.DistAmount*FX_DIST_DRIVE_RANGE
		makeup := 1 / fastTanh(drive)
		for i := 0; i < n; i++ {
			outL[i] = fastTanh(outL[i]*drive) * makeup
			outR[i] = fastTanh(outR[i]*drive) * makeup
		}
	}

	// Feedback delay
	if p.DelayMix > 0 {
		delaySamples := int(float64(p.DelayTime) * fx.sampleRate)
		if delaySamples < 1 {
			delaySamples = 1
		}
		if delaySamples >= len(fx.delayL) {
			delaySamples = len(fx.delayL) - 1
		}
		for i := 0; i < n; i++ {
			readPos := fx.delayPos - delaySamples
			if readPos < 0 {
				readPos += len(fx.delayL)
			}
			wetL := fx.delayL[readPos]
			wetR := fx.delayR[readPos]
			fx.delayL[fx.delayPos] = outL[i] + wetL*p.DelayFeedback
			fx.delayR[fx.delayPos] = outR[i] + wetR*p.DelayFeedback
			fx.delayPos++
			if fx.delayPos == len(fx.delayL) {
				fx.delayPos = 0
			}
			outL[i] += wetL * p.DelayMix
			outR[i] += wetR * p.DelayMix
		}
	}

	// Reverb
	if p.ReverbMix > 0 {
		dry := 1 - p.ReverbMix
		for i := 0; i < n; i++ {
			outL[i] = outL[i]*dry + fx.revL.process(outL[i])*p.ReverbMix
			outR[i] = outR[i]*dry + fx.revR.process(outR[i])*p.ReverbMix
		}
	}

	// Final output clamp
	for i := 0; i < n; i++ {
		outL[i] = clampF32(outL[i], MIN_SAMPLE, MAX_SAMPLE)
		outR[i] = clampF32(outR[i], MIN_SAMPLE, MAX_SAMPLE)
	}
}
