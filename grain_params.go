// grain_params.go - Engine parameter record, clamping and modulation mux

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

package main

// EngineParams is the flat parameter record shared by the grain engine and
// the effects chain. The control thread submits fully formed records; the
// engine replaces its copy atomically at the next block boundary. All
// values are clamped at the engine boundary, so out-of-range input can
// degrade gracefully instead of faulting the audio thread.
type EngineParams struct {
	GrainSize            float32 `yaml:"grainSize"`
	Density              float32 `yaml:"density"`
	Spread               float32 `yaml:"spread"`
	Position             float32 `yaml:"position"`
	GrainReversalChance  float32 `yaml:"grainReversalChance"`
	Pan                  float32 `yaml:"pan"`
	PanSpread            float32 `yaml:"panSpread"`
	Pitch                float32 `yaml:"pitch"`
	Detune               float32 `yaml:"detune"`
	FMFreq               float32 `yaml:"fmFreq"`
	FMAmount             float32 `yaml:"fmAmount"`
	Attack               float32 `yaml:"attack"`
	Release              float32 `yaml:"release"`
	ExponentialEnv       bool    `yaml:"exponentialEnv"`
	LFORate              float32 `yaml:"lfoRate"`
	LFOAmount            float32 `yaml:"lfoAmount"`
	LFOShape             int     `yaml:"lfoShape"`
	LFOTargets           uint32  `yaml:"lfoTargets"`

	// Effects pass-through. The engine forwards these untouched except for
	// LFO modulation of the targeted fields.
	FilterFreq    float32 `yaml:"filterFreq"`
	FilterRes     float32 `yaml:"filterRes"`
	DistAmount    float32 `yaml:"distAmount"`
	DelayMix      float32 `yaml:"delayMix"`
	DelayTime     float32 `yaml:"delayTime"`
	DelayFeedback float32 `yaml:"delayFeedback"`
	ReverbMix     float32 `yaml:"reverbMix"`
	MasterGain    float32 `yaml:"masterGain"`
}

// DefaultParams returns a playable starting point: moderate grains, no
// modulation, centred pan, effects bypassed.
func DefaultParams() EngineParams {
	return EngineParams{
		GrainSize:  0.1,
		Density:    0.05,
		Spread:     0.2,
		Position:   0.25,
		Pan:        0,
		PanSpread:  0.2,
		Pitch:      0,
		Detune:     0,
		FMFreq:     0,
		FMAmount:   0,
		Attack:     0.3,
		Release:    0.3,
		LFORate:    1,
		LFOAmount:  0,
		LFOShape:   LFO_SHAPE_SINE,
		FilterFreq: FILTER_FREQ_MAX,
		FilterRes:  0.7,
		DelayTime:  0.3,
		MasterGain: 0.8,
	}
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp forces every field into its documented range. Called once when a
// record crosses the control boundary, never per sample.
func (p *EngineParams) Clamp() {
	p.GrainSize = clampF32(p.GrainSize, GRAIN_SIZE_MIN, GRAIN_SIZE_MAX)
	p.Density = clampF32(p.Density, DENSITY_MIN, DENSITY_MAX)
	p.Spread = clampF32(p.Spread, SPREAD_MIN, SPREAD_MAX)
	p.Position = clampF32(p.Position, POSITION_MIN, POSITION_MAX)
	p.GrainReversalChance = clampF32(p.GrainReversalChance, REVERSAL_MIN, REVERSAL_MAX)
	p.Pan = clampF32(p.Pan, PAN_MIN, PAN_MAX)
	p.PanSpread = clampF32(p.PanSpread, PAN_SPREAD_MIN, PAN_SPREAD_MAX)
	p.Pitch = clampF32(p.Pitch, PITCH_MIN, PITCH_MAX)
	p.Detune = clampF32(p.Detune, DETUNE_MIN, DETUNE_MAX)
	p.FMFreq = clampF32(p.FMFreq, FM_FREQ_MIN, FM_FREQ_MAX)
	p.FMAmount = clampF32(p.FMAmount, FM_AMOUNT_MIN, FM_AMOUNT_MAX)
	p.Attack = clampF32(p.Attack, ATTACK_MIN, ATTACK_MAX)
	p.Release = clampF32(p.Release, RELEASE_MIN, RELEASE_MAX)
	p.LFORate = clampF32(p.LFORate, LFO_RATE_MIN, LFO_RATE_MAX)
	p.LFOAmount = clampF32(p.LFOAmount, LFO_AMOUNT_MIN, LFO_AMOUNT_MAX)
	if p.LFOShape < 0 || p.LFOShape >= NUM_LFO_SHAPES {
		p.LFOShape = LFO_SHAPE_SINE
	}
	p.LFOTargets &= (1 << NUM_LFO_TARGETS) - 1
	p.FilterFreq = clampF32(p.FilterFreq, FILTER_FREQ_MIN, FILTER_FREQ_MAX)
	p.FilterRes = clampF32(p.FilterRes, FILTER_RES_MIN, FILTER_RES_MAX)
	p.DistAmount = clampF32(p.DistAmount, DIST_AMOUNT_MIN, DIST_AMOUNT_MAX)
	p.DelayMix = clampF32(p.DelayMix, DELAY_MIX_MIN, DELAY_MIX_MAX)
	p.DelayTime = clampF32(p.DelayTime, DELAY_TIME_MIN, DELAY_TIME_MAX)
	p.DelayFeedback = clampF32(p.DelayFeedback, DELAY_FEEDBACK_MIN, DELAY_FEEDBACK_MAX)
	p.ReverbMix = clampF32(p.ReverbMix, REVERB_MIX_MIN, REVERB_MIX_MAX)
	p.MasterGain = clampF32(p.MasterGain, MASTER_GAIN_MIN, MASTER_GAIN_MAX)
}

// modulate applies the LFO to a single target: if the target's bit is set
// in mask, the scaled swing is added to base and the result clamped to the
// target's bounds; otherwise base passes through untouched.
//
//go:nosplit
func modulate(target int, base, lfo, depth float32, mask uint32) float32 {
	if mask&(1<<uint(target)) == 0 {
		return base
	}
	v := base + lfo*depth*lfoModScales[target]
	c := &lfoModClamps[target]
	if v < c[0] {
		return c[0]
	}
	if v > c[1] {
		return c[1]
	}
	return v
}
