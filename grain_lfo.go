// grain_lfo.go - Low-frequency oscillator evaluation

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

package main

// lfoValue evaluates the LFO as a pure function of time, rate and shape,
// returning a value in [-1, +1]. The engine calls this once per block at
// block-start time; with rates bounded to 20 Hz and blocks of at most a
// few milliseconds the per-block phase error stays under a degree.
//
//go:nosplit
func lfoValue(t, rate float64, shape int) float32 {
	phase := t * rate
	phase -= float64(int64(phase)) // fract; t and rate are non-negative

	switch shape {
	case LFO_SHAPE_TRIANGLE:
		v := 4*phase - 2
		if v < 0 {
			v = -v
		}
		return float32(v - 1)
	case LFO_SHAPE_SQUARE:
		if phase < 0.5 {
			return 1
		}
		return -1
	case LFO_SHAPE_SAWTOOTH:
		return float32(2*phase - 1)
	default: // LFO_SHAPE_SINE
		return fastSin(float32(phase) * TWO_PI)
	}
}
