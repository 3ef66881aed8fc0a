// grain_smoother.go - One-pole exponential parameter smoothing

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

package main

import "math"

// smoother is a one-pole low-pass on a parameter target. One instance
// exists per continuously varying parameter; the engine steps every
// smoother once per output sample so grain spawns observe a continuous
// trajectory rather than the raw control-thread value.
type smoother struct {
	current float32
	target  float32
	coeff   float32
}

func newSmoother(sampleRate, smoothTimeMs float64, initial float32) smoother {
	return smoother{
		current: initial,
		target:  initial,
		coeff:   float32(1 - math.Exp(-1/(sampleRate*smoothTimeMs/1000))),
	}
}

//go:nosplit
func (s *smoother) Step() {
	s.current += (s.target - s.current) * s.coeff
}

func (s *smoother) SetTarget(v float32) {
	s.target = v
}

// SetImmediate snaps both current and target. Used at init and on
// sample-buffer swaps, where gliding from the stale value would smear
// the first grains of the new buffer.
func (s *smoother) SetImmediate(v float32) {
	s.current = v
	s.target = v
}
