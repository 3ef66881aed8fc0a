// grain_position.go - Base read-position control: manual, frozen, drifting

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

package main

// positionController resolves the base read position each grain spawns
// from. Mode priority is strict: frozen > drifting > manual. All state is
// audio-thread-private; mode changes arrive through the command queue.
type positionController struct {
	frozen    bool
	frozenPos float32

	drifting    bool
	driftPos    float32
	driftBase   float32
	driftSpeed  float32
	driftReturn float32
}

func (pc *positionController) Freeze(pos float32) {
	pc.frozen = true
	pc.frozenPos = clampF32(pos, POSITION_MIN, POSITION_MAX)
}

func (pc *positionController) Unfreeze() {
	pc.frozen = false
}

// StartDrift begins a bounded random walk from base. speed and
// returnTendency are both normalized to [0, 1].
func (pc *positionController) StartDrift(base, speed, returnTendency float32) {
	pc.drifting = true
	pc.driftBase = clampF32(base, POSITION_MIN, POSITION_MAX)
	pc.driftPos = pc.driftBase
	pc.driftSpeed = clampF32(speed, 0, 1)
	pc.driftReturn = clampF32(returnTendency, 0, 1)
}

func (pc *positionController) StopDrift() {
	pc.drifting = false
}

// Update advances the random walk by one block of duration dt seconds.
// Drift is suppressed while frozen so unfreezing resumes from where the
// walk last stood.
func (pc *positionController) Update(dt float64, rng *grainPRNG) {
	if !pc.drifting || pc.frozen {
		return
	}
	step := pc.driftSpeed * float32(dt) * 0.5
	randomStep := (rng.Float() - 0.5) * 2 * step
	returnForce := (pc.driftBase - pc.driftPos) * pc.driftReturn * float32(dt) * 0.5
	pc.driftPos = clampF32(pc.driftPos+randomStep+returnForce, POSITION_MIN, POSITION_MAX)
}

// Value returns the base position for the current mode. manual is the
// smoothed position parameter; the caller feeds the result through the
// modulation mux before use.
func (pc *positionController) Value(manual float32) float32 {
	if pc.frozen {
		return pc.frozenPos
	}
	if pc.drifting {
		return pc.driftPos
	}
	return manual
}
