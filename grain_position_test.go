// grain_position_test.go - Position controller mode and drift tests

package main

import (
	"math"
	"testing"
)

func TestPositionModePriority(t *testing.T) {
	var pc positionController

	if got := pc.Value(0.3); got != 0.3 {
		t.Fatalf("manual mode returned %v, want 0.3", got)
	}

	pc.StartDrift(0.6, 0.5, 0.5)
	if got := pc.Value(0.3); got != 0.6 {
		t.Fatalf("drift mode returned %v, want drift position 0.6", got)
	}

	pc.Freeze(0.9)
	if got := pc.Value(0.3); got != 0.9 {
		t.Fatalf("frozen overrides drift: got %v, want 0.9", got)
	}

	pc.Unfreeze()
	if got := pc.Value(0.3); got != 0.6 {
		t.Fatalf("unfreeze should fall back to drift: got %v", got)
	}

	pc.StopDrift()
	if got := pc.Value(0.3); got != 0.3 {
		t.Fatalf("manual after drift stop: got %v", got)
	}
}

func TestFreezeRoundTrip(t *testing.T) {
	var pc positionController
	pc.Freeze(0.25)
	first := pc.Value(0)
	pc.Unfreeze()
	pc.Freeze(0.25)
	if second := pc.Value(0); second != first {
		t.Fatalf("freeze(p)/unfreeze/freeze(p) changed position: %v vs %v", first, second)
	}
}

func TestDriftSuppressedWhileFrozen(t *testing.T) {
	var pc positionController
	var rng grainPRNG
	rng.Seed(1)

	pc.StartDrift(0.5, 1, 0)
	pc.Freeze(0.5)
	before := pc.driftPos
	for i := 0; i < 1000; i++ {
		pc.Update(0.01, &rng)
	}
	if pc.driftPos != before {
		t.Fatalf("drift advanced while frozen: %v -> %v", before, pc.driftPos)
	}
}

func TestDriftBoundedAndCentred(t *testing.T) {
	// 10 seconds of 128-frame blocks at 48 kHz with full speed and a
	// moderate restoring force: the walk stays inside [0, 1] at every
	// step and averages near its base.
	var pc positionController
	var rng grainPRNG
	rng.Seed(7)

	pc.StartDrift(0.5, 1.0, 0.5)
	dt := 128.0 / 48000.0
	steps := int(10 / dt)
	var sum float64
	for i := 0; i < steps; i++ {
		pc.Update(dt, &rng)
		p := pc.driftPos
		if p < 0 || p > 1 {
			t.Fatalf("drift left [0, 1]: %v at step %d", p, i)
		}
		sum += float64(p)
	}
	mean := sum / float64(steps)
	if math.Abs(mean-0.5) > 0.1 {
		t.Fatalf("time-averaged drift position %v not within ±0.1 of 0.5", mean)
	}
}
