// grain_engine_test.go - End-to-end engine scenarios

package main

import (
	"math"
	"testing"
)

const testRate = 48000.0

func newTestEngine(t *testing.T) *GrainEngine {
	t.Helper()
	e, err := NewGrainEngine(testRate)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func constantBuffer(t *testing.T, frames int) *SampleBuffer {
	t.Helper()
	data := make([]float32, frames)
	for i := range data {
		data[i] = 1
	}
	buf, err := NewSampleBuffer(data, 1, int(testRate))
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

// singleGrainParams produce exactly one unjittered, centre-panned grain
// per half second.
func singleGrainParams() EngineParams {
	p := DefaultParams()
	p.GrainSize = 0.01
	p.Density = 10 // clamps to the 0.5 s maximum
	p.Pitch = 0
	p.Detune = 0
	p.Attack = 0.5
	p.Release = 0.5
	p.Position = 0
	p.Spread = 0
	p.Pan = 0
	p.PanSpread = 0
	p.GrainReversalChance = 0
	p.FMAmount = 0
	p.LFOAmount = 0
	p.MasterGain = 1
	return p
}

func activeGrainCount(e *GrainEngine) int {
	n := 0
	for i := range e.grains {
		if e.grains[i].active {
			n++
		}
	}
	return n
}

func TestEngineRejectsBadSampleRate(t *testing.T) {
	if _, err := NewGrainEngine(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewGrainEngine(-48000); err == nil {
		t.Fatal("expected error for negative sample rate")
	}
}

func TestSilentStart(t *testing.T) {
	e := newTestEngine(t)
	e.Start()

	outL := make([]float32, 128)
	outR := make([]float32, 128)
	outL[3] = 99 // Process must overwrite stale buffer content
	e.Process(outL, outR, 128)

	for i := 0; i < 128; i++ {
		if outL[i] != 0 || outR[i] != 0 {
			t.Fatalf("bufferless engine produced output at frame %d", i)
		}
	}
	want := 128 / testRate
	if e.CurrentTime() != want {
		t.Fatalf("currentTime = %v, want %v", e.CurrentTime(), want)
	}
}

func TestSingleGrainTriangularEnvelope(t *testing.T) {
	e := newTestEngine(t)
	e.UpdateParams(singleGrainParams())
	e.SetSampleBuffer(constantBuffer(t, int(testRate)))
	e.Start()

	outL := make([]float32, 480)
	outR := make([]float32, 480)
	e.Process(outL, outR, 480)

	events := e.DrainGrainEvents(nil)
	if len(events) != 1 {
		t.Fatalf("spawned %d grains, want exactly 1", len(events))
	}

	// Centre pan: both channels carry cos(pi/4) at the envelope peak.
	const peak = 0.70710678
	if math.Abs(float64(outL[240])-peak) > 1e-3 {
		t.Errorf("peak left sample = %v, want ~%v", outL[240], peak)
	}
	if math.Abs(float64(outR[240])-peak) > 1e-3 {
		t.Errorf("peak right sample = %v, want ~%v", outR[240], peak)
	}
	if outL[0] != 0 {
		t.Errorf("first sample = %v, want 0 (fade-in)", outL[0])
	}
	if outL[1] > 0.001 {
		t.Errorf("second sample = %v, want inside the click floor", outL[1])
	}
	if outL[479] > 0.01 {
		t.Errorf("final sample = %v, want faded out", outL[479])
	}
	for i := range outL {
		if math.Abs(float64(outL[i]-outR[i])) > 1e-6 {
			t.Fatalf("channels diverge at frame %d: %v vs %v", i, outL[i], outR[i])
		}
	}
	// Rising to the midpoint, falling after it.
	if !(outL[60] < outL[120] && outL[120] < outL[240]) {
		t.Errorf("attack not monotone: %v %v %v", outL[60], outL[120], outL[240])
	}
	if !(outL[240] > outL[360] && outL[360] > outL[470]) {
		t.Errorf("release not monotone: %v %v %v", outL[240], outL[360], outL[470])
	}
}

func TestReverseGrainStaysInBounds(t *testing.T) {
	e := newTestEngine(t)
	p := singleGrainParams()
	p.GrainReversalChance = 1
	e.UpdateParams(p)
	e.SetSampleBuffer(constantBuffer(t, 1000))
	e.Start()

	outL := make([]float32, 480)
	outR := make([]float32, 480)
	e.Process(outL, outR, 1)

	var gr *Grain
	for i := range e.grains {
		if e.grains[i].active {
			gr = &e.grains[i]
			break
		}
	}
	if gr == nil {
		t.Fatal("no grain spawned")
	}
	if gr.rate >= 0 {
		t.Fatalf("reversed grain has rate %v, want negative", gr.rate)
	}
	if gr.readPos < 0 || gr.readPos >= 1000 {
		t.Fatalf("start position %v outside the buffer", gr.readPos)
	}

	for block := 0; block < 10; block++ {
		e.Process(outL, outR, 480)
		for i := range e.grains {
			g := &e.grains[i]
			if g.active && (g.readPos < 0 || g.readPos >= 1000) {
				t.Fatalf("active grain out of bounds at block %d: %v", block, g.readPos)
			}
		}
	}
}

func TestLFOPitchSweepsFullRange(t *testing.T) {
	e := newTestEngine(t)
	p := singleGrainParams()
	p.LFORate = 1
	p.LFOAmount = 1
	p.LFOShape = LFO_SHAPE_SINE
	p.LFOTargets = 1 << LFO_TARGET_PITCH
	e.UpdateParams(p)
	e.SetSampleBuffer(constantBuffer(t, int(testRate)))
	e.Start()

	outL := make([]float32, 128)
	outR := make([]float32, 128)

	minPitch, maxPitch := float32(99), float32(-99)
	for block := 0; block < 375; block++ { // one second
		e.Process(outL, outR, 128)
		mod := modulate(LFO_TARGET_PITCH, 0, e.blockLFO, p.LFOAmount, p.LFOTargets)
		if mod < minPitch {
			minPitch = mod
		}
		if mod > maxPitch {
			maxPitch = mod
		}
		if mod < PITCH_MIN || mod > PITCH_MAX {
			t.Fatalf("modulated pitch %v outside [%v, %v]", mod, PITCH_MIN, PITCH_MAX)
		}
	}
	if maxPitch < 23.9 || minPitch > -23.9 {
		t.Fatalf("LFO swept pitch over [%v, %v], want nearly [-24, 24]", minPitch, maxPitch)
	}
}

func TestSpawnCountMatchesDensity(t *testing.T) {
	e := newTestEngine(t)
	p := singleGrainParams()
	p.Density = 0.005
	e.UpdateParams(p)
	e.SetSampleBuffer(constantBuffer(t, int(testRate)))
	e.Start()

	outL := make([]float32, 128)
	outR := make([]float32, 128)
	var events []GrainEvent
	spawned := 0
	for block := 0; block < 375; block++ { // exactly one second
		e.Process(outL, outR, 128)
		events = e.DrainGrainEvents(events[:0])
		spawned += len(events)
	}
	if spawned < 199 || spawned > 201 {
		t.Fatalf("spawned %d grains over one second at 5 ms density, want 200 ± 1", spawned)
	}
}

func TestPoolNeverExceedsCapacity(t *testing.T) {
	e := newTestEngine(t)
	p := singleGrainParams()
	p.Density = DENSITY_MIN
	p.GrainSize = GRAIN_SIZE_MAX
	e.UpdateParams(p)
	e.SetSampleBuffer(constantBuffer(t, int(testRate)))
	e.Start()

	outL := make([]float32, 128)
	outR := make([]float32, 128)
	for block := 0; block < 750; block++ { // two seconds
		e.Process(outL, outR, 128)
		if n := activeGrainCount(e); n > GRAIN_POOL_SIZE {
			t.Fatalf("active count %d exceeds pool capacity", n)
		}
	}
}

func TestFullPoolEvictsOldestDying(t *testing.T) {
	e := newTestEngine(t)
	e.buffer = constantBuffer(t, int(testRate))

	for i := range e.grains {
		e.grains[i].active = true
		e.grains[i].samplesRemaining = 1000 + i
	}
	e.grains[37].samplesRemaining = 5 // closest to its natural end

	e.spawnGrain()

	gr := &e.grains[37]
	if !gr.active {
		t.Fatal("evicted slot left inactive")
	}
	if gr.samplesRemaining == 5 {
		t.Fatal("oldest-dying grain was not replaced")
	}
	if gr.samplesRemaining != gr.samplesTotal {
		t.Fatalf("new grain not freshly initialised: %d of %d",
			gr.samplesRemaining, gr.samplesTotal)
	}
	for i := range e.grains {
		if i != 37 && e.grains[i].samplesRemaining == 0 {
			t.Fatalf("spawn disturbed unrelated slot %d", i)
		}
	}
}

func TestDeterminismUnderSeed(t *testing.T) {
	run := func(resubmit bool) []float32 {
		e := newTestEngine(t)
		e.SeedPRNG(42)
		p := singleGrainParams()
		p.Density = 0.01
		p.Detune = 50
		p.Spread = 1
		p.PanSpread = 0.5
		p.GrainReversalChance = 0.3
		p.LFOAmount = 0.5
		p.LFORate = 3
		p.LFOTargets = 1<<LFO_TARGET_POSITION | 1<<LFO_TARGET_PITCH
		e.UpdateParams(p)
		e.SetSampleBuffer(constantBuffer(t, int(testRate)))
		e.Start()

		outL := make([]float32, 128)
		outR := make([]float32, 128)
		var all []float32
		for block := 0; block < 100; block++ {
			if resubmit && block == 50 {
				e.UpdateParams(p) // identical record: must not change output
			}
			e.Process(outL, outR, 128)
			all = append(all, outL...)
			all = append(all, outR...)
		}
		return all
	}

	a := run(false)
	b := run(true)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("outputs diverge at sample %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestEngineTimeStrictlyMonotonic(t *testing.T) {
	e := newTestEngine(t)
	outL := make([]float32, 200)
	outR := make([]float32, 200)

	expected := 0.0
	for _, n := range []int{1, 7, 128, 64, 200, 3, 128} {
		prev := e.CurrentTime()
		e.Process(outL, outR, n)
		expected += float64(n) / testRate
		if e.CurrentTime() != expected {
			t.Fatalf("currentTime = %v, want %v", e.CurrentTime(), expected)
		}
		if e.CurrentTime() <= prev {
			t.Fatalf("time did not advance: %v -> %v", prev, e.CurrentTime())
		}
	}
}

func TestStopDeactivatesAllGrains(t *testing.T) {
	e := newTestEngine(t)
	p := singleGrainParams()
	p.Density = 0.005
	p.GrainSize = 0.5
	e.UpdateParams(p)
	e.SetSampleBuffer(constantBuffer(t, int(testRate)))
	e.Start()

	outL := make([]float32, 480)
	outR := make([]float32, 480)
	e.Process(outL, outR, 480)
	if activeGrainCount(e) == 0 {
		t.Fatal("expected active grains before stop")
	}

	e.Stop()
	e.Process(outL, outR, 480)
	if n := activeGrainCount(e); n != 0 {
		t.Fatalf("%d grains survived stop", n)
	}
	for i := range outL {
		if outL[i] != 0 || outR[i] != 0 {
			t.Fatalf("output after stop at frame %d: %v / %v", i, outL[i], outR[i])
		}
	}
}

func TestFrozenPositionOverridesParameter(t *testing.T) {
	e := newTestEngine(t)
	p := singleGrainParams()
	p.Position = 0.8
	e.UpdateParams(p)
	e.SetSampleBuffer(constantBuffer(t, int(testRate)))
	e.SetFrozen(true, 0.3)
	e.Start()

	outL := make([]float32, 128)
	outR := make([]float32, 128)
	e.Process(outL, outR, 128)

	events := e.DrainGrainEvents(nil)
	if len(events) == 0 {
		t.Fatal("no grain spawned")
	}
	if math.Abs(float64(events[0].NormPos)-0.3) > 0.01 {
		t.Fatalf("frozen grain spawned at %v, want ~0.3", events[0].NormPos)
	}
}

func TestBufferSwapRetiresPrevious(t *testing.T) {
	e := newTestEngine(t)
	first := constantBuffer(t, 1000)
	second := constantBuffer(t, 2000)

	outL := make([]float32, 128)
	outR := make([]float32, 128)

	e.SetSampleBuffer(first)
	e.Process(outL, outR, 128)
	if got := e.ReclaimRetiredBuffer(); got != nil {
		t.Fatalf("retired cell should be empty after the first swap, got %v", got)
	}

	e.SetSampleBuffer(second)
	e.Process(outL, outR, 128)
	if got := e.ReclaimRetiredBuffer(); got != first {
		t.Fatal("expected the first buffer in the retired cell")
	}
	if got := e.ReclaimRetiredBuffer(); got != nil {
		t.Fatal("retired cell must clear after reclamation")
	}
}

func TestSpawnedGrainsObeyEqualPowerPan(t *testing.T) {
	e := newTestEngine(t)
	p := singleGrainParams()
	p.Density = 0.005
	p.PanSpread = 1
	p.Pan = 0.5
	e.UpdateParams(p)
	e.SetSampleBuffer(constantBuffer(t, int(testRate)))
	e.Start()

	outL := make([]float32, 480)
	outR := make([]float32, 480)
	e.Process(outL, outR, 480)

	checked := 0
	for i := range e.grains {
		g := &e.grains[i]
		if !g.active {
			continue
		}
		sum := float64(g.panL)*float64(g.panL) + float64(g.panR)*float64(g.panR)
		if math.Abs(sum-1) > 1e-6 {
			t.Fatalf("grain %d pan gains %v/%v: power sum %v", i, g.panL, g.panR, sum)
		}
		checked++
	}
	if checked == 0 {
		t.Fatal("no active grains to check")
	}
}
