// grain_constants.go - Engine-wide constants for the granular synthesis core

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

package main

import "math"

// ------------------------------------------------------------------------------
// Capacities (compile-time, fixed for the life of the engine)
// ------------------------------------------------------------------------------
const (
	GRAIN_POOL_SIZE = 128 // Maximum simultaneously active grains
	VIZ_RING_SIZE   = 64  // Visualization event ring slots
	CMD_QUEUE_SIZE  = 32  // Bounded control-command queue depth
)

// ------------------------------------------------------------------------------
// Timing and Safety Floors
// ------------------------------------------------------------------------------
const (
	SMOOTH_TIME_MS      = 10.0  // Parameter smoother time constant
	MIN_DENSITY_SEC     = 0.005 // Post-modulation spawn period floor
	MIN_GRAIN_SIZE_SEC  = 0.010 // Post-modulation grain duration floor
	MIN_RATE_MAG        = 0.1   // Magnitude floor on the FM-adjusted rate
	FM_AMOUNT_SCALE     = 0.01  // fmAmount units to rate deviation
)

// ------------------------------------------------------------------------------
// Grain Envelope
// ------------------------------------------------------------------------------
const (
	ENV_FADE_RATIO  = 0.01  // Anti-click pre-roll, fraction of grain phase
	ENV_CLICK_FLOOR = 0.001 // Level reached at the end of the pre-roll
)

// ------------------------------------------------------------------------------
// LFO Shapes
// ------------------------------------------------------------------------------
const (
	LFO_SHAPE_SINE = iota
	LFO_SHAPE_TRIANGLE
	LFO_SHAPE_SQUARE
	LFO_SHAPE_SAWTOOTH
	NUM_LFO_SHAPES
)

// ------------------------------------------------------------------------------
// LFO Target Bits
// ------------------------------------------------------------------------------
// Bit positions are stable and shared with every UI consumer. Do not reorder.
const (
	LFO_TARGET_GRAIN_SIZE = iota
	LFO_TARGET_DENSITY
	LFO_TARGET_SPREAD
	LFO_TARGET_POSITION
	LFO_TARGET_PITCH
	LFO_TARGET_FM_FREQ
	LFO_TARGET_FM_AMOUNT
	LFO_TARGET_FILTER_FREQ
	LFO_TARGET_FILTER_RES
	LFO_TARGET_ATTACK
	LFO_TARGET_RELEASE
	LFO_TARGET_DIST_AMOUNT
	LFO_TARGET_DELAY_MIX
	LFO_TARGET_DELAY_TIME
	LFO_TARGET_DELAY_FEEDBACK
	LFO_TARGET_PAN
	LFO_TARGET_PAN_SPREAD
	NUM_LFO_TARGETS
)

// ------------------------------------------------------------------------------
// Parameter Ranges
// ------------------------------------------------------------------------------
const (
	GRAIN_SIZE_MIN = 0.01 // seconds
	GRAIN_SIZE_MAX = 0.5

	DENSITY_MIN = 0.005 // seconds between spawns
	DENSITY_MAX = 0.5

	SPREAD_MIN = 0.0 // multiplier on half the buffer length
	SPREAD_MAX = 2.0

	POSITION_MIN = 0.0 // normalized buffer position
	POSITION_MAX = 1.0

	REVERSAL_MIN = 0.0 // probability
	REVERSAL_MAX = 1.0

	PAN_MIN = -1.0
	PAN_MAX = 1.0

	PAN_SPREAD_MIN = 0.0
	PAN_SPREAD_MAX = 1.0

	PITCH_MIN = -24.0 // semitones
	PITCH_MAX = 24.0

	DETUNE_MIN = 0.0 // cents, applied as ±detune
	DETUNE_MAX = 100.0

	FM_FREQ_MIN = 0.0 // Hz
	FM_FREQ_MAX = 1000.0

	FM_AMOUNT_MIN = 0.0
	FM_AMOUNT_MAX = 100.0

	ATTACK_MIN = 0.01 // fraction of grain duration
	ATTACK_MAX = 0.9

	RELEASE_MIN = 0.01
	RELEASE_MAX = 0.9

	LFO_RATE_MIN = 0.1 // Hz
	LFO_RATE_MAX = 20.0

	LFO_AMOUNT_MIN = 0.0
	LFO_AMOUNT_MAX = 1.0
)

// ------------------------------------------------------------------------------
// Effects Chain Ranges (forwarded by the engine, consumed by FXChain)
// ------------------------------------------------------------------------------
const (
	FILTER_FREQ_MIN = 20.0 // Hz
	FILTER_FREQ_MAX = 20000.0

	FILTER_RES_MIN = 0.1 // Q
	FILTER_RES_MAX = 10.0

	DIST_AMOUNT_MIN = 0.0
	DIST_AMOUNT_MAX = 1.0

	DELAY_MIX_MIN = 0.0
	DELAY_MIX_MAX = 1.0

	DELAY_TIME_MIN = 0.01 // seconds
	DELAY_TIME_MAX = 2.0

	DELAY_FEEDBACK_MIN = 0.0
	DELAY_FEEDBACK_MAX = 0.95

	REVERB_MIX_MIN = 0.0
	REVERB_MIX_MAX = 1.0

	MASTER_GAIN_MIN = 0.0
	MASTER_GAIN_MAX = 1.5
)

// ------------------------------------------------------------------------------
// Modulation Scale Table
// ------------------------------------------------------------------------------
// Additive swing applied to a target at lfoAmount = 1.0 and LFO output = +1.
// Indexed by LFO_TARGET_* bit position. Part of the wire contract.
var lfoModScales = [NUM_LFO_TARGETS]float32{
	LFO_TARGET_GRAIN_SIZE:     0.2,
	LFO_TARGET_DENSITY:        0.1,
	LFO_TARGET_SPREAD:         1.0,
	LFO_TARGET_POSITION:       0.5,
	LFO_TARGET_PITCH:          24.0,
	LFO_TARGET_FM_FREQ:        200.0,
	LFO_TARGET_FM_AMOUNT:      50.0,
	LFO_TARGET_FILTER_FREQ:    5000.0,
	LFO_TARGET_FILTER_RES:     10.0,
	LFO_TARGET_ATTACK:         0.5,
	LFO_TARGET_RELEASE:        0.5,
	LFO_TARGET_DIST_AMOUNT:    0.5,
	LFO_TARGET_DELAY_MIX:      0.5,
	LFO_TARGET_DELAY_TIME:     0.5,
	LFO_TARGET_DELAY_FEEDBACK: 0.5,
	LFO_TARGET_PAN:            1.0,
	LFO_TARGET_PAN_SPREAD:     1.0,
}

// lfoModClamps holds the [min, max] bounds applied after modulation,
// indexed by LFO_TARGET_* bit position.
var lfoModClamps = [NUM_LFO_TARGETS][2]float32{
	LFO_TARGET_GRAIN_SIZE:     {GRAIN_SIZE_MIN, GRAIN_SIZE_MAX},
	LFO_TARGET_DENSITY:        {DENSITY_MIN, DENSITY_MAX},
	LFO_TARGET_SPREAD:         {SPREAD_MIN, SPREAD_MAX},
	LFO_TARGET_POSITION:       {POSITION_MIN, POSITION_MAX},
	LFO_TARGET_PITCH:          {PITCH_MIN, PITCH_MAX},
	LFO_TARGET_FM_FREQ:        {FM_FREQ_MIN, FM_FREQ_MAX},
	LFO_TARGET_FM_AMOUNT:      {FM_AMOUNT_MIN, FM_AMOUNT_MAX},
	LFO_TARGET_FILTER_FREQ:    {FILTER_FREQ_MIN, FILTER_FREQ_MAX},
	LFO_TARGET_FILTER_RES:     {FILTER_RES_MIN, FILTER_RES_MAX},
	LFO_TARGET_ATTACK:         {ATTACK_MIN, ATTACK_MAX},
	LFO_TARGET_RELEASE:        {RELEASE_MIN, RELEASE_MAX},
	LFO_TARGET_DIST_AMOUNT:    {DIST_AMOUNT_MIN, DIST_AMOUNT_MAX},
	LFO_TARGET_DELAY_MIX:      {DELAY_MIX_MIN, DELAY_MIX_MAX},
	LFO_TARGET_DELAY_TIME:     {DELAY_TIME_MIN, DELAY_TIME_MAX},
	LFO_TARGET_DELAY_FEEDBACK: {DELAY_FEEDBACK_MIN, DELAY_FEEDBACK_MAX},
	LFO_TARGET_PAN:            {PAN_MIN, PAN_MAX},
	LFO_TARGET_PAN_SPREAD:     {PAN_SPREAD_MIN, PAN_SPREAD_MAX},
}

// ------------------------------------------------------------------------------
// Mathematical Constants
// ------------------------------------------------------------------------------
const (
	TWO_PI             = 2 * math.Pi
	QUARTER_PI         = math.Pi / 4
	CENTS_PER_OCTAVE   = 1200.0
	CENTS_PER_SEMITONE = 100.0
)

// ------------------------------------------------------------------------------
// Output Sample Limits
// ------------------------------------------------------------------------------
const (
	MAX_SAMPLE = 1.0
	MIN_SAMPLE = -1.0
)
