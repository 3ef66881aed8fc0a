// audio_lut.go - Lookup tables shared by the LFO, FM carrier and waveshaper

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

package main

import "math"

// Lookup table sizes
const (
	sinLUTSize  = 8192           // ~0.00077 radian resolution
	sinLUTMask  = sinLUTSize - 1 // Mask for fast modulo
	tanhLUTSize = 4096
	tanhLUTMin  = float32(-4.0)
	tanhLUTMax  = float32(4.0)
)

// Precomputed scale factors
const (
	sinLUTScale  = float32(sinLUTSize) / (2 * math.Pi)
	tanhLUTScale = float32(tanhLUTSize-1) / (tanhLUTMax - tanhLUTMin)
)

// sinLUT contains precomputed sine values for phase [0, 2π)
var sinLUT [sinLUTSize]float32

// tanhLUT contains precomputed tanh values for input [-4, 4];
// values outside saturate to ±1
var tanhLUT [tanhLUTSize]float32

func init() {
	for i := 0; i < sinLUTSize; i++ {
		phase := float64(i) * 2 * math.Pi / float64(sinLUTSize)
		sinLUT[i] = float32(math.Sin(phase))
	}
	for i := 0; i < tanhLUTSize; i++ {
		x := float64(tanhLUTMin) + float64(i)*float64(tanhLUTMax-tanhLUTMin)/float64(tanhLUTSize-1)
		tanhLUT[i] = float32(math.Tanh(x))
	}
}

// fastSin returns sin(phase) using the lookup table with linear
// interpolation. Phase is in radians; values outside [0, 2π) are wrapped.
//
//go:nosplit
func fastSin(phase float32) float32 {
	if phase < 0 {
		phase += TWO_PI
		if phase < 0 {
			phase = phase - TWO_PI*float32(int(phase/TWO_PI)-1)
		}
	} else if phase >= TWO_PI {
		phase = phase - TWO_PI*float32(int(phase/TWO_PI))
	}

	indexF := phase * sinLUTScale
	index := int(indexF)
	frac := indexF - float32(index)

	index &= sinLUTMask
	nextIndex := (index + 1) & sinLUTMask

	return sinLUT[index] + frac*(sinLUT[nextIndex]-sinLUT[index])
}

// fastTanh returns tanh(x) using the lookup table with linear
// interpolation. Input outside [-4, 4] saturates.
//
//go:nosplit
func fastTanh(x float32) float32 {
	if x <= tanhLUTMin {
		return -1.0
	}
	if x >= tanhLUTMax {
		return 1.0
	}

	indexF := (x - tanhLUTMin) * tanhLUTScale
	index := int(indexF)
	frac := indexF - float32(index)

	if index < 0 {
		return tanhLUT[0]
	}
	if index >= tanhLUTSize-1 {
		return tanhLUT[tanhLUTSize-1]
	}

	return tanhLUT[index] + frac*(tanhLUT[index+1]-tanhLUT[index])
}
