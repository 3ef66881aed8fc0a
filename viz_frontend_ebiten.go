// viz_frontend_ebiten.go - Grain visualizer window

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

//go:build !linux || cgo

package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const (
	VIZ_WIDTH  = 800
	VIZ_HEIGHT = 300

	vizGrainLifeTicks = 60 // marker fade-out, in 60 Hz update ticks
	vizMaxMarkers     = 512
)

type vizMarker struct {
	event GrainEvent
	age   int
}

// VizFrontend renders recently spawned grains over the source waveform.
// It drains the engine's event ring from ebiten's update loop, which runs
// well inside the ring's sizing cadence.
type VizFrontend struct {
	engine   *GrainEngine
	markers  []vizMarker
	scratch  []GrainEvent
	peaks    []float32 // per-column waveform peak, precomputed
	title    string
}

func NewVizFrontend(engine *GrainEngine, buf *SampleBuffer, title string) *VizFrontend {
	v := &VizFrontend{
		engine:  engine,
		markers: make([]vizMarker, 0, vizMaxMarkers),
		scratch: make([]GrainEvent, 0, VIZ_RING_SIZE),
		peaks:   make([]float32, VIZ_WIDTH),
		title:   title,
	}
	data := buf.Data()
	step := len(data) / VIZ_WIDTH
	if step < 1 {
		step = 1
	}
	for col := 0; col < VIZ_WIDTH; col++ {
		start := col * step
		if start >= len(data) {
			break
		}
		end := start + step
		if end > len(data) {
			end = len(data)
		}
		var peak float32
		for _, s := range data[start:end] {
			if s < 0 {
				s = -s
			}
			if s > peak {
				peak = s
			}
		}
		v.peaks[col] = peak
	}
	return v
}

func (v *VizFrontend) Update() error {
	v.scratch = v.engine.DrainGrainEvents(v.scratch[:0])
	for _, e := range v.scratch {
		if len(v.markers) >= vizMaxMarkers {
			copy(v.markers, v.markers[1:])
			v.markers = v.markers[:len(v.markers)-1]
		}
		v.markers = append(v.markers, vizMarker{event: e})
	}

	alive := v.markers[:0]
	for _, m := range v.markers {
		m.age++
		if m.age < vizGrainLifeTicks {
			alive = append(alive, m)
		}
	}
	v.markers = alive
	return nil
}

func (v *VizFrontend) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 12, B: 18, A: 255})

	mid := float32(VIZ_HEIGHT) / 2
	waveCol := color.RGBA{R: 60, G: 90, B: 120, A: 255}
	for col := 0; col < VIZ_WIDTH; col++ {
		h := v.peaks[col] * (mid - 10)
		if h < 1 {
			h = 1
		}
		vector.StrokeLine(screen, float32(col), mid-h, float32(col), mid+h, 1, waveCol, false)
	}

	for _, m := range v.markers {
		fade := 1 - float32(m.age)/float32(vizGrainLifeTicks)
		x := m.event.NormPos * VIZ_WIDTH
		// Pan maps to vertical placement: left at the top, right at the bottom.
		y := mid + m.event.Pan*(mid-20)
		w := m.event.Duration * 100
		if w < 2 {
			w = 2
		}
		col := color.RGBA{
			R: uint8(240 * fade),
			G: uint8(160 * fade),
			B: uint8(60 * fade),
			A: uint8(255 * fade),
		}
		vector.DrawFilledRect(screen, x-w/2, y-2, w, 4, col, false)
	}

	text.Draw(screen, v.title, basicfont.Face7x13, 8, 16, color.White)
}

func (v *VizFrontend) Layout(outsideWidth, outsideHeight int) (int, int) {
	return VIZ_WIDTH, VIZ_HEIGHT
}

// RunVizFrontend opens the window and blocks until it is closed. Must run
// on the main goroutine (ebiten requirement).
func RunVizFrontend(v *VizFrontend) error {
	ebiten.SetWindowSize(VIZ_WIDTH, VIZ_HEIGHT)
	ebiten.SetWindowTitle(v.title)
	return ebiten.RunGame(v)
}
