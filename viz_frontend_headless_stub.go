// viz_frontend_headless_stub.go - visualizer stand-in for Linux builds without cgo

//go:build linux && !cgo

package main

import "errors"

const (
	VIZ_WIDTH  = 800
	VIZ_HEIGHT = 300
)

type VizFrontend struct{}

func NewVizFrontend(engine *GrainEngine, buf *SampleBuffer, title string) *VizFrontend {
	return &VizFrontend{}
}

func RunVizFrontend(v *VizFrontend) error {
	return errors.New("visualizer requires cgo on Linux")
}
