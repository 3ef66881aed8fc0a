// audio_backend_alsa_stub.go - ALSA stand-in for platforms without it

//go:build !linux || !cgo

package main

import "errors"

type ALSAPlayer struct{}

func NewALSAPlayer(sampleRate int, engine *GrainEngine, fx *FXChain) (*ALSAPlayer, error) {
	return nil, errors.New("ALSA backend is only available on Linux with cgo")
}

func (ap *ALSAPlayer) Start()          {}
func (ap *ALSAPlayer) Stop()           {}
func (ap *ALSAPlayer) Close()          {}
func (ap *ALSAPlayer) IsStarted() bool { return false }
