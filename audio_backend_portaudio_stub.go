// audio_backend_portaudio_stub.go - PortAudio stand-in for builds without cgo

//go:build !cgo

package main

import "errors"

type PortAudioPlayer struct{}

func NewPortAudioPlayer(sampleRate int, engine *GrainEngine, fx *FXChain) (*PortAudioPlayer, error) {
	return nil, errors.New("PortAudio backend is only available with cgo")
}

func (pp *PortAudioPlayer) Start()          {}
func (pp *PortAudioPlayer) Stop()           {}
func (pp *PortAudioPlayer) Close()          {}
func (pp *PortAudioPlayer) IsStarted() bool { return false }
