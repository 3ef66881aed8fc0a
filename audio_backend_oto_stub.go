// audio_backend_oto_stub.go - oto stand-in for Linux builds without cgo

//go:build linux && !cgo

package main

import "errors"

type OtoPlayer struct{}

func NewOtoPlayer(sampleRate int, engine *GrainEngine, fx *FXChain) (*OtoPlayer, error) {
	return nil, errors.New("oto backend requires cgo on Linux")
}

func (op *OtoPlayer) Start()          {}
func (op *OtoPlayer) Stop()           {}
func (op *OtoPlayer) Close()          {}
func (op *OtoPlayer) IsStarted() bool { return false }
