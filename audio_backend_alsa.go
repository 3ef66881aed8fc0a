// audio_backend_alsa.go - Native Linux audio output via ALSA

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

//go:build linux && cgo

package main

/*
#cgo LDFLAGS: -lasound
#include <alsa/asoundlib.h>
#include <stdlib.h>

static snd_pcm_t* openPCM(const char* device, int* err) {
    snd_pcm_t* handle;
    *err = snd_pcm_open(&handle, device, SND_PCM_STREAM_PLAYBACK, 0);
    return handle;
}

static int setupPCM(snd_pcm_t* handle, unsigned int rate) {
    snd_pcm_hw_params_t* params;
    int err;

    snd_pcm_hw_params_alloca(&params);
    err = snd_pcm_hw_params_any(handle, params);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_access(handle, params, SND_PCM_ACCESS_RW_INTERLEAVED);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_format(handle, params, SND_PCM_FORMAT_FLOAT);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_channels(handle, params, 2);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_rate(handle, params, rate, 0);
    if (err < 0) return err;

    err = snd_pcm_hw_params(handle, params);
    if (err < 0) return err;

    return snd_pcm_prepare(handle);
}

static int writePCM(snd_pcm_t* handle, float* buffer, int frames) {
    return snd_pcm_writei(handle, buffer, frames);
}

static void closePCM(snd_pcm_t* handle) {
    if (handle != NULL) {
        snd_pcm_drain(handle);
        snd_pcm_close(handle);
    }
}
*/
import "C"
import (
	"fmt"
	"sync"
	"unsafe"
)

type ALSAPlayer struct {
	handle      *C.snd_pcm_t
	engine      *GrainEngine
	fx          *FXChain
	started     bool
	mutex       sync.Mutex
	done        chan struct{}
	bufL        []float32
	bufR        []float32
	interleaved []float32
}

func NewALSAPlayer(sampleRate int, engine *GrainEngine, fx *FXChain) (*ALSAPlayer, error) {
	device := C.CString("default")
	defer C.free(unsafe.Pointer(device))

	var cerr C.int
	handle := C.openPCM(device, &cerr)
	if cerr < 0 {
		return nil, fmt.Errorf("failed to open PCM device: %s", C.GoString(C.snd_strerror(cerr)))
	}

	if cerr = C.setupPCM(handle, C.uint(sampleRate)); cerr < 0 {
		C.closePCM(handle)
		return nil, fmt.Errorf("failed to setup PCM: %s", C.GoString(C.snd_strerror(cerr)))
	}

	return &ALSAPlayer{
		handle:      handle,
		engine:      engine,
		fx:          fx,
		bufL:        make([]float32, RENDER_BLOCK_FRAMES),
		bufR:        make([]float32, RENDER_BLOCK_FRAMES),
		interleaved: make([]float32, RENDER_BLOCK_FRAMES*2),
	}, nil
}

func (ap *ALSAPlayer) renderLoop(done chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}

		ap.engine.Process(ap.bufL, ap.bufR, RENDER_BLOCK_FRAMES)
		ap.fx.Process(ap.bufL, ap.bufR, ap.engine.FXParams())
		for i := 0; i < RENDER_BLOCK_FRAMES; i++ {
			ap.interleaved[i*2] = ap.bufL[i]
			ap.interleaved[i*2+1] = ap.bufR[i]
		}

		frames := C.writePCM(ap.handle, (*C.float)(unsafe.Pointer(&ap.interleaved[0])), C.int(RENDER_BLOCK_FRAMES))
		if frames == -C.EPIPE {
			// Underrun: recover the stream and push the block again.
			C.snd_pcm_prepare(ap.handle)
			C.writePCM(ap.handle, (*C.float)(unsafe.Pointer(&ap.interleaved[0])), C.int(RENDER_BLOCK_FRAMES))
		}
	}
}

func (ap *ALSAPlayer) Start() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if ap.started {
		return
	}
	ap.started = true
	ap.done = make(chan struct{})
	go ap.renderLoop(ap.done)
}

func (ap *ALSAPlayer) Stop() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if !ap.started {
		return
	}
	ap.started = false
	close(ap.done)
}

func (ap *ALSAPlayer) Close() {
	ap.Stop()
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if ap.handle != nil {
		C.closePCM(ap.handle)
		ap.handle = nil
	}
}

func (ap *ALSAPlayer) IsStarted() bool {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	return ap.started
}
