// main.go - grainsynth entry point

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

const defaultPresetPath = "grainsynth.yaml"

func boilerPlate() {
	fmt.Println("\nGrainEngine - a real-time granular audio synthesizer")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/GrainEngine")
	fmt.Println("License: GPLv3 or later")
}

func main() {
	backendName := pflag.String("backend", "oto", "audio backend: oto, alsa, portaudio, headless")
	withViz := pflag.Bool("viz", false, "open the grain visualizer window")
	scriptPath := pflag.String("script", "", "Lua automation script to run")
	presetPath := pflag.String("preset", "", "parameter preset (YAML) to apply before start")
	seed := pflag.Uint64("seed", 0, "PRNG seed for reproducible grain texture (0 = default)")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] sample.(wav|mp3)\n", filepath.Base(os.Args[0]))
		pflag.PrintDefaults()
		os.Exit(2)
	}

	boilerPlate()

	samplePath := pflag.Arg(0)
	buf, err := LoadSample(samplePath)
	if err != nil {
		log.Fatal("failed to load sample", "path", samplePath, "err", err)
	}
	log.Info("sample loaded", "path", samplePath,
		"frames", buf.Len(), "channels", buf.Channels(), "rate", buf.SampleRate())

	sampleRate := buf.SampleRate()
	engine, err := NewGrainEngine(float64(sampleRate))
	if err != nil {
		log.Fatal("engine init failed", "err", err)
	}
	if *seed != 0 {
		engine.SeedPRNG(*seed)
	}

	params := DefaultParams()
	if *presetPath != "" {
		params, err = LoadPreset(*presetPath)
		if err != nil {
			log.Fatal("preset load failed", "path", *presetPath, "err", err)
		}
		log.Info("preset applied", "path", *presetPath)
	}
	engine.UpdateParams(params)
	engine.SetSampleBuffer(buf)

	fx := NewFXChain(float64(sampleRate))

	backendID, err := backendFromName(*backendName)
	if err != nil {
		log.Fatal("bad backend", "err", err)
	}
	output, err := NewAudioOutput(backendID, sampleRate, engine, fx)
	if err != nil {
		log.Fatal("audio backend init failed", "backend", *backendName, "err", err)
	}
	defer output.Close()
	output.Start()
	log.Info("audio output running", "backend", *backendName, "rate", sampleRate)

	if *scriptPath != "" {
		host := NewScriptHost(engine, params)
		go func() {
			defer host.Close()
			if err := host.RunFile(*scriptPath); err != nil {
				log.Error("script failed", "err", err)
			}
		}()
		log.Info("automation script running", "path", *scriptPath)
	}

	savePath := *presetPath
	if savePath == "" {
		savePath = defaultPresetPath
	}
	ui := NewTerminalUI(engine, params, savePath)

	if *withViz {
		// ebiten insists on the main goroutine; the keyboard UI moves aside.
		go func() {
			if err := ui.Run(); err != nil {
				log.Error("terminal ui", "err", err)
			}
			os.Exit(0)
		}()
		viz := NewVizFrontend(engine, buf, "GrainEngine")
		if err := RunVizFrontend(viz); err != nil {
			log.Fatal("visualizer failed", "err", err)
		}
		return
	}

	if err := ui.Run(); err != nil {
		log.Error("terminal ui", "err", err)
	}
}
