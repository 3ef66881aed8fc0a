// terminal_ui.go - Raw-mode keyboard control surface

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"

	"golang.design/x/clipboard"
	"golang.org/x/term"
)

// TerminalUI drives the engine from single-key presses on a raw-mode
// terminal. It owns a shadow parameter record, the same pattern the
// script host uses, so every keystroke submits a fully formed record.
type TerminalUI struct {
	engine     *GrainEngine
	params     EngineParams
	playing    bool
	frozen     bool
	drifting   bool
	presetPath string
	clipboardOK bool
}

func NewTerminalUI(engine *GrainEngine, initial EngineParams, presetPath string) *TerminalUI {
	return &TerminalUI{
		engine:     engine,
		params:     initial,
		presetPath: presetPath,
	}
}

func (ui *TerminalUI) printHelp() {
	fmt.Print("\r\n" +
		"  space  start/stop        f  freeze toggle      d  drift toggle\r\n" +
		"  , .    position -/+      z x  grain size -/+   [ ]  density -/+\r\n" +
		"  - =    pitch -/+         n m  spread -/+       < >  pan -/+\r\n" +
		"  u i    LFO depth -/+     o p  LFO rate -/+     e    envelope curve\r\n" +
		"  w      write preset      c  copy preset        q    quit\r\n\r\n")
}

func (ui *TerminalUI) status() string {
	state := "stopped"
	if ui.playing {
		state = "playing"
	}
	if ui.frozen {
		state += " frozen"
	}
	if ui.drifting {
		state += " drift"
	}
	p := &ui.params
	return fmt.Sprintf("\r[%s] pos %.2f size %.0fms dens %.0fms pitch %+.1f spread %.2f pan %+.2f lfo %.2f@%.1fHz   ",
		state, p.Position, p.GrainSize*1000, p.Density*1000, p.Pitch, p.Spread, p.Pan, p.LFOAmount, p.LFORate)
}

func (ui *TerminalUI) nudge(field *float32, delta, lo, hi float32) {
	*field = clampF32(*field+delta, lo, hi)
	ui.engine.UpdateParams(ui.params)
}

// Run blocks until the user quits. Restores the terminal state on return.
func (ui *TerminalUI) Run() error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Println()
	}()

	ui.printHelp()

	buf := make([]byte, 1)
	for {
		fmt.Print(ui.status())
		if _, err := os.Stdin.Read(buf); err != nil {
			return err
		}
		p := &ui.params
		switch buf[0] {
		case 'q', 0x03: // q or ctrl-c
			ui.engine.Stop()
			return nil
		case ' ':
			if ui.playing {
				ui.engine.Stop()
			} else {
				ui.engine.Start()
			}
			ui.playing = !ui.playing
		case 'f':
			ui.frozen = !ui.frozen
			ui.engine.SetFrozen(ui.frozen, p.Position)
		case 'd':
			ui.drifting = !ui.drifting
			ui.engine.SetDrift(ui.drifting, p.Position, 0.5, 0.5)
		case ',':
			ui.nudge(&p.Position, -0.01, POSITION_MIN, POSITION_MAX)
		case '.':
			ui.nudge(&p.Position, 0.01, POSITION_MIN, POSITION_MAX)
		case 'z':
			ui.nudge(&p.GrainSize, -0.01, GRAIN_SIZE_MIN, GRAIN_SIZE_MAX)
		case 'x':
			ui.nudge(&p.GrainSize, 0.01, GRAIN_SIZE_MIN, GRAIN_SIZE_MAX)
		case '[':
			ui.nudge(&p.Density, -0.005, DENSITY_MIN, DENSITY_MAX)
		case ']':
			ui.nudge(&p.Density, 0.005, DENSITY_MIN, DENSITY_MAX)
		case '-':
			ui.nudge(&p.Pitch, -1, PITCH_MIN, PITCH_MAX)
		case '=':
			ui.nudge(&p.Pitch, 1, PITCH_MIN, PITCH_MAX)
		case 'n':
			ui.nudge(&p.Spread, -0.05, SPREAD_MIN, SPREAD_MAX)
		case 'm':
			ui.nudge(&p.Spread, 0.05, SPREAD_MIN, SPREAD_MAX)
		case '<':
			ui.nudge(&p.Pan, -0.05, PAN_MIN, PAN_MAX)
		case '>':
			ui.nudge(&p.Pan, 0.05, PAN_MIN, PAN_MAX)
		case 'u':
			ui.nudge(&p.LFOAmount, -0.05, LFO_AMOUNT_MIN, LFO_AMOUNT_MAX)
		case 'i':
			ui.nudge(&p.LFOAmount, 0.05, LFO_AMOUNT_MIN, LFO_AMOUNT_MAX)
		case 'o':
			ui.nudge(&p.LFORate, -0.5, LFO_RATE_MIN, LFO_RATE_MAX)
		case 'p':
			ui.nudge(&p.LFORate, 0.5, LFO_RATE_MIN, LFO_RATE_MAX)
		case 'e':
			p.ExponentialEnv = !p.ExponentialEnv
			ui.engine.UpdateParams(ui.params)
		case 'w':
			if err := SavePreset(ui.presetPath, ui.params); err != nil {
				fmt.Printf("\r\npreset save failed: %v\r\n", err)
			} else {
				fmt.Printf("\r\npreset written to %s\r\n", ui.presetPath)
			}
		case 'c':
			ui.copyPreset()
		case '?':
			ui.printHelp()
		}
	}
}

func (ui *TerminalUI) copyPreset() {
	if !ui.clipboardOK {
		if err := clipboard.Init(); err != nil {
			fmt.Printf("\r\nclipboard unavailable: %v\r\n", err)
			return
		}
		ui.clipboardOK = true
	}
	text, err := PresetYAML(ui.params)
	if err != nil {
		fmt.Printf("\r\npreset export failed: %v\r\n", err)
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	fmt.Print("\r\npreset copied to clipboard\r\n")
}
