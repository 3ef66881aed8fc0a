// script_host.go - Lua automation of engine parameters

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

/*
script_host.go - Automation Scripting

Runs a user Lua script on the control thread and turns its calls into
engine commands. The script owns a shadow copy of the parameter record;
every engine.set() mutates the copy and submits the whole record, so the
engine always observes fully formed parameter states.

	engine.start()
	for i = 0, 9 do
	    engine.set("position", i / 10)
	    engine.sleep(0.5)
	end
	engine.stop()
*/

package main

import (
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// paramFields maps script-facing names onto the parameter record. The
// names match the YAML preset keys.
var paramFields = map[string]struct {
	set func(*EngineParams, float32)
	get func(*EngineParams) float32
}{
	"grainSize":           {func(p *EngineParams, v float32) { p.GrainSize = v }, func(p *EngineParams) float32 { return p.GrainSize }},
	"density":             {func(p *EngineParams, v float32) { p.Density = v }, func(p *EngineParams) float32 { return p.Density }},
	"spread":              {func(p *EngineParams, v float32) { p.Spread = v }, func(p *EngineParams) float32 { return p.Spread }},
	"position":            {func(p *EngineParams, v float32) { p.Position = v }, func(p *EngineParams) float32 { return p.Position }},
	"grainReversalChance": {func(p *EngineParams, v float32) { p.GrainReversalChance = v }, func(p *EngineParams) float32 { return p.GrainReversalChance }},
	"pan":                 {func(p *EngineParams, v float32) { p.Pan = v }, func(p *EngineParams) float32 { return p.Pan }},
	"panSpread":           {func(p *EngineParams, v float32) { p.PanSpread = v }, func(p *EngineParams) float32 { return p.PanSpread }},
	"pitch":               {func(p *EngineParams, v float32) { p.Pitch = v }, func(p *EngineParams) float32 { return p.Pitch }},
	"detune":              {func(p *EngineParams, v float32) { p.Detune = v }, func(p *EngineParams) float32 { return p.Detune }},
	"fmFreq":              {func(p *EngineParams, v float32) { p.FMFreq = v }, func(p *EngineParams) float32 { return p.FMFreq }},
	"fmAmount":            {func(p *EngineParams, v float32) { p.FMAmount = v }, func(p *EngineParams) float32 { return p.FMAmount }},
	"attack":              {func(p *EngineParams, v float32) { p.Attack = v }, func(p *EngineParams) float32 { return p.Attack }},
	"release":             {func(p *EngineParams, v float32) { p.Release = v }, func(p *EngineParams) float32 { return p.Release }},
	"lfoRate":             {func(p *EngineParams, v float32) { p.LFORate = v }, func(p *EngineParams) float32 { return p.LFORate }},
	"lfoAmount":           {func(p *EngineParams, v float32) { p.LFOAmount = v }, func(p *EngineParams) float32 { return p.LFOAmount }},
	"lfoShape":            {func(p *EngineParams, v float32) { p.LFOShape = int(v) }, func(p *EngineParams) float32 { return float32(p.LFOShape) }},
	"lfoTargets":          {func(p *EngineParams, v float32) { p.LFOTargets = uint32(v) }, func(p *EngineParams) float32 { return float32(p.LFOTargets) }},
	"filterFreq":          {func(p *EngineParams, v float32) { p.FilterFreq = v }, func(p *EngineParams) float32 { return p.FilterFreq }},
	"filterRes":           {func(p *EngineParams, v float32) { p.FilterRes = v }, func(p *EngineParams) float32 { return p.FilterRes }},
	"distAmount":          {func(p *EngineParams, v float32) { p.DistAmount = v }, func(p *EngineParams) float32 { return p.DistAmount }},
	"delayMix":            {func(p *EngineParams, v float32) { p.DelayMix = v }, func(p *EngineParams) float32 { return p.DelayMix }},
	"delayTime":           {func(p *EngineParams, v float32) { p.DelayTime = v }, func(p *EngineParams) float32 { return p.DelayTime }},
	"delayFeedback":       {func(p *EngineParams, v float32) { p.DelayFeedback = v }, func(p *EngineParams) float32 { return p.DelayFeedback }},
	"reverbMix":           {func(p *EngineParams, v float32) { p.ReverbMix = v }, func(p *EngineParams) float32 { return p.ReverbMix }},
	"masterGain":          {func(p *EngineParams, v float32) { p.MasterGain = v }, func(p *EngineParams) float32 { return p.MasterGain }},
}

type ScriptHost struct {
	engine *GrainEngine
	params EngineParams
	state  *lua.LState
}

func NewScriptHost(engine *GrainEngine, initial EngineParams) *ScriptHost {
	h := &ScriptHost{
		engine: engine,
		params: initial,
		state:  lua.NewState(),
	}
	h.register()
	return h
}

func (h *ScriptHost) Close() {
	h.state.Close()
}

// Params returns the script's current shadow of the parameter record.
func (h *ScriptHost) Params() EngineParams {
	return h.params
}

func (h *ScriptHost) RunFile(path string) error {
	if err := h.state.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

func (h *ScriptHost) RunString(src string) error {
	return h.state.DoString(src)
}

func (h *ScriptHost) register() {
	L := h.state
	mod := L.NewTable()

	L.SetField(mod, "set", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		value := float32(L.CheckNumber(2))
		field, ok := paramFields[name]
		if !ok {
			L.RaiseError("unknown parameter %q", name)
			return 0
		}
		field.set(&h.params, value)
		h.engine.UpdateParams(h.params)
		return 0
	}))

	L.SetField(mod, "get", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		field, ok := paramFields[name]
		if !ok {
			L.RaiseError("unknown parameter %q", name)
			return 0
		}
		L.Push(lua.LNumber(field.get(&h.params)))
		return 1
	}))

	L.SetField(mod, "params", L.NewFunction(func(L *lua.LState) int {
		t := L.NewTable()
		for name, field := range paramFields {
			L.SetField(t, name, lua.LNumber(field.get(&h.params)))
		}
		L.Push(t)
		return 1
	}))

	L.SetField(mod, "start", L.NewFunction(func(L *lua.LState) int {
		h.engine.Start()
		return 0
	}))

	L.SetField(mod, "stop", L.NewFunction(func(L *lua.LState) int {
		h.engine.Stop()
		return 0
	}))

	L.SetField(mod, "freeze", L.NewFunction(func(L *lua.LState) int {
		h.engine.SetFrozen(true, float32(L.CheckNumber(1)))
		return 0
	}))

	L.SetField(mod, "unfreeze", L.NewFunction(func(L *lua.LState) int {
		h.engine.SetFrozen(false, 0)
		return 0
	}))

	L.SetField(mod, "drift", L.NewFunction(func(L *lua.LState) int {
		base := float32(L.CheckNumber(1))
		speed := float32(L.CheckNumber(2))
		ret := float32(L.CheckNumber(3))
		h.engine.SetDrift(true, base, speed, ret)
		return 0
	}))

	L.SetField(mod, "stopDrift", L.NewFunction(func(L *lua.LState) int {
		h.engine.SetDrift(false, 0, 0, 0)
		return 0
	}))

	L.SetField(mod, "sleep", L.NewFunction(func(L *lua.LState) int {
		time.Sleep(time.Duration(float64(L.CheckNumber(1)) * float64(time.Second)))
		return 0
	}))

	L.SetField(mod, "time", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(h.engine.CurrentTime()))
		return 1
	}))

	L.SetGlobal("engine", mod)
}
