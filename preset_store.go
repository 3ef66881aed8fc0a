// preset_store.go - Parameter presets as YAML files

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/GrainEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPreset reads a parameter record from a YAML file. Missing fields
// keep their zero value; the record is clamped when it reaches the engine,
// so a sparse preset is safe but probably not what the author wanted.
func LoadPreset(path string) (EngineParams, error) {
	var p EngineParams
	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("preset %s: %w", path, err)
	}
	return p, nil
}

// SavePreset writes the full parameter record to a YAML file.
func SavePreset(path string, p EngineParams) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// PresetYAML renders a parameter record as YAML text, for clipboard
// export from the terminal UI.
func PresetYAML(p EngineParams) (string, error) {
	data, err := yaml.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
