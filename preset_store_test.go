// preset_store_test.go - Preset round-trip tests

package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetRoundTrip(t *testing.T) {
	p := DefaultParams()
	p.Position = 0.42
	p.Pitch = -7
	p.ExponentialEnv = true
	p.LFOShape = LFO_SHAPE_SAWTOOTH
	p.LFOTargets = 1<<LFO_TARGET_POSITION | 1<<LFO_TARGET_PAN
	p.DelayFeedback = 0.33

	path := filepath.Join(t.TempDir(), "preset.yaml")
	require.NoError(t, SavePreset(path, p))

	got, err := LoadPreset(path)
	require.NoError(t, err)
	assert.Equal(t, p, got, "preset must survive a save/load cycle unchanged")
}

func TestPresetYAMLContainsFieldNames(t *testing.T) {
	text, err := PresetYAML(DefaultParams())
	require.NoError(t, err)
	// The YAML keys are the wire contract shared with the preset files and
	// the script host's parameter names.
	for _, key := range []string{"grainSize:", "density:", "lfoTargets:", "masterGain:"} {
		assert.Contains(t, text, key)
	}
}

func TestLoadPresetMissingFile(t *testing.T) {
	_, err := LoadPreset(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
