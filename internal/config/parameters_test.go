package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
OutputDir = "out"
InputUnits = ["nm", "fs", "V/nm"]
WorkFunction = 5.1
FieldAmplitude = 2.0

[Models.sharp]
Identifier = "data/R=10nm_L=1um"
DistanceToTop = 30
MaxPatchArea = 4

[Models.blunt]
Identifier = "data/R=50nm_L=2um"
WorkFunction = 4.5
EmissionLaw = "murphy-good"
`

func TestCheckAndUnify(t *testing.T) {
	cfg, meta, err := DecodeConfig(sampleConfig)
	require.NoError(t, err)
	assert.Equal(t, []string{"blunt", "sharp"}, cfg.ModelNames())
	assert.Equal(t, []string{"nm", "fs", "V/nm", "eV"}, cfg.InputUnits)

	sharp := cfg.Models["sharp"]
	require.NoError(t, sharp.CheckAndUnify("sharp", &cfg, &meta))
	assert.InDelta(t, 30e-9, sharp.DistanceToTop, 1e-20)
	assert.InDelta(t, 4e-18, sharp.MaxPatchArea, 1e-30)
	assert.InDelta(t, 2e9, sharp.FieldAmplitude, 1)
	assert.Equal(t, 5.1, sharp.WorkFunction)
	assert.Equal(t, "fowler-nordheim", sharp.EmissionLaw)
	assert.Equal(t, 512, sharp.TimeSamples)
	assert.InDelta(t, 800e-9, sharp.Wavelength, 1e-20)
	assert.Equal(t, cfg.OutputUnits, sharp.OutputUnits())

	blunt := cfg.Models["blunt"]
	require.NoError(t, blunt.CheckAndUnify("blunt", &cfg, &meta))
	assert.Equal(t, 4.5, blunt.WorkFunction)
	assert.Equal(t, "murphy-good", blunt.EmissionLaw)
	assert.InDelta(t, 50e-9, blunt.DistanceToTop, 1e-20)
}

func TestCheckAndUnifyMissingIdentifier(t *testing.T) {
	cfg, meta, err := DecodeConfig("[Models.none]\nWorkFunction = 4.5\n")
	require.NoError(t, err)
	none := cfg.Models["none"]
	assert.ErrorIs(t, none.CheckAndUnify("none", &cfg, &meta), ErrMissingFields)
}

func TestCheckAndUnifyRejectsUnphysical(t *testing.T) {
	cfg, meta, err := DecodeConfig("[Models.bad]\nIdentifier = \"R=10_L=1\"\nWorkFunction = -1.0\n")
	require.NoError(t, err)
	bad := cfg.Models["bad"]
	assert.Error(t, bad.CheckAndUnify("bad", &cfg, &meta))
}

func TestDecodeConfigErrors(t *testing.T) {
	_, _, err := DecodeConfig("OutputDir = \"x\"\n")
	assert.ErrorIs(t, err, ErrNoModels)

	_, _, err = DecodeConfig("InputUnits = [\"nm\", \"um\"]\n[Models.a]\nIdentifier = \"R=1_L=1\"\n")
	assert.ErrorIs(t, err, ErrUnitConflict)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tip.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0600))

	cfg, _, err := LoadConfig(filepath.Join(dir, "tip"))
	require.NoError(t, err)
	assert.Len(t, cfg.Models, 2)
	assert.Equal(t, "out", cfg.OutputDir)
}

func TestSI(t *testing.T) {
	units := []string{"nm", "fs", "V/nm", "eV"}
	area := []UnitElement{{Class: Length, Power: 2}}
	assert.InDelta(t, 3e-18, SI(3, area, units, true), 1e-30)
	assert.InDelta(t, 3., SI(3e-18, area, units, false), 1e-12)
	assert.InDelta(t, 1e9, SI(1, []UnitElement{{Class: Field, Power: 1}}, units, true), 1e-3)
}

func TestResolveUnits(t *testing.T) {
	units, err := ResolveUnits([]string{"um"})
	require.NoError(t, err)
	assert.Equal(t, []string{"um", "fs", "V/m", "eV"}, units)

	units, err = ResolveUnits(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"nm", "fs", "V/m", "eV"}, units)

	_, err = ResolveUnits([]string{"nm", "um"})
	assert.ErrorIs(t, err, ErrUnitConflict)
	_, err = ResolveUnits([]string{"furlong"})
	assert.ErrorIs(t, err, ErrUnitConflict)
}
