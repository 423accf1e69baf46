package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wildstyl3r/tipem/internal/config"
	"github.com/wildstyl3r/tipem/internal/emission"
	"github.com/wildstyl3r/tipem/internal/spheroid"
)

func testParameters(t *testing.T) config.ModelParameters {
	t.Helper()
	identifier := filepath.Join(t.TempDir(), "R=10nm_L=1um")
	return config.ModelParameters{
		Identifier:     identifier,
		FieldAmplitude: 2e8,
		WorkFunction:   4.5,
		DistanceToTop:  50e-9,
		MaxPatchArea:   100e-18,
		EmissionLaw:    "murphy-good",
		Wavelength:     800e-9,
		PulseDuration:  10e-15,
		TimeSamples:    128,
		TimeSpan:       60e-15,
	}
}

func TestNewTipEmissionFromIdentifier(t *testing.T) {
	p := testParameters(t)
	te, err := NewTipEmission(p.Identifier, WithPulse(spheroid.Pulse{
		Wavelength: p.Wavelength, Duration: p.PulseDuration, Samples: 64, Span: p.TimeSpan,
	}))
	require.NoError(t, err)
	assert.InDelta(t, 1e-6, te.FieldModel().Length(), 1e-18)
	assert.Len(t, te.TimeSamples(), 64)
	assert.Empty(t, te.Patches())
	assert.Equal(t, emission.FowlerNordheim{}, te.law)

	withLaw, err := NewTipEmission(p.Identifier, WithLaw(emission.MurphyGood{}), WithPulse(spheroid.Pulse{
		Wavelength: p.Wavelength, Duration: p.PulseDuration, Samples: 64, Span: p.TimeSpan,
	}))
	require.NoError(t, err)
	assert.Equal(t, emission.MurphyGood{}, withLaw.law)

	_, err = NewTipEmission(p.Identifier)
	assert.ErrorIs(t, err, spheroid.ErrNoFieldData)
	_, err = NewTipEmission(filepath.Join(t.TempDir(), "no_geometry"))
	assert.ErrorIs(t, err, config.ErrMalformedIdentifier)
}

func TestSpheroidEmitsAtTheApex(t *testing.T) {
	te, err := NewFromParameters(testParameters(t))
	require.NoError(t, err)
	require.NotEmpty(t, te.Patches())
	assert.Equal(t, emission.MurphyGood{}, te.law)

	totals, err := te.TotalNumberOfEmittedParticles()
	require.NoError(t, err)
	apex := te.ApexPatch()
	require.GreaterOrEqual(t, apex, 0)
	assert.Greater(t, totals[apex], 0.)
	for _, n := range totals {
		assert.GreaterOrEqual(t, n, 0.)
	}

	h, err := te.EmissionHistory()
	require.NoError(t, err)
	assert.Less(t, h.ApexField[h.PeakStep], 0.)

	// apex field follows the enhanced incident field
	s := te.FieldModel().(*spheroid.Spheroid)
	peak := -h.ApexField[h.PeakStep]
	assert.Less(t, peak, 2e8*s.FieldEnhancement()*(1+1e-9))
}

func TestElectronForcePullsAwayFromTip(t *testing.T) {
	te, err := NewFromParameters(testParameters(t))
	require.NoError(t, err)
	h, err := te.EmissionHistory()
	require.NoError(t, err)

	above := te.EmissionPoints()[te.ApexPatch()]
	above.Z += 5e-9
	forces, err := te.ElectronForce([]r3.Vec{above}, h.PeakStep)
	require.NoError(t, err)
	// the field points into the tip while it emits, the electron is pushed out
	assert.Greater(t, forces[0].Z, 0.)
}

func TestDataExtractorSave(t *testing.T) {
	p := testParameters(t)
	te, err := NewFromParameters(p)
	require.NoError(t, err)

	de, err := NewDataExtractor(te, p)
	require.NoError(t, err)
	assert.Greater(t, de.TotalElectrons(), 0.)
	assert.Len(t, de.Totals(), len(de.Patches()))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	df := NewDataFlags(flags)
	require.NoError(t, flags.Parse([]string{"--all"}))
	out := t.TempDir()
	df.SetOutputPath(out)
	require.NoError(t, de.Save("sharp", df))

	for _, suffix := range []string{"patches", "steps", "apex", "waveform", "peak"} {
		content, err := os.ReadFile(filepath.Join(out, "sharp_"+suffix+".txt"))
		require.NoError(t, err, suffix)
		lines := strings.Split(strings.TrimSpace(string(content)), "\n")
		assert.Greater(t, len(lines), 1, suffix)
	}
}
