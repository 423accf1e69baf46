package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstyl3r/tipem/internal/config"
)

func runGeometry(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newGeometryCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestGeometryConvertsInputUnits(t *testing.T) {
	inNanometres := runGeometry(t, "-i", "R=10nm_L=1um", "--depth", "50", "--patch", "25")
	inMicrometres := runGeometry(t, "-i", "R=10nm_L=1um", "--depth", "0.05", "--patch", "25e-6", "--units", "um")

	assert.Contains(t, inNanometres, "patches")
	assert.Contains(t, inNanometres, "eta_min")

	// same surface whatever the input length unit
	patchesLine := func(s string) string {
		for _, line := range strings.Split(s, "\n") {
			if strings.HasPrefix(line, "patches") {
				return line
			}
		}
		return ""
	}
	assert.NotEmpty(t, patchesLine(inNanometres))
	assert.Equal(t, patchesLine(inNanometres), patchesLine(inMicrometres))
}

func TestGeometryRejectsUnitConflicts(t *testing.T) {
	cmd := newGeometryCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"-i", "R=10nm_L=1um", "--units", "nm,um"})
	assert.ErrorIs(t, cmd.Execute(), config.ErrUnitConflict)
}
