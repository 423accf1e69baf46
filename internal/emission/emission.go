// Package emission holds tunneling laws giving the number of electrons a surface patch
// emits under a given normal field.
package emission

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/wildstyl3r/tipem/internal/constants"
	"github.com/wildstyl3r/tipem/internal/utils"
)

var ErrUnknownLaw = errors.New("unknown emission law")

type Law interface {
	// EmittedElectrons is the expected number of electrons leaving a patch of area [m^2]
	// during dt [s] under the field magnitude [V/m] with the work function [eV].
	EmittedElectrons(field, workFunction, area, dt float64) float64
}

// FowlerNordheim is the elementary Fowler-Nordheim law with a triangular barrier.
type FowlerNordheim struct{}

// MurphyGood includes the image-charge lowering of the barrier through Forbes' approximation
// of the barrier functions v(f) and t(f).
type MurphyGood struct{}

func (FowlerNordheim) CurrentDensity(field, workFunction float64) float64 {
	return currentDensity(field, workFunction, func(float64) (float64, float64) { return 1, 1 })
}

func (MurphyGood) CurrentDensity(field, workFunction float64) float64 {
	return currentDensity(field, workFunction, forbesBarrier)
}

func (l FowlerNordheim) EmittedElectrons(field, workFunction, area, dt float64) float64 {
	return electrons(l.CurrentDensity(field, workFunction), area, dt)
}

func (l MurphyGood) EmittedElectrons(field, workFunction, area, dt float64) float64 {
	return electrons(l.CurrentDensity(field, workFunction), area, dt)
}

// scaled barrier field f = c_S^2 F / φ^2, clamped where the barrier vanishes
func scaledBarrierField(field, workFunction float64) float64 {
	return min(constants.SchottkyFN*field/(workFunction*workFunction), 1)
}

func forbesBarrier(f float64) (v, t float64) {
	lnF := math.Log(f)
	v = 1 - f + f/6*lnF
	t = 1 + f*(1./9.-lnF/18.)
	return
}

// currentDensity in [A m^-2]
func currentDensity(field, workFunction float64, barrier func(float64) (float64, float64)) float64 {
	if !utils.IsFinite(field, workFunction) || field <= 0 || workFunction <= 0 {
		return 0
	}
	v, t := barrier(scaledBarrierField(field, workFunction))
	return constants.FirstFN * field * field / (workFunction * t * t) *
		math.Exp(-v*constants.SecondFN*math.Pow(workFunction, 1.5)/field)
}

func electrons(j, area, dt float64) float64 {
	if !utils.IsFinite(area, dt) || area <= 0 || dt <= 0 {
		return 0
	}
	return j * area * dt / constants.ElectronCharge
}

var laws = map[string]Law{
	"fowler-nordheim": FowlerNordheim{},
	"murphy-good":     MurphyGood{},
}

func ByName(name string) (Law, error) {
	if law, some := laws[strings.ToLower(strings.TrimSpace(name))]; some {
		return law, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLaw, name)
}
