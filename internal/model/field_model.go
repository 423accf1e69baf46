package model

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wildstyl3r/tipem/internal/spheroid"
)

// FieldModel is the scattering backend the emitter drives. *spheroid.Spheroid implements it.
type FieldModel interface {
	Length() float64
	TimeSamples() []float64
	CartesianToSpheroidal(p r3.Vec) spheroid.Coord
	SubdivideSurface(etaMin, maxPatchArea float64) (spheroid.Surface, error)
	FieldAtPoints(pointsSph []spheroid.Coord, timeIndex int) (eEta, eXi, ePhi []complex128, err error)
	SpheroidalToCartesianVectors(pointsSph []spheroid.Coord, eEta, eXi, ePhi []complex128) (ex, ey, ez []complex128)
}

var _ FieldModel = (*spheroid.Spheroid)(nil)

// Patch is one surface element of the discretized tip.
type Patch struct {
	PositionCart r3.Vec
	PositionSph  spheroid.Coord
	NormalCart   r3.Vec
	NormalSph    spheroid.Coord
	Area         float64 // [m^2]
}

// StepResult is the outcome of one time step: expected emitted electrons and the signed
// normal field [V/m] per patch, indexed like the patches.
type StepResult struct {
	TimeIndex   int
	Counts      []float64
	NormalField []float64
}
