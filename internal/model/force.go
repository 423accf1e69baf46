package model

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wildstyl3r/tipem/internal/constants"
	"github.com/wildstyl3r/tipem/internal/spheroid"
)

// ElectricField is the instantaneous field [V/m] at Cartesian positions for timeIndex.
// Points interact with the external field only.
func (te *TipEmission) ElectricField(positions []r3.Vec, timeIndex int) ([]r3.Vec, error) {
	if err := te.checkTimeIndex(timeIndex); err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return []r3.Vec{}, nil
	}
	positionsSph := make([]spheroid.Coord, len(positions))
	for i := range positions {
		positionsSph[i] = te.field.CartesianToSpheroidal(positions[i])
	}
	eEta, eXi, ePhi, err := te.field.FieldAtPoints(positionsSph, timeIndex)
	if err != nil {
		return nil, err
	}
	ex, ey, ez := te.field.SpheroidalToCartesianVectors(positionsSph, eEta, eXi, ePhi)

	fields := make([]r3.Vec, len(positions))
	for i := range fields {
		fields[i] = r3.Scale(te.eFieldSI, r3.Vec{X: real(ex[i]), Y: real(ey[i]), Z: real(ez[i])})
	}
	return fields, nil
}

// ElectricForce is q_i E(r_i) [N] for every point.
func (te *TipEmission) ElectricForce(charges []float64, positions []r3.Vec, timeIndex int) ([]r3.Vec, error) {
	if len(charges) != len(positions) {
		return nil, fmt.Errorf("%w: %d charges, %d positions", ErrLengthMismatch, len(charges), len(positions))
	}
	fields, err := te.ElectricField(positions, timeIndex)
	if err != nil {
		return nil, err
	}
	for i := range fields {
		fields[i] = r3.Scale(charges[i], fields[i])
	}
	return fields, nil
}

// ElectronForce is the force on an electron, -e E(r_i), at every point.
func (te *TipEmission) ElectronForce(positions []r3.Vec, timeIndex int) ([]r3.Vec, error) {
	charges := make([]float64, len(positions))
	for i := range charges {
		charges[i] = -constants.ElectronCharge
	}
	return te.ElectricForce(charges, positions, timeIndex)
}
