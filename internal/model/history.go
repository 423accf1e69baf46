package model

import (
	"github.com/wildstyl3r/tipem/internal/utils"
)

// History is the emission of the whole surface per time step.
type History struct {
	Times      []float64
	Emitted    []float64 // electrons emitted in the interval ending at Times[i]
	Cumulative []float64
	ApexField  []float64 // normal field [V/m] at the patch closest to the apex
	PeakStep   int
}

// ApexPatch is the index of the patch with the largest z, or -1 without patches.
func (te *TipEmission) ApexPatch() int {
	if len(te.patches) == 0 {
		return -1
	}
	z := make([]float64, len(te.patches))
	for j := range te.patches {
		z[j] = te.patches[j].PositionCart.Z
	}
	return utils.Argmax(z)
}

func (te *TipEmission) EmissionHistory() (History, error) {
	times := te.field.TimeSamples()
	h := History{
		Times:      append([]float64(nil), times...),
		Emitted:    make([]float64, len(times)),
		Cumulative: make([]float64, len(times)),
		ApexField:  make([]float64, len(times)),
	}
	apex := te.ApexPatch()
	var total float64
	for i := range times {
		result, err := te.EmissionStep(i)
		if err != nil {
			return History{}, err
		}
		h.Emitted[i] = utils.SumSlice(result.Counts)
		total += h.Emitted[i]
		h.Cumulative[i] = total
		if apex >= 0 {
			h.ApexField[i] = result.NormalField[apex]
		}
	}
	h.PeakStep = utils.Argmax(h.Emitted)
	return h, nil
}
