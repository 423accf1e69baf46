package spheroid

import (
	"errors"
	"fmt"
	"math"
)

var ErrTimeIndex = errors.New("time index out of range")
var ErrNoTemporalField = errors.New("temporal field not loaded")

// legendreQ1 is the Legendre function of the second kind Q1(ξ) for ξ > 1.
func legendreQ1(xi float64) float64 {
	if xi > 1e3 {
		x2 := 1 / (xi * xi)
		return x2 * (1./3. + x2*(1./5.+x2/7.))
	}
	return xi*math.Atanh(1/xi) - 1
}

func legendreQ1Prime(xi float64) float64 {
	if xi > 1e3 {
		x2 := 1 / (xi * xi)
		return -x2 / xi * (2./3. + x2*(4./5.+x2*6./7.))
	}
	return math.Atanh(1/xi) - xi/(xi*xi-1)
}

// StaticField is the field around the grounded spheroid in a unit uniform field along +z,
// in components along ê_η, ê_ξ, ê_φ. It vanishes inside the metal.
//
// Potential: Φ = -d η [ξ - ξ0 Q1(ξ)/Q1(ξ0)].
func (s *Spheroid) StaticField(q Coord) Coord {
	eta, xi := q.Eta, q.Xi
	if xi < s.xi0 || xi <= 1 {
		return Coord{}
	}
	ratio := s.xi0 / s.q1Surface
	g := xi - ratio*legendreQ1(xi)
	gPrime := 1 - ratio*legendreQ1Prime(xi)

	den := xi*xi - eta*eta
	return Coord{
		Eta: g * math.Sqrt(math.Max(0, 1-eta*eta)/den),
		Xi:  eta * gPrime * math.Sqrt((xi*xi-1)/den),
	}
}

// FieldEnhancement is the ratio of the apex surface field to the incident field.
func (s *Spheroid) FieldEnhancement() float64 {
	return s.StaticField(Coord{Eta: 1, Xi: s.xi0}).Xi
}

// FieldAtPoints evaluates the field at pointsSph for the time sample timeIndex.
func (s *Spheroid) FieldAtPoints(pointsSph []Coord, timeIndex int) (eEta, eXi, ePhi []complex128, err error) {
	if s.temporal == nil {
		return nil, nil, nil, ErrNoTemporalField
	}
	if timeIndex < 0 || timeIndex >= len(s.temporal.Times) {
		return nil, nil, nil, fmt.Errorf("%w: %d not in [0, %d)", ErrTimeIndex, timeIndex, len(s.temporal.Times))
	}
	amplitude := s.temporal.Waveform[timeIndex]

	eEta = make([]complex128, len(pointsSph))
	eXi = make([]complex128, len(pointsSph))
	ePhi = make([]complex128, len(pointsSph))
	for i := range pointsSph {
		shape := s.StaticField(pointsSph[i])
		eEta[i] = amplitude * complex(shape.Eta, 0)
		eXi[i] = amplitude * complex(shape.Xi, 0)
		ePhi[i] = amplitude * complex(shape.Phi, 0)
	}
	return eEta, eXi, ePhi, nil
}
