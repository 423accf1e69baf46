// Package spheroid models a needle tip as a conducting prolate spheroid.
//
// The spheroid is centred at the origin with its symmetry axis along z and the
// apex at z = +Length/2. Prolate spheroidal coordinates are ordered (η, ξ, φ):
//
//	x = d √((1-η²)(ξ²-1)) cos φ
//	y = d √((1-η²)(ξ²-1)) sin φ
//	z = d η ξ
//
// with d the focal half-distance, η in [-1, 1] and ξ >= 1. The metal surface is ξ = ξ0.
package spheroid

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var ErrGeometry = errors.New("invalid spheroid geometry")

// Coord holds a point in spheroidal coordinates, or vector components along ê_η, ê_ξ, ê_φ.
type Coord struct {
	Eta, Xi, Phi float64
}

type Spheroid struct {
	tipRadius float64 // [m] radius of curvature at the apex
	length    float64 // [m] full length along the axis

	a, b float64 // semi-axes [m]
	d    float64 // focal half-distance [m]
	xi0  float64 // surface coordinate

	q1Surface float64 // Q1(ξ0)

	temporal *TemporalField
}

func NewSpheroid(tipRadius, length float64) (*Spheroid, error) {
	if !(tipRadius > 0) || !(length > 0) || math.IsInf(length, 0) {
		return nil, fmt.Errorf("%w: radius %g m, length %g m", ErrGeometry, tipRadius, length)
	}
	a := length * 0.5
	if tipRadius >= a {
		return nil, fmt.Errorf("%w: tip radius %g m is not smaller than the half length %g m", ErrGeometry, tipRadius, a)
	}
	b := math.Sqrt(tipRadius * a)
	d := math.Sqrt(a*a - b*b)
	s := &Spheroid{
		tipRadius: tipRadius,
		length:    length,
		a:         a,
		b:         b,
		d:         d,
		xi0:       a / d,
	}
	s.q1Surface = legendreQ1(s.xi0)
	return s, nil
}

func (s *Spheroid) TipRadius() float64 {
	return s.tipRadius
}

func (s *Spheroid) Length() float64 {
	return s.length
}

func (s *Spheroid) FocalDistance() float64 {
	return s.d
}

func (s *Spheroid) SurfaceXi() float64 {
	return s.xi0
}

func (s *Spheroid) SemiAxes() (a, b float64) {
	return s.a, s.b
}

func (s *Spheroid) CartesianToSpheroidal(p r3.Vec) Coord {
	rho2 := p.X*p.X + p.Y*p.Y
	if rho2 == 0 {
		if math.Abs(p.Z) >= s.d {
			return Coord{Eta: math.Copysign(1, p.Z), Xi: math.Abs(p.Z) / s.d}
		}
		return Coord{Eta: p.Z / s.d, Xi: 1}
	}
	r1 := math.Sqrt(rho2 + (p.Z+s.d)*(p.Z+s.d))
	r2 := math.Sqrt(rho2 + (p.Z-s.d)*(p.Z-s.d))
	eta := (r1 - r2) / (2 * s.d)
	xi := (r1 + r2) / (2 * s.d)
	return Coord{
		Eta: min(max(eta, -1), 1),
		Xi:  max(xi, 1),
		Phi: math.Atan2(p.Y, p.X),
	}
}

func (s *Spheroid) SpheroidalToCartesian(q Coord) r3.Vec {
	eta, xi, phi := q.Eta, q.Xi, q.Phi
	rho := s.d * math.Sqrt(math.Max(0, (1-eta*eta)*(xi*xi-1)))
	return r3.Vec{
		X: rho * math.Cos(phi),
		Y: rho * math.Sin(phi),
		Z: s.d * eta * xi,
	}
}

// UnitVectors returns the Cartesian components of ê_η, ê_ξ, ê_φ at q.
func UnitVectors(q Coord) (eEta, eXi, ePhi r3.Vec) {
	eta, xi, phi := q.Eta, q.Xi, q.Phi
	sinPhi, cosPhi := math.Sincos(phi)
	ePhi = r3.Vec{X: -sinPhi, Y: cosPhi}

	den := math.Sqrt(xi*xi - eta*eta)
	if den == 0 { // focus
		return r3.Vec{}, r3.Vec{Z: math.Copysign(1, eta)}, ePhi
	}
	sEta := math.Sqrt(math.Max(0, 1-eta*eta))
	sXi := math.Sqrt(math.Max(0, xi*xi-1))
	eEta = r3.Vec{
		X: -eta * sXi * cosPhi / den,
		Y: -eta * sXi * sinPhi / den,
		Z: xi * sEta / den,
	}
	eXi = r3.Vec{
		X: xi * sEta * cosPhi / den,
		Y: xi * sEta * sinPhi / den,
		Z: eta * sXi / den,
	}
	return
}

// SpheroidalToCartesianVectors converts complex vector components given in the local
// spheroidal basis at pointsSph into Cartesian components.
func (s *Spheroid) SpheroidalToCartesianVectors(pointsSph []Coord, eEta, eXi, ePhi []complex128) (ex, ey, ez []complex128) {
	ex = make([]complex128, len(pointsSph))
	ey = make([]complex128, len(pointsSph))
	ez = make([]complex128, len(pointsSph))
	for i := range pointsSph {
		uEta, uXi, uPhi := UnitVectors(pointsSph[i])
		ex[i] = eEta[i]*complex(uEta.X, 0) + eXi[i]*complex(uXi.X, 0) + ePhi[i]*complex(uPhi.X, 0)
		ey[i] = eEta[i]*complex(uEta.Y, 0) + eXi[i]*complex(uXi.Y, 0) + ePhi[i]*complex(uPhi.Y, 0)
		ez[i] = eEta[i]*complex(uEta.Z, 0) + eXi[i]*complex(uXi.Z, 0) + ePhi[i]*complex(uPhi.Z, 0)
	}
	return
}

// Inside reports whether the Cartesian point lies in the metal.
func (s *Spheroid) Inside(p r3.Vec) bool {
	return s.CartesianToSpheroidal(p).Xi < s.xi0
}
