package spheroid

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wildstyl3r/tipem/internal/utils"
)

var ErrEmptySurface = errors.New("empty surface region")

const meridianSamples = 1025

// Surface is a discretization of the tip surface into patches, as parallel arrays.
type Surface struct {
	PositionsCart []r3.Vec
	PositionsSph  []Coord
	NormalsCart   []r3.Vec
	NormalsSph    []Coord
	Areas         []float64
}

func (s *Surface) Len() int {
	return len(s.PositionsCart)
}

// Aligned reports whether all arrays have the same length.
func (s *Surface) Aligned() bool {
	n := len(s.PositionsCart)
	return len(s.PositionsSph) == n && len(s.NormalsCart) == n && len(s.NormalsSph) == n && len(s.Areas) == n
}

// areaPrimitive is G(η) with dA = 2π d² √(ξ0²-1) dG over a full turn in φ.
func (s *Spheroid) areaPrimitive(eta float64) float64 {
	x2 := s.xi0 * s.xi0
	return 0.5*eta*math.Sqrt(x2-eta*eta) + 0.5*x2*math.Asin(eta/s.xi0)
}

// CapArea is the surface area between η = etaMin and the apex.
func (s *Spheroid) CapArea(etaMin float64) float64 {
	etaMin = min(max(etaMin, -1), 1)
	return s.bandArea(etaMin, 1)
}

func (s *Spheroid) bandArea(etaLow, etaHigh float64) float64 {
	return 2 * math.Pi * s.d * s.d * math.Sqrt(s.xi0*s.xi0-1) * (s.areaPrimitive(etaHigh) - s.areaPrimitive(etaLow))
}

// meridianLength is the arc length of the surface meridian from the apex down to θ = acos η.
func (s *Spheroid) meridianLength(thetaMax float64) float64 {
	theta := make([]float64, meridianSamples)
	floats.Span(theta, 0, thetaMax)
	ds := make([]float64, meridianSamples)
	for i := range theta {
		c := math.Cos(theta[i])
		ds[i] = s.d * math.Sqrt(s.xi0*s.xi0-c*c)
	}
	return integrate.Simpsons(theta, ds)
}

// SubdivideSurface cuts the surface ξ = ξ0 between η = etaMin and the apex into patches
// no larger than maxPatchArea. Bands are uniform in θ = acos η, each band is split into
// equal sectors in φ, and the patch centre sits at the area median of its band.
func (s *Spheroid) SubdivideSurface(etaMin, maxPatchArea float64) (Surface, error) {
	if !(maxPatchArea > 0) || math.IsInf(maxPatchArea, 0) {
		return Surface{}, fmt.Errorf("%w: max patch area %g", ErrGeometry, maxPatchArea)
	}
	etaMin = max(etaMin, -1)
	if etaMin >= 1 || math.IsNaN(etaMin) {
		return Surface{}, fmt.Errorf("%w: eta_min %g", ErrEmptySurface, etaMin)
	}
	thetaMax := math.Acos(etaMin)

	side := math.Sqrt(maxPatchArea)
	nBands := max(1, int(math.Ceil(s.meridianLength(thetaMax)/side)))

	var surface Surface
	for band := 0; band < nBands; band++ {
		etaHigh := math.Cos(thetaMax * float64(band) / float64(nBands))
		etaLow := math.Cos(thetaMax * float64(band+1) / float64(nBands))
		if band == nBands-1 {
			etaLow = etaMin
		}
		area := s.bandArea(etaLow, etaHigh)
		nSectors := max(1, int(math.Ceil(area/maxPatchArea)))
		patchArea := area / float64(nSectors)

		halfG := 0.5 * (s.areaPrimitive(etaLow) + s.areaPrimitive(etaHigh))
		etaMid := utils.Bisect(func(eta float64) float64 {
			return s.areaPrimitive(eta) - halfG
		}, etaLow, etaHigh, max(1e-12*(etaHigh-etaLow), 4e-16))

		for sector := 0; sector < nSectors; sector++ {
			q := Coord{
				Eta: etaMid,
				Xi:  s.xi0,
				Phi: 2 * math.Pi * (float64(sector) + 0.5) / float64(nSectors),
			}
			_, normal, _ := UnitVectors(q)
			surface.PositionsCart = append(surface.PositionsCart, s.SpheroidalToCartesian(q))
			surface.PositionsSph = append(surface.PositionsSph, q)
			surface.NormalsCart = append(surface.NormalsCart, normal)
			surface.NormalsSph = append(surface.NormalsSph, Coord{Xi: 1})
			surface.Areas = append(surface.Areas, patchArea)
		}
	}
	return surface, nil
}
