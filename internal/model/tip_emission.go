package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wildstyl3r/tipem/internal/config"
	"github.com/wildstyl3r/tipem/internal/emission"
	"github.com/wildstyl3r/tipem/internal/spheroid"
	"github.com/wildstyl3r/tipem/internal/utils"
)

var (
	ErrTimeIndexOutOfRange = errors.New("time index out of range")
	ErrMisalignedPatches   = errors.New("misaligned patch arrays")
	ErrLengthMismatch      = errors.New("charges and positions differ in length")
)

// TipEmission drives field emission from a spheroidal tip: it discretizes the surface,
// samples the normal field per patch and applies the emission law.
// It is not safe for concurrent use.
type TipEmission struct {
	field FieldModel
	law   emission.Law

	patches     []Patch
	normalField []float64 // last field computed by NumberOfEmittedParticles, per patch

	eFieldSI       float64 // [V/m]
	workFunctionEV float64 // [eV]
}

// Option configures NewTipEmission.
type Option func(*options)

type options struct {
	pulse *spheroid.Pulse
	law   emission.Law
}

// WithPulse supplies the incident pulse used when the identifier directory has no waveform file.
func WithPulse(p spheroid.Pulse) Option {
	return func(o *options) {
		o.pulse = &p
	}
}

// WithLaw replaces the default Fowler-Nordheim law.
func WithLaw(law emission.Law) Option {
	return func(o *options) {
		o.law = law
	}
}

// NewTipEmission builds the spheroid described by identifier ("...R=<nm>nm_L=<um>um...")
// and loads its time-domain field from the same identifier.
func NewTipEmission(identifier string, opts ...Option) (*TipEmission, error) {
	o := options{law: emission.FowlerNordheim{}}
	for _, opt := range opts {
		opt(&o)
	}

	geometry, err := config.ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	s, err := spheroid.NewSpheroid(geometry.TipRadius, geometry.ShaftLength)
	if err != nil {
		return nil, err
	}
	if err := s.LoadTemporalField(identifier, o.pulse); err != nil {
		return nil, fmt.Errorf("loading field for %s: %w", identifier, err)
	}
	log.WithFields(log.Fields{
		"radius":      geometry.TipRadius,
		"length":      geometry.ShaftLength,
		"xi0":         s.SurfaceXi(),
		"enhancement": s.FieldEnhancement(),
		"samples":     len(s.TimeSamples()),
	}).Debug("tip loaded")
	return NewTipEmissionWithModel(s, o.law), nil
}

// NewTipEmissionWithModel wraps an already prepared field backend. A nil law means Fowler-Nordheim.
func NewTipEmissionWithModel(field FieldModel, law emission.Law) *TipEmission {
	if law == nil {
		law = emission.FowlerNordheim{}
	}
	return &TipEmission{field: field, law: law}
}

// SetElectricFieldAmplitude sets the incident amplitude [V/m] the normalized field is scaled by.
func (te *TipEmission) SetElectricFieldAmplitude(eMax float64) {
	if !utils.IsFinite(eMax) || eMax <= 0 {
		log.WithField("value", eMax).Warn("unphysical field amplitude")
	}
	te.eFieldSI = eMax
}

// SetMetalWorkFunction sets the work function [eV].
func (te *TipEmission) SetMetalWorkFunction(uEV float64) {
	if !utils.IsFinite(uEV) || uEV <= 0 {
		log.WithField("value", uEV).Warn("unphysical work function")
	}
	te.workFunctionEV = uEV
}

// ElectricFieldAmplitude is the incident amplitude [V/m].
func (te *TipEmission) ElectricFieldAmplitude() float64 {
	return te.eFieldSI
}

// MetalWorkFunction is the work function [eV].
func (te *TipEmission) MetalWorkFunction() float64 {
	return te.workFunctionEV
}

// FieldModel is the backend the emitter was built on.
func (te *TipEmission) FieldModel() FieldModel {
	return te.field
}

// TimeSamples are the sample times [s] of the field.
func (te *TipEmission) TimeSamples() []float64 {
	return te.field.TimeSamples()
}

// TimeIndexOf returns the sample nearest to t, or -1 without samples.
func (te *TipEmission) TimeIndexOf(t float64) int {
	return utils.NearestIndex(te.field.TimeSamples(), t)
}

// EtaMin is η of the axis point distanceToTop [m] below the apex of field.
func EtaMin(field FieldModel, distanceToTop float64) float64 {
	return field.CartesianToSpheroidal(r3.Vec{Z: field.Length()/2 - distanceToTop}).Eta
}

// EtaMin is EtaMin of the emitter's field backend.
func (te *TipEmission) EtaMin(distanceToTop float64) float64 {
	return EtaMin(te.field, distanceToTop)
}

// SubdivideSurface replaces the patches by a discretization of the surface between the apex
// and distanceToTop below it. On error the previous patches are kept.
func (te *TipEmission) SubdivideSurface(distanceToTop, maxPatchArea float64) error {
	if !(maxPatchArea > 0) || math.IsInf(maxPatchArea, 0) {
		return fmt.Errorf("max patch area must be positive, got %g", maxPatchArea)
	}
	etaMin := te.EtaMin(distanceToTop)

	surface, err := te.field.SubdivideSurface(etaMin, maxPatchArea)
	if err != nil {
		return fmt.Errorf("subdividing surface at eta_min %g: %w", etaMin, err)
	}
	if !surface.Aligned() {
		return fmt.Errorf("%w: %d cartesian positions, %d spheroidal positions, %d cartesian normals, %d spheroidal normals, %d areas",
			ErrMisalignedPatches, len(surface.PositionsCart), len(surface.PositionsSph), len(surface.NormalsCart), len(surface.NormalsSph), len(surface.Areas))
	}

	patches := make([]Patch, surface.Len())
	for j := range patches {
		patches[j] = Patch{
			PositionCart: surface.PositionsCart[j],
			PositionSph:  surface.PositionsSph[j],
			NormalCart:   surface.NormalsCart[j],
			NormalSph:    surface.NormalsSph[j],
			Area:         surface.Areas[j],
		}
	}
	te.patches = patches
	te.normalField = make([]float64, len(patches))

	log.WithFields(log.Fields{
		"eta_min": etaMin,
		"patches": humanize.Comma(int64(len(patches))),
	}).Debug("surface subdivided")
	return nil
}

func (te *TipEmission) checkTimeIndex(timeIndex int) error {
	if n := len(te.field.TimeSamples()); timeIndex < 0 || timeIndex >= n {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrTimeIndexOutOfRange, timeIndex, n)
	}
	return nil
}

func (te *TipEmission) pointsSph() []spheroid.Coord {
	points := make([]spheroid.Coord, len(te.patches))
	for j := range te.patches {
		points[j] = te.patches[j].PositionSph
	}
	return points
}

// EmissionStep computes emission over the interval ending at timeIndex without touching
// the stored normal field. Step 0 has no preceding interval and yields zeros.
func (te *TipEmission) EmissionStep(timeIndex int) (StepResult, error) {
	if err := te.checkTimeIndex(timeIndex); err != nil {
		return StepResult{}, err
	}
	nPatch := len(te.patches)
	result := StepResult{
		TimeIndex:   timeIndex,
		Counts:      make([]float64, nPatch),
		NormalField: make([]float64, nPatch),
	}
	if timeIndex == 0 || nPatch == 0 {
		return result, nil
	}

	_, eXi, _, err := te.field.FieldAtPoints(te.pointsSph(), timeIndex)
	if err != nil {
		return StepResult{}, err
	}
	if len(eXi) != nPatch {
		return StepResult{}, fmt.Errorf("%w: %d field values for %d patches", ErrMisalignedPatches, len(eXi), nPatch)
	}

	t := te.field.TimeSamples()
	dt := t[timeIndex] - t[timeIndex-1]
	for j := range te.patches {
		// ξ is the outward normal on the tip surface
		eNormal := te.eFieldSI * real(eXi[j])
		result.NormalField[j] = eNormal
		if eNormal < 0 {
			result.Counts[j] = te.law.EmittedElectrons(-eNormal, te.workFunctionEV, te.patches[j].Area, dt)
		}
	}
	return result, nil
}

// NumberOfEmittedParticles is EmissionStep that also records the normal field for NormalEFields.
func (te *TipEmission) NumberOfEmittedParticles(timeIndex int) ([]float64, error) {
	result, err := te.EmissionStep(timeIndex)
	if err != nil {
		return nil, err
	}
	te.normalField = result.NormalField
	return result.Counts, nil
}

// TotalNumberOfEmittedParticles sums the emission per patch over the whole time record.
func (te *TipEmission) TotalNumberOfEmittedParticles() ([]float64, error) {
	total := make([]float64, len(te.patches))
	for i := 1; i < len(te.field.TimeSamples()); i++ {
		result, err := te.EmissionStep(i)
		if err != nil {
			return nil, err
		}
		for j := range total {
			total[j] += result.Counts[j]
		}
	}
	return total, nil
}

func (te *TipEmission) Patches() []Patch {
	return append([]Patch(nil), te.patches...)
}

func (te *TipEmission) EmissionPoints() []r3.Vec {
	points := make([]r3.Vec, len(te.patches))
	for j := range te.patches {
		points[j] = te.patches[j].PositionCart
	}
	return points
}

func (te *TipEmission) EmissionPointNormals() []r3.Vec {
	normals := make([]r3.Vec, len(te.patches))
	for j := range te.patches {
		normals[j] = te.patches[j].NormalCart
	}
	return normals
}

func (te *TipEmission) NormalEFields() []float64 {
	return append([]float64(nil), te.normalField...)
}
