package model

import (
	"github.com/wildstyl3r/tipem/internal/config"
	"github.com/wildstyl3r/tipem/internal/emission"
	"github.com/wildstyl3r/tipem/internal/spheroid"
)

// NewFromParameters prepares an emitter from unified model parameters, surface included.
func NewFromParameters(p config.ModelParameters) (*TipEmission, error) {
	law, err := emission.ByName(p.EmissionLaw)
	if err != nil {
		return nil, err
	}
	te, err := NewTipEmission(p.Identifier,
		WithLaw(law),
		WithPulse(spheroid.Pulse{
			Wavelength:           p.Wavelength,
			Duration:             p.PulseDuration,
			CarrierEnvelopePhase: p.CarrierEnvelopePhase,
			Samples:              p.TimeSamples,
			Span:                 p.TimeSpan,
		}))
	if err != nil {
		return nil, err
	}
	te.SetElectricFieldAmplitude(p.FieldAmplitude)
	te.SetMetalWorkFunction(p.WorkFunction)
	if err := te.SubdivideSurface(p.DistanceToTop, p.MaxPatchArea); err != nil {
		return nil, err
	}
	return te, nil
}
