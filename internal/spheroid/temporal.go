package spheroid

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"math/cmplx"
	"path/filepath"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"

	"github.com/wildstyl3r/tipem/internal/constants"
	"github.com/wildstyl3r/tipem/internal/utils"
)

// WaveformFile is looked up inside the identifier directory.
const WaveformFile = "waveform.txt"

var ErrNoFieldData = errors.New("no field data")

// TemporalField is the incident field on a time grid. The real part of Waveform[i] is the
// instantaneous field at Times[i] relative to the amplitude set on the emitter.
type TemporalField struct {
	Times    []float64
	Waveform []complex128
}

func (tf *TemporalField) validate() error {
	if len(tf.Times) < 2 {
		return fmt.Errorf("%w: %d time samples, need at least 2", ErrNoFieldData, len(tf.Times))
	}
	if len(tf.Times) != len(tf.Waveform) {
		return fmt.Errorf("%w: %d times but %d waveform samples", ErrNoFieldData, len(tf.Times), len(tf.Waveform))
	}
	if !utils.StrictlyIncreasing(tf.Times) {
		return fmt.Errorf("%w: time samples are not strictly increasing", ErrNoFieldData)
	}
	return nil
}

// Pulse describes a Gaussian laser pulse centred at t = 0.
type Pulse struct {
	Wavelength           float64 // [m]
	Duration             float64 // [s] intensity FWHM
	CarrierEnvelopePhase float64 // [rad]
	Samples              int
	Span                 float64 // [s]
}

func (p Pulse) Sample() (TemporalField, error) {
	if p.Samples < 2 || !(p.Span > 0) || !(p.Duration > 0) || !(p.Wavelength > 0) {
		return TemporalField{}, fmt.Errorf("%w: bad pulse %+v", ErrNoFieldData, p)
	}
	tf := TemporalField{
		Times:    make([]float64, p.Samples),
		Waveform: make([]complex128, p.Samples),
	}
	floats.Span(tf.Times, -0.5*p.Span, 0.5*p.Span)
	omega := 2 * math.Pi * constants.SpeedOfLight / p.Wavelength
	for i, t := range tf.Times {
		envelope := math.Exp(-2 * math.Ln2 * t * t / (p.Duration * p.Duration))
		tf.Waveform[i] = complex(envelope, 0) * cmplx.Exp(complex(0, omega*t+p.CarrierEnvelopePhase))
	}
	return tf, nil
}

// AnalyticSignal returns the complex signal whose real part is samples, built by
// suppressing negative frequencies.
func AnalyticSignal(samples []float64) []complex128 {
	n := len(samples)
	if n == 0 {
		return nil
	}
	spectrum := fft.FFTReal(samples)
	for k := 1; k < n; k++ {
		switch {
		case 2*k < n:
			spectrum[k] *= 2
		case 2*k > n:
			spectrum[k] = 0
		}
	}
	return fft.IFFT(spectrum)
}

// ReadTemporalField loads two columns, t [s] and the normalized field, from path.
func ReadTemporalField(path string) (TemporalField, error) {
	pairs, err := utils.ReadFloatPairs(path)
	if err != nil {
		return TemporalField{}, err
	}
	tf := TemporalField{Times: make([]float64, len(pairs))}
	values := make([]float64, len(pairs))
	for i := range pairs {
		tf.Times[i] = pairs[i][0]
		values[i] = pairs[i][1]
	}
	tf.Waveform = AnalyticSignal(values)
	return tf, tf.validate()
}

// SetTemporalField replaces the time-domain field.
func (s *Spheroid) SetTemporalField(tf TemporalField) error {
	if err := tf.validate(); err != nil {
		return err
	}
	s.temporal = &tf
	return nil
}

// LoadTemporalField reads <identifier>/waveform.txt when present and samples pulse otherwise.
func (s *Spheroid) LoadTemporalField(identifier string, pulse *Pulse) error {
	path := filepath.Join(identifier, WaveformFile)
	tf, err := ReadTemporalField(path)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && pulse != nil:
		if tf, err = pulse.Sample(); err != nil {
			return err
		}
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s not found and no pulse given", ErrNoFieldData, path)
	default:
		return fmt.Errorf("%s: %w", path, err)
	}
	return s.SetTemporalField(tf)
}

func (s *Spheroid) TimeSamples() []float64 {
	if s.temporal == nil {
		return nil
	}
	return s.temporal.Times
}

func (s *Spheroid) Waveform() []complex128 {
	if s.temporal == nil {
		return nil
	}
	return s.temporal.Waveform
}
