package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

var (
	ErrNoModels      = errors.New("no models provided")
	ErrUnitConflict  = errors.New("unit conflict")
	ErrMissingFields = errors.New("required fields not found")
)

type Config struct {
	OutputDir string
	Models    map[string]ModelParameters
	ModelParameters

	InputUnits  []string
	OutputUnits []string
}

type ModelParameters struct {
	Identifier           string  `validate:"required"`
	FieldAmplitude       float64 `validate:"gt=0"`     // [V/m]
	WorkFunction         float64 `validate:"gt=0"`     // [eV]
	DistanceToTop        float64 `validate:"gt=0"`     // [m]
	MaxPatchArea         float64 `validate:"gt=0"`     // [m^2]
	EmissionLaw          string  `validate:"required"` // fowler-nordheim | murphy-good
	Wavelength           float64 `validate:"gt=0"`     // [m]
	PulseDuration        float64 `validate:"gt=0"`     // [s], intensity FWHM
	CarrierEnvelopePhase float64                        // [rad]
	TimeSamples          int     `validate:"gte=2"`
	TimeSpan             float64 `validate:"gt=0"` // [s]
	MakeDir              bool

	_outputUnits []string
	_verbose     bool
	_threads     int
}

func (p *ModelParameters) OutputUnits() []string {
	return p._outputUnits
}

func (p *ModelParameters) SetOutputUnits(u []string) {
	p._outputUnits = u
}

func (p *ModelParameters) Verbose() bool {
	return p._verbose
}

func (p *ModelParameters) SetVerbosity(verbose bool) {
	p._verbose = verbose
}

func (p *ModelParameters) Threads() int {
	return p._threads
}

func (p *ModelParameters) SetThreads(threads int) {
	p._threads = threads
}

var defaultValues = map[string]any{ // in SI
	"FieldAmplitude":       1e9,               // [V/m]
	"WorkFunction":         4.5,               // [eV]
	"DistanceToTop":        50e-9,             // [m]
	"MaxPatchArea":         25e-18,            // [m^2]
	"EmissionLaw":          "fowler-nordheim", //
	"Wavelength":           800e-9,            // [m]
	"PulseDuration":        10e-15,            // [s]
	"CarrierEnvelopePhase": 0.,                // [rad]
	"TimeSamples":          512,               //
	"TimeSpan":             60e-15,            // [s]
	"MakeDir":              false,             //
}

var requiredFields = []string{"Identifier"}

var valueUnits = map[string][]UnitElement{
	"FieldAmplitude": {
		{Class: Field, Power: 1},
	},
	"WorkFunction": {
		{Class: Energy, Power: 1},
	},
	"DistanceToTop": {
		{Class: Length, Power: 1},
	},
	"MaxPatchArea": {
		{Class: Length, Power: 2},
	},
	"Wavelength": {
		{Class: Length, Power: 1},
	},
	"PulseDuration": {
		{Class: Time, Power: 1},
	},
	"TimeSpan": {
		{Class: Time, Power: 1},
	},
}

var validate = validator.New()

func LoadConfig(configFileName string) (Config, toml.MetaData, error) {
	var config Config
	meta, err := toml.DecodeFile(strings.TrimSuffix(configFileName, ".toml")+".toml", &config)
	if err != nil {
		return config, meta, err
	}
	return config, meta, config.checkUnits()
}

// DecodeConfig is LoadConfig for in-memory TOML.
func DecodeConfig(data string) (Config, toml.MetaData, error) {
	var config Config
	meta, err := toml.Decode(data, &config)
	if err != nil {
		return config, meta, err
	}
	return config, meta, config.checkUnits()
}

func (config *Config) checkUnits() error {
	var unitsConflict []string
	config.InputUnits, unitsConflict = checkUnits(config.InputUnits)
	if len(unitsConflict) > 0 {
		return fmt.Errorf("%w: input units %v", ErrUnitConflict, unitsConflict)
	}
	if len(config.OutputUnits) == 0 {
		config.OutputUnits = config.InputUnits
	}
	config.OutputUnits, unitsConflict = checkUnits(config.OutputUnits)
	if len(unitsConflict) > 0 {
		return fmt.Errorf("%w: output units %v", ErrUnitConflict, unitsConflict)
	}
	if len(config.Models) == 0 {
		return ErrNoModels
	}
	return nil
}

// ModelNames lists configured models in a stable order.
func (config *Config) ModelNames() []string {
	names := make([]string, 0, len(config.Models))
	for name := range config.Models {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (modelConfig *ModelParameters) toSI(parameterNames, units []string) {
	modelConfigReflect := reflect.ValueOf(modelConfig).Elem()
	for name := range parameterNames {
		field := modelConfigReflect.FieldByName(parameterNames[name])
		if field.CanFloat() {
			field.SetFloat(SI(field.Float(), valueUnits[parameterNames[name]], units, true))
		}
	}
}

/*
field value priority:
1. local
2. global
3. default
*/

// CheckAndUnify fills modelConfig from the global section and the defaults, converts it to SI and validates it.
func (modelConfig *ModelParameters) CheckAndUnify(modelName string, config *Config, meta *toml.MetaData) error {
	var discoveredParameters []string

	modelConfigReflect := reflect.ValueOf(modelConfig).Elem()
	globalConfigReflect := reflect.ValueOf(&config.ModelParameters).Elem()
	modelConfigType := modelConfigReflect.Type()

	for i, n := 0, modelConfigType.NumField(); i < n; i++ {
		fieldName := modelConfigType.Field(i).Name
		if !modelConfigType.Field(i).IsExported() {
			continue
		}
		switch {
		case meta.IsDefined("Models", modelName, fieldName):
			discoveredParameters = append(discoveredParameters, fieldName)
		case meta.IsDefined(fieldName):
			modelConfigReflect.Field(i).Set(globalConfigReflect.Field(i))
			discoveredParameters = append(discoveredParameters, fieldName)
		default:
			if value, some := defaultValues[fieldName]; some {
				modelConfigReflect.Field(i).Set(reflect.ValueOf(value))
			}
		}
	}

	var missing []string
	for _, field := range requiredFields {
		if !slices.Contains(discoveredParameters, field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("model %s: %w: %v", modelName, ErrMissingFields, missing)
	}

	modelConfig.toSI(discoveredParameters, config.InputUnits)
	modelConfig._outputUnits = config.OutputUnits

	if err := validate.Struct(modelConfig); err != nil {
		return fmt.Errorf("model %s: %w", modelName, err)
	}
	return nil
}
