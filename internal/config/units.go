package config

import (
	"fmt"

	"github.com/wildstyl3r/tipem/internal/utils"
)

var unitToSI = map[string]float64{
	"m":    1,     // [m]
	"mm":   1e-3,  // [m]
	"um":   1e-6,  // [m]
	"nm":   1e-9,  // [m]
	"s":    1,     // [s]
	"ps":   1e-12, // [s]
	"fs":   1e-15, // [s]
	"V/m":  1,     // [V/m]
	"V/um": 1e6,   // [V/m]
	"V/nm": 1e9,   // [V/m]
	"eV":   1,     // [eV], work function is kept in eV
	"meV":  1e-3,  // [eV]
}

type UnitClass int

const (
	Length UnitClass = iota
	Time
	Field
	Energy
)

var unitsInClass = map[UnitClass][]string{
	Length: {"nm", "um", "mm", "m"},
	Time:   {"fs", "ps", "s"},
	Field:  {"V/nm", "V/um", "V/m"},
	Energy: {"meV", "eV"},
}

var classesOfUnits = map[string]UnitClass{
	"m":    Length,
	"mm":   Length,
	"um":   Length,
	"nm":   Length,
	"s":    Time,
	"ps":   Time,
	"fs":   Time,
	"V/m":  Field,
	"V/um": Field,
	"V/nm": Field,
	"eV":   Energy,
	"meV":  Energy,
}

type UnitElement = struct {
	Class UnitClass
	Power int
}

var defaultUnits = []string{"nm", "fs", "V/m", "eV"}

func checkUnits(units []string) (extended, conflicts []string) {
	classes := map[UnitClass]struct{}{}
	for _, unit := range units {
		class, known := classesOfUnits[unit]
		if !known {
			conflicts = append(conflicts, unit)
			continue
		}
		if _, some := classes[class]; some {
			conflicts = append(conflicts, unit)
		} else {
			classes[class] = struct{}{}
		}
	}
	extended = append([]string{}, units...)
	for _, unit := range defaultUnits {
		if _, some := classes[classesOfUnits[unit]]; !some {
			extended = append(extended, unit)
		}
	}
	return
}

// SI converts v expressed in units into SI when direct is set, and back otherwise.
func SI(v float64, classes []UnitElement, units []string, direct bool) float64 {
	for i := range classes {
		uc := classes[i]
		unit := utils.Intersect(unitsInClass[uc.Class], units)
		if unit == nil {
			continue
		}
		absPower := utils.IntAbs(uc.Power)
		if direct == (uc.Power > 0) {
			for i := 0; i < absPower; i++ {
				v *= unitToSI[*unit]
			}
		} else {
			for i := 0; i < absPower; i++ {
				v /= unitToSI[*unit]
			}
		}
	}
	return v
}

// ResolveUnits checks units for conflicts and completes them with the default unit of every
// missing class.
func ResolveUnits(units []string) ([]string, error) {
	extended, conflicts := checkUnits(units)
	if len(conflicts) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnitConflict, conflicts)
	}
	return extended, nil
}
