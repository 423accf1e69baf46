package config

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrMalformedIdentifier = errors.New("malformed tip identifier")

// TipGeometry is the tip shape encoded in a data directory name, in SI.
type TipGeometry struct {
	TipRadius   float64 // [m]
	ShaftLength float64 // [m]
}

const (
	radiusMarker = "R="
	lengthMarker = "_L="
)

var leadingFloat = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`)

// ParseIdentifier reads the tip radius (nm, after "R=") and shaft length (um, after "_L=")
// from identifiers like "data/R=10nm_L=1um_f0=_375THz".
func ParseIdentifier(identifier string) (TipGeometry, error) {
	radius, err := markedValue(identifier, radiusMarker)
	if err != nil {
		return TipGeometry{}, err
	}
	length, err := markedValue(identifier, lengthMarker)
	if err != nil {
		return TipGeometry{}, err
	}
	return TipGeometry{
		TipRadius:   radius * unitToSI["nm"],
		ShaftLength: length * unitToSI["um"],
	}, nil
}

func markedValue(identifier, marker string) (float64, error) {
	at := strings.LastIndex(identifier, marker)
	if at < 0 {
		return 0, fmt.Errorf("%w: %q lacks %q", ErrMalformedIdentifier, identifier, marker)
	}
	rest := identifier[at+len(marker):]
	number := leadingFloat.FindString(rest)
	if number == "" {
		return 0, fmt.Errorf("%w: no number after %q in %q", ErrMalformedIdentifier, marker, identifier)
	}
	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedIdentifier, err)
	}
	return value, nil
}

// Identifier builds the directory name ParseIdentifier understands.
func Identifier(g TipGeometry) string {
	return fmt.Sprintf("R=%snm_L=%sum",
		strconv.FormatFloat(g.TipRadius/unitToSI["nm"], 'g', -1, 64),
		strconv.FormatFloat(g.ShaftLength/unitToSI["um"], 'g', -1, 64))
}
