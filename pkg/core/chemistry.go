// Package core provides the fatty acid model, chemistry constants and the
// settings shared by every stage of the TAG composition pipeline.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Standard atomic weights (IUPAC 2016, conventional values)
const (
	MassH  = 1.008
	MassC  = 12.011
	MassN  = 14.007
	MassO  = 15.999
	MassNa = 22.98976928
	MassLi = 6.94
)

// Adduct masses for mass-scope labels
const (
	AdductNone Adduct = 0
	AdductH    Adduct = MassH
	AdductNH4  Adduct = MassN + 4*MassH
	AdductNa   Adduct = MassNa
	AdductLi   Adduct = MassLi
)

// GlycerolBackboneMass is the mass a glycerol contributes to a TAG once its
// three hydroxyls are esterified with free fatty acids (C3H8O3 - 3 H2O = C3H2).
const GlycerolBackboneMass = 3*MassC + 2*MassH

// Adduct is the mass of an ionizing agent. It decodes from either a number or
// one of the names H, NH4, Na, Li.
type Adduct float64

var namedAdducts = map[string]Adduct{
	"none": AdductNone,
	"h":    AdductH,
	"nh4":  AdductNH4,
	"na":   AdductNa,
	"li":   AdductLi,
}

// ParseAdduct parses an adduct given by name or as a literal mass.
func ParseAdduct(s string) (Adduct, error) {
	s = strings.TrimSpace(s)
	if a, ok := namedAdducts[strings.ToLower(s)]; ok {
		return a, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid adduct '%s', expected a mass or one of H, NH4, Na, Li", s)
	}
	return Adduct(v), nil
}

// MarshalText writes the adduct as its mass with the shortest exact
// representation, which ParseAdduct reads back unchanged.
func (a Adduct) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(a), 'g', -1, 64)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Adduct) UnmarshalText(text []byte) error {
	v, err := ParseAdduct(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// TriacylglycerolMass returns the neutral mass of a TAG esterified with the
// given fatty acids.
func TriacylglycerolMass(sn1, sn2, sn3 FattyAcid) float64 {
	return sn1.Mass() + sn2.Mass() + sn3.Mass() + GlycerolBackboneMass
}

// RoundFloat rounds a float to n decimal places
func RoundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// FormatFloat renders val rounded to precision decimal places.
func FormatFloat(val float64, precision int) string {
	return strconv.FormatFloat(RoundFloat(val, precision), 'f', precision, 64)
}
