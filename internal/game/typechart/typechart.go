// Package typechart holds the elemental type effectiveness chart.
package typechart

import (
	"golang.org/x/text/cases"
)

// Multiplier values used by the chart. Neutral matchups are implicit.
const (
	Immune         = 0.0
	Resisted       = 0.5
	Neutral        = 1.0
	SuperEffective = 2.0
)

// chart maps attacking type to defending type to multiplier.
// It is built once and never mutated.
var chart = map[string]map[string]float64{
	"normal":   {"rock": Resisted, "ghost": Immune, "steel": Resisted},
	"fire":     {"fire": Resisted, "water": Resisted, "grass": SuperEffective, "ice": SuperEffective, "bug": SuperEffective, "rock": Resisted, "dragon": Resisted, "steel": SuperEffective},
	"water":    {"fire": SuperEffective, "water": Resisted, "grass": Resisted, "ground": SuperEffective, "rock": SuperEffective, "dragon": Resisted},
	"electric": {"water": SuperEffective, "electric": Resisted, "grass": Resisted, "ground": Immune, "flying": SuperEffective, "dragon": Resisted},
	"grass":    {"fire": Resisted, "water": SuperEffective, "grass": Resisted, "poison": Resisted, "ground": SuperEffective, "flying": Resisted, "bug": Resisted, "rock": SuperEffective, "dragon": Resisted, "steel": Resisted},
	"ice":      {"fire": Resisted, "water": Resisted, "grass": SuperEffective, "ice": Resisted, "ground": SuperEffective, "flying": SuperEffective, "dragon": SuperEffective, "steel": Resisted},
	"fighting": {"normal": SuperEffective, "ice": SuperEffective, "rock": SuperEffective, "dark": SuperEffective, "steel": SuperEffective, "poison": Resisted, "flying": Resisted, "psychic": Resisted, "bug": Resisted, "ghost": Immune, "fairy": Resisted},
	"poison":   {"grass": SuperEffective, "poison": Resisted, "ground": Resisted, "rock": Resisted, "ghost": Resisted, "steel": Immune, "fairy": SuperEffective},
	"ground":   {"fire": SuperEffective, "electric": SuperEffective, "grass": Resisted, "poison": SuperEffective, "flying": Immune, "bug": Resisted, "rock": SuperEffective, "steel": SuperEffective},
	"flying":   {"electric": Resisted, "grass": SuperEffective, "fighting": SuperEffective, "bug": SuperEffective, "rock": Resisted, "steel": Resisted},
	"psychic":  {"fighting": SuperEffective, "poison": SuperEffective, "psychic": Resisted, "dark": Immune, "steel": Resisted},
	"bug":      {"fire": Resisted, "grass": SuperEffective, "fighting": Resisted, "poison": Resisted, "flying": Resisted, "psychic": SuperEffective, "ghost": Resisted, "dark": SuperEffective, "steel": Resisted, "fairy": Resisted},
	"rock":     {"fire": SuperEffective, "ice": SuperEffective, "fighting": Resisted, "ground": Resisted, "flying": SuperEffective, "bug": SuperEffective, "steel": Resisted},
	"ghost":    {"normal": Immune, "psychic": SuperEffective, "ghost": SuperEffective, "dark": Resisted},
	"dragon":   {"dragon": SuperEffective, "steel": Resisted, "fairy": Immune},
	"dark":     {"fighting": Resisted, "psychic": SuperEffective, "ghost": SuperEffective, "dark": Resisted, "fairy": Resisted},
	"steel":    {"fire": Resisted, "water": Resisted, "electric": Resisted, "ice": SuperEffective, "rock": SuperEffective, "steel": Resisted, "fairy": SuperEffective},
	"fairy":    {"fire": Resisted, "fighting": SuperEffective, "poison": Resisted, "dragon": SuperEffective, "dark": SuperEffective, "steel": Resisted},
}

// Normalize case-folds a type name for chart lookups and comparisons.
func Normalize(typ string) string {
	return cases.Fold().String(typ)
}

// Same reports whether two type names match case-insensitively.
// An empty name never matches.
func Same(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return Normalize(a) == Normalize(b)
}

// Factor returns the multiplier of one attacking type against one defending type.
// Unknown or empty types are neutral.
//
// Postcondition: Returns one of Immune, Resisted, Neutral, SuperEffective.
func Factor(attacking, defending string) float64 {
	row, ok := chart[Normalize(attacking)]
	if !ok {
		return Neutral
	}
	if m, ok := row[Normalize(defending)]; ok {
		return m
	}
	return Neutral
}

// Effectiveness returns the product of Factor(attacking, d) over every
// defending type d, starting from 1.0.
//
// Postcondition: Returns >= 0; returns Neutral when attacking is empty.
func Effectiveness(attacking string, defending []string) float64 {
	m := Neutral
	if attacking == "" {
		return m
	}
	for _, d := range defending {
		m *= Factor(attacking, d)
	}
	return m
}
