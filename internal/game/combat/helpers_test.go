package combat_test

import (
	"github.com/cory-johannsen/battlesim/internal/game/creature"
)

func pow(p int) *int { return &p }

func mv(name, typ string, power *int, class creature.DamageClass) creature.Move {
	return creature.Move{Name: name, Type: typ, Power: power, DamageClass: class}
}

type statLine struct {
	hp, atk, def, spa, spd, spe int
}

func mon(name string, types []string, s statLine, moves ...creature.Move) *creature.Creature {
	return &creature.Creature{
		Name:  name,
		Types: types,
		Stats: creature.Stats{
			creature.StatHP:             s.hp,
			creature.StatAttack:         s.atk,
			creature.StatDefense:        s.def,
			creature.StatSpecialAttack:  s.spa,
			creature.StatSpecialDefense: s.spd,
			creature.StatSpeed:          s.spe,
		},
		Moves: moves,
	}
}

// flat is a neutral stat line for tests that only care about one stat.
var flat = statLine{hp: 100, atk: 50, def: 50, spa: 50, spd: 50, spe: 50}
