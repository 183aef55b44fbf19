package condition

import (
	"fmt"

	"github.com/cory-johannsen/battlesim/internal/game/dice"
)

// FullParalysisChance is the probability that a paralyzed combatant loses its action.
const FullParalysisChance = 0.25

// EndOfTurn computes the damage-over-time owed at the end of a turn.
// Poison deals floor(maxHP/8) and Burn floor(maxHP/16); both apply when both
// are active. One message fragment is returned per status that triggered.
//
// Precondition: maxHP >= 0.
// Postcondition: damage >= 0; len(fragments) == number of triggered statuses.
func EndOfTurn(maxHP int, s Set) (int, []string) {
	if s.Empty() {
		return 0, nil
	}
	damage := 0
	var fragments []string
	if s.Has(Poison) {
		d := maxHP / 8
		damage += d
		fragments = append(fragments, fmt.Sprintf("Poison deals %d damage.", d))
	}
	if s.Has(Burn) {
		d := maxHP / 16
		damage += d
		fragments = append(fragments, fmt.Sprintf("Burn deals %d damage.", d))
	}
	return damage, fragments
}

// FullyParalyzed reports whether a combatant carrying s loses its action.
// Only Paralysis can lock; a draw is consumed only when it is active.
//
// Postcondition: always false for the deterministic source.
func FullyParalyzed(s Set, src dice.Source) bool {
	if !s.Has(Paralysis) {
		return false
	}
	return dice.Chance(src, FullParalysisChance)
}

// EffectiveSpeed returns speed after status modifiers: Paralysis halves it,
// rounding down.
//
// Postcondition: Returns <= speed for speed >= 0.
func EffectiveSpeed(speed int, s Set) int {
	if s.Has(Paralysis) {
		return speed / 2
	}
	return speed
}
