package combat

import "github.com/cory-johannsen/battlesim/internal/game/dice"

// Order returns the two combatants in acting order for one turn.
// The higher effective speed acts first. On an exact tie a coin is flipped
// on src; the deterministic source always puts c1 first.
//
// Precondition: c1, c2 and src must be non-nil.
// Postcondition: {first, second} == {c1, c2}.
func Order(c1, c2 *Combatant, src dice.Source) (first, second *Combatant) {
	s1, s2 := c1.EffectiveSpeed(), c2.EffectiveSpeed()
	switch {
	case s1 > s2:
		return c1, c2
	case s2 > s1:
		return c2, c1
	case dice.Coin(src):
		return c1, c2
	default:
		return c2, c1
	}
}
