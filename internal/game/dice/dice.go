// Package dice provides the randomness abstraction shared by every
// probabilistic decision in the battle engine.
package dice

// Source is the randomness provider for a battle.
//
// Implementations need not be safe for concurrent use; every simulation
// owns its own Source.
type Source interface {
	// Float64 returns a value in [0, 1].
	Float64() float64
}

// Deterministic is the value produced by the deterministic source.
//
// Every helper in this package maps it to the reproducible outcome: index 0,
// heads on a coin flip, no chance event, and the upper bound of Uniform.
const Deterministic = 1.0

// Uniform maps one draw from src onto [lo, hi].
//
// Precondition: lo <= hi.
// Postcondition: a draw of Deterministic yields exactly hi.
func Uniform(src Source, lo, hi float64) float64 {
	return hi - (hi-lo)*(1-draw(src))
}

// Chance reports whether an event with probability p fires.
//
// Postcondition: returns false for a draw of Deterministic whenever p <= 1.
func Chance(src Source, p float64) bool {
	return draw(src) < p
}

// Coin flips a fair coin and reports heads.
//
// Postcondition: a draw of Deterministic is heads.
func Coin(src Source) bool {
	return draw(src) >= 0.5
}

// Index picks a uniformly distributed index in [0, n).
//
// Precondition: n > 0. Panics with "dice: Index called with n <= 0" otherwise.
// Postcondition: a draw of Deterministic yields 0.
func Index(src Source, n int) int {
	if n <= 0 {
		panic("dice: Index called with n <= 0")
	}
	i := int((1 - draw(src)) * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// draw reads one value from src clamped to [0, 1].
func draw(src Source) float64 {
	v := src.Float64()
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
