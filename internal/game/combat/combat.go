// Package combat implements the two-combatant turn-based battle engine.
package combat

import (
	"fmt"

	"github.com/cory-johannsen/battlesim/internal/game/condition"
	"github.com/cory-johannsen/battlesim/internal/game/creature"
)

// Outcome is the terminal result of a battle.
type Outcome int

const (
	Draw Outcome = iota
	Combatant1Wins
	Combatant2Wins
)

// DrawMarker is the Winner value reported for a draw.
const DrawMarker = "draw"

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case Combatant1Wins:
		return "combatant 1 wins"
	case Combatant2Wins:
		return "combatant 2 wins"
	default:
		return "draw"
	}
}

// Combatant is the mutable battle state of one creature. The referenced
// Creature template is never modified.
type Combatant struct {
	Creature  *creature.Creature
	Name      string
	MaxHP     int
	CurrentHP int // may go negative; see DisplayHP
	Status    condition.Set
}

// NewCombatant creates battle state for c at full HP carrying status.
//
// Precondition: c must be non-nil and valid.
// Postcondition: CurrentHP == MaxHP == c's hp stat.
func NewCombatant(c *creature.Creature, status condition.Set) *Combatant {
	hp := c.Stat(creature.StatHP)
	return &Combatant{
		Creature:  c,
		Name:      c.Name,
		MaxHP:     hp,
		CurrentHP: hp,
		Status:    status,
	}
}

// ApplyDamage reduces CurrentHP by amount without flooring.
//
// Precondition: amount >= 0.
func (c *Combatant) ApplyDamage(amount int) {
	c.CurrentHP -= amount
}

// Fainted reports whether CurrentHP has reached zero or below.
func (c *Combatant) Fainted() bool {
	return c.CurrentHP <= 0
}

// DisplayHP returns CurrentHP clamped at zero.
//
// Postcondition: Returns >= 0.
func (c *Combatant) DisplayHP() int {
	if c.CurrentHP < 0 {
		return 0
	}
	return c.CurrentHP
}

// HPLabel renders "current/max" using DisplayHP.
func (c *Combatant) HPLabel() string {
	return fmt.Sprintf("%d/%d", c.DisplayHP(), c.MaxHP)
}

// EffectiveSpeed returns the speed stat after status modifiers.
func (c *Combatant) EffectiveSpeed() int {
	return condition.EffectiveSpeed(c.Creature.Stat(creature.StatSpeed), c.Status)
}

// Snapshot is a read-only copy of a Combatant's final state.
type Snapshot struct {
	Creature  *creature.Creature
	Name      string
	MaxHP     int
	CurrentHP int // clamped at zero
	Status    condition.Set
	Fainted   bool
}

// Snapshot copies the combatant's current state.
func (c *Combatant) Snapshot() Snapshot {
	return Snapshot{
		Creature:  c.Creature,
		Name:      c.Name,
		MaxHP:     c.MaxHP,
		CurrentHP: c.DisplayHP(),
		Status:    c.Status,
		Fainted:   c.Fainted(),
	}
}
