package combat

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/battlesim/internal/game/condition"
	"github.com/cory-johannsen/battlesim/internal/game/creature"
	"github.com/cory-johannsen/battlesim/internal/game/dice"
	"github.com/cory-johannsen/battlesim/internal/game/typechart"
)

// Bounds of the damage variance roll.
const (
	MinDamageRoll = 0.85
	MaxDamageRoll = 1.0
)

// ReasonNoPower is the Breakdown reason for a move that deals no direct damage.
const ReasonNoPower = "move has no power"

// Breakdown records how a damage value was derived.
type Breakdown struct {
	Base           float64
	STAB           float64
	TypeMultiplier float64
	Rand           float64
	Modifier       float64
	Damage         int
	// Reason is set when no computation took place.
	Reason string
}

// String renders the breakdown for the battle log.
func (b Breakdown) String() string {
	if b.Reason != "" {
		return "reason=" + b.Reason
	}
	return fmt.Sprintf("base=%.4f stab=%.2f type=%.2f rand=%.4f modifier=%.4f damage=%d",
		b.Base, b.STAB, b.TypeMultiplier, b.Rand, b.Modifier, b.Damage)
}

// statPair returns the offense and defense stats selected by the move's
// damage class. Unknown classes use the special stats.
func statPair(attacker, defender *creature.Creature, class creature.DamageClass) (atk, def int) {
	if class == creature.ClassPhysical {
		return attacker.Stat(creature.StatAttack), defender.Stat(creature.StatDefense)
	}
	return attacker.Stat(creature.StatSpecialAttack), defender.Stat(creature.StatSpecialDefense)
}

// BaseDamage evaluates ((2·level/5 + 2) · power · atk / max(1, def)) / 50 + 2.
func BaseDamage(level, power, atk, def int) float64 {
	d := math.Max(1, float64(def))
	return ((2*float64(level)/5+2)*float64(power)*float64(atk)/d)/50 + 2
}

// ComputeDamage computes the damage move deals when used by attacker on
// defender. A move with nil or zero power deals 0 and consumes no draw.
// Otherwise one draw is taken from src for the variance roll, which is
// exactly 1.0 for the deterministic source. A Physical move used while
// burned has its modifier halved. Any connecting move deals at least 1,
// immune matchups included.
//
// Precondition: attacker, defender and src must be non-nil; level >= 1.
// Postcondition: damage == 0 iff the move has no power; breakdown.Damage == damage.
func ComputeDamage(attacker, defender *creature.Creature, move creature.Move, level int, attackerStatus condition.Set, src dice.Source) (int, Breakdown) {
	power := move.BasePower()
	if power == 0 {
		return 0, Breakdown{Reason: ReasonNoPower}
	}

	atk, def := statPair(attacker, defender, move.DamageClass)
	base := BaseDamage(level, power, atk, def)

	stab := 1.0
	if attacker.HasType(move.Type) {
		stab = STABMultiplier
	}
	typeMult := typechart.Effectiveness(move.Type, defender.Types)
	roll := dice.Uniform(src, MinDamageRoll, MaxDamageRoll)

	modifier := stab * typeMult * roll
	if move.DamageClass == creature.ClassPhysical && attackerStatus.Has(condition.Burn) {
		modifier *= 0.5
	}

	damage := int(math.Floor(base * modifier))
	if damage < 1 {
		damage = 1
	}
	return damage, Breakdown{
		Base:           base,
		STAB:           stab,
		TypeMultiplier: typeMult,
		Rand:           roll,
		Modifier:       modifier,
		Damage:         damage,
	}
}
