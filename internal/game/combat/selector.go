package combat

import (
	"sort"

	"github.com/cory-johannsen/battlesim/internal/game/creature"
	"github.com/cory-johannsen/battlesim/internal/game/dice"
	"github.com/cory-johannsen/battlesim/internal/game/typechart"
)

// candidatePool is how many top-scoring moves a random pick chooses from.
const candidatePool = 3

// STABMultiplier is the same-type attack bonus.
const STABMultiplier = 1.5

type scoredMove struct {
	move  creature.Move
	score float64
}

// MoveScore is the greedy heuristic used to rank a move:
// power × STAB × type effectiveness against the defender.
func MoveScore(attacker, defender *creature.Creature, m creature.Move) float64 {
	score := float64(m.BasePower())
	if attacker.HasType(m.Type) {
		score *= STABMultiplier
	}
	return score * typechart.Effectiveness(m.Type, defender.Types)
}

// ChooseMove picks the move attacker uses against defender this turn.
// Moves without power are never scored. The pick is uniform over the top
// three scores, ties kept in list order; the deterministic source always
// takes the best. A draw is consumed only when more than one candidate exists.
// When no move has power the first listed move is returned.
//
// Precondition: attacker, defender and src must be non-nil.
// Postcondition: ok is false iff attacker has no moves.
func ChooseMove(attacker, defender *creature.Creature, src dice.Source) (creature.Move, bool) {
	if len(attacker.Moves) == 0 {
		return creature.Move{}, false
	}

	scored := make([]scoredMove, 0, len(attacker.Moves))
	for _, m := range attacker.Moves {
		if !m.HasPower() {
			continue
		}
		scored = append(scored, scoredMove{move: m, score: MoveScore(attacker, defender, m)})
	}
	if len(scored) == 0 {
		return attacker.Moves[0], true
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	pool := scored[:min(candidatePool, len(scored))]
	if len(pool) == 1 {
		return pool[0].move, true
	}
	return pool[dice.Index(src, len(pool))].move, true
}
