package combat_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/battlesim/internal/game/combat"
	"github.com/cory-johannsen/battlesim/internal/game/condition"
	"github.com/cory-johannsen/battlesim/internal/game/creature"
	"github.com/cory-johannsen/battlesim/internal/game/dice"
)

var errUnknown = errors.New("creature not found")

// mapProvider resolves creatures from a fixed map and counts lookups.
type mapProvider struct {
	mu      sync.Mutex
	byID    map[string]*creature.Creature
	lookups int
}

func (p *mapProvider) Resolve(_ context.Context, id string) (*creature.Creature, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lookups++
	c, ok := p.byID[id]
	if !ok {
		return nil, errUnknown
	}
	return c, nil
}

func pikachu() *creature.Creature {
	return mon("pikachu", []string{"electric"}, statLine{hp: 35, atk: 55, def: 40, spa: 50, spd: 50, spe: 90},
		mv("thunder-shock", "electric", pow(40), creature.ClassSpecial),
		mv("quick-attack", "normal", pow(40), creature.ClassPhysical),
		mv("growl", "normal", nil, creature.ClassUnknown),
	)
}

func eevee() *creature.Creature {
	return mon("eevee", []string{"normal"}, statLine{hp: 55, atk: 55, def: 50, spa: 45, spd: 65, spe: 55},
		mv("tackle", "normal", pow(40), creature.ClassPhysical),
		mv("bite", "dark", pow(60), creature.ClassPhysical),
		mv("tail-whip", "normal", nil, creature.ClassUnknown),
	)
}

func idler(name string, hp, speed int) *creature.Creature {
	return mon(name, []string{"normal"}, statLine{hp: hp, atk: 50, def: 50, spa: 50, spd: 50, spe: speed},
		mv("splash", "water", nil, creature.ClassUnknown))
}

func simulate(t *testing.T, in1, in2 combat.Contender, opts ...combat.Option) *combat.Result {
	t.Helper()
	res, err := combat.Simulate(context.Background(), nil, in1, in2, opts...)
	require.NoError(t, err)
	return res
}

func countPrefix(lines []string, prefix string) int {
	n := 0
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

func TestSimulate_DeterministicIsReproducible(t *testing.T) {
	p, e := pikachu(), eevee()
	r1 := simulate(t, combat.Resolved(p), combat.Resolved(e))
	r2 := simulate(t, combat.Resolved(p), combat.Resolved(e))
	assert.Equal(t, r1, r2)
	assert.Equal(t, "--- Turn 1 ---", r1.Log[0])
	assert.Equal(t, 35, p.Stat(creature.StatHP), "templates must not be mutated")
}

func TestSimulate_RealisticBattleInvariants(t *testing.T) {
	res := simulate(t, combat.Resolved(pikachu()), combat.Resolved(eevee()))
	require.NotEmpty(t, res.Log)
	assert.GreaterOrEqual(t, res.Turns, 1)
	switch res.Outcome {
	case combat.Combatant1Wins:
		assert.Equal(t, "pikachu", res.Winner)
		assert.True(t, res.Combatant2.Fainted)
		assert.False(t, res.Combatant1.Fainted)
	case combat.Combatant2Wins:
		assert.Equal(t, "eevee", res.Winner)
		assert.True(t, res.Combatant1.Fainted)
		assert.False(t, res.Combatant2.Fainted)
	default:
		t.Fatalf("unexpected draw: %v", res.Log)
	}
	assert.Equal(t, res.Turns, countPrefix(res.Log, "--- Turn "))
}

func TestSimulate_ZeroPowerRunsToMaxTurns(t *testing.T) {
	res := simulate(t, combat.Resolved(idler("a", 100, 50)), combat.Resolved(idler("b", 100, 40)))
	assert.Equal(t, combat.Draw, res.Outcome)
	assert.Equal(t, combat.DrawMarker, res.Winner)
	assert.Equal(t, combat.DefaultMaxTurns, res.Turns)
	assert.Equal(t, "Max turns reached -> draw.", res.Log[len(res.Log)-1])
	assert.Equal(t, 100, res.Combatant1.CurrentHP)
	assert.Equal(t, 100, res.Combatant2.CurrentHP)
}

func TestSimulate_MaxTurnsOption(t *testing.T) {
	res := simulate(t, combat.Resolved(idler("a", 100, 50)), combat.Resolved(idler("b", 100, 40)), combat.WithMaxTurns(5))
	assert.Equal(t, 5, res.Turns)
	// header + two (uses, HP) pairs per turn, plus the cap line
	assert.Len(t, res.Log, 5*5+1)
	assert.Equal(t, "a uses splash (power=none). Damage: 0. Detail: reason=move has no power", res.Log[1])
	assert.Equal(t, "b HP: 100/100", res.Log[2])
}

func TestSimulate_KnockoutEndsTurnImmediately(t *testing.T) {
	striker := mon("striker", []string{"normal"}, statLine{hp: 50, atk: 200, def: 50, spa: 50, spd: 50, spe: 100},
		mv("mega-punch", "normal", pow(200), creature.ClassPhysical))
	target := mon("target", []string{"normal"}, statLine{hp: 10, atk: 50, def: 10, spa: 50, spd: 50, spe: 10},
		mv("tackle", "normal", pow(40), creature.ClassPhysical))

	res := simulate(t, combat.Resolved(striker).WithStatus(condition.Poison), combat.Resolved(target).WithStatus(condition.Poison))

	assert.Equal(t, combat.Combatant1Wins, res.Outcome)
	assert.Equal(t, "striker", res.Winner)
	assert.Equal(t, 1, res.Turns)
	require.Len(t, res.Log, 4)
	assert.Equal(t, "target HP: 0/10", res.Log[2])
	assert.Equal(t, "target fainted!", res.Log[3])
	assert.Zero(t, countPrefix(res.Log, "striker end-of-turn"))
	assert.Equal(t, 50, res.Combatant1.CurrentHP, "end-of-turn poison must not run after a knockout")
}

func TestSimulate_EndOfTurnPoisonAndBurn(t *testing.T) {
	a := idler("a", 160, 50)
	res := simulate(t, combat.Resolved(a).WithStatus(condition.Poison, condition.Burn), combat.Resolved(idler("b", 100, 40)), combat.WithMaxTurns(1))
	assert.Contains(t, res.Log, "a end-of-turn: Poison deals 20 damage. Burn deals 10 damage. Now HP: 130/160")
	assert.Equal(t, 130, res.Combatant1.CurrentHP)
	assert.True(t, res.Combatant1.Status.Has(condition.Burn))
}

func TestSimulate_BothFaintFromStatusIsDraw(t *testing.T) {
	res := simulate(t,
		combat.Resolved(idler("a", 8, 50)).WithStatus(condition.Poison),
		combat.Resolved(idler("b", 8, 40)).WithStatus(condition.Poison),
	)
	assert.Equal(t, combat.Draw, res.Outcome)
	assert.Equal(t, 8, res.Turns)
	assert.Equal(t, "Both combatants fainted -> draw.", res.Log[len(res.Log)-1])
}

func TestSimulate_StatusFaintAtEndOfTurn(t *testing.T) {
	res := simulate(t,
		combat.Resolved(idler("a", 8, 50)).WithStatus(condition.Poison),
		combat.Resolved(idler("b", 100, 40)),
	)
	assert.Equal(t, combat.Combatant2Wins, res.Outcome)
	assert.Equal(t, "b", res.Winner)
	assert.Equal(t, 8, res.Turns)
	assert.Equal(t, "a fainted!", res.Log[len(res.Log)-1])
}

func TestSimulate_NoMovesLogsSkip(t *testing.T) {
	empty := mon("empty", []string{"normal"}, statLine{hp: 10, atk: 1, def: 1, spa: 1, spd: 1, spe: 99})
	res := simulate(t, combat.Resolved(empty), combat.Resolved(idler("b", 10, 1)), combat.WithMaxTurns(1))
	assert.Equal(t, "empty has no moves and struggles (skip).", res.Log[1])
}

func TestSimulate_DeterministicParalysisAlwaysActs(t *testing.T) {
	slow := mon("slow", []string{"normal"}, statLine{hp: 300, atk: 10, def: 100, spa: 10, spd: 100, spe: 100},
		mv("tackle", "normal", pow(10), creature.ClassPhysical))
	res := simulate(t, combat.Resolved(slow).WithStatus(condition.Paralysis), combat.Resolved(idler("b", 300, 90)), combat.WithMaxTurns(3))
	assert.Zero(t, countPrefix(res.Log, "slow is paralyzed"))
}

func TestSimulate_ScriptedFullParalysis(t *testing.T) {
	para := mon("para", []string{"normal"}, statLine{hp: 300, atk: 10, def: 100, spa: 10, spd: 100, spe: 100},
		mv("tackle", "normal", pow(10), creature.ClassPhysical))
	foe := mon("foe", []string{"water"}, statLine{hp: 300, atk: 10, def: 100, spa: 10, spd: 100, spe: 90},
		mv("tackle", "normal", pow(10), creature.ClassPhysical))

	// foe outspeeds the paralyzed para (90 > 50); draws: foe damage roll, para paralysis check.
	src := dice.NewScriptedSource(1.0, 0.1)
	res := simulate(t, combat.Resolved(para).WithStatus(condition.Paralysis), combat.Resolved(foe),
		combat.WithSource(src), combat.WithMaxTurns(1))

	require.Len(t, res.Log, 5)
	assert.Equal(t, "foe uses tackle (power=10). Damage: 2. Detail: base=2.4400 stab=1.00 type=1.00 rand=1.0000 modifier=1.0000 damage=2", res.Log[1])
	assert.Equal(t, "para HP: 298/300", res.Log[2])
	assert.Equal(t, "para is paralyzed and can't move!", res.Log[3])
	assert.Equal(t, 2, src.Draws())
}

func TestSimulate_RandomModeVaries(t *testing.T) {
	r1 := simulate(t, combat.Resolved(pikachu()), combat.Resolved(eevee()), combat.WithDeterministic(false))
	r2 := simulate(t, combat.Resolved(pikachu()), combat.Resolved(eevee()), combat.WithDeterministic(false))
	assert.NotEqual(t, r1.BattleID, r2.BattleID)
	assert.NotEmpty(t, r1.Log)
}

func TestSimulate_DeterministicIDTracksCreatureContent(t *testing.T) {
	base := simulate(t, combat.Resolved(pikachu()), combat.Resolved(eevee()))
	again := simulate(t, combat.Resolved(pikachu()), combat.Resolved(eevee()))
	assert.Equal(t, base.BattleID, again.BattleID)

	sturdier := eevee()
	sturdier.Stats[creature.StatDefense]++
	assert.NotEqual(t, base.BattleID, simulate(t, combat.Resolved(pikachu()), combat.Resolved(sturdier)).BattleID)

	relearned := eevee()
	relearned.Moves = relearned.Moves[:1]
	assert.NotEqual(t, base.BattleID, simulate(t, combat.Resolved(pikachu()), combat.Resolved(relearned)).BattleID)

	renumbered := eevee()
	renumbered.ID++
	assert.NotEqual(t, base.BattleID, simulate(t, combat.Resolved(pikachu()), combat.Resolved(renumbered)).BattleID)
}

func TestSimulate_ResolvesThroughProvider(t *testing.T) {
	p := &mapProvider{byID: map[string]*creature.Creature{"pikachu": pikachu(), "eevee": eevee()}}
	res, err := combat.Simulate(context.Background(), p, combat.ByID("pikachu"), combat.ByID("eevee"))
	require.NoError(t, err)
	assert.Equal(t, 2, p.lookups)
	assert.Equal(t, "pikachu", res.Combatant1.Name)
	assert.Equal(t, "eevee", res.Combatant2.Name)
}

func TestSimulate_ResolutionFailure(t *testing.T) {
	p := &mapProvider{byID: map[string]*creature.Creature{"pikachu": pikachu()}}
	res, err := combat.Simulate(context.Background(), p, combat.ByID("pikachu"), combat.ByID("missingno"))
	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnknown)
	assert.Contains(t, err.Error(), `combatant 2 "missingno"`)
}

func TestSimulate_NoProvider(t *testing.T) {
	_, err := combat.Simulate(context.Background(), nil, combat.ByID("pikachu"), combat.Resolved(eevee()))
	assert.ErrorIs(t, err, combat.ErrNoProvider)
}

func TestSimulate_MalformedCreature(t *testing.T) {
	broken := pikachu()
	delete(broken.Stats, creature.StatSpeed)
	_, err := combat.Simulate(context.Background(), nil, combat.Resolved(eevee()), combat.Resolved(broken))
	assert.ErrorIs(t, err, creature.ErrInvalid)
}

func TestSimulate_RepeatedTypeRejected(t *testing.T) {
	doubled := mon("charizard", []string{"fire", "Fire"}, flat, mv("ember", "fire", pow(40), creature.ClassSpecial))
	res, err := combat.Simulate(context.Background(), nil, combat.Resolved(eevee()), combat.Resolved(doubled))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, creature.ErrInvalid)
}

func TestSimulate_InvalidOptions(t *testing.T) {
	_, err := combat.Simulate(context.Background(), nil, combat.Resolved(pikachu()), combat.Resolved(eevee()), combat.WithLevel(0))
	assert.ErrorIs(t, err, combat.ErrInvalidOption)
	_, err = combat.Simulate(context.Background(), nil, combat.Resolved(pikachu()), combat.Resolved(eevee()), combat.WithMaxTurns(0))
	assert.ErrorIs(t, err, combat.ErrInvalidOption)
}

func TestSimulate_LogsStartAndFinish(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	res := simulate(t, combat.Resolved(pikachu()), combat.Resolved(eevee()), combat.WithLogger(zap.New(core)))

	started := logs.FilterMessage("battle started").All()
	finished := logs.FilterMessage("battle finished").All()
	require.Len(t, started, 1)
	require.Len(t, finished, 1)
	assert.Equal(t, res.BattleID, started[0].ContextMap()["battle_id"])
	assert.Equal(t, int64(res.Turns), finished[0].ContextMap()["turns"])
}

func TestSimulate_ConcurrentBattlesShareNothing(t *testing.T) {
	want := simulate(t, combat.Resolved(pikachu()), combat.Resolved(eevee()))

	var wg sync.WaitGroup
	results := make([]*combat.Result, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := combat.Simulate(context.Background(), nil, combat.Resolved(pikachu()), combat.Resolved(eevee()))
			if err == nil {
				results[i] = res
			}
		}()
	}
	wg.Wait()
	for _, got := range results {
		require.NotNil(t, got)
		assert.Equal(t, want.Log, got.Log)
		assert.Equal(t, want.BattleID, got.BattleID)
	}
}

// TestPropertySimulate_AlwaysTerminates verifies every random battle ends
// within the turn cap with a result consistent with the final snapshots.
func TestPropertySimulate_AlwaysTerminates(t *testing.T) {
	types := []string{"fire", "water", "grass", "normal", "ghost", "ground", "electric"}
	rapid.Check(t, func(rt *rapid.T) {
		gen := func(name string) *creature.Creature {
			s := func(label string) int { return rapid.IntRange(0, 150).Draw(rt, name+"_"+label) }
			moves := make([]creature.Move, rapid.IntRange(0, 4).Draw(rt, name+"_moves"))
			for i := range moves {
				var p *int
				if rapid.Bool().Draw(rt, name+"_powered") {
					p = pow(rapid.IntRange(0, 120).Draw(rt, name+"_power"))
				}
				moves[i] = mv("m", rapid.SampledFrom(types).Draw(rt, name+"_mtype"), p,
					creature.DamageClass(rapid.IntRange(0, 2).Draw(rt, name+"_class")))
			}
			return mon(name, []string{rapid.SampledFrom(types).Draw(rt, name+"_type")},
				statLine{hp: rapid.IntRange(1, 200).Draw(rt, name+"_hp"), atk: s("atk"), def: s("def"), spa: s("spa"), spd: s("spd"), spe: s("spe")},
				moves...)
		}
		maxTurns := rapid.IntRange(1, 30).Draw(rt, "max_turns")
		status1 := condition.Set(rapid.IntRange(0, 7).Draw(rt, "status1"))
		status2 := condition.Set(rapid.IntRange(0, 7).Draw(rt, "status2"))
		seed := rapid.Uint64().Draw(rt, "seed")

		res, err := combat.Simulate(context.Background(), nil,
			combat.Contender{Creature: gen("a"), Status: status1},
			combat.Contender{Creature: gen("b"), Status: status2},
			combat.WithMaxTurns(maxTurns), combat.WithSource(dice.NewSeededSource(seed)))
		require.NoError(rt, err)
		assert.LessOrEqual(rt, res.Turns, maxTurns)
		assert.NotEmpty(rt, res.Log)

		c1, c2 := res.Combatant1, res.Combatant2
		switch res.Outcome {
		case combat.Combatant1Wins:
			assert.True(rt, c2.Fainted && !c1.Fainted)
		case combat.Combatant2Wins:
			assert.True(rt, c1.Fainted && !c2.Fainted)
		case combat.Draw:
			assert.Equal(rt, c1.Fainted, c2.Fainted)
			if !c1.Fainted {
				assert.Equal(rt, maxTurns, res.Turns)
			}
		}
	})
}
