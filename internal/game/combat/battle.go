package combat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battlesim/internal/game/condition"
	"github.com/cory-johannsen/battlesim/internal/game/creature"
	"github.com/cory-johannsen/battlesim/internal/game/dice"
)

// Battle states and the single transition between them.
const (
	StateInProgress = "in_progress"
	StateFinished   = "finished"
	eventFinish     = "finish"
)

// ErrNoProvider is returned when a contender must be resolved by ID but no
// Provider was supplied.
var ErrNoProvider = errors.New("no creature provider configured")

// battleNamespace seeds name-based battle IDs in deterministic mode.
var battleNamespace = uuid.MustParse("6f1c2f0e-3b8a-4d55-9a57-2c1e6b7d9f40")

// Provider resolves a creature identifier to a complete Creature.
type Provider interface {
	Resolve(ctx context.Context, id string) (*creature.Creature, error)
}

// Contender is one battle input: either an identifier to resolve or an
// already-resolved Creature, plus the statuses it starts with.
type Contender struct {
	ID       string
	Creature *creature.Creature
	Status   condition.Set
}

// ByID returns a Contender resolved through the Provider.
func ByID(id string) Contender {
	return Contender{ID: id}
}

// Resolved returns a Contender for an already-loaded creature.
func Resolved(c *creature.Creature) Contender {
	return Contender{Creature: c}
}

// WithStatus returns a copy of c that starts the battle afflicted by statuses.
func (c Contender) WithStatus(statuses ...condition.Status) Contender {
	for _, st := range statuses {
		c.Status.Apply(st)
	}
	return c
}

// Result is the outcome of a simulated battle.
type Result struct {
	BattleID string
	Outcome  Outcome
	// Winner is the winning creature's name, or DrawMarker.
	Winner     string
	Turns      int
	Log        []string
	Combatant1 Snapshot
	Combatant2 Snapshot
}

type battle struct {
	c1, c2   *Combatant
	level    int
	maxTurns int
	turn     int
	src      dice.Source
	log      []string
	outcome  Outcome
	machine  *fsm.FSM
}

// Simulate resolves both contenders and fights them until one faints, both
// faint, or the turn cap is reached.
//
// Precondition: provider may be nil only when both contenders are Resolved.
// Postcondition: Returns a Result with a non-empty log and exactly one
// Outcome, or an error if resolution, validation or option checks fail.
func Simulate(ctx context.Context, provider Provider, in1, in2 Contender, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	cr1, err := resolve(ctx, provider, in1, 1)
	if err != nil {
		return nil, err
	}
	cr2, err := resolve(ctx, provider, in2, 2)
	if err != nil {
		return nil, err
	}

	src := o.source
	if src == nil {
		if o.deterministic {
			src = dice.NewFixedSource(dice.Deterministic)
		} else {
			src, err = dice.NewRandomSource()
			if err != nil {
				return nil, fmt.Errorf("seeding random source: %w", err)
			}
		}
	}

	b := &battle{
		c1:       NewCombatant(cr1, in1.Status),
		c2:       NewCombatant(cr2, in2.Status),
		level:    o.level,
		maxTurns: o.maxTurns,
		src:      dice.NewLoggedSource(src, o.logger),
	}
	battleID := b.id(o.deterministic)
	logger := o.logger.With(zap.String("battle_id", battleID))
	b.machine = fsm.NewFSM(
		StateInProgress,
		fsm.Events{
			{Name: eventFinish, Src: []string{StateInProgress}, Dst: StateFinished},
		},
		fsm.Callbacks{
			"enter_" + StateFinished: func(_ context.Context, _ *fsm.Event) {
				logger.Info("battle finished",
					zap.Stringer("outcome", b.outcome),
					zap.Int("turns", b.turn),
				)
			},
		},
	)

	logger.Info("battle started",
		zap.String("combatant1", b.c1.Name),
		zap.String("combatant2", b.c2.Name),
		zap.Int("level", b.level),
		zap.Int("max_turns", b.maxTurns),
		zap.Bool("deterministic", o.deterministic),
	)

	if err := b.run(ctx); err != nil {
		return nil, err
	}

	return &Result{
		BattleID:   battleID,
		Outcome:    b.outcome,
		Winner:     b.winnerName(),
		Turns:      b.turn,
		Log:        b.log,
		Combatant1: b.c1.Snapshot(),
		Combatant2: b.c2.Snapshot(),
	}, nil
}

// resolve produces a validated creature for the contender in slot.
func resolve(ctx context.Context, provider Provider, in Contender, slot int) (*creature.Creature, error) {
	c := in.Creature
	if c == nil {
		if provider == nil {
			return nil, fmt.Errorf("resolving combatant %d %q: %w", slot, in.ID, ErrNoProvider)
		}
		var err error
		c, err = provider.Resolve(ctx, in.ID)
		if err != nil {
			return nil, fmt.Errorf("resolving combatant %d %q: %w", slot, in.ID, err)
		}
		if c == nil {
			return nil, fmt.Errorf("resolving combatant %d %q: provider returned no creature", slot, in.ID)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("combatant %d: %w", slot, err)
	}
	return c, nil
}

// id derives the battle ID. Deterministic battles hash their inputs so that
// identical calls produce identical results.
func (b *battle) id(deterministic bool) string {
	if !deterministic {
		return uuid.NewString()
	}
	var key strings.Builder
	fingerprint(&key, b.c1)
	fingerprint(&key, b.c2)
	fmt.Fprintf(&key, "%d|%d", b.level, b.maxTurns)
	return uuid.NewSHA1(battleNamespace, []byte(key.String())).String()
}

// fingerprint writes every battle-relevant field of c to w in a fixed order.
func fingerprint(w *strings.Builder, c *Combatant) {
	t := c.Creature
	fmt.Fprintf(w, "%d|%s|%s|%s|", t.ID, t.Name, strings.Join(t.Types, ","), c.Status)
	for _, stat := range creature.RequiredStats {
		fmt.Fprintf(w, "%s=%d,", stat, t.Stat(stat))
	}
	for _, m := range t.Moves {
		fmt.Fprintf(w, "|%s/%s/%s/%s", m.Name, m.Type, m.PowerLabel(), m.DamageClass)
	}
	w.WriteString("#")
}

func (b *battle) logf(format string, args ...any) {
	b.log = append(b.log, fmt.Sprintf(format, args...))
}

// run drives turns until the machine reaches StateFinished.
//
// Postcondition: b.machine is in StateFinished and b.turn <= b.maxTurns.
func (b *battle) run(ctx context.Context) error {
	for b.machine.Is(StateInProgress) {
		if b.turn == b.maxTurns {
			b.logf("Max turns reached -> draw.")
			return b.finish(ctx, Draw)
		}
		b.turn++
		if err := b.playTurn(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (b *battle) finish(ctx context.Context, o Outcome) error {
	b.outcome = o
	if err := b.machine.Event(ctx, eventFinish); err != nil {
		return fmt.Errorf("finishing battle: %w", err)
	}
	return nil
}

// playTurn runs one full turn, finishing the battle when a combatant faints.
func (b *battle) playTurn(ctx context.Context) error {
	b.logf("--- Turn %d ---", b.turn)

	first, second := Order(b.c1, b.c2, b.src)
	for _, pair := range [2][2]*Combatant{{first, second}, {second, first}} {
		attacker, defender := pair[0], pair[1]
		if attacker.Fainted() || defender.Fainted() {
			continue
		}
		if b.act(attacker, defender) {
			b.logf("%s fainted!", defender.Name)
			return b.finish(ctx, b.victoryFor(attacker))
		}
	}

	b.endOfTurn(b.c1)
	b.endOfTurn(b.c2)

	switch {
	case b.c1.Fainted() && b.c2.Fainted():
		b.logf("Both combatants fainted -> draw.")
		return b.finish(ctx, Draw)
	case b.c1.Fainted():
		b.logf("%s fainted!", b.c1.Name)
		return b.finish(ctx, Combatant2Wins)
	case b.c2.Fainted():
		b.logf("%s fainted!", b.c2.Name)
		return b.finish(ctx, Combatant1Wins)
	}
	return nil
}

// act resolves one combatant's action and reports whether the defender fainted.
func (b *battle) act(attacker, defender *Combatant) bool {
	move, ok := ChooseMove(attacker.Creature, defender.Creature, b.src)
	if !ok {
		b.logf("%s has no moves and struggles (skip).", attacker.Name)
		return false
	}
	if condition.FullyParalyzed(attacker.Status, b.src) {
		b.logf("%s is paralyzed and can't move!", attacker.Name)
		return false
	}

	damage, detail := ComputeDamage(attacker.Creature, defender.Creature, move, b.level, attacker.Status, b.src)
	defender.ApplyDamage(damage)
	b.logf("%s uses %s (power=%s). Damage: %d. Detail: %s",
		attacker.Name, move.Name, move.PowerLabel(), damage, detail)
	b.logf("%s HP: %s", defender.Name, defender.HPLabel())
	return defender.Fainted()
}

// endOfTurn applies damage-over-time to c and logs it when non-zero.
func (b *battle) endOfTurn(c *Combatant) {
	damage, fragments := condition.EndOfTurn(c.MaxHP, c.Status)
	if damage == 0 {
		return
	}
	c.ApplyDamage(damage)
	b.logf("%s end-of-turn: %s Now HP: %s", c.Name, strings.Join(fragments, " "), c.HPLabel())
}

func (b *battle) victoryFor(c *Combatant) Outcome {
	if c == b.c1 {
		return Combatant1Wins
	}
	return Combatant2Wins
}

func (b *battle) winnerName() string {
	switch b.outcome {
	case Combatant1Wins:
		return b.c1.Name
	case Combatant2Wins:
		return b.c2.Name
	default:
		return DrawMarker
	}
}
