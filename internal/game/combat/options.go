package combat

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/battlesim/internal/game/dice"
)

// Defaults applied by Simulate when no option overrides them.
const (
	DefaultLevel    = 50
	DefaultMaxTurns = 200
)

// ErrInvalidOption is returned when an option value is out of range.
var ErrInvalidOption = errors.New("invalid battle option")

type options struct {
	level         int
	deterministic bool
	maxTurns      int
	source        dice.Source
	logger        *zap.Logger
}

func defaultOptions() options {
	return options{
		level:         DefaultLevel,
		deterministic: true,
		maxTurns:      DefaultMaxTurns,
		logger:        zap.NewNop(),
	}
}

func (o options) validate() error {
	if o.level < 1 {
		return fmt.Errorf("%w: level must be >= 1, got %d", ErrInvalidOption, o.level)
	}
	if o.maxTurns < 1 {
		return fmt.Errorf("%w: max turns must be >= 1, got %d", ErrInvalidOption, o.maxTurns)
	}
	return nil
}

// Option configures a Simulate call.
type Option func(*options)

// WithLevel sets the level used in the damage formula for both combatants.
func WithLevel(level int) Option {
	return func(o *options) { o.level = level }
}

// WithDeterministic selects deterministic (true) or random (false) mode.
// Random mode seeds a fresh source from crypto/rand on every call.
func WithDeterministic(deterministic bool) Option {
	return func(o *options) { o.deterministic = deterministic }
}

// WithMaxTurns caps the number of turns before the battle is declared a draw.
func WithMaxTurns(n int) Option {
	return func(o *options) { o.maxTurns = n }
}

// WithSource overrides the random source for every probabilistic decision.
// The mode flag then only affects the battle ID.
func WithSource(src dice.Source) Option {
	return func(o *options) { o.source = src }
}

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
