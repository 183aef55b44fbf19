// Package creature defines the immutable creature and move templates that
// battles are fought with.
package creature

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/battlesim/internal/game/typechart"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid creature")

// DamageClass selects which offense/defense stat pair a move uses.
type DamageClass int

const (
	ClassUnknown DamageClass = iota
	ClassPhysical
	ClassSpecial
)

// String returns the lowercase damage class name.
func (d DamageClass) String() string {
	switch d {
	case ClassPhysical:
		return "physical"
	case ClassSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// ParseDamageClass converts a damage class name. Anything other than
// "physical" or "special" is ClassUnknown.
func ParseDamageClass(name string) DamageClass {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "physical":
		return ClassPhysical
	case "special":
		return ClassSpecial
	default:
		return ClassUnknown
	}
}

// UnmarshalYAML decodes a DamageClass from its name.
func (d *DamageClass) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	*d = ParseDamageClass(name)
	return nil
}

// Stat names a base statistic.
type Stat string

const (
	StatHP             Stat = "hp"
	StatAttack         Stat = "attack"
	StatDefense        Stat = "defense"
	StatSpecialAttack  Stat = "special_attack"
	StatSpecialDefense Stat = "special_defense"
	StatSpeed          Stat = "speed"
)

// RequiredStats lists every stat a creature must define.
var RequiredStats = []Stat{StatHP, StatAttack, StatDefense, StatSpecialAttack, StatSpecialDefense, StatSpeed}

// Stats maps stat names to base values.
type Stats map[Stat]int

// UnmarshalYAML accepts both "special_attack" and "special-attack" keys.
// Two keys that name the same stat are rejected.
func (s *Stats) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		var raw map[string]int
		return value.Decode(&raw)
	}
	out := make(Stats, len(value.Content)/2)
	seen := make(map[Stat]string, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		var v int
		if err := value.Content[i+1].Decode(&v); err != nil {
			return err
		}
		stat := Stat(strings.ReplaceAll(strings.ToLower(key), "-", "_"))
		if prev, dup := seen[stat]; dup {
			return fmt.Errorf("%w: stat keys %q and %q both name %q", ErrInvalid, prev, key, stat)
		}
		seen[stat] = key
		out[stat] = v
	}
	*s = out
	return nil
}

// Move is one attack a creature knows.
type Move struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Power *int   `yaml:"power"` // nil = no direct damage
	// Accuracy and PP are carried for display only.
	Accuracy    *int        `yaml:"accuracy"`
	PP          *int        `yaml:"pp"`
	DamageClass DamageClass `yaml:"damage_class"`
	ShortEffect string      `yaml:"short_effect"`
}

// HasPower reports whether the move deals direct damage at all.
func (m Move) HasPower() bool {
	return m.Power != nil
}

// BasePower returns the move's power, treating nil as 0.
func (m Move) BasePower() int {
	if m.Power == nil {
		return 0
	}
	return *m.Power
}

// PowerLabel renders the power for display; absent power is "none".
func (m Move) PowerLabel() string {
	if m.Power == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *m.Power)
}

// Creature is an immutable creature template.
type Creature struct {
	ID    int      `yaml:"id"`
	Name  string   `yaml:"name"`
	Types []string `yaml:"types"`
	Stats Stats    `yaml:"stats"`
	Moves []Move   `yaml:"moves"`
}

// Validate checks the invariants the battle math relies on.
//
// Precondition: c must not be nil.
// Postcondition: Returns nil iff Name is non-empty, there are one or two
// types, and every required stat is present and non-negative; otherwise an
// error wrapping ErrInvalid describing the first violation. Types must be
// non-blank and distinct under case folding.
func (c *Creature) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name must not be empty (id %d)", ErrInvalid, c.ID)
	}
	if len(c.Types) < 1 || len(c.Types) > 2 {
		return fmt.Errorf("%w: %q must have 1 or 2 types, got %d", ErrInvalid, c.Name, len(c.Types))
	}
	for i, t := range c.Types {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("%w: %q type %d is blank", ErrInvalid, c.Name, i)
		}
		for _, prev := range c.Types[:i] {
			if typechart.Same(prev, t) {
				return fmt.Errorf("%w: %q lists type %q twice", ErrInvalid, c.Name, t)
			}
		}
	}
	for _, key := range RequiredStats {
		v, ok := c.Stats[key]
		if !ok {
			return fmt.Errorf("%w: %q is missing stat %q", ErrInvalid, c.Name, key)
		}
		if v < 0 {
			return fmt.Errorf("%w: %q stat %q must be >= 0, got %d", ErrInvalid, c.Name, key, v)
		}
	}
	for i, m := range c.Moves {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("%w: %q move %d has no name", ErrInvalid, c.Name, i)
		}
		if m.Power != nil && *m.Power < 0 {
			return fmt.Errorf("%w: %q move %q power must be >= 0", ErrInvalid, c.Name, m.Name)
		}
	}
	return nil
}

// Stat returns the value of s.
//
// Precondition: c has passed Validate.
func (c *Creature) Stat(s Stat) int {
	return c.Stats[s]
}

// HasType reports whether typ case-insensitively matches one of c's types.
func (c *Creature) HasType(typ string) bool {
	for _, t := range c.Types {
		if typechart.Same(t, typ) {
			return true
		}
	}
	return false
}

// LoadFromBytes parses and validates a single creature from YAML.
//
// Postcondition: Returns a validated *Creature, or an error.
func LoadFromBytes(data []byte) (*Creature, error) {
	var c Creature
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing creature YAML: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
