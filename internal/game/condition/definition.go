// Package condition models the status conditions a combatant can carry and
// the effects they have on a battle.
package condition

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Status is a non-volatile status condition.
type Status uint8

const (
	Burn Status = 1 << iota
	Poison
	Paralysis
)

// All lists every Status in canonical order.
var All = []Status{Burn, Poison, Paralysis}

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case Burn:
		return "burn"
	case Poison:
		return "poison"
	case Paralysis:
		return "paralysis"
	default:
		return "unknown"
	}
}

// ParseStatus converts a case-insensitive status name into a Status.
//
// Postcondition: Returns the Status or an error naming the unknown value.
func ParseStatus(name string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "burn", "brn":
		return Burn, nil
	case "poison", "psn":
		return Poison, nil
	case "paralysis", "par":
		return Paralysis, nil
	default:
		return 0, fmt.Errorf("unknown status %q", name)
	}
}

// UnmarshalYAML decodes a Status from its name.
func (s *Status) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
