package condition

import (
	"fmt"
	"strings"
)

// Set is the collection of statuses active on one combatant.
// A status is either present or absent; re-applying it has no effect.
// The zero value is an empty set.
type Set uint8

// NewSet returns a Set holding the given statuses.
func NewSet(statuses ...Status) Set {
	var s Set
	for _, st := range statuses {
		s.Apply(st)
	}
	return s
}

// ParseSet parses a comma-separated list of status names. An empty string
// yields an empty set.
//
// Postcondition: Returns the Set or the first parse error.
func ParseSet(list string) (Set, error) {
	var s Set
	if strings.TrimSpace(list) == "" {
		return s, nil
	}
	for _, name := range strings.Split(list, ",") {
		st, err := ParseStatus(name)
		if err != nil {
			return 0, fmt.Errorf("parsing status list %q: %w", list, err)
		}
		s.Apply(st)
	}
	return s, nil
}

// Apply adds st to the set.
//
// Postcondition: Has(st) is true.
func (s *Set) Apply(st Status) {
	*s |= Set(st)
}

// Has reports whether st is active.
func (s Set) Has(st Status) bool {
	return s&Set(st) != 0
}

// Empty reports whether no status is active.
func (s Set) Empty() bool {
	return s == 0
}

// Statuses returns the active statuses in canonical order.
func (s Set) Statuses() []Status {
	out := make([]Status, 0, len(All))
	for _, st := range All {
		if s.Has(st) {
			out = append(out, st)
		}
	}
	return out
}

// String renders the set as "[burn poison]".
func (s Set) String() string {
	names := make([]string, 0, len(All))
	for _, st := range s.Statuses() {
		names = append(names, st.String())
	}
	return "[" + strings.Join(names, " ") + "]"
}
